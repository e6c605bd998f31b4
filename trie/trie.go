// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package trie implements an in-memory Merkle Patricia Trie.
//
// The trie keeps every node in memory and is only used to derive root hashes
// (transaction and receipt roots) and Merkle proofs. Nothing is persisted.
package trie

import (
	"bytes"
	"fmt"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/log"
)

// emptyRoot is the known root hash of an empty trie.
// 空trie的根哈希，即keccak256(rlp(""))
var emptyRoot = common.HexToHash("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

// EmptyRoot returns the root hash of an empty trie.
func EmptyRoot() common.Hash { return emptyRoot }

// parallelThreshold is the number of updates since the last hash above which
// the root's children are hashed on separate goroutines.
const parallelThreshold = 100

// Trie is a Merkle Patricia Trie. Use New to create a trie. The zero value is
// an empty trie as well.
//
// Trie is not safe for concurrent use.
type Trie struct {
	root node

	// Keep track of the number leaves which have been inserted since the last
	// hashing operation. This number will not directly map to the number of
	// actually unhashed nodes
	unhashed int
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{}
}

// Copy returns a copy of Trie. Nodes are never modified in place, so the
// copy shares them with t.
func (t *Trie) Copy() *Trie {
	return &Trie{root: t.root, unhashed: t.unhashed}
}

// Get returns the value for key stored in the trie, or nil if there is none.
// The value bytes must not be modified by the caller.
func (t *Trie) Get(key []byte) []byte {
	_, n := get(t.root, keybytesToHex(key))
	if v, ok := n.(valueNode); ok {
		return v
	}
	return nil
}

// Update associates key with value in the trie. Subsequent calls to
// Get will return value. If value has length zero, any existing value
// is deleted from the trie and calls to Get will return nil.
//
// The value bytes must not be modified by the caller while they are
// stored in the trie.
func (t *Trie) Update(key, value []byte) {
	t.unhashed++
	k := keybytesToHex(key)
	if len(value) != 0 {
		_, t.root = t.insert(t.root, k, valueNode(value))
	} else {
		_, t.root = t.delete(t.root, k)
	}
}

// insert stores value under the remaining hex path key below n. It reports
// whether anything changed and returns the new subtree root.
// 未改变时返回原节点，避免丢掉已缓存的哈希
func (t *Trie) insert(n node, key []byte, value node) (bool, node) {
	if len(key) == 0 {
		if v, ok := n.(valueNode); ok {
			return !bytes.Equal(v, value.(valueNode)), value
		}
		return true, value
	}
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen == len(n.Key) {
			dirty, nn := t.insert(n.Val, key[matchlen:], value)
			if !dirty {
				return false, n
			}
			return true, &shortNode{n.Key, nn, t.newFlag()}
		}
		// 在分叉处构造分支节点，原节点和新节点分别作为其子节点
		branch := &fullNode{flags: t.newFlag()}
		_, branch.Children[n.Key[matchlen]] = t.insert(nil, n.Key[matchlen+1:], n.Val)
		_, branch.Children[key[matchlen]] = t.insert(nil, key[matchlen+1:], value)
		if matchlen == 0 {
			return true, branch
		}
		// shared prefix leads to the branch
		return true, &shortNode{key[:matchlen], branch, t.newFlag()}

	case *fullNode:
		dirty, nn := t.insert(n.Children[key[0]], key[1:], value)
		if !dirty {
			return false, n
		}
		n = n.copy()
		n.flags = t.newFlag()
		n.Children[key[0]] = nn
		return true, n

	case nil:
		return true, &shortNode{key, value, t.newFlag()}

	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}

// Delete removes any existing value for key from the trie.
func (t *Trie) Delete(key []byte) {
	t.unhashed++
	_, t.root = t.delete(t.root, keybytesToHex(key))
}

// delete removes the value under key below n and returns the new subtree
// root. On the way back up, nodes are collapsed so the trie stays in minimal
// form: no branch with a single child, no short node pointing at a short node.
func (t *Trie) delete(n node, key []byte) (bool, node) {
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen < len(n.Key) {
			return false, n
		}
		if matchlen == len(key) {
			return true, nil
		}
		// n leads to a branch, which still holds at least one other value
		// after the delete, so child is never nil.
		dirty, child := t.delete(n.Val, key[len(n.Key):])
		if !dirty {
			return false, n
		}
		if cs, ok := child.(*shortNode); ok {
			// merge the two keys; n.Key may be shared, so concat copies
			return true, &shortNode{concat(n.Key, cs.Key...), cs.Val, t.newFlag()}
		}
		return true, &shortNode{n.Key, child, t.newFlag()}

	case *fullNode:
		dirty, nn := t.delete(n.Children[key[0]], key[1:])
		if !dirty {
			return false, n
		}
		n = n.copy()
		n.flags = t.newFlag()
		n.Children[key[0]] = nn

		if nn != nil {
			// a branch had two or more children before, it still does
			return true, n
		}
		// 删除后只剩一个子节点时，分支节点退化为shortNode
		pos := onlyChild(n)
		if pos < 0 {
			return true, n
		}
		if cnode, ok := n.Children[pos].(*shortNode); ok && pos != 16 {
			// pull the child's key up behind the branch nibble
			k := append([]byte{byte(pos)}, cnode.Key...)
			return true, &shortNode{k, cnode.Val, t.newFlag()}
		}
		return true, &shortNode{[]byte{byte(pos)}, n.Children[pos], t.newFlag()}

	case valueNode:
		return true, nil

	case nil:
		return false, nil

	default:
		panic(fmt.Sprintf("%T: invalid node: %v (%v)", n, n, key))
	}
}

// onlyChild returns the index of the single child of n, or -1 if n has
// more than one.
func onlyChild(n *fullNode) int {
	pos := -1
	for i, cld := range &n.Children {
		if cld == nil {
			continue
		}
		if pos >= 0 {
			return -1
		}
		pos = i
	}
	return pos
}

func concat(s1 []byte, s2 ...byte) []byte {
	r := make([]byte, len(s1)+len(s2))
	copy(r, s1)
	copy(r[len(s1):], s2)
	return r
}

// Hash returns the root hash of the trie. Computed node hashes are cached,
// so hashing again after a few updates only rehashes the changed paths.
func (t *Trie) Hash() common.Hash {
	if t.root == nil {
		return emptyRoot
	}
	// 修改次数较多时，根节点的16个子树并行计算哈希
	h := newHasher(t.unhashed >= parallelThreshold)
	defer returnHasherToPool(h)

	hashed, cached := h.hash(t.root, true)
	log.Trace("Hashed trie", "root", common.BytesToHash(hashed.(hashNode)), "updates", t.unhashed)
	t.root = cached
	t.unhashed = 0
	return common.BytesToHash(hashed.(hashNode))
}

// Each calls fn for every key/value pair in ascending key order, until fn
// returns false.
func (t *Trie) Each(fn func(key, value []byte) bool) {
	t.walk(t.root, nil, fn)
}

func (t *Trie) walk(n node, prefix []byte, fn func(key, value []byte) bool) bool {
	switch n := n.(type) {
	case nil:
		return true
	case valueNode:
		return fn(hexToKeybytes(prefix), n)
	case *shortNode:
		return t.walk(n.Val, concat(prefix, n.Key...), fn)
	case *fullNode:
		// value at this path first, it sorts before all longer keys
		if n.Children[16] != nil && !t.walk(n.Children[16], prefix, fn) {
			return false
		}
		for i := 0; i < 16; i++ {
			if !t.walk(n.Children[i], concat(prefix, byte(i)), fn) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}

// Reset drops the referenced root node and cleans all internal state.
func (t *Trie) Reset() {
	t.root = nil
	t.unhashed = 0
}

func (t *Trie) newFlag() nodeFlag {
	return nodeFlag{dirty: true}
}
