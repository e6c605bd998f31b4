// Copyright 2016 The go-ethereum Authors
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

package trie

import (
	"sync"

	"github.com/PigCharid/ethercore/crypto"
	"github.com/PigCharid/ethercore/rlp"
)

// hasher collapses in-memory nodes into their hashed form. Hashers are pooled
// together with their keccak state and encoding buffer.
type hasher struct {
	sha      crypto.KeccakState
	buf      []byte
	parallel bool // hash the children of the top full node concurrently
}

var hasherPool = sync.Pool{
	New: func() interface{} {
		// 一个fullNode的编码最多约530字节
		return &hasher{sha: crypto.NewKeccakState(), buf: make([]byte, 0, 550)}
	},
}

func newHasher(parallel bool) *hasher {
	h := hasherPool.Get().(*hasher)
	h.parallel = parallel
	return h
}

func returnHasherToPool(h *hasher) { hasherPool.Put(h) }

// hash returns the reference a parent stores for n and a copy of n that
// remembers its hash. The reference is a hashNode, or n's collapsed form when
// its encoding is shorter than 32 bytes and force is not set.
func (h *hasher) hash(n node, force bool) (ref node, cached node) {
	if hn, _ := n.cache(); hn != nil {
		return hn, n
	}
	var collapsed node
	switch n := n.(type) {
	case *shortNode:
		collapsed, cached = h.collapseShort(n)
	case *fullNode:
		collapsed, cached = h.collapseFull(n)
	default:
		// valueNode, hashNode
		return n, n
	}
	ref = h.reference(collapsed, force)
	hn, _ := ref.(hashNode)
	switch c := cached.(type) {
	case *shortNode:
		c.flags = nodeFlag{hash: hn}
	case *fullNode:
		c.flags = nodeFlag{hash: hn}
	}
	return ref, cached
}

// collapseShort returns n with a compact key and a hashed child, plus a copy
// of n whose child carries its cached hash.
func (h *hasher) collapseShort(n *shortNode) (*shortNode, *shortNode) {
	collapsed, cached := n.copy(), n.copy()
	collapsed.Key = hexToCompact(n.Key)
	if _, isValue := n.Val.(valueNode); !isValue {
		collapsed.Val, cached.Val = h.hash(n.Val, false)
	}
	return collapsed, cached
}

// collapseFull hashes the children of n. Empty slots are set to an empty
// value so they encode as the empty string.
func (h *hasher) collapseFull(n *fullNode) (*fullNode, *fullNode) {
	collapsed, cached := n.copy(), n.copy()
	if !h.parallel {
		for i, child := range n.Children[:16] {
			if child == nil {
				collapsed.Children[i] = nilValueNode
				continue
			}
			collapsed.Children[i], cached.Children[i] = h.hash(child, false)
		}
		return collapsed, cached
	}
	var wg sync.WaitGroup
	for i, child := range n.Children[:16] {
		if child == nil {
			collapsed.Children[i] = nilValueNode
			continue
		}
		wg.Add(1)
		go func(i int, child node) {
			defer wg.Done()
			ch := newHasher(false)
			defer returnHasherToPool(ch)
			collapsed.Children[i], cached.Children[i] = ch.hash(child, false)
		}(i, child)
	}
	wg.Wait()
	return collapsed, cached
}

// reference encodes a collapsed node and decides how its parent refers to
// it: embedded as is below 32 bytes, by hash otherwise.
func (h *hasher) reference(collapsed node, force bool) node {
	enc := h.encode(collapsed)
	if len(enc) < 32 && !force {
		return collapsed
	}
	sum := crypto.HashData(h.sha, enc)
	return hashNode(sum[:])
}

// encode returns the RLP encoding of a collapsed node. The result is only
// valid until the next call.
func (h *hasher) encode(n node) []byte {
	h.buf = rlp.AppendItem(h.buf[:0], toItem(n))
	return h.buf
}

// proofHash collapses n for a proof without caching anything. It returns the
// collapsed node and the reference its parent holds.
func (h *hasher) proofHash(n node) (collapsed, ref node) {
	switch n := n.(type) {
	case *shortNode:
		sn, _ := h.collapseShort(n)
		return sn, h.reference(sn, false)
	case *fullNode:
		fn, _ := h.collapseFull(n)
		return fn, h.reference(fn, false)
	default:
		return n, n
	}
}
