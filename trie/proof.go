// Copyright 2015 The go-ethereum Authors
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
	"bytes"
	"fmt"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/crypto"
	"github.com/pkg/errors"
)

var (
	ErrMissingProofNode = errors.New("trie: proof node missing")
	ErrBadProof         = errors.New("trie: bad proof node")
)

// Prove constructs a merkle proof for key. The result contains the encodings
// of all nodes on the path to the value at key, root first. Nodes small
// enough to be embedded in their parent are not listed separately.
//
// If the trie does not contain a value for key, the returned proof contains
// all nodes of the longest existing prefix of the key (at least the root
// node), ending with the node that proves the absence of the key.
func (t *Trie) Prove(key []byte) [][]byte {
	key = keybytesToHex(key)
	var nodes []node
	tn := t.root
	for len(key) > 0 && tn != nil {
		switch n := tn.(type) {
		case *shortNode:
			if len(key) < len(n.Key) || !bytes.Equal(n.Key, key[:len(n.Key)]) {
				// The trie doesn't contain the key.
				tn = nil
			} else {
				tn = n.Val
				key = key[len(n.Key):]
			}
			nodes = append(nodes, n)
		case *fullNode:
			tn = n.Children[key[0]]
			key = key[1:]
			nodes = append(nodes, n)
		case valueNode:
			tn = nil
		default:
			panic(fmt.Sprintf("%T: invalid node: %v", tn, tn))
		}
	}
	h := newHasher(false)
	defer returnHasherToPool(h)

	var proof [][]byte
	for i, n := range nodes {
		var hn node
		n, hn = h.proofHash(n)
		if _, ok := hn.(hashNode); ok || i == 0 {
			// If the node's encoding is a hash (or is the root node), it
			// becomes a proof element.
			proof = append(proof, common.CopyBytes(h.encode(n)))
		}
	}
	return proof
}

// VerifyProof checks a merkle proof produced by Prove against rootHash and
// returns the value for key. A valid proof of absence returns a nil value
// and no error.
func VerifyProof(rootHash common.Hash, key []byte, proof [][]byte) ([]byte, error) {
	if rootHash == emptyRoot {
		return nil, nil
	}
	db := make(map[common.Hash][]byte, len(proof))
	for _, enc := range proof {
		db[crypto.Keccak256Hash(enc)] = enc
	}
	key = keybytesToHex(key)
	wantHash := rootHash
	for i := 0; ; i++ {
		buf, ok := db[wantHash]
		if !ok {
			return nil, errors.Wrapf(ErrMissingProofNode, "node %d (hash %x)", i, wantHash)
		}
		n, err := decodeNode(wantHash[:], buf)
		if err != nil {
			return nil, errors.Wrapf(ErrBadProof, "node %d: %v", i, err)
		}
		keyrest, cld := get(n, key)
		switch cld := cld.(type) {
		case nil:
			// The trie doesn't contain the key.
			return nil, nil
		case hashNode:
			key = keyrest
			copy(wantHash[:], cld)
		case valueNode:
			return cld, nil
		}
	}
}

// get walks a decoded node along key through embedded children and stops at
// the first hash reference, the value or a dead end.
func get(tn node, key []byte) ([]byte, node) {
	for {
		switch n := tn.(type) {
		case *shortNode:
			if len(key) < len(n.Key) || !bytes.Equal(n.Key, key[:len(n.Key)]) {
				return nil, nil
			}
			tn = n.Val
			key = key[len(n.Key):]
		case *fullNode:
			tn = n.Children[key[0]]
			key = key[1:]
		case hashNode:
			return key, n
		case nil:
			return key, nil
		case valueNode:
			return nil, n
		default:
			panic(fmt.Sprintf("%T: invalid node: %v", tn, tn))
		}
	}
}
