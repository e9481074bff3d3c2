package authority

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"

	"github.com/hyperledger-labs/yui-colony/core"
)

// MaxTreeHeight bounds the number of siblings in an inclusion proof.
const MaxTreeHeight = 32

// InclusionProof is the path from a leaf to the message root. Bit h of Index
// tells whether the node at height h is a right child.
type InclusionProof struct {
	Index    uint64
	Siblings []common.Hash
}

func hashPair(left, right common.Hash) common.Hash {
	var hash common.Hash
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(left[:])
	hasher.Write(right[:])
	copy(hash[:], hasher.Sum(nil))
	return hash
}

func generateZeroHashes(height int) []common.Hash {
	zeroHashes := []common.Hash{{}}
	for i := 1; i <= height; i++ {
		zeroHashes = append(zeroHashes, hashPair(zeroHashes[i-1], zeroHashes[i-1]))
	}
	return zeroHashes
}

// LeafHash returns the leaf committing to record.
func LeafHash(record core.MessageDeliveryRecord) (common.Hash, error) {
	bz, err := json.Marshal(record)
	if err != nil {
		return common.Hash{}, err
	}
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(bz)
	var hash common.Hash
	copy(hash[:], hasher.Sum(nil))
	return hash, nil
}

// ComputeRoot folds leaf with the proof siblings up to the root.
func ComputeRoot(leaf common.Hash, proof *InclusionProof) common.Hash {
	node := leaf
	for h, sibling := range proof.Siblings {
		if proof.Index&(1<<h) != 0 {
			node = hashPair(sibling, node)
		} else {
			node = hashPair(node, sibling)
		}
	}
	return node
}

// EncodeInclusionProof returns the RLP encoding of p.
func EncodeInclusionProof(p *InclusionProof) (core.MerkleProof, error) {
	bz, err := rlp.EncodeToBytes(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode inclusion proof")
	}
	return bz, nil
}

// DecodeInclusionProof parses an RLP encoded inclusion proof.
func DecodeInclusionProof(bz core.MerkleProof) (*InclusionProof, error) {
	var p InclusionProof
	if err := rlp.DecodeBytes(bz, &p); err != nil {
		return nil, errors.Wrapf(core.ErrInvalidProof, "malformed inclusion proof: %v", err)
	}
	if len(p.Siblings) > MaxTreeHeight {
		return nil, errors.Wrapf(core.ErrInvalidProof, "inclusion proof of height %d", len(p.Siblings))
	}
	if p.Index>>len(p.Siblings) != 0 {
		return nil, errors.Wrapf(core.ErrInvalidProof, "leaf index %d out of range for height %d", p.Index, len(p.Siblings))
	}
	return &p, nil
}

// Tree is a fixed height keccak merkle tree over a list of leaves. Missing
// leaves are zero hashes.
type Tree struct {
	levels [][]common.Hash
	zeros  []common.Hash
}

// BuildTree returns the smallest tree holding leaves.
func BuildTree(leaves []common.Hash) (*Tree, error) {
	height := 0
	for (1 << height) < len(leaves) {
		height++
	}
	if height > MaxTreeHeight {
		return nil, errors.Newf("too many leaves: %d", len(leaves))
	}
	t := &Tree{zeros: generateZeroHashes(height)}
	level := append([]common.Hash(nil), leaves...)
	t.levels = append(t.levels, level)
	for h := 0; h < height; h++ {
		next := make([]common.Hash, (len(level)+1)/2)
		for i := range next {
			left := level[2*i]
			right := t.zeros[h]
			if 2*i+1 < len(level) {
				right = level[2*i+1]
			}
			next[i] = hashPair(left, right)
		}
		t.levels = append(t.levels, next)
		level = next
	}
	return t, nil
}

// Height returns the number of siblings in a proof of the tree.
func (t *Tree) Height() int {
	return len(t.levels) - 1
}

// Root returns the merkle root. An empty tree has the zero hash as root.
func (t *Tree) Root() common.Hash {
	top := t.levels[len(t.levels)-1]
	if len(top) == 0 {
		return common.Hash{}
	}
	return top[0]
}

// Proof returns the inclusion proof of the leaf at index.
func (t *Tree) Proof(index uint64) (*InclusionProof, error) {
	if index >= uint64(len(t.levels[0])) {
		return nil, errors.Newf("leaf index %d out of range", index)
	}
	p := &InclusionProof{Index: index}
	i := index
	for h := 0; h < t.Height(); h++ {
		sibling := t.zeros[h]
		if j := i ^ 1; j < uint64(len(t.levels[h])) {
			sibling = t.levels[h][j]
		}
		p.Siblings = append(p.Siblings, sibling)
		i >>= 1
	}
	return p, nil
}
