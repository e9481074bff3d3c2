package authority

import (
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-colony/core"
)

func TestBuildTree(t *testing.T) {
	cases := []struct {
		leaves int
		height int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{5, 3},
		{8, 3},
	}
	for _, c := range cases {
		leaves := make([]common.Hash, c.leaves)
		for i := range leaves {
			leaves[i] = common.BigToHash(big.NewInt(int64(i + 1)))
		}
		tree, err := BuildTree(leaves)
		require.NoError(t, err)
		require.Equal(t, c.height, tree.Height(), "leaves=%d", c.leaves)
		for i, leaf := range leaves {
			p, err := tree.Proof(uint64(i))
			require.NoError(t, err)
			require.Len(t, p.Siblings, c.height)
			require.Equal(t, tree.Root(), ComputeRoot(leaf, p), "leaves=%d index=%d", c.leaves, i)
		}
		_, err = tree.Proof(uint64(c.leaves))
		require.Error(t, err)
	}
}

func TestTreeMatchesZeroHashes(t *testing.T) {
	zeros := generateZeroHashes(2)
	tree, err := BuildTree([]common.Hash{zeros[0], zeros[0], zeros[0]})
	require.NoError(t, err)
	require.Equal(t, zeros[2], tree.Root())
}

func TestDecodeInclusionProof(t *testing.T) {
	cases := []struct {
		name  string
		proof *InclusionProof
		valid bool
	}{
		{"empty", &InclusionProof{}, true},
		{"in range", &InclusionProof{Index: 3, Siblings: make([]common.Hash, 2)}, true},
		{"index out of range", &InclusionProof{Index: 4, Siblings: make([]common.Hash, 2)}, false},
		{"too high", &InclusionProof{Siblings: make([]common.Hash, MaxTreeHeight+1)}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bz, err := EncodeInclusionProof(c.proof)
			require.NoError(t, err)
			_, err = DecodeInclusionProof(bz)
			if c.valid {
				require.NoError(t, err)
			} else {
				require.True(t, errors.Is(err, core.ErrInvalidProof))
			}
		})
	}
}
