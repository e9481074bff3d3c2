package authority

import (
	"context"
	"crypto/ecdsa"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/yui-colony/core"
)

type authoritySet struct {
	keys  []*ecdsa.PrivateKey
	addrs []common.Address
}

func newAuthoritySet(t *testing.T, n int) authoritySet {
	var set authoritySet
	for i := 0; i < n; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		set.keys = append(set.keys, key)
		set.addrs = append(set.addrs, crypto.PubkeyToAddress(key.PublicKey))
	}
	return set
}

func (s authoritySet) sign(t *testing.T, chainName string, header core.Header, signers ...int) core.BlockFinalizationProof {
	var sigs [][]byte
	for _, i := range signers {
		sig, err := SignHeader(chainName, header, s.keys[i])
		require.NoError(t, err)
		sigs = append(sigs, sig)
	}
	proof, err := EncodeFinalityProof(sigs)
	require.NoError(t, err)
	return proof
}

func childHeader(t *testing.T, parent core.Header, number uint64, root common.Hash) core.Header {
	bz, err := EncodeHeader(&Header{ParentHash: HeaderHash(parent), Number: number, MessageRoot: root, Time: 1700000000})
	require.NoError(t, err)
	return bz
}

func TestNewProver(t *testing.T) {
	set := newAuthoritySet(t, 4)

	pr, err := NewProver(set.addrs, 0)
	require.NoError(t, err)
	require.Equal(t, 3, pr.Quorum())

	_, err = NewProver(nil, 0)
	require.Error(t, err)
	_, err = NewProver(append(set.addrs, set.addrs[0]), 0)
	require.Error(t, err)
	_, err = NewProver(set.addrs, 5)
	require.Error(t, err)
}

func TestDefaultQuorum(t *testing.T) {
	for n, want := range map[int]int{1: 1, 2: 2, 3: 3, 4: 3, 7: 5, 10: 7} {
		require.Equal(t, want, DefaultQuorum(n), "n=%d", n)
	}
}

func TestVerifyFinality(t *testing.T) {
	const chain = "ethereum"
	set := newAuthoritySet(t, 4)
	outsider := newAuthoritySet(t, 1)
	pr, err := NewProver(set.addrs, 0)
	require.NoError(t, err)

	genesis := core.Header{0x01}
	state := core.LightClientState{ChainName: chain, Height: 0, LastHeader: genesis}
	header := childHeader(t, genesis, 1, common.Hash{})

	cases := []struct {
		name   string
		header core.Header
		proof  func() core.BlockFinalizationProof
		err    error
	}{
		{"quorum", header, func() core.BlockFinalizationProof { return set.sign(t, chain, header, 0, 1, 2) }, nil},
		{"all", header, func() core.BlockFinalizationProof { return set.sign(t, chain, header, 0, 1, 2, 3) }, nil},
		{"below quorum", header, func() core.BlockFinalizationProof { return set.sign(t, chain, header, 0, 1) }, core.ErrInvalidProof},
		{"duplicate signer", header, func() core.BlockFinalizationProof { return set.sign(t, chain, header, 0, 0, 1) }, core.ErrInvalidProof},
		{"unknown signer", header, func() core.BlockFinalizationProof {
			sig, err := SignHeader(chain, header, outsider.keys[0])
			require.NoError(t, err)
			valid := set.sign(t, chain, header, 0, 1, 2)
			sigs, err := DecodeFinalityProof(valid)
			require.NoError(t, err)
			proof, err := EncodeFinalityProof(append(sigs, sig))
			require.NoError(t, err)
			return proof
		}, core.ErrInvalidProof},
		{"signed for another chain", header, func() core.BlockFinalizationProof { return set.sign(t, "polygon", header, 0, 1, 2) }, core.ErrInvalidProof},
		{"wrong number", childHeader(t, genesis, 2, common.Hash{}), func() core.BlockFinalizationProof {
			return set.sign(t, chain, childHeader(t, genesis, 2, common.Hash{}), 0, 1, 2)
		}, core.ErrHeightMismatch},
		{"wrong parent", childHeader(t, core.Header{0x02}, 1, common.Hash{}), func() core.BlockFinalizationProof {
			return set.sign(t, chain, childHeader(t, core.Header{0x02}, 1, common.Hash{}), 0, 1, 2)
		}, core.ErrInvalidProof},
		{"malformed header", core.Header{0xff}, func() core.BlockFinalizationProof { return nil }, core.ErrInvalidProof},
		{"malformed proof", header, func() core.BlockFinalizationProof { return core.BlockFinalizationProof("valid") }, core.ErrInvalidProof},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := pr.VerifyFinality(context.Background(), state, c.header, c.proof())
			if c.err == nil {
				require.NoError(t, err)
			} else {
				require.True(t, errors.Is(err, c.err), "got %v", err)
			}
		})
	}
}

func TestVerifyInclusion(t *testing.T) {
	records := []core.MessageDeliveryRecord{
		{Chain: "ethereum", Message: core.NewFungibleTokenTransferMessage("0x1", sdkmath.NewUint(300), "0x3", 1)},
		{Chain: "ethereum", Message: core.NewNonFungibleTokenTransferMessage("0xc0", "7", "0x3", 2)},
		{Chain: "ethereum", Message: core.NewCustomMessage("increment", 3)},
	}
	leaves := make([]common.Hash, len(records))
	for i, r := range records {
		leaf, err := LeafHash(r)
		require.NoError(t, err)
		leaves[i] = leaf
	}
	tree, err := BuildTree(leaves)
	require.NoError(t, err)
	header := childHeader(t, core.Header{0x01}, 1, tree.Root())

	pr, err := NewProver(newAuthoritySet(t, 1).addrs, 0)
	require.NoError(t, err)
	ctx := context.Background()

	for i, r := range records {
		p, err := tree.Proof(uint64(i))
		require.NoError(t, err)
		bz, err := EncodeInclusionProof(p)
		require.NoError(t, err)
		require.NoError(t, pr.VerifyInclusion(ctx, header, r, bz))

		// the proof of one record does not prove another
		other := records[(i+1)%len(records)]
		require.True(t, errors.Is(pr.VerifyInclusion(ctx, header, other, bz), core.ErrInvalidProof))
	}

	forged := core.MessageDeliveryRecord{Chain: "polygon", Message: records[0].Message}
	p, err := tree.Proof(0)
	require.NoError(t, err)
	bz, err := EncodeInclusionProof(p)
	require.NoError(t, err)
	require.True(t, errors.Is(pr.VerifyInclusion(ctx, header, forged, bz), core.ErrInvalidProof))
}
