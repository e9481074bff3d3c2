package authority

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/hyperledger-labs/yui-colony/core"
)

// Prover verifies headers finalized by a fixed authority set. A header is
// final once a quorum of distinct authorities signed it, and a delivery
// record is included if it folds up to the header's message root.
type Prover struct {
	authorities map[common.Address]struct{}
	quorum      int
}

var _ core.Prover = (*Prover)(nil)

// DefaultQuorum returns the smallest number of signers exceeding two thirds
// of n authorities.
func DefaultQuorum(n int) int {
	return 2*n/3 + 1
}

// NewProver returns a prover trusting authorities. A quorum of 0 selects
// DefaultQuorum.
func NewProver(authorities []common.Address, quorum int) (*Prover, error) {
	if len(authorities) == 0 {
		return nil, errors.New("empty authority set")
	}
	set := make(map[common.Address]struct{}, len(authorities))
	for _, a := range authorities {
		if _, ok := set[a]; ok {
			return nil, errors.Newf("duplicate authority %s", a)
		}
		set[a] = struct{}{}
	}
	if quorum == 0 {
		quorum = DefaultQuorum(len(authorities))
	}
	if quorum < 0 || quorum > len(authorities) {
		return nil, errors.Newf("quorum %d out of range for %d authorities", quorum, len(authorities))
	}
	return &Prover{authorities: set, quorum: quorum}, nil
}

func (pr *Prover) Quorum() int {
	return pr.quorum
}

func (pr *Prover) VerifyFinality(ctx context.Context, state core.LightClientState, header core.Header, proof core.BlockFinalizationProof) error {
	h, err := DecodeHeader(header)
	if err != nil {
		return err
	}
	if h.Number != state.Height+1 {
		return errors.Wrapf(core.ErrHeightMismatch, "header number %d, expected %d", h.Number, state.Height+1)
	}
	if parent := HeaderHash(state.LastHeader); h.ParentHash != parent {
		return errors.Wrapf(core.ErrInvalidProof, "parent hash %s, expected %s", h.ParentHash, parent)
	}

	signatures, err := DecodeFinalityProof(proof)
	if err != nil {
		return err
	}
	hash := SigningHash(state.ChainName, header)
	signers := make(map[common.Address]struct{}, len(signatures))
	for i, sig := range signatures {
		if len(sig) != SignatureLength {
			return errors.Wrapf(core.ErrInvalidProof, "signature #%d has %d bytes", i, len(sig))
		}
		pub, err := crypto.SigToPub(hash.Bytes(), sig)
		if err != nil {
			return errors.Wrapf(core.ErrInvalidProof, "signature #%d: %v", i, err)
		}
		signer := crypto.PubkeyToAddress(*pub)
		if _, ok := pr.authorities[signer]; !ok {
			return errors.Wrapf(core.ErrInvalidProof, "signature #%d by unknown authority %s", i, signer)
		}
		signers[signer] = struct{}{}
	}
	if len(signers) < pr.quorum {
		return errors.Wrapf(core.ErrInvalidProof, "%d distinct signers, quorum is %d", len(signers), pr.quorum)
	}
	return nil
}

func (pr *Prover) VerifyInclusion(ctx context.Context, header core.Header, record core.MessageDeliveryRecord, proof core.MerkleProof) error {
	h, err := DecodeHeader(header)
	if err != nil {
		return err
	}
	p, err := DecodeInclusionProof(proof)
	if err != nil {
		return err
	}
	leaf, err := LeafHash(record)
	if err != nil {
		return errors.Wrap(core.ErrInvalidProof, err.Error())
	}
	if root := ComputeRoot(leaf, p); root != h.MessageRoot {
		return errors.Wrapf(core.ErrInvalidProof, "computed root %s, header root %s", root, h.MessageRoot)
	}
	return nil
}
