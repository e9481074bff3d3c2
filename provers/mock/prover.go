package mock

import (
	"bytes"
	"context"
	"crypto/sha256"

	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
)

// PlaceholderProof is accepted as a proof of anything unless the prover is
// strict.
const PlaceholderProof = "valid"

// Prover accepts a proof if it is the placeholder or the sha256 digest of the
// proven object. It performs no cryptographic verification and must only be
// used for development and tests.
type Prover struct {
	strict bool
}

var _ core.Prover = (*Prover)(nil)

func NewProver(strict bool) *Prover {
	return &Prover{strict: strict}
}

// VerifyFinality accepts proof if it is the placeholder or sha256(header).
func (pr *Prover) VerifyFinality(_ context.Context, _ core.LightClientState, header core.Header, proof core.BlockFinalizationProof) error {
	if pr.accepts(proof, header) {
		return nil
	}
	return errors.Wrap(core.ErrInvalidProof, "mock finality proof mismatch")
}

// VerifyInclusion accepts proof if it is the placeholder or sha256 of the
// canonical record encoding.
func (pr *Prover) VerifyInclusion(_ context.Context, _ core.Header, record core.MessageDeliveryRecord, proof core.MerkleProof) error {
	bz, err := record.Bytes()
	if err != nil {
		return errors.Wrap(core.ErrInvalidProof, err.Error())
	}
	if pr.accepts(proof, bz) {
		return nil
	}
	return errors.Wrap(core.ErrInvalidProof, "mock inclusion proof mismatch")
}

func (pr *Prover) accepts(proof, bz []byte) bool {
	if !pr.strict && string(proof) == PlaceholderProof {
		return true
	}
	return bytes.Equal(proof, makeProof(bz))
}

// MakeFinalityProof returns the digest proof of header.
func MakeFinalityProof(header core.Header) core.BlockFinalizationProof {
	return makeProof(header)
}

// MakeInclusionProof returns the digest proof of record.
func MakeInclusionProof(record core.MessageDeliveryRecord) (core.MerkleProof, error) {
	bz, err := record.Bytes()
	if err != nil {
		return nil, err
	}
	return makeProof(bz), nil
}

func makeProof(bz []byte) []byte {
	h := sha256.Sum256(bz)
	return h[:]
}
