package core

import (
	"context"
)

// FinalityVerifier checks that a header is the finalized successor of the
// header a light client currently trusts.
type FinalityVerifier interface {
	// VerifyFinality returns nil iff proof attests that header is finalized
	// at state.Height+1 and extends state.LastHeader.
	VerifyFinality(ctx context.Context, state LightClientState, header Header, proof BlockFinalizationProof) error
}

// InclusionVerifier checks that a delivery record was committed by a
// certified header.
type InclusionVerifier interface {
	VerifyInclusion(ctx context.Context, header Header, record MessageDeliveryRecord, proof MerkleProof) error
}

// Prover bundles the proof checks a light client delegates to.
type Prover interface {
	FinalityVerifier
	InclusionVerifier
}

// CommitmentVerifier is the capability a treasury holds on its light client.
type CommitmentVerifier interface {
	// SourceChain returns the name of the chain whose records are verified
	SourceChain() string

	// VerifyCommitment checks that message was committed at blockHeight
	VerifyCommitment(ctx context.Context, message DeliverableMessage, blockHeight uint64, proof MerkleProof) error
}
