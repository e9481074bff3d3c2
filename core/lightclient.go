package core

import (
	"bytes"
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LightClientState is the trusted view of a foreign chain.
type LightClientState struct {
	ChainName  string `json:"chain_name" yaml:"chain_name"`
	Height     uint64 `json:"height" yaml:"height"`
	LastHeader Header `json:"last_header" yaml:"last_header"`
}

func (s LightClientState) clone() LightClientState {
	s.LastHeader = bytes.Clone(s.LastHeader)
	return s
}

// LightClient tracks the latest finalized header of one foreign chain and
// answers inclusion queries against it.
type LightClient struct {
	// chainName never changes and is read without the lock.
	chainName string

	mtx    sync.RWMutex
	state  LightClientState
	prover Prover
	store  LightClientStore
}

// NewLightClient returns a light client at height 0 trusting genesis. It is
// not persisted.
func NewLightClient(chainName string, genesis Header, prover Prover) *LightClient {
	return &LightClient{
		chainName: chainName,
		state: LightClientState{
			ChainName:  chainName,
			Height:     0,
			LastHeader: bytes.Clone(genesis),
		},
		prover: prover,
	}
}

// LoadLightClient restores the light client of chainName from store, or
// creates and saves one trusting genesis if none exists.
func LoadLightClient(ctx context.Context, store LightClientStore, chainName string, genesis Header, prover Prover) (*LightClient, error) {
	state, err := store.LoadLightClient(ctx, chainName)
	switch {
	case errors.Is(err, ErrNotFound):
		lc := NewLightClient(chainName, genesis, prover)
		if err := store.SaveLightClient(ctx, lc.state); err != nil {
			return nil, errors.Wrapf(err, "failed to save genesis state of %s", chainName)
		}
		lc.store = store
		return lc, nil
	case err != nil:
		return nil, errors.Wrapf(err, "failed to load light client of %s", chainName)
	}
	if state.ChainName != chainName {
		return nil, errors.Wrapf(ErrChainMismatch, "stored=%s configured=%s", state.ChainName, chainName)
	}
	return &LightClient{chainName: chainName, state: state.clone(), prover: prover, store: store}, nil
}

// SourceChain returns the name of the tracked chain.
func (lc *LightClient) SourceChain() string {
	return lc.chainName
}

// Prover returns the prover headers and proofs are checked with.
func (lc *LightClient) Prover() Prover {
	return lc.prover
}

// State returns a snapshot of the light client state.
func (lc *LightClient) State() LightClientState {
	lc.mtx.RLock()
	defer lc.mtx.RUnlock()
	return lc.state.clone()
}

// Update advances the light client to header if proof attests that header
// is the finalized successor of the current header. On failure the state is
// unchanged and an *UpdateError is returned.
func (lc *LightClient) Update(ctx context.Context, header Header, proof BlockFinalizationProof) error {
	lc.mtx.Lock()
	defer lc.mtx.Unlock()

	next := lc.state.Height + 1
	ctx, span := tracer.Start(ctx, "LightClient.Update", trace.WithAttributes(
		AttributeKeyChainName.String(lc.state.ChainName),
		AttributeKeyHeight.Int64(int64(next)),
	))
	defer span.End()
	logger := GetLightClientLogger(lc.state.ChainName)

	fail := func(reason error) error {
		span.SetStatus(codes.Error, reason.Error())
		logger.ErrorContext(ctx, "light client update rejected", reason, "height", next)
		return &UpdateError{Chain: lc.state.ChainName, Height: next, Reason: reason}
	}

	if len(header) == 0 {
		return fail(errors.Wrap(ErrInvalidProof, "empty header"))
	}
	if err := lc.prover.VerifyFinality(ctx, lc.state.clone(), header, proof); err != nil {
		return fail(err)
	}

	newState := LightClientState{
		ChainName:  lc.state.ChainName,
		Height:     next,
		LastHeader: bytes.Clone(header),
	}
	if lc.store != nil {
		if err := lc.store.SaveLightClient(ctx, newState); err != nil {
			return fail(errors.Wrap(err, "failed to persist light client state"))
		}
	}
	lc.state = newState

	recordLightClientHeight(lc.state.ChainName, next)
	logger.InfoContext(ctx, "light client updated", "height", next)
	return nil
}

// VerifyCommitment checks that the delivery record {SourceChain, message} is
// included in the header trusted at exactly blockHeight. Failures are
// returned as *VerifyError.
func (lc *LightClient) VerifyCommitment(ctx context.Context, message DeliverableMessage, blockHeight uint64, proof MerkleProof) error {
	lc.mtx.RLock()
	defer lc.mtx.RUnlock()

	ctx, span := tracer.Start(ctx, "LightClient.VerifyCommitment", trace.WithAttributes(
		AttributeKeyChainName.String(lc.state.ChainName),
		AttributeKeyHeight.Int64(int64(blockHeight)),
		AttributeKeyMessageKind.String(string(message.Kind())),
	))
	defer span.End()

	fail := func(reason error) error {
		span.SetStatus(codes.Error, reason.Error())
		return &VerifyError{
			Chain:         lc.state.ChainName,
			ClaimedHeight: blockHeight,
			CurrentHeight: lc.state.Height,
			Reason:        reason,
		}
	}

	if blockHeight != lc.state.Height {
		return fail(errors.Wrapf(ErrHeightMismatch, "claimed=%d current=%d", blockHeight, lc.state.Height))
	}
	record := MessageDeliveryRecord{Chain: lc.state.ChainName, Message: message}
	if err := lc.prover.VerifyInclusion(ctx, lc.state.LastHeader, record, proof); err != nil {
		return fail(err)
	}
	return nil
}
