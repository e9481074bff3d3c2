package otelcore

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/otelcore/semconv"
)

// Prover traces the proof checks of the wrapped prover.
type Prover struct {
	core.Prover
	sourceChain string
	tracer      trace.Tracer
}

var _ core.Prover = (*Prover)(nil)

// NewProver wraps prover. A nil tracer selects the global tracer provider.
func NewProver(prover core.Prover, sourceChain string, tracer trace.Tracer) core.Prover {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Prover{
		Prover:      prover,
		sourceChain: sourceChain,
		tracer:      tracer,
	}
}

func (pr *Prover) VerifyFinality(ctx context.Context, state core.LightClientState, header core.Header, proof core.BlockFinalizationProof) error {
	ctx, span := pr.tracer.Start(ctx, "Prover.VerifyFinality", trace.WithAttributes(
		semconv.SourceChainKey.String(pr.sourceChain),
		semconv.HeightKey.Int64(int64(state.Height+1)),
	))
	err := pr.Prover.VerifyFinality(ctx, state, header, proof)
	end(span, err)
	return err
}

func (pr *Prover) VerifyInclusion(ctx context.Context, header core.Header, record core.MessageDeliveryRecord, proof core.MerkleProof) error {
	ctx, span := pr.tracer.Start(ctx, "Prover.VerifyInclusion", trace.WithAttributes(
		semconv.SourceChainKey.String(pr.sourceChain),
		semconv.SequenceKey.Int64(int64(record.Message.ContractSequence())),
	))
	err := pr.Prover.VerifyInclusion(ctx, header, record, proof)
	end(span, err)
	return err
}
