package otelcore

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/otelcore/semconv"
)

const tracerName = "github.com/hyperledger-labs/yui-colony/otelcore"

// Chain traces every call to the wrapped adapter.
type Chain struct {
	core.Chain
	tracer trace.Tracer
}

var _ core.Chain = (*Chain)(nil)

// NewChain wraps chain. A nil tracer selects the global tracer provider.
func NewChain(chain core.Chain, tracer trace.Tracer) core.Chain {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Chain{
		Chain:  chain,
		tracer: tracer,
	}
}

func (c *Chain) start(ctx context.Context, name string, attrs ...trace.SpanStartOption) (context.Context, trace.Span) {
	opts := append([]trace.SpanStartOption{
		trace.WithAttributes(semconv.ChainNameKey.String(c.ChainName())),
	}, attrs...)
	return c.tracer.Start(ctx, name, opts...)
}

func end(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (c *Chain) LastBlock(ctx context.Context) (*core.Block, error) {
	ctx, span := c.start(ctx, "Chain.LastBlock")
	block, err := c.Chain.LastBlock(ctx)
	end(span, err)
	return block, err
}

func (c *Chain) CheckConnection(ctx context.Context) error {
	ctx, span := c.start(ctx, "Chain.CheckConnection")
	err := c.Chain.CheckConnection(ctx)
	end(span, err)
	return err
}

func (c *Chain) ContractList(ctx context.Context) ([]core.ContractInfo, error) {
	ctx, span := c.start(ctx, "Chain.ContractList")
	contracts, err := c.Chain.ContractList(ctx)
	end(span, err)
	return contracts, err
}

func (c *Chain) RelayerAccountInfo(ctx context.Context) (*core.AccountInfo, error) {
	ctx, span := c.start(ctx, "Chain.RelayerAccountInfo")
	info, err := c.Chain.RelayerAccountInfo(ctx)
	end(span, err)
	return info, err
}

func (c *Chain) LightClientHeader(ctx context.Context) (core.Header, error) {
	ctx, span := c.start(ctx, "Chain.LightClientHeader")
	header, err := c.Chain.LightClientHeader(ctx)
	end(span, err)
	return header, err
}

func (c *Chain) TreasuryFungibleTokenBalance(ctx context.Context) (map[string]sdkmath.Uint, error) {
	ctx, span := c.start(ctx, "Chain.TreasuryFungibleTokenBalance")
	balances, err := c.Chain.TreasuryFungibleTokenBalance(ctx)
	end(span, err)
	return balances, err
}

func (c *Chain) TreasuryNonFungibleTokenBalance(ctx context.Context) ([]core.NonFungibleHolding, error) {
	ctx, span := c.start(ctx, "Chain.TreasuryNonFungibleTokenBalance")
	holdings, err := c.Chain.TreasuryNonFungibleTokenBalance(ctx)
	end(span, err)
	return holdings, err
}

func (c *Chain) UpdateLightClient(ctx context.Context, header core.Header, proof core.BlockFinalizationProof) error {
	ctx, span := c.start(ctx, "Chain.UpdateLightClient")
	err := c.Chain.UpdateLightClient(ctx, header, proof)
	end(span, err)
	return err
}

func (c *Chain) TransferTreasuryFungibleToken(ctx context.Context, message core.FungibleTokenTransfer, blockHeight uint64, proof core.MerkleProof) error {
	ctx, span := c.start(ctx, "Chain.TransferTreasuryFungibleToken", trace.WithAttributes(
		semconv.HeightKey.Int64(int64(blockHeight)),
		semconv.SequenceKey.Int64(int64(message.ContractSequence)),
	))
	err := c.Chain.TransferTreasuryFungibleToken(ctx, message, blockHeight, proof)
	end(span, err)
	return err
}

func (c *Chain) TransferTreasuryNonFungibleToken(ctx context.Context, message core.NonFungibleTokenTransfer, blockHeight uint64, proof core.MerkleProof) error {
	ctx, span := c.start(ctx, "Chain.TransferTreasuryNonFungibleToken", trace.WithAttributes(
		semconv.HeightKey.Int64(int64(blockHeight)),
		semconv.SequenceKey.Int64(int64(message.ContractSequence)),
	))
	err := c.Chain.TransferTreasuryNonFungibleToken(ctx, message, blockHeight, proof)
	end(span, err)
	return err
}

func (c *Chain) DeliverCustomOrder(ctx context.Context, contractName string, message core.Custom, blockHeight uint64, proof core.MerkleProof) error {
	ctx, span := c.start(ctx, "Chain.DeliverCustomOrder", trace.WithAttributes(
		semconv.ContractKey.String(contractName),
		semconv.HeightKey.Int64(int64(blockHeight)),
		semconv.SequenceKey.Int64(int64(message.ContractSequence)),
	))
	err := c.Chain.DeliverCustomOrder(ctx, contractName, message, blockHeight, proof)
	end(span, err)
	return err
}
