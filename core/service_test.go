package core

import (
	"context"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// sliceSource serves batches from memory.
type sliceSource struct {
	batches []*RelayBatch
	nextErr error
	acked   int
}

func (s *sliceSource) SourceChain() string { return "shibuya" }

func (s *sliceSource) Next(context.Context) (*RelayBatch, error) {
	if s.nextErr != nil {
		return nil, s.nextErr
	}
	if s.acked >= len(s.batches) {
		return nil, nil
	}
	return s.batches[s.acked], nil
}

func (s *sliceSource) Ack(context.Context, *RelayBatch) error {
	s.acked++
	return nil
}

func newMockDestination(t *testing.T) *MockChain {
	ctrl := gomock.NewController(t)
	dst := NewMockChain(ctrl)
	dst.EXPECT().ChainName().Return("astar").AnyTimes()
	return dst
}

func testBatch() *RelayBatch {
	return &RelayBatch{
		Header: Header{0x02},
		Proof:  BlockFinalizationProof("valid"),
		Records: []RelayRecord{
			{
				Message:     NewFungibleTokenTransferMessage("0x1", sdkmath.NewUint(300), "0x3", 1),
				BlockHeight: 1,
				Proof:       MerkleProof("valid"),
			},
			{
				Contract:    "counter",
				Message:     NewCustomMessage("increment", 2),
				BlockHeight: 1,
				Proof:       MerkleProof("valid"),
			},
		},
	}
}

func TestServeAppliesBatch(t *testing.T) {
	ctx := context.Background()
	dst := newMockDestination(t)
	batch := testBatch()
	src := &sliceSource{batches: []*RelayBatch{batch}}

	gomock.InOrder(
		dst.EXPECT().LightClientHeader(gomock.Any()).Return(Header{0x01}, nil),
		dst.EXPECT().UpdateLightClient(gomock.Any(), batch.Header, batch.Proof).Return(nil),
		dst.EXPECT().TransferTreasuryFungibleToken(gomock.Any(), *batch.Records[0].Message.FungibleTokenTransfer, uint64(1), batch.Records[0].Proof).Return(nil),
		dst.EXPECT().DeliverCustomOrder(gomock.Any(), "counter", *batch.Records[1].Message.Custom, uint64(1), batch.Records[1].Proof).Return(nil),
	)

	srv := NewRelayService(src, dst, time.Millisecond)
	require.NoError(t, srv.Serve(ctx))
	require.Equal(t, 1, src.acked)

	// nothing pending
	require.NoError(t, srv.Serve(ctx))
	require.Equal(t, 1, src.acked)
}

func TestServeResumesAppliedBatch(t *testing.T) {
	ctx := context.Background()
	dst := newMockDestination(t)
	batch := testBatch()
	src := &sliceSource{batches: []*RelayBatch{batch}}

	// header already trusted and the first record already delivered
	dst.EXPECT().LightClientHeader(gomock.Any()).Return(Header{0x02}, nil)
	dst.EXPECT().TransferTreasuryFungibleToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.Wrap(ErrAlreadyDelivered, "sequence 1"))
	dst.EXPECT().DeliverCustomOrder(gomock.Any(), "counter", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, NewRelayService(src, dst, time.Millisecond).Serve(ctx))
	require.Equal(t, 1, src.acked)
}

func TestServeStopsOnFailure(t *testing.T) {
	ctx := context.Background()
	dst := newMockDestination(t)
	batch := testBatch()
	batch.Header = nil
	src := &sliceSource{batches: []*RelayBatch{batch}}

	dst.EXPECT().TransferTreasuryFungibleToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.Wrap(ErrInsufficientBalance, "token 0x1"))

	err := NewRelayService(src, dst, time.Millisecond).Serve(ctx)
	require.True(t, errors.Is(err, ErrInsufficientBalance), err)
	require.Zero(t, src.acked)
}

func TestStartReturnsPermanentErrors(t *testing.T) {
	dst := newMockDestination(t)
	src := &sliceSource{nextErr: errors.Wrap(ErrInvalidMessage, "bad line")}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := StartService(ctx, src, dst, time.Millisecond)
	require.True(t, errors.Is(err, ErrInvalidMessage), err)
}

func TestStartStopsWithContext(t *testing.T) {
	dst := newMockDestination(t)
	src := &sliceSource{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := StartServices(ctx, NewRelayService(src, dst, 10*time.Millisecond))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&ConnectionError{Chain: "astar", Reason: errors.New("refused")}, true},
		{errors.Wrap(ErrHeightMismatch, "claimed=2 current=1"), true},
		{&VerifyError{Reason: ErrInvalidProof}, true},
		{errors.New("timeout"), true},
		{errors.Wrap(ErrSequenceGap, "seq"), false},
		{ErrInsufficientBalance, false},
		{ErrInvalidAddress, false},
		{ErrNotSupported, false},
		{ErrInvalidMessage, false},
		{errors.Wrap(ErrBalanceOverflow, "deposit"), false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, isRetryable(c.err), c.err)
	}
}
