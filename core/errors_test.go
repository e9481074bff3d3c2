package core

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		abci uint32
		grpc codes.Code
	}{
		{"registered", ErrAlreadyDelivered, 2, codes.AlreadyExists},
		{"wrapped", errors.Wrap(ErrSequenceGap, "sequence 3"), 3, codes.FailedPrecondition},
		{"inside verify error", &VerifyError{Chain: "shibuya", Reason: ErrInvalidProof}, 9, codes.Unauthenticated},
		{"inside update error", &UpdateError{Chain: "shibuya", Reason: errors.Wrap(ErrInvalidProof, "bad")}, 9, codes.Unauthenticated},
		{"chain not found", ErrChainNotFound.Wrap("astar"), 13, codes.NotFound},
		{"balance overflow", errors.Wrap(ErrBalanceOverflow, "deposit"), 14, codes.OutOfRange},
		{"unregistered", errors.New("boom"), 1, codes.Unknown},
		{"connection", &ConnectionError{Chain: "astar", Reason: errors.New("refused")}, 1, codes.Unknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.abci, ErrorCode(c.err))
			require.Equal(t, c.grpc, GRPCCode(c.err))
		})
	}
}

func TestRejectionReason(t *testing.T) {
	require.Equal(t, "sequence_gap", rejectionReason(errors.Wrap(ErrSequenceGap, "x")))
	require.Equal(t, "verify_failed", rejectionReason(&VerifyError{Reason: ErrHeightMismatch}))
	require.Equal(t, "connection", rejectionReason(&ConnectionError{Reason: errors.New("x")}))
	require.Equal(t, "balance_overflow", rejectionReason(errors.Wrap(ErrBalanceOverflow, "x")))
	require.Equal(t, "internal", rejectionReason(errors.New("x")))
}
