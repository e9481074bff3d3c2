package core

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/cockroachdb/errors"
	"google.golang.org/grpc/codes"
)

// ModuleName is the codespace every colony error is registered under.
const ModuleName = "colony"

var (
	ErrAlreadyDelivered    = errorsmod.RegisterWithGRPCCode(ModuleName, 2, codes.AlreadyExists, "message already delivered")
	ErrSequenceGap         = errorsmod.RegisterWithGRPCCode(ModuleName, 3, codes.FailedPrecondition, "contract sequence gap")
	ErrInsufficientBalance = errorsmod.RegisterWithGRPCCode(ModuleName, 4, codes.FailedPrecondition, "insufficient treasury balance")
	ErrNotSupported        = errorsmod.RegisterWithGRPCCode(ModuleName, 5, codes.Unimplemented, "not supported")
	ErrInvalidAddress      = errorsmod.RegisterWithGRPCCode(ModuleName, 6, codes.InvalidArgument, "invalid address")
	ErrAssetNotHeld        = errorsmod.RegisterWithGRPCCode(ModuleName, 7, codes.FailedPrecondition, "asset not held by treasury")
	ErrHeightMismatch      = errorsmod.RegisterWithGRPCCode(ModuleName, 8, codes.FailedPrecondition, "height mismatch")
	ErrInvalidProof        = errorsmod.RegisterWithGRPCCode(ModuleName, 9, codes.Unauthenticated, "invalid proof")
	ErrChainMismatch       = errorsmod.RegisterWithGRPCCode(ModuleName, 10, codes.InvalidArgument, "chain mismatch")
	ErrInvalidMessage      = errorsmod.RegisterWithGRPCCode(ModuleName, 11, codes.InvalidArgument, "invalid deliverable message")
	ErrNotFound            = errorsmod.RegisterWithGRPCCode(ModuleName, 12, codes.NotFound, "not found")
	ErrChainNotFound       = errorsmod.RegisterWithGRPCCode(ModuleName, 13, codes.NotFound, "chain not found")
	ErrBalanceOverflow     = errorsmod.RegisterWithGRPCCode(ModuleName, 14, codes.OutOfRange, "balance overflow")
)

// ConnectionError is returned when a chain backend cannot be reached.
type ConnectionError struct {
	Chain  string
	Reason error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to chain %s failed: %v", e.Chain, e.Reason)
}

func (e *ConnectionError) Unwrap() error { return e.Reason }

// UpdateError is returned when a light client rejects a header. The light
// client state is left untouched.
type UpdateError struct {
	Chain  string
	Height uint64
	Reason error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("failed to update light client of %s at height %d: %v", e.Chain, e.Height, e.Reason)
}

func (e *UpdateError) Unwrap() error { return e.Reason }

// VerifyError is returned when a commitment could not be verified against
// the light client.
type VerifyError struct {
	Chain         string
	ClaimedHeight uint64
	CurrentHeight uint64
	Reason        error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("failed to verify commitment of %s: claimed_height=%d current_height=%d: %v",
		e.Chain, e.ClaimedHeight, e.CurrentHeight, e.Reason)
}

func (e *VerifyError) Unwrap() error { return e.Reason }

// ErrorCode returns the registered code of err, or 1 when err does not wrap
// a colony error.
func ErrorCode(err error) uint32 {
	var e *errorsmod.Error
	if errors.As(err, &e) {
		return e.ABCICode()
	}
	return 1
}

// GRPCCode returns the gRPC status code associated with err.
func GRPCCode(err error) codes.Code {
	var e *errorsmod.Error
	if errors.As(err, &e) {
		return e.GRPCStatus().Code()
	}
	return codes.Unknown
}
