package core

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/hyperledger-labs/yui-colony/internal/telemetry"
)

func recordLightClientHeight(chain string, height uint64) {
	if telemetry.LightClientHeightGauge == nil {
		return
	}
	telemetry.LightClientHeightGauge.Set(int64(height), AttributeKeyChainName.String(chain))
}

func recordDelivery(ctx context.Context, sourceChain string, kind MessageKind, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	if telemetry.DeliveriesCounter != nil {
		telemetry.DeliveriesCounter.Add(ctx, 1, metric.WithAttributes(
			AttributeKeySourceChain.String(sourceChain),
			AttributeKeyMessageKind.String(string(kind)),
			AttributeKeyResult.String(result),
		))
	}
	if err != nil && telemetry.TreasuryRejectionsCounter != nil {
		telemetry.TreasuryRejectionsCounter.Add(ctx, 1, metric.WithAttributes(
			AttributeKeySourceChain.String(sourceChain),
			AttributeKeyReason.String(rejectionReason(err)),
		))
	}
}

// rejectionReason classifies err into a low-cardinality label.
func rejectionReason(err error) string {
	var (
		verifyErr *VerifyError
		updateErr *UpdateError
		connErr   *ConnectionError
	)
	switch {
	case errors.Is(err, ErrAlreadyDelivered):
		return "already_delivered"
	case errors.Is(err, ErrSequenceGap):
		return "sequence_gap"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, ErrAssetNotHeld):
		return "asset_not_held"
	case errors.Is(err, ErrNotSupported):
		return "not_supported"
	case errors.Is(err, ErrInvalidMessage):
		return "invalid_message"
	case errors.Is(err, ErrBalanceOverflow):
		return "balance_overflow"
	case errors.As(err, &verifyErr):
		return "verify_failed"
	case errors.As(err, &updateErr):
		return "update_failed"
	case errors.As(err, &connErr):
		return "connection"
	default:
		return "internal"
	}
}
