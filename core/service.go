package core

import (
	"bytes"
	"context"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var (
	rtyAttNum = uint(5)
	rtyAtt    = retry.Attempts(rtyAttNum)
	rtyDel    = retry.Delay(time.Millisecond * 400)
	rtyErr    = retry.LastErrorOnly(true)
)

// RelayRecord is a delivery record together with its inclusion proof.
type RelayRecord struct {
	// Contract names the destination contract of a custom order.
	Contract    string             `json:"contract,omitempty"`
	Message     DeliverableMessage `json:"message"`
	BlockHeight uint64             `json:"block_height"`
	Proof       MerkleProof        `json:"proof"`
}

// RelayBatch is a finalized source header and the records it commits to. An
// empty Header means the records refer to a header already trusted by the
// destination light client.
type RelayBatch struct {
	Header  Header                 `json:"header,omitempty"`
	Proof   BlockFinalizationProof `json:"proof,omitempty"`
	Records []RelayRecord          `json:"records"`
}

// RelaySource yields the batches observed on a source chain. Implementations
// live outside of the core; the core only drives them.
type RelaySource interface {
	// SourceChain returns the name of the chain the batches come from
	SourceChain() string

	// Next returns the oldest pending batch, or nil when nothing is pending
	Next(ctx context.Context) (*RelayBatch, error)

	// Ack marks the batch returned by the last Next as applied
	Ack(ctx context.Context, batch *RelayBatch) error
}

// StartService starts a relay service
func StartService(ctx context.Context, src RelaySource, dst Chain, relayInterval time.Duration) error {
	return NewRelayService(src, dst, relayInterval).Start(ctx)
}

// StartServices runs every service until ctx is done or one of them fails.
func StartServices(ctx context.Context, services ...*RelayService) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, srv := range services {
		srv := srv
		eg.Go(func() error {
			return srv.Start(ctx)
		})
	}
	return eg.Wait()
}

type RelayService struct {
	src      RelaySource
	dst      Chain
	interval time.Duration
}

// NewRelayService returns a new service
func NewRelayService(src RelaySource, dst Chain, interval time.Duration) *RelayService {
	return &RelayService{
		src:      src,
		dst:      dst,
		interval: interval,
	}
}

// Start starts a relay service
func (srv *RelayService) Start(ctx context.Context) error {
	logger := GetRelayLogger(srv.src.SourceChain(), srv.dst)
	for {
		if err := retry.Do(func() error {
			return srv.Serve(ctx)
		}, rtyAtt, rtyDel, rtyErr, retry.Context(ctx), retry.RetryIf(isRetryable), retry.OnRetry(func(n uint, err error) {
			logger.InfoContext(ctx,
				"retrying to serve relays",
				"try", n+1,
				"try_limit", rtyAttNum,
				"error", err.Error(),
			)
		})); err != nil {
			return err
		}
		if err := wait(ctx, srv.interval); err != nil {
			return err
		}
	}
}

// Serve applies at most one pending batch: the light client is updated
// first, then every record is delivered in order.
func (srv *RelayService) Serve(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "RelayService.Serve", WithChainAttributes(srv.src.SourceChain(), srv.dst))
	defer span.End()
	logger := GetRelayLogger(srv.src.SourceChain(), srv.dst)

	batch, err := srv.src.Next(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get the next relay batch", err)
		span.SetStatus(codes.Error, err.Error())
		return err
	} else if batch == nil {
		return nil
	}

	if len(batch.Header) > 0 {
		trusted, err := srv.dst.LightClientHeader(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "failed to query the light client header", err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		// a retried batch may already have been applied
		if !bytes.Equal(trusted, batch.Header) {
			if err := srv.dst.UpdateLightClient(ctx, batch.Header, batch.Proof); err != nil {
				logger.ErrorContext(ctx, "failed to update the light client", err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
		}
	}

	for _, r := range batch.Records {
		err := Deliver(ctx, srv.dst, r.Contract, r.Message, r.BlockHeight, r.Proof)
		switch {
		case errors.Is(err, ErrAlreadyDelivered):
			logger.DebugContext(ctx, "skip delivered message", "message", r.Message.String())
		case err != nil:
			logger.ErrorContext(ctx, "failed to deliver message", err, "message", r.Message.String())
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	if err := srv.src.Ack(ctx, batch); err != nil {
		logger.ErrorContext(ctx, "failed to ack relay batch", err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	logger.InfoContext(ctx, "relay batch applied", "records", len(batch.Records))
	return nil
}

// isRetryable reports whether serving again may succeed without operator
// intervention.
func isRetryable(err error) bool {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return true
	}
	return !errors.Is(err, ErrSequenceGap) &&
		!errors.Is(err, ErrInsufficientBalance) &&
		!errors.Is(err, ErrInvalidAddress) &&
		!errors.Is(err, ErrNotSupported) &&
		!errors.Is(err, ErrInvalidMessage) &&
		!errors.Is(err, ErrBalanceOverflow)
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
