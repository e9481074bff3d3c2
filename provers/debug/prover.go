package debug

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/log"
)

const (
	// EnvFinalityWait holds "<chain> <seconds>": finality checks of chain
	// stall for that long before being delegated.
	EnvFinalityWait = "DEBUG_COLONY_FINALITY_WAIT"
	// EnvRejectHeight holds "<chain> <height>": headers of chain at that
	// height are rejected regardless of their proof.
	EnvRejectHeight = "DEBUG_COLONY_REJECT_HEIGHT"
)

// lookupChainArg returns the argument of an env var of the form
// "<chain> <arg>" if it is set for chainName.
func lookupChainArg(env, chainName string) (int, bool) {
	val, ok := os.LookupEnv(env)
	if !ok {
		return 0, false
	}
	s := strings.Split(val, " ")
	if len(s) != 2 {
		log.GetLogger().Warn("malformed debug env: expected '<chain> <number>'", "env", env, "value", val)
		return 0, false
	}
	if s[0] != chainName {
		return 0, false
	}
	n, err := strconv.Atoi(s[1])
	if err != nil {
		log.GetLogger().Warn("malformed debug env", "env", env, "value", val, "error", err)
		return 0, false
	}
	return n, true
}

// Prover delegates to an origin prover and injects delays and failures
// configured through the environment.
type Prover struct {
	originProver core.Prover
}

var _ core.Prover = (*Prover)(nil)

func NewProver(originProver core.Prover) *Prover {
	return &Prover{originProver: originProver}
}

func (pr *Prover) OriginProver() core.Prover {
	return pr.originProver
}

func (pr *Prover) VerifyFinality(ctx context.Context, state core.LightClientState, header core.Header, proof core.BlockFinalizationProof) error {
	logger := log.GetLogger().WithLightClient(state.ChainName).WithModule("debug.prover")
	if secs, ok := lookupChainArg(EnvFinalityWait, state.ChainName); ok {
		logger.InfoContext(ctx, ">"+EnvFinalityWait, "seconds", secs)
		timer := time.NewTimer(time.Duration(secs) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		logger.InfoContext(ctx, "<"+EnvFinalityWait, "seconds", secs)
	}
	if h, ok := lookupChainArg(EnvRejectHeight, state.ChainName); ok && uint64(h) == state.Height+1 {
		return errors.Wrapf(core.ErrInvalidProof, "debug rejection of height %d", h)
	}
	return pr.originProver.VerifyFinality(ctx, state, header, proof)
}

func (pr *Prover) VerifyInclusion(ctx context.Context, header core.Header, record core.MessageDeliveryRecord, proof core.MerkleProof) error {
	return pr.originProver.VerifyInclusion(ctx, header, record, proof)
}
