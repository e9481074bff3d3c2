package coreutil

import (
	"fmt"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/otelcore"
)

// UnwrapChain strips tracing wrappers from c until it finds a value of type C.
//
// In the following example, UnwrapChain returns the *local.Chain behind a
// configured chain:
//
//	chain, _ := cfg.GetChain("astar")
//	lc, err := coreutil.UnwrapChain[*local.Chain](chain)
func UnwrapChain[C core.Chain](c core.Chain) (C, error) {
	chain := c
	for {
		switch unwrapped := chain.(type) {
		case *otelcore.Chain:
			chain = unwrapped.Chain
		case C:
			return unwrapped, nil
		default:
			var zero C
			return zero, fmt.Errorf("failed to unwrap chain: expected=%T, actual=%T", zero, unwrapped)
		}
	}
}

// UnwrapProver strips tracing wrappers from p until it finds a value of type P.
//
//	prover, err := coreutil.UnwrapProver[*authority.Prover](lc.Prover())
func UnwrapProver[P core.Prover](p core.Prover) (P, error) {
	prover := p
	for {
		switch unwrapped := prover.(type) {
		case *otelcore.Prover:
			prover = unwrapped.Prover
		case P:
			return unwrapped, nil
		default:
			var zero P
			return zero, fmt.Errorf("failed to unwrap prover: expected=%T, actual=%T", zero, unwrapped)
		}
	}
}
