package config

import (
	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
)

type Chains []core.Chain

// Get returns the chain registered under name
func (cs Chains) Get(name string) (core.Chain, error) {
	for _, chain := range cs {
		if name == chain.ChainName() {
			return chain, nil
		}
	}
	return nil, errors.Wrapf(core.ErrChainNotFound, "chain %s is not configured", name)
}

// Gets returns a map of chain names to their chains
func (cs Chains) Gets(names ...string) (map[string]core.Chain, error) {
	out := make(map[string]core.Chain)
	for _, name := range names {
		chain, err := cs.Get(name)
		if err != nil {
			return out, err
		}
		out[name] = chain
	}
	return out, nil
}

// Names returns the names of the chains in configuration order
func (cs Chains) Names() []string {
	names := make([]string, len(cs))
	for i, chain := range cs {
		names[i] = chain.ChainName()
	}
	return names
}
