package core

import (
	"github.com/hyperledger-labs/yui-colony/log"
)

// GetChainLogger returns the logger of a destination chain adapter.
func GetChainLogger(chain Chain) *log.RelayLogger {
	return log.GetLogger().WithChain(chain.ChainName()).WithModule("core.chain")
}

func GetLightClientLogger(sourceChain string) *log.RelayLogger {
	return log.GetLogger().WithLightClient(sourceChain).WithModule("core.light-client")
}

func GetTreasuryLogger(sourceChain string) *log.RelayLogger {
	return log.GetLogger().WithTreasury(sourceChain).WithModule("core.treasury")
}

// GetRelayLogger returns the logger of the relay from src to dst.
func GetRelayLogger(src string, dst Chain) *log.RelayLogger {
	return log.GetLogger().WithRelay(src, dst.ChainName()).WithModule("core.service")
}
