package main

import (
	"log"

	gateway "github.com/hyperledger-labs/yui-colony/chains/gateway/module"
	local "github.com/hyperledger-labs/yui-colony/chains/local/module"
	"github.com/hyperledger-labs/yui-colony/cmd"
	authority "github.com/hyperledger-labs/yui-colony/provers/authority/module"
	debug "github.com/hyperledger-labs/yui-colony/provers/debug/module"
	mock "github.com/hyperledger-labs/yui-colony/provers/mock/module"
)

func main() {
	if err := cmd.Execute(
		local.Module{},
		gateway.Module{},
		mock.Module{},
		authority.Module{},
		debug.Module{},
	); err != nil {
		log.Fatal(err)
	}
}
