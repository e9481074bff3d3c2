package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/coreutil"
)

// lightClientHost is a chain running its light client in-process.
type lightClientHost interface {
	core.Chain
	LightClient() *core.LightClient
}

func lightClientCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "light-client",
		Aliases: []string{"lc"},
		Short:   "query and update the light client of a chain",
		RunE:    noCommand,
	}

	cmd.AddCommand(
		lightClientHeaderCmd(ctx),
		lightClientUpdateCmd(ctx),
		lightClientVerifyCmd(ctx),
	)

	return cmd
}

func getChain(ctx *config.Context, name string) (core.Chain, error) {
	if err := ctx.InitChains(); err != nil {
		return nil, err
	}
	return ctx.Config.GetChain(name)
}

func lightClientHeaderCmd(ctx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "header [chain]",
		Short: "print the last header accepted by the light client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := getChain(ctx, args[0])
			if err != nil {
				return err
			}
			header, err := chain.LightClientHeader(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(header))
			return nil
		},
	}
}

func lightClientUpdateCmd(ctx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "update [chain] [header-hex] [proof-hex]",
		Short: "advance the light client by one finalized header",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			header, err := hexutil.Decode(args[1])
			if err != nil {
				return errors.Wrap(err, "header")
			}
			proof, err := hexutil.Decode(args[2])
			if err != nil {
				return errors.Wrap(err, "proof")
			}
			chain, err := getChain(ctx, args[0])
			if err != nil {
				return err
			}
			if err := chain.UpdateLightClient(cmd.Context(), header, proof); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "light client of %s updated\n", args[0])
			return nil
		},
	}
}

func lightClientVerifyCmd(ctx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [chain] [message-json] [block-height] [proof-hex]",
		Short: "check that a message is committed to by the header trusted at a height",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var message core.DeliverableMessage
			if err := json.Unmarshal([]byte(args[1]), &message); err != nil {
				return err
			}
			height, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return errors.Wrap(err, "block height")
			}
			proof, err := hexutil.Decode(args[3])
			if err != nil {
				return errors.Wrap(err, "proof")
			}
			chain, err := getChain(ctx, args[0])
			if err != nil {
				return err
			}
			host, err := coreutil.UnwrapChain[lightClientHost](chain)
			if err != nil {
				return errors.Wrapf(core.ErrNotSupported, "chain %s does not host its light client in-process", args[0])
			}
			if err := host.LightClient().VerifyCommitment(cmd.Context(), message, height, proof); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
