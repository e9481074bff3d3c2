package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/coreutil"
)

const flagDecimals = "decimals"

// GatewayCmd returns the commands of gateway-backed chains.
func GatewayCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "manage chains reached through a contract gateway",
	}
	cmd.AddCommand(fundRelayerCmd(ctx))
	return cmd
}

func fundRelayerCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund-relayer [chain] [from-mnemonic] [amount]",
		Short: "send native tokens to the relayer account of a chain",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "amount %q", args[2])
			}
			decimals, err := cmd.Flags().GetUint8(flagDecimals)
			if err != nil {
				return err
			}
			if err := ctx.InitChains(); err != nil {
				return err
			}
			defer ctx.Config.CloseChains()
			chain, err := ctx.Config.GetChain(args[0])
			if err != nil {
				return err
			}
			gc, err := coreutil.UnwrapChain[*Chain](chain)
			if err != nil {
				return err
			}
			if gc.config.RelayerAddress == "" {
				return errors.Newf("chain %s has no relayer address", args[0])
			}
			txHash, err := gc.Client().TransferNativeToken(cmd.Context(), args[1], gc.config.RelayerAddress, amount, decimals)
			if err != nil {
				return err
			}
			bz, err := json.Marshal(map[string]string{"tx_hash": txHash})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}
	cmd.Flags().Uint8(flagDecimals, 12, "decimals of the native token")
	return cmd
}
