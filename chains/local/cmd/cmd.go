package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-colony/chains/local"
	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/coreutil"
)

const (
	flagStoreBackend       = "store-backend"
	flagStorePath          = "store-path"
	flagAddressCodec       = "address-codec"
	flagBech32Prefix       = "bech32-prefix"
	flagLightClientAddress = "light-client-address"
	flagTreasuryAddress    = "treasury-address"
	flagCounter            = "counter"
	flagProverFile         = "prover-file"
)

// LocalCmd returns the commands of chains hosted in the relayer process.
func LocalCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "manage in-process destination chains",
	}

	cmd.AddCommand(
		generateChainConfigCmd(),
		counterCmd(ctx),
		deliveriesCmd(ctx),
	)

	return cmd
}

func generateChainConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [chain-name] [source-chain] [genesis-header-hex]",
		Short: "print a chain config for an in-process destination chain",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			genesis, err := hexutil.Decode(args[2])
			if err != nil {
				return errors.Wrap(err, "genesis header")
			}
			flags := cmd.Flags()
			c := &local.ChainConfig{
				Name:        args[0],
				SourceChain: args[1],
				Genesis:     genesis,
			}
			if c.Store.Backend, err = flags.GetString(flagStoreBackend); err != nil {
				return err
			}
			if c.Store.Path, err = flags.GetString(flagStorePath); err != nil {
				return err
			}
			if c.AddressCodec.Kind, err = flags.GetString(flagAddressCodec); err != nil {
				return err
			}
			if c.AddressCodec.Bech32Prefix, err = flags.GetString(flagBech32Prefix); err != nil {
				return err
			}
			if c.LightClientAddress, err = flags.GetString(flagLightClientAddress); err != nil {
				return err
			}
			if c.TreasuryAddress, err = flags.GetString(flagTreasuryAddress); err != nil {
				return err
			}
			if c.CounterContracts, err = flags.GetStringSlice(flagCounter); err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}

			var prover core.ProverConfig
			var proverType string
			proverFile, err := flags.GetString(flagProverFile)
			if err != nil {
				return err
			}
			if proverFile != "" {
				bz, err := os.ReadFile(proverFile)
				if err != nil {
					return err
				}
				if prover, err = core.UnmarshalProverConfig(bz); err != nil {
					return err
				}
				var typed struct {
					Type string `json:"@type"`
				}
				if err := json.Unmarshal(bz, &typed); err != nil {
					return err
				}
				proverType = typed.Type
			}

			cpc, err := core.NewChainProverConfig(local.ChainConfigType, c, proverType, prover)
			if err != nil {
				return err
			}
			return printJSON(cmd, cpc)
		},
	}
	cmd.Flags().String(flagStoreBackend, local.StoreBackendMemDB, "store backend: memdb, goleveldb or sqlite")
	cmd.Flags().String(flagStorePath, "", "store path relative to the home directory")
	cmd.Flags().String(flagAddressCodec, "hex", "receiver address format: hex or bech32")
	cmd.Flags().String(flagBech32Prefix, "", "human readable part of bech32 addresses")
	cmd.Flags().String(flagLightClientAddress, "", "address reported for the light client contract")
	cmd.Flags().String(flagTreasuryAddress, "", "address reported for the treasury contract")
	cmd.Flags().StringSlice(flagCounter, nil, "name of a counter contract; repeatable")
	cmd.Flags().String(flagProverFile, "", "file holding the prover config")
	return cmd
}

func localChain(ctx *config.Context, name string) (*local.Chain, error) {
	if err := ctx.InitChains(); err != nil {
		return nil, err
	}
	chain, err := ctx.Config.GetChain(name)
	if err != nil {
		return nil, err
	}
	return coreutil.UnwrapChain[*local.Chain](chain)
}

func counterCmd(ctx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "counter [chain] [contract]",
		Short: "print the value of a counter contract",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := localChain(ctx, args[0])
			if err != nil {
				return err
			}
			defer ctx.Config.CloseChains()
			count, err := chain.Counter(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]uint64{"count": count})
		},
	}
}

func deliveriesCmd(ctx *config.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "deliveries [chain]",
		Short: "list the delivery receipts of a local chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := localChain(ctx, args[0])
			if err != nil {
				return err
			}
			defer ctx.Config.CloseChains()
			deliveries, err := chain.Deliveries(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, deliveries)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return nil
}
