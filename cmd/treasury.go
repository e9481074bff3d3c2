package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/coreutil"
)

// depositor is a chain whose treasury can be funded from the relayer.
type depositor interface {
	core.Chain
	Deposit(ctx context.Context, tokenID string, amount sdkmath.Uint) error
	DepositNonFungible(ctx context.Context, collection, index string) error
}

func treasuryCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treasury",
		Short: "query and operate the treasury of a chain",
		RunE:  noCommand,
	}

	cmd.AddCommand(
		treasuryBalanceCmd(ctx),
		treasuryTransferCmd(ctx),
		treasuryDepositCmd(ctx),
		treasuryDepositNonFungibleCmd(ctx),
	)

	return cmd
}

type treasuryBalance struct {
	FungibleTokens    map[string]sdkmath.Uint   `json:"fungible_tokens"`
	NonFungibleTokens []core.NonFungibleHolding `json:"non_fungible_tokens"`
}

func treasuryBalanceCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance [chain]",
		Short: "print the assets held by the treasury",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := getChain(ctx, args[0])
			if err != nil {
				return err
			}
			var b treasuryBalance
			if b.FungibleTokens, err = chain.TreasuryFungibleTokenBalance(cmd.Context()); err != nil {
				return err
			}
			if b.NonFungibleTokens, err = chain.TreasuryNonFungibleTokenBalance(cmd.Context()); err != nil {
				return err
			}
			return printOutput(cmd, b, viper.GetBool(flagYAML))
		},
	}
	return yamlFlag(cmd)
}

func treasuryTransferCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer [chain] [relay-record-json]",
		Short: "submit a delivery record with its inclusion proof",
		Long: `Submit a relay record of the form
{"message": {...}, "block_height": 1, "proof": "0x..."}
to the treasury. Custom orders are delivered to the contract given by --contract.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r core.RelayRecord
			if err := json.Unmarshal([]byte(args[1]), &r); err != nil {
				return err
			}
			if contract := viper.GetString(flagContract); contract != "" {
				r.Contract = contract
			}
			chain, err := getChain(ctx, args[0])
			if err != nil {
				return err
			}
			if err := core.Deliver(cmd.Context(), chain, r.Contract, r.Message, r.BlockHeight, r.Proof); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "delivered %s\n", r.Message)
			return nil
		},
	}
	return contractFlag(cmd)
}

func getDepositor(ctx *config.Context, name string) (depositor, error) {
	chain, err := getChain(ctx, name)
	if err != nil {
		return nil, err
	}
	d, err := coreutil.UnwrapChain[depositor](chain)
	if err != nil {
		return nil, errors.Wrapf(core.ErrNotSupported, "treasury of %s cannot be funded by the relayer", name)
	}
	return d, nil
}

func treasuryDepositCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [chain] [token-id] [amount]",
		Short: "fund the treasury with a fungible token",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := sdkmath.ParseUint(args[2])
			if err != nil {
				return errors.Wrapf(core.ErrInvalidMessage, "amount %q", args[2])
			}
			d, err := getDepositor(ctx, args[0])
			if err != nil {
				return err
			}
			if err := d.Deposit(cmd.Context(), args[1], amount); err != nil {
				return err
			}
			balance, err := d.TreasuryFungibleTokenBalance(cmd.Context())
			if err != nil {
				return err
			}
			return printOutput(cmd, balance, viper.GetBool(flagYAML))
		},
	}
	return yamlFlag(cmd)
}

func treasuryDepositNonFungibleCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit-nft [chain] [collection-address] [token-index]",
		Short: "place a non-fungible asset in the treasury",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := getDepositor(ctx, args[0])
			if err != nil {
				return err
			}
			if err := d.DepositNonFungible(cmd.Context(), args[1], args[2]); err != nil {
				return err
			}
			holdings, err := d.TreasuryNonFungibleTokenBalance(cmd.Context())
			if err != nil {
				return err
			}
			return printOutput(cmd, holdings, viper.GetBool(flagYAML))
		},
	}
	return yamlFlag(cmd)
}
