package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
)

func chainsCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chains",
		Short: "manage chain configurations",
		RunE:  noCommand,
	}

	cmd.AddCommand(
		chainsListCmd(ctx),
		chainsAddDirCmd(ctx),
		chainsStatusCmd(ctx),
	)

	return cmd
}

func chainsListCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "Returns chain configuration data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetBool(flagJSON) {
				out, err := json.MarshalIndent(ctx.Config.Chains, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			for i, cc := range ctx.Config.Chains {
				chain, err := cc.GetChainConfig()
				if err != nil {
					return err
				}
				var typed struct {
					Type string `json:"@type"`
				}
				if err := json.Unmarshal(cc.Chain, &typed); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s -> type(%s)\n", i, chain.ChainName(), typed.Type)
			}
			return nil
		},
	}
	return jsonFlag(cmd)
}

func chainsAddDirCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "add-dir [dir]",
		Args: cobra.ExactArgs(1),
		Short: `Add new chains to the configuration file from a directory
		full of chain configuration, useful for adding testnet configurations`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if err := filesAdd(cmd, ctx, args[0]); err != nil {
				return err
			}
			return ctx.Config.OverWriteConfig()
		},
	}

	return cmd
}

func filesAdd(cmd *cobra.Command, ctx *config.Context, dir string) error {
	dir = filepath.Clean(dir)
	files, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		pth := filepath.Join(dir, f.Name())
		if f.IsDir() {
			fmt.Fprintf(cmd.OutOrStdout(), "directory at %s, skipping...\n", pth)
			continue
		}
		byt, err := os.ReadFile(pth)
		if err != nil {
			return fmt.Errorf("failed to read file %s, error: %v", pth, err)
		}
		var c core.ChainProverConfig
		if err := json.Unmarshal(byt, &c); err != nil {
			return fmt.Errorf("failed to unmarshal file %s, error: %v", pth, err)
		}
		if err = ctx.Config.AddChain(&c); err != nil {
			return fmt.Errorf("failed to add chain %s, error: %v", pth, err)
		}
		chain, err := c.GetChainConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s...\n", chain.ChainName())
	}
	return nil
}

type chainStatus struct {
	ChainName string              `json:"chain_name"`
	Connected bool                `json:"connected"`
	Error     string              `json:"error,omitempty"`
	LastBlock *core.Block         `json:"last_block,omitempty"`
	Contracts []core.ContractInfo `json:"contracts,omitempty"`
}

func chainsStatusCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [chain-name...]",
		Short: "Show the connection state, last block and contracts of chains",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.InitChains(); err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = ctx.Config.GetChains().Names()
			}
			chains, err := ctx.Config.GetChains().Gets(names...)
			if err != nil {
				return err
			}
			statuses := make([]chainStatus, 0, len(names))
			for _, name := range names {
				statuses = append(statuses, queryStatus(cmd, chains[name]))
			}
			return printOutput(cmd, statuses, viper.GetBool(flagYAML))
		},
	}
	return yamlFlag(cmd)
}

func queryStatus(cmd *cobra.Command, chain core.Chain) chainStatus {
	status := chainStatus{ChainName: chain.ChainName()}
	if err := chain.CheckConnection(cmd.Context()); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Connected = true
	block, err := chain.LastBlock(cmd.Context())
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.LastBlock = block
	if status.Contracts, err = chain.ContractList(cmd.Context()); err != nil {
		status.Error = err.Error()
	}
	return status
}
