package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyperledger-labs/yui-colony/config"
)

func configCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "manage configuration file",
		RunE:    noCommand,
	}

	cmd.AddCommand(
		configShowCmd(ctx),
		configInitCmd(ctx),
	)

	return cmd
}

// Command for initializing an empty config at the --home location
func configInitCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init",
		Aliases: []string{"i"},
		Short:   "Creates a default home directory at path defined by --home",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := ctx.Config.ConfigPath
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists: %s", cfgPath)
			} else if !os.IsNotExist(err) {
				return err
			}
			def := config.DefaultConfig(cfgPath)
			if err := def.OverWriteConfig(); err != nil {
				return err
			}
			*ctx.Config = def
			fmt.Fprintf(cmd.OutOrStdout(), "config created at %s\n", cfgPath)
			return nil
		},
	}
	return cmd
}

// Command for printing current configuration
func configShowCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"s", "list", "l"},
		Short:   "Prints current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := ctx.Config.ConfigPath
			if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				return fmt.Errorf("config does not exist: %s", cfgPath)
			}

			var (
				out []byte
				err error
			)
			if viper.GetBool(flagYAML) {
				out, err = config.MarshalYAML(*ctx.Config)
			} else {
				out, err = config.MarshalJSON(*ctx.Config)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	return yamlFlag(cmd)
}

// initConfig reads the config file under homePath, or falls back to the
// default config if there is none.
func initConfig(ctx *config.Context, homePath string) error {
	ctx.HomePath = homePath
	cfgPath := filepath.Join(homePath, configPath)
	if _, err := os.Stat(cfgPath); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		def := config.DefaultConfig(cfgPath)
		ctx.Config = &def
		return nil
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	ctx.Config = cfg
	return nil
}
