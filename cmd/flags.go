package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagJSON          = "json"
	flagYAML          = "yaml"
	flagAddr          = "address"
	flagContract      = "contract"
	flagRelayInterval = "relay-interval"
)

func yamlFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().BoolP(flagYAML, "y", false, "output using yaml")
	if err := viper.BindPFlag(flagYAML, cmd.Flags().Lookup(flagYAML)); err != nil {
		panic(err)
	}
	return cmd
}

func jsonFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().BoolP(flagJSON, "j", false, "returns the response in json format")
	if err := viper.BindPFlag(flagJSON, cmd.Flags().Lookup(flagJSON)); err != nil {
		panic(err)
	}
	return cmd
}

func contractFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagContract, "", "destination contract of a custom order")
	if err := viper.BindPFlag(flagContract, cmd.Flags().Lookup(flagContract)); err != nil {
		panic(err)
	}
	return cmd
}

func serverFlags(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(flagAddr, "localhost:80", "address the API server listens on")
	if err := viper.BindPFlag(flagAddr, cmd.Flags().Lookup(flagAddr)); err != nil {
		panic(err)
	}
	return cmd
}
