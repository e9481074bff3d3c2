package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-colony/config"
)

// printOutput writes v as indented JSON, or as YAML when --yaml is set.
func printOutput(cmd *cobra.Command, v any, asYAML bool) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if asYAML {
		if bz, err = config.JSONToYAML(bz); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return nil
}
