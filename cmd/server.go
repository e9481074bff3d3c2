package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/server"
)

func serverCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "API service exposing the configured chains",
	}
	cmd.AddCommand(
		serverStart(ctx),
	)
	return cmd
}

func serverStart(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "start",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.InitChains(); err != nil {
				return err
			}
			srv := server.NewAPIServer(ctx.Config, ctx.Config.GetChains().Names)
			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(sigCtx, viper.GetString(flagAddr))
		},
	}
	return serverFlags(cmd)
}
