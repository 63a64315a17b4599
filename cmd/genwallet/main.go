// Binary genwallet writes a fresh devnet keypair to devnet-wallet.json.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"solagent-go/internal/config"
	"solagent-go/internal/util"
	"solagent-go/internal/walletgen"
)

func main() {
	var out string
	cmd := &cobra.Command{
		Use:           "genwallet",
		Short:         "Generate a devnet keypair, print it and save the secret bytes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := walletgen.Generate(os.Stdout, out)
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", config.DefaultWalletPath, "file to write the JSON byte array to (overwritten)")

	if err := cmd.Execute(); err != nil {
		log := util.Tagged(util.NewConsoleLogger(os.Stderr, "info"), "WALLET")
		log.Fatal().Err(err).Msg("Failed")
	}
}
