package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heliolabs/heliograph/internal/config"
)

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "heliograph",
		Short: "Encrypted group messaging on a local ledger",
		Long: "Heliograph manages identities, encrypted channels, and key\n" +
			"distribution over an account-based ledger.",
		SilenceUsage: true,
	}

	config.BindFlags(rootCmd, v)
	rootCmd.PersistentFlags().StringP("key", "k", "", "signing key name (default \"default\")")
	_ = v.BindPFlag("key", rootCmd.PersistentFlags().Lookup("key"))
	rootCmd.PersistentFlags().String("config", "", "config file path")
	_ = v.BindPFlag("config_file", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(
		newKeysCmd(v),
		newIdentityCmd(v),
		newProfileCmd(v),
		newChannelCmd(v),
		newNotifyCmd(v),
		newBackendsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
