package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heliolabs/heliograph/internal/config"
	"github.com/heliolabs/heliograph/internal/keyring"
)

func newKeysCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage signing keypairs",
		Long:  "Manage Ed25519 keys.\nKeys are stored in <data-dir>/keys/, one seed file per name.",
	}

	cmd.AddCommand(
		newKeysGenerateCmd(v),
		newKeysListCmd(v),
		newKeysShowCmd(v),
		newKeysDeleteCmd(v),
	)
	return cmd
}

func openKeyring(v *viper.Viper) *keyring.Keyring {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	return keyring.New(dir)
}

func newKeysGenerateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [name]",
		Short: "Generate a new key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := keyring.DefaultName
			if len(args) > 0 {
				name = args[0]
			}

			key, err := openKeyring(v).Generate(name)
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}
			fmt.Printf("Key created: %s\nAddress: %s\n", name, key.Address)
			return nil
		},
	}
}

func newKeysListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kr := openKeyring(v)
			names, err := kr.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				key, err := kr.Load(name)
				if err != nil {
					continue
				}
				fmt.Printf("%s\t%s\n", name, key.Address)
			}
			return nil
		},
	}
}

func newKeysShowCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show a key's address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := keyring.DefaultName
			if len(args) > 0 {
				name = args[0]
			}
			key, err := openKeyring(v).Load(name)
			if err != nil {
				return err
			}
			fmt.Println(key.Address)
			return nil
		},
	}
}

func newKeysDeleteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openKeyring(v).Delete(args[0])
		},
	}
}
