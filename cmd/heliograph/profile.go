package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heliolabs/heliograph/internal/instruction"
	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/keywrap"
)

func newProfileCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage user profiles",
	}

	cmd.AddCommand(
		newProfileCreateCmd(v),
		newProfileShowCmd(v),
		newProfileUpdateCmd(v),
		newProfileAddKeyCmd(v),
		newProfileRemoveKeyCmd(v),
	)
	return cmd
}

func newProfileCreateCmd(v *viper.Viper) *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a profile for the signing key's identity",
		Long: "Create a profile: generates the identity's user keypair, wraps\n" +
			"its seed for this device key, and records the public half so peers\n" +
			"can seal channel keys for the identity.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, v)
			if err != nil {
				return err
			}
			defer e.Close()

			key, err := e.fundedKey(ctx, v)
			if err != nil {
				return err
			}
			docAddr, err := e.documentFor(key.Address)
			if err != nil {
				return err
			}

			userPub, userPriv, err := ed25519.GenerateKey(rand.Reader)
			if err != nil {
				return err
			}
			var userSeed [keywrap.KeySize]byte
			copy(userSeed[:], userPriv.Seed())
			wrapped, err := wrapKey(userSeed, state.KeyIDFromString(key.Name), key.Public)
			if err != nil {
				return err
			}

			var userPublicKey [32]byte
			copy(userPublicKey[:], userPub)

			metas, data, err := instruction.BuildCreateProfile(
				e.runtime.Program(), key.Address, docAddr, key.Address,
				alias, "", userPublicKey, []state.EncryptedKey{wrapped}, 0)
			if err != nil {
				return err
			}
			if err := e.runtime.Execute(ctx, metas, data); err != nil {
				return err
			}
			fmt.Printf("Profile created for %s (alias %q)\n", key.Address, alias)
			return nil
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "public alias")
	_ = cmd.MarkFlagRequired("alias")
	return cmd
}

func newProfileShowCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show [subject]",
		Short: "Show a profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, v)
			if err != nil {
				return err
			}
			defer e.Close()

			var subject addr.Address
			if len(args) > 0 {
				subject, err = addr.Parse(args[0])
				if err != nil {
					return err
				}
			} else {
				key, err := e.signingKey(v)
				if err != nil {
					return err
				}
				subject = key.Address
			}

			docAddr, err := e.documentFor(subject)
			if err != nil {
				return err
			}
			profile, err := e.loadProfile(ctx, docAddr)
			if err != nil {
				return err
			}

			userKey, err := addr.FromBytes(profile.UserPublicKey[:])
			if err != nil {
				return err
			}
			fmt.Printf("Alias: %s\nUser key: %s\nWrapped keys:\n", profile.Alias, userKey)
			for _, k := range profile.Keys {
				fmt.Printf("  %s\n", k.KeyID)
			}
			return nil
		},
	}
}

func newProfileUpdateCmd(v *viper.Viper) *cobra.Command {
	var alias, addressBook string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update alias and address book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, v)
			if err != nil {
				return err
			}
			defer e.Close()

			key, err := e.signingKey(v)
			if err != nil {
				return err
			}
			docAddr, err := e.documentFor(key.Address)
			if err != nil {
				return err
			}

			metas, data, err := instruction.BuildUpdateProfile(
				e.runtime.Program(), docAddr, key.Address, alias, addressBook)
			if err != nil {
				return err
			}
			return e.runtime.Execute(ctx, metas, data)
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "public alias")
	cmd.Flags().StringVar(&addressBook, "address-book", "", "encrypted address book payload")
	_ = cmd.MarkFlagRequired("alias")
	return cmd
}

func newProfileAddKeyCmd(v *viper.Viper) *cobra.Command {
	var kid string

	cmd := &cobra.Command{
		Use:   "add-key <device-address>",
		Short: "Wrap the user key for another device key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, v)
			if err != nil {
				return err
			}
			defer e.Close()

			device, err := addr.Parse(args[0])
			if err != nil {
				return err
			}
			key, err := e.signingKey(v)
			if err != nil {
				return err
			}
			docAddr, err := e.documentFor(key.Address)
			if err != nil {
				return err
			}

			userPriv, err := e.userSecret(ctx, key, docAddr)
			if err != nil {
				return err
			}
			var userSeed [keywrap.KeySize]byte
			copy(userSeed[:], userPriv.Seed())

			label := kid
			if label == "" {
				label = device.String()[:8]
			}
			wrapped, err := wrapKey(userSeed, state.KeyIDFromString(label), ed25519.PublicKey(device.Bytes()))
			if err != nil {
				return err
			}

			metas, data, err := instruction.BuildAddUserKey(
				e.runtime.Program(), docAddr, key.Address, wrapped)
			if err != nil {
				return err
			}
			return e.runtime.Execute(ctx, metas, data)
		},
	}

	cmd.Flags().StringVar(&kid, "kid", "", "key id label (default: address prefix)")
	return cmd
}

func newProfileRemoveKeyCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-key <kid>",
		Short: "Remove a wrapped user key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, v)
			if err != nil {
				return err
			}
			defer e.Close()

			key, err := e.signingKey(v)
			if err != nil {
				return err
			}
			docAddr, err := e.documentFor(key.Address)
			if err != nil {
				return err
			}

			metas, data, err := instruction.BuildRemoveUserKey(
				e.runtime.Program(), docAddr, key.Address, state.KeyIDFromString(args[0]))
			if err != nil {
				return err
			}
			return e.runtime.Execute(ctx, metas, data)
		},
	}
}
