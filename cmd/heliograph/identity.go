package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heliolabs/heliograph/internal/did"
	"github.com/heliolabs/heliograph/pkg/addr"
)

func newIdentityCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "id",
		Short: "Manage ledger identities",
	}

	cmd.AddCommand(
		newIdentityCreateCmd(v),
		newIdentityShowCmd(v),
		newIdentityAddAuthorityCmd(v),
	)
	return cmd
}

func newIdentityCreateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Register an identity for the signing key",
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
			docAddr, err := e.registry.Register(ctx, key.Address)
			if err != nil {
				return err
			}
			fmt.Printf("Identity registered\nSubject: %s\nDocument: %s\n", key.Address, docAddr)
			return nil
		},
	}
}

func newIdentityShowCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show [subject]",
		Short: "Show an identity's authorities",
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

			docAddr, err := e.registry.DeriveDocument(subject)
			if err != nil {
				return err
			}
			account, err := e.runtime.View(ctx, docAddr)
			if err != nil {
				return err
			}
			doc, err := did.DecodeDocument(account.Data)
			if err != nil {
				return err
			}
			if !doc.IsInitialized() {
				return fmt.Errorf("no identity registered for %s", subject)
			}

			fmt.Printf("Subject: %s\nDocument: %s\nAuthorities:\n", doc.Subject, docAddr)
			for _, a := range doc.Authorities {
				fmt.Printf("  %s\n", a)
			}
			return nil
		},
	}
}

func newIdentityAddAuthorityCmd(v *viper.Viper) *cobra.Command {
	var subjectFlag string

	cmd := &cobra.Command{
		Use:   "add-authority <address>",
		Short: "Add a signing authority to an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, v)
			if err != nil {
				return err
			}
			defer e.Close()

			authority, err := addr.Parse(args[0])
			if err != nil {
				return err
			}
			key, err := e.signingKey(v)
			if err != nil {
				return err
			}

			subject := key.Address
			if subjectFlag != "" {
				subject, err = addr.Parse(subjectFlag)
				if err != nil {
					return err
				}
			}

			return e.registry.AddAuthority(ctx, subject, key.Address, authority)
		},
	}

	cmd.Flags().StringVar(&subjectFlag, "subject", "", "identity subject (default: signing key)")
	return cmd
}
