package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heliolabs/heliograph/internal/instruction"
	"github.com/heliolabs/heliograph/internal/ledger/physical"
	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/addr"
)

func newNotifyCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Manage the notification log",
	}

	cmd.AddCommand(
		newNotifyCreateCmd(v),
		newNotifyListCmd(v),
	)
	return cmd
}

func newNotifyCreateCmd(v *viper.Viper) *cobra.Command {
	var capacity uint8

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a notification log for the signing key's identity",
		Args:  cobra.NoArgs,
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

			metas, data, err := instruction.BuildCreateNotifications(
				e.runtime.Program(), key.Address, docAddr, key.Address, capacity)
			if err != nil {
				return err
			}
			return e.runtime.Execute(ctx, metas, data)
		},
	}

	cmd.Flags().Uint8Var(&capacity, "capacity", 0, "log capacity (default 8)")
	return cmd
}

func newNotifyListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list [subject]",
		Short: "List notifications",
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
			notifAddr, _, err := state.DeriveNotificationsAccount(e.runtime.Program(), docAddr)
			if err != nil {
				return err
			}
			account, err := e.runtime.View(ctx, notifAddr)
			if err != nil {
				return err
			}
			rec, err := state.DecodeNotifications(account.Data)
			if err != nil {
				return err
			}
			if !rec.IsInitialized() {
				return fmt.Errorf("no notification log for %s", subject)
			}

			for _, n := range rec.Entries {
				var kind string
				switch n.Kind {
				case state.NotifyGroupChannelAdd:
					kind = "group-add"
				case state.NotifyDirectChannelAdd:
					kind = "direct-add"
				default:
					kind = fmt.Sprintf("kind(%d)", n.Kind)
				}
				fmt.Printf("%s\t%s\n", kind, n.Related)
			}
			return nil
		},
	}
}

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List available ledger backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range physical.ListBackends() {
				fmt.Println(name)
			}
			return nil
		},
	}
}
