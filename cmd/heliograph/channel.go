package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heliolabs/heliograph/internal/instruction"
	"github.com/heliolabs/heliograph/internal/keyring"
	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/keywrap"
)

func newChannelCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Manage encrypted channels",
	}

	cmd.AddCommand(
		newChannelCreateCmd(v),
		newChannelDirectCmd(v),
		newChannelInviteCmd(v),
		newChannelPostCmd(v),
		newChannelReadCmd(v),
	)
	return cmd
}

// userPublicKeyOf fetches the user encryption key from an identity's
// profile.
func (e *env) userPublicKeyOf(ctx context.Context, didAddr addr.Address) (ed25519.PublicKey, error) {
	profile, err := e.loadProfile(ctx, didAddr)
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(profile.UserPublicKey[:]), nil
}

func newChannelCreateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group channel",
		Args:  cobra.ExactArgs(1),
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
			userPub, err := e.userPublicKeyOf(ctx, docAddr)
			if err != nil {
				return err
			}

			cek, err := keywrap.GenerateKey()
			if err != nil {
				return err
			}
			wrapped, err := wrapKey(cek, userKeyID, userPub)
			if err != nil {
				return err
			}

			// Group channels live at a caller-chosen address; a throwaway
			// keypair supplies a fresh one.
			channelPub, _, err := ed25519.GenerateKey(rand.Reader)
			if err != nil {
				return err
			}
			channel := addr.FromPublicKey(channelPub)

			metas, data, err := instruction.BuildInitializeChannel(
				e.runtime.Program(), key.Address, channel, docAddr, key.Address,
				args[0], wrapped)
			if err != nil {
				return err
			}
			if err := e.runtime.Execute(ctx, metas, data); err != nil {
				return err
			}
			fmt.Printf("Channel %q created\nAddress: %s\n", args[0], channel)
			return nil
		},
	}
}

func newChannelDirectCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "direct <subject>",
		Short: "Create a direct channel with another identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, v)
			if err != nil {
				return err
			}
			defer e.Close()

			other, err := addr.Parse(args[0])
			if err != nil {
				return err
			}
			key, err := e.fundedKey(ctx, v)
			if err != nil {
				return err
			}
			myDoc, err := e.documentFor(key.Address)
			if err != nil {
				return err
			}
			otherDoc, err := e.documentFor(other)
			if err != nil {
				return err
			}

			myUserPub, err := e.userPublicKeyOf(ctx, myDoc)
			if err != nil {
				return err
			}
			otherUserPub, err := e.userPublicKeyOf(ctx, otherDoc)
			if err != nil {
				return err
			}

			cek, err := keywrap.GenerateKey()
			if err != nil {
				return err
			}
			myWrapped, err := wrapKey(cek, userKeyID, myUserPub)
			if err != nil {
				return err
			}
			otherWrapped, err := wrapKey(cek, userKeyID, otherUserPub)
			if err != nil {
				return err
			}

			metas, data, err := instruction.BuildInitializeDirectChannel(
				e.runtime.Program(), key.Address, myDoc, key.Address, otherDoc,
				myWrapped, otherWrapped)
			if err != nil {
				return err
			}
			if err := e.runtime.Execute(ctx, metas, data); err != nil {
				return err
			}

			channel, _, err := state.DeriveDirectChannel(e.runtime.Program(), myDoc, otherDoc)
			if err != nil {
				return err
			}
			e.notifyBestEffort(ctx, key, otherDoc, myDoc, state.NotifyDirectChannelAdd, channel)
			fmt.Printf("Direct channel created\nAddress: %s\n", channel)
			return nil
		},
	}
}

func newChannelInviteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "invite <channel> <subject>",
		Short: "Add an identity to a channel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, v)
			if err != nil {
				return err
			}
			defer e.Close()

			channel, err := addr.Parse(args[0])
			if err != nil {
				return err
			}
			invitee, err := addr.Parse(args[1])
			if err != nil {
				return err
			}

			key, err := e.fundedKey(ctx, v)
			if err != nil {
				return err
			}
			myDoc, err := e.documentFor(key.Address)
			if err != nil {
				return err
			}
			inviteeDoc, err := e.documentFor(invitee)
			if err != nil {
				return err
			}

			cek, err := e.channelKey(ctx, key, myDoc, channel)
			if err != nil {
				return err
			}
			inviteeUserPub, err := e.userPublicKeyOf(ctx, inviteeDoc)
			if err != nil {
				return err
			}
			wrapped, err := wrapKey(cek, userKeyID, inviteeUserPub)
			if err != nil {
				return err
			}

			metas, data, err := instruction.BuildAddToChannel(
				e.runtime.Program(), key.Address, channel, inviteeDoc, myDoc, key.Address, wrapped)
			if err != nil {
				return err
			}
			if err := e.runtime.Execute(ctx, metas, data); err != nil {
				return err
			}

			e.notifyBestEffort(ctx, key, inviteeDoc, myDoc, state.NotifyGroupChannelAdd, channel)
			fmt.Printf("Added %s to channel %s\n", invitee, channel)
			return nil
		},
	}
}

func newChannelPostCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "post <channel> <message>",
		Short: "Post an encrypted message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, v)
			if err != nil {
				return err
			}
			defer e.Close()

			channel, err := addr.Parse(args[0])
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

			cek, err := e.channelKey(ctx, key, docAddr, channel)
			if err != nil {
				return err
			}
			sealed, err := keywrap.SealMessage(cek, []byte(args[1]))
			if err != nil {
				return err
			}

			metas, data, err := instruction.BuildPost(
				e.runtime.Program(), channel, docAddr, key.Address,
				base64.StdEncoding.EncodeToString(sealed))
			if err != nil {
				return err
			}
			return e.runtime.Execute(ctx, metas, data)
		},
	}
}

func newChannelReadCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "read <channel>",
		Short: "Read and decrypt a channel's messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, v)
			if err != nil {
				return err
			}
			defer e.Close()

			channel, err := addr.Parse(args[0])
			if err != nil {
				return err
			}
			account, err := e.runtime.View(ctx, channel)
			if err != nil {
				return err
			}
			rec, err := state.DecodeChannel(account.Data)
			if err != nil {
				return err
			}
			if !rec.IsInitialized() {
				return fmt.Errorf("no channel at %s", channel)
			}

			key, err := e.signingKey(v)
			if err != nil {
				return err
			}
			docAddr, err := e.documentFor(key.Address)
			if err != nil {
				return err
			}
			cek, cekErr := e.channelKey(ctx, key, docAddr, channel)

			fmt.Printf("Channel: %s\n", rec.Name)
			for _, m := range rec.Messages {
				ts := time.Unix(m.Timestamp, 0).UTC().Format(time.RFC3339)
				content := m.Content
				if cekErr == nil {
					if plaintext, err := decryptContent(cek, m.Content); err == nil {
						content = plaintext
					}
				}
				fmt.Printf("%s %s: %s\n", ts, m.Sender, content)
			}
			return nil
		},
	}
}

func decryptContent(cek [keywrap.KeySize]byte, content string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", err
	}
	plaintext, err := keywrap.OpenMessage(cek, sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// notifyBestEffort appends a notification to the recipient's log if one
// exists. Missing logs are not an error; notifications are advisory.
func (e *env) notifyBestEffort(ctx context.Context, key *keyring.Key, recipientDoc, senderDoc addr.Address, kind state.NotificationKind, related addr.Address) {
	metas, data, err := instruction.BuildAddNotification(
		e.runtime.Program(), recipientDoc, senderDoc, key.Address, kind, related)
	if err != nil {
		e.log.Warn("build notification", "error", err)
		return
	}
	if err := e.runtime.Execute(ctx, metas, data); err != nil {
		e.log.Debug("notification skipped", "recipient", recipientDoc, "error", err)
	}
}
