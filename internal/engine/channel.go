package engine

import (
	"github.com/heliolabs/heliograph/internal/instruction"
	"github.com/heliolabs/heliograph/internal/ledger"
	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/errors"
)

// claimChannelSlot prepares the channel account for its one-time
// initialization. A fresh slot is allocated from the funder; a
// pre-allocated slot must belong to this engine and still hold an
// uninitialized record.
func claimChannelSlot(inv *ledger.Invocation, funder, channel *ledger.AccountRef) error {
	if !channel.Exists() {
		return inv.Allocate(funder, channel, state.ChannelSizeBytes())
	}
	if channel.Owner != inv.Program {
		return errors.ErrIncorrectProgramID
	}
	if !channel.Writable {
		return errors.ErrAccountNotWritable
	}
	rec, err := state.DecodeChannel(channel.Data)
	if err != nil {
		return err
	}
	if rec.IsInitialized() {
		return errors.ErrAlreadyInUse
	}
	return nil
}

func (e *Engine) initializeChannel(inv *ledger.Invocation, in instruction.InitializeChannel) error {
	funder, err := inv.Account(0)
	if err != nil {
		return err
	}
	channel, err := inv.Account(1)
	if err != nil {
		return err
	}
	creatorDID, err := inv.Account(2)
	if err != nil {
		return err
	}
	creatorAuthority, err := inv.Account(3)
	if err != nil {
		return err
	}
	creatorCEK, err := inv.Account(4)
	if err != nil {
		return err
	}

	if in.Name == "" {
		return errors.ErrInvalidInstructionData
	}
	if len(in.Name) > state.MaxChannelNameSize {
		return errors.ErrOverflow
	}

	if err := claimChannelSlot(inv, funder, channel); err != nil {
		return err
	}
	if err := e.checkAuthorityOfDID(creatorDID, creatorAuthority); err != nil {
		return err
	}
	if err := e.createCEKAccount(inv, funder, creatorCEK, creatorDID.Address, channel.Address, in.CEK); err != nil {
		return err
	}

	rec := state.NewChannel(in.Name)
	return channel.WriteRecord(rec.Encode())
}

func (e *Engine) initializeDirectChannel(inv *ledger.Invocation, in instruction.InitializeDirectChannel) error {
	funder, err := inv.Account(0)
	if err != nil {
		return err
	}
	channel, err := inv.Account(1)
	if err != nil {
		return err
	}
	creatorDID, err := inv.Account(2)
	if err != nil {
		return err
	}
	creatorAuthority, err := inv.Account(3)
	if err != nil {
		return err
	}
	creatorCEK, err := inv.Account(4)
	if err != nil {
		return err
	}
	inviteeDID, err := inv.Account(5)
	if err != nil {
		return err
	}
	inviteeCEK, err := inv.Account(6)
	if err != nil {
		return err
	}

	// A direct channel lives at the address derived from its two
	// participants, so either party attempting to re-create it lands on
	// the same slot.
	expected, _, err := state.DeriveDirectChannel(inv.Program, creatorDID.Address, inviteeDID.Address)
	if err != nil {
		return err
	}
	if channel.Address != expected {
		return errors.ErrAddressDerivationMismatch
	}
	if channel.Exists() {
		return errors.ErrAlreadyInUse
	}

	if err := e.checkAuthorityOfDID(creatorDID, creatorAuthority); err != nil {
		return err
	}

	if err := e.createCEKAccount(inv, funder, creatorCEK, creatorDID.Address, channel.Address, in.CreatorCEK); err != nil {
		return err
	}
	if err := e.createCEKAccount(inv, funder, inviteeCEK, inviteeDID.Address, channel.Address, in.InviteeCEK); err != nil {
		return err
	}

	if err := inv.Allocate(funder, channel, state.ChannelSizeBytes()); err != nil {
		return err
	}
	rec := state.NewChannel(state.DirectChannelName(creatorDID.Address, inviteeDID.Address))
	return channel.WriteRecord(rec.Encode())
}

func (e *Engine) post(inv *ledger.Invocation, in instruction.Post) error {
	channel, err := inv.Account(0)
	if err != nil {
		return err
	}
	senderDID, err := inv.Account(1)
	if err != nil {
		return err
	}
	senderAuthority, err := inv.Account(2)
	if err != nil {
		return err
	}
	senderCEK, err := inv.Account(3)
	if err != nil {
		return err
	}

	if len(in.Message) > state.MaxMessageSize {
		return errors.ErrOverflow
	}

	rec, err := state.DecodeChannel(channel.Data)
	if err != nil {
		return err
	}
	if !rec.IsInitialized() {
		return errors.ErrUninitializedAccount
	}
	if !channel.Writable {
		return errors.ErrAccountNotWritable
	}

	if _, err := e.checkAuthorityOfCEK(inv, senderAuthority, senderDID, senderCEK); err != nil {
		return err
	}
	if err := checkCEKAccountForChannel(inv, senderCEK, channel); err != nil {
		return err
	}

	rec.Post(state.Message{
		Timestamp: inv.Clock.UnixTimestamp(),
		Sender:    senderDID.Address,
		Content:   in.Message,
	})
	if err := channel.WriteRecord(rec.Encode()); err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.MessagesPosted.Inc()
	}
	return nil
}

func (e *Engine) addToChannel(inv *ledger.Invocation, in instruction.AddToChannel) error {
	funder, err := inv.Account(0)
	if err != nil {
		return err
	}
	inviteeDID, err := inv.Account(1)
	if err != nil {
		return err
	}
	inviterDID, err := inv.Account(2)
	if err != nil {
		return err
	}
	inviterAuthority, err := inv.Account(3)
	if err != nil {
		return err
	}
	inviterCEK, err := inv.Account(4)
	if err != nil {
		return err
	}
	inviteeCEK, err := inv.Account(5)
	if err != nil {
		return err
	}
	channel, err := inv.Account(6)
	if err != nil {
		return err
	}

	// Only an existing member may extend membership.
	if err := checkCEKAccountForChannel(inv, inviterCEK, channel); err != nil {
		return err
	}
	if _, err := e.checkAuthorityOfCEK(inv, inviterAuthority, inviterDID, inviterCEK); err != nil {
		return err
	}

	return e.createCEKAccount(inv, funder, inviteeCEK, inviteeDID.Address, channel.Address, in.CEK)
}
