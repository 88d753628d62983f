package engine

import (
	"github.com/heliolabs/heliograph/internal/instruction"
	"github.com/heliolabs/heliograph/internal/ledger"
	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/errors"
)

func (e *Engine) createNotifications(inv *ledger.Invocation, in instruction.CreateNotifications) error {
	funder, err := inv.Account(0)
	if err != nil {
		return err
	}
	ownerDID, err := inv.Account(1)
	if err != nil {
		return err
	}
	ownerAuthority, err := inv.Account(2)
	if err != nil {
		return err
	}
	notifications, err := inv.Account(3)
	if err != nil {
		return err
	}

	if notifications.Exists() {
		return errors.ErrAlreadyInUse
	}
	if err := e.checkAuthorityOfDID(ownerDID, ownerAuthority); err != nil {
		return err
	}

	expected, _, err := state.DeriveNotificationsAccount(inv.Program, ownerDID.Address)
	if err != nil {
		return err
	}
	if notifications.Address != expected {
		return errors.ErrAddressDerivationMismatch
	}

	capacity := in.Capacity
	if capacity == 0 {
		capacity = state.DefaultNotificationCapacity
	}
	if err := inv.Allocate(funder, notifications, state.NotificationsSizeBytes(capacity)); err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.AccountsAllocated.WithLabelValues("notifications").Inc()
	}

	rec := state.NewNotifications(capacity)
	return notifications.WriteRecord(rec.Encode())
}

// addNotification requires only a valid sender identity. Any identity
// may notify any other; the log is advisory and its entries carry the
// sender-independent channel address the recipient should look at.
func (e *Engine) addNotification(inv *ledger.Invocation, in instruction.AddNotification) error {
	notifications, err := inv.Account(0)
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

	rec, err := state.DecodeNotifications(notifications.Data)
	if err != nil {
		return err
	}
	if !rec.IsInitialized() {
		return errors.ErrUninitializedAccount
	}
	if notifications.Owner != inv.Program {
		return errors.ErrIncorrectProgramID
	}
	if !notifications.Writable {
		return errors.ErrAccountNotWritable
	}

	if err := e.checkAuthorityOfDID(senderDID, senderAuthority); err != nil {
		return err
	}

	rec.Add(state.Notification{Kind: in.NotificationKind, Related: in.Related})
	return notifications.WriteRecord(rec.Encode())
}
