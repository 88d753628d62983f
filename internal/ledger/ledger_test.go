package ledger

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/heliolabs/heliograph/internal/ledger/physical/memory"
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
)

func testAddr(b byte) addr.Address {
	var a addr.Address
	for i := range a {
		a[i] = b
	}
	return a
}

func TestAccountExists(t *testing.T) {
	var a Account
	if a.Exists() {
		t.Error("zero account exists")
	}
	a.Lamports = 1
	if !a.Exists() {
		t.Error("funded account does not exist")
	}
	a = Account{Data: make([]byte, 8)}
	if !a.Exists() {
		t.Error("sized account does not exist")
	}
}

func TestWriteRecord(t *testing.T) {
	a := Account{Data: make([]byte, 8)}
	if err := a.WriteRecord([]byte{1, 2, 3, 4, 5, 6, 7, 8}); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if err := a.WriteRecord([]byte{9, 9}); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	// A shorter record must zero the tail left by the previous write.
	want := []byte{9, 9, 0, 0, 0, 0, 0, 0}
	for i, b := range want {
		if a.Data[i] != b {
			t.Fatalf("Data = %v, want %v", a.Data, want)
		}
	}
}

func TestWriteRecordOverflow(t *testing.T) {
	a := Account{Data: make([]byte, 4)}
	if err := a.WriteRecord(make([]byte, 5)); !stderrors.Is(err, errors.ErrOverflow) {
		t.Errorf("WriteRecord = %v, want ErrOverflow", err)
	}
}

func TestTransactionStagesOnce(t *testing.T) {
	backend := memory.New()
	defer backend.Close()
	ctx := context.Background()

	tx := Begin(backend)
	a, err := tx.Account(ctx, testAddr(1))
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	a.Lamports = 42

	again, err := tx.Account(ctx, testAddr(1))
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	if again != a {
		t.Error("second touch returned a different staged copy")
	}
}

func TestTransactionCommit(t *testing.T) {
	backend := memory.New()
	defer backend.Close()
	ctx := context.Background()

	tx := Begin(backend)
	a, err := tx.Account(ctx, testAddr(1))
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	a.Owner = testAddr(0xaa)
	a.Lamports = 42
	a.Data = []byte{1, 2, 3}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := Begin(backend).Account(ctx, testAddr(1))
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	if got.Owner != testAddr(0xaa) || got.Lamports != 42 || len(got.Data) != 3 {
		t.Errorf("reloaded account = %+v", got)
	}
}

func TestTransactionDropIsInvisible(t *testing.T) {
	backend := memory.New()
	defer backend.Close()
	ctx := context.Background()

	tx := Begin(backend)
	a, err := tx.Account(ctx, testAddr(1))
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	a.Lamports = 42
	// No commit: the mutation must not reach the backend.

	got, err := Begin(backend).Account(ctx, testAddr(1))
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	if got.Exists() {
		t.Error("dropped transaction leaked into the backend")
	}
}

func newFundedRef(lamports uint64) *AccountRef {
	return &AccountRef{
		Account:  &Account{Address: testAddr(0xf0), Lamports: lamports},
		Signer:   true,
		Writable: true,
	}
}

func testInvocation(refs ...*AccountRef) *Invocation {
	return &Invocation{
		Program:  testAddr(0xaa),
		Accounts: refs,
		Clock:    FixedClock(1000),
		Rent:     Rent{LamportsPerByte: 1, BaseLamports: 10},
	}
}

func TestAllocate(t *testing.T) {
	funder := newFundedRef(1000)
	target := &AccountRef{Account: &Account{Address: testAddr(1)}, Writable: true}
	inv := testInvocation(funder, target)

	if err := inv.Allocate(funder, target, 32); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if target.Owner != inv.Program {
		t.Errorf("Owner = %s, want program", target.Owner)
	}
	if len(target.Data) != 32 {
		t.Errorf("len(Data) = %d, want 32", len(target.Data))
	}
	need := inv.Rent.MinimumBalance(32)
	if target.Lamports != need || funder.Lamports != 1000-need {
		t.Errorf("lamports: funder %d target %d, rent %d", funder.Lamports, target.Lamports, need)
	}
}

func TestAllocateAlreadyInitialized(t *testing.T) {
	funder := newFundedRef(1000)
	target := &AccountRef{Account: &Account{Address: testAddr(1), Lamports: 1}, Writable: true}
	inv := testInvocation(funder, target)

	if err := inv.Allocate(funder, target, 32); !stderrors.Is(err, errors.ErrAccountAlreadyInitialized) {
		t.Errorf("Allocate = %v, want ErrAccountAlreadyInitialized", err)
	}
}

func TestAllocateFunderMustSign(t *testing.T) {
	funder := newFundedRef(1000)
	funder.Signer = false
	target := &AccountRef{Account: &Account{Address: testAddr(1)}, Writable: true}
	inv := testInvocation(funder, target)

	if err := inv.Allocate(funder, target, 32); !stderrors.Is(err, errors.ErrMissingRequiredSignature) {
		t.Errorf("Allocate = %v, want ErrMissingRequiredSignature", err)
	}
}

func TestAllocateTargetMustBeWritable(t *testing.T) {
	funder := newFundedRef(1000)
	target := &AccountRef{Account: &Account{Address: testAddr(1)}}
	inv := testInvocation(funder, target)

	if err := inv.Allocate(funder, target, 32); !stderrors.Is(err, errors.ErrAccountNotWritable) {
		t.Errorf("Allocate = %v, want ErrAccountNotWritable", err)
	}
}

func TestAllocateInsufficientFunds(t *testing.T) {
	funder := newFundedRef(1)
	target := &AccountRef{Account: &Account{Address: testAddr(1)}, Writable: true}
	inv := testInvocation(funder, target)

	if err := inv.Allocate(funder, target, 32); !stderrors.Is(err, errors.ErrInsufficientFunds) {
		t.Errorf("Allocate = %v, want ErrInsufficientFunds", err)
	}
}

func TestInvocationAccountBounds(t *testing.T) {
	inv := testInvocation(newFundedRef(0))
	if _, err := inv.Account(0); err != nil {
		t.Errorf("Account(0): %v", err)
	}
	if _, err := inv.Account(1); !stderrors.Is(err, errors.ErrNotEnoughAccounts) {
		t.Errorf("Account(1) = %v, want ErrNotEnoughAccounts", err)
	}
}

func TestRentMinimumBalanceNeverZero(t *testing.T) {
	if got := (Rent{}).MinimumBalance(0); got == 0 {
		t.Error("zero rent rule yields zero balance")
	}
	if got := DefaultRent.MinimumBalance(0); got != DefaultRent.BaseLamports {
		t.Errorf("MinimumBalance(0) = %d, want %d", got, DefaultRent.BaseLamports)
	}
	want := DefaultRent.BaseLamports + 10*DefaultRent.LamportsPerByte
	if got := DefaultRent.MinimumBalance(10); got != want {
		t.Errorf("MinimumBalance(10) = %d, want %d", got, want)
	}
}

func TestSteppingClock(t *testing.T) {
	c := &SteppingClock{Now: 100}
	a, b := c.UnixTimestamp(), c.UnixTimestamp()
	if a != 101 || b != 102 {
		t.Errorf("ticks = %d, %d", a, b)
	}
}

type failingProcessor struct {
	touched addr.Address
}

func (p *failingProcessor) Process(_ context.Context, inv *Invocation) error {
	ref, err := inv.Account(0)
	if err != nil {
		return err
	}
	ref.Lamports = 999
	ref.Data = []byte{1, 2, 3}
	p.touched = ref.Address
	return errors.ErrIncorrectAuthority
}

func TestRuntimeExecuteRollsBackOnError(t *testing.T) {
	backend := memory.New()
	defer backend.Close()
	ctx := context.Background()

	proc := &failingProcessor{}
	rt := NewRuntime(testAddr(0xaa), backend, proc, FixedClock(0), DefaultRent, nil)

	metas := []AccountMeta{{Address: testAddr(1), Signer: true, Writable: true}}
	if err := rt.Execute(ctx, metas, nil); !stderrors.Is(err, errors.ErrIncorrectAuthority) {
		t.Fatalf("Execute = %v, want ErrIncorrectAuthority", err)
	}

	got, err := rt.View(ctx, proc.touched)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if got.Exists() {
		t.Error("failed invocation left a mutation behind")
	}
}

type fundingProcessor struct{}

func (fundingProcessor) Process(_ context.Context, inv *Invocation) error {
	funder, err := inv.Account(0)
	if err != nil {
		return err
	}
	target, err := inv.Account(1)
	if err != nil {
		return err
	}
	if err := inv.Allocate(funder, target, 16); err != nil {
		return err
	}
	return target.WriteRecord([]byte("hello"))
}

func TestRuntimeExecuteCommits(t *testing.T) {
	backend := memory.New()
	defer backend.Close()
	ctx := context.Background()

	rt := NewRuntime(testAddr(0xaa), backend, fundingProcessor{}, FixedClock(0), DefaultRent, nil)
	if err := rt.Fund(ctx, testAddr(0xf0), 10_000_000); err != nil {
		t.Fatalf("Fund: %v", err)
	}

	metas := []AccountMeta{
		{Address: testAddr(0xf0), Signer: true, Writable: true},
		{Address: testAddr(1), Writable: true},
	}
	if err := rt.Execute(ctx, metas, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got, err := rt.View(ctx, testAddr(1))
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if got.Owner != testAddr(0xaa) || len(got.Data) != 16 || string(got.Data[:5]) != "hello" {
		t.Errorf("allocated account = %+v", got)
	}

	// Allocate-once: re-running the same instruction must fail and leave
	// the committed state untouched.
	if err := rt.Execute(ctx, metas, nil); !stderrors.Is(err, errors.ErrAccountAlreadyInitialized) {
		t.Errorf("second Execute = %v, want ErrAccountAlreadyInitialized", err)
	}
}
