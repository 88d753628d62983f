package memory

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/heliolabs/heliograph/internal/ledger/physical"
)

func TestPutGet(t *testing.T) {
	b := New()
	defer b.Close()
	ctx := context.Background()

	if err := b.Put(ctx, []byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := b.Get(ctx, []byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestGetMissing(t *testing.T) {
	b := New()
	defer b.Close()

	if _, err := b.Get(context.Background(), []byte("nope")); !stderrors.Is(err, physical.ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
}

func TestPutBatch(t *testing.T) {
	b := New()
	defer b.Close()
	ctx := context.Background()

	pairs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := b.PutBatch(ctx, pairs); err != nil {
		t.Fatalf("PutBatch: %v", err)
	}
	for k, want := range pairs {
		got, err := b.Get(ctx, []byte(k))
		if err != nil {
			t.Fatalf("Get %q: %v", k, err)
		}
		if string(got) != string(want) {
			t.Errorf("Get %q = %q, want %q", k, got, want)
		}
	}
}

func TestGetReturnsCopy(t *testing.T) {
	b := New()
	defer b.Close()
	ctx := context.Background()

	if err := b.Put(ctx, []byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _ := b.Get(ctx, []byte("k"))
	got[0] = 'x'

	again, _ := b.Get(ctx, []byte("k"))
	if string(again) != "v" {
		t.Error("mutating a returned value changed the stored value")
	}
}

func TestClosed(t *testing.T) {
	b := New()
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := b.Get(context.Background(), []byte("k")); !stderrors.Is(err, physical.ErrClosed) {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
	if err := b.Put(context.Background(), []byte("k"), nil); !stderrors.Is(err, physical.ErrClosed) {
		t.Errorf("Put after Close = %v, want ErrClosed", err)
	}
}
