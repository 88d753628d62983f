package state

import (
	"strings"
	"testing"

	"github.com/heliolabs/heliograph/pkg/addr"
)

func TestDeriveDirectChannelSymmetric(t *testing.T) {
	program := testAddr(0xaa)
	alice := testAddr(1)
	bob := testAddr(2)

	ab, _, err := DeriveDirectChannel(program, alice, bob)
	if err != nil {
		t.Fatalf("DeriveDirectChannel: %v", err)
	}
	ba, _, err := DeriveDirectChannel(program, bob, alice)
	if err != nil {
		t.Fatalf("DeriveDirectChannel: %v", err)
	}
	if ab != ba {
		t.Errorf("direct channel not symmetric: %s vs %s", ab, ba)
	}
}

func TestDirectChannelOrder(t *testing.T) {
	lo := testAddr(1)
	hi := testAddr(2)

	a, b := DirectChannelOrder(hi, lo)
	if a != lo || b != hi {
		t.Errorf("DirectChannelOrder(hi, lo) = %s, %s", a, b)
	}
	a, b = DirectChannelOrder(lo, hi)
	if a != lo || b != hi {
		t.Errorf("DirectChannelOrder(lo, hi) = %s, %s", a, b)
	}
}

func TestDirectChannelName(t *testing.T) {
	lo := testAddr(1)
	hi := testAddr(2)

	name := DirectChannelName(hi, lo)
	want := lo.String() + "/" + hi.String()
	if name != want {
		t.Errorf("DirectChannelName = %q, want %q", name, want)
	}
	if name != DirectChannelName(lo, hi) {
		t.Error("name depends on argument order")
	}
	if !strings.Contains(name, "/") {
		t.Errorf("name %q missing separator", name)
	}
}

// Derivations under distinct seed tags must never collide, even for the
// same identity and program.
func TestDeriveFamiliesDistinct(t *testing.T) {
	program := testAddr(0xaa)
	did := testAddr(1)
	channel := testAddr(2)

	seen := map[addr.Address]string{}
	for name, derive := range map[string]func() (addr.Address, uint8, error){
		"cek":           func() (addr.Address, uint8, error) { return DeriveCEKAccount(program, did, channel) },
		"profile":       func() (addr.Address, uint8, error) { return DeriveProfileAccount(program, did) },
		"notifications": func() (addr.Address, uint8, error) { return DeriveNotificationsAccount(program, did) },
		"direct":        func() (addr.Address, uint8, error) { return DeriveDirectChannel(program, did, channel) },
	} {
		a, _, err := derive()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if prev, ok := seen[a]; ok {
			t.Errorf("%s collides with %s at %s", name, prev, a)
		}
		seen[a] = name
	}
}

func TestDeriveCEKAccountPerPair(t *testing.T) {
	program := testAddr(0xaa)
	a1, _, err := DeriveCEKAccount(program, testAddr(1), testAddr(9))
	if err != nil {
		t.Fatalf("DeriveCEKAccount: %v", err)
	}
	a2, _, err := DeriveCEKAccount(program, testAddr(2), testAddr(9))
	if err != nil {
		t.Fatalf("DeriveCEKAccount: %v", err)
	}
	a3, _, err := DeriveCEKAccount(program, testAddr(1), testAddr(8))
	if err != nil {
		t.Fatalf("DeriveCEKAccount: %v", err)
	}
	if a1 == a2 || a1 == a3 || a2 == a3 {
		t.Errorf("derivations collide: %s %s %s", a1, a2, a3)
	}
}
