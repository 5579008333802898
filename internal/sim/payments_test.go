package sim_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/Nimos95/product-sandbox/internal/sim"
)

func defaultPaymentParams() sim.PaymentParams {
	return sim.PaymentParams{
		MinAmount:       99,
		MaxAmount:       5000,
		FirstPaymentMin: 299,
		FirstPaymentMax: 499,
		ChurnMonths:     3,
		PayRate:         0.15,
		RepeatRate:      0.30,
	}
}

func generateFixture(t *testing.T, seed int64) ([]sim.User, []sim.Payment) {
	t.Helper()
	src := sim.NewSource(seed)
	users, err := sim.GenerateUsers(defaultUserParams(2000), src)
	if err != nil {
		t.Fatalf("generate users: %v", err)
	}
	return users, sim.GeneratePayments(users, defaultPaymentParams(), src)
}

func TestGeneratePayments_Deterministic(t *testing.T) {
	_, a := generateFixture(t, 42)
	_, b := generateFixture(t, 42)

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should reproduce the payment stream exactly")
	}
}

func TestGeneratePayments_Ordering(t *testing.T) {
	users, payments := generateFixture(t, 42)
	if len(payments) == 0 {
		t.Fatal("expected payments for 2000 users at 15% pay rate")
	}

	regByID := make(map[int]time.Time, len(users))
	for _, u := range users {
		regByID[u.ID] = u.RegisteredAt
	}

	lastPaid := make(map[int]time.Time)
	for i, p := range payments {
		if p.PaymentID != i+1 {
			t.Fatalf("payment IDs must be dense from 1, got %d at index %d", p.PaymentID, i)
		}
		reg, ok := regByID[p.UserID]
		if !ok {
			t.Fatalf("payment references unknown user %d", p.UserID)
		}
		if p.PaidAt.Before(reg) {
			t.Fatalf("user %d paid at %v before registering at %v", p.UserID, p.PaidAt, reg)
		}
		if prev, seen := lastPaid[p.UserID]; seen && !p.PaidAt.After(prev) {
			t.Fatalf("user %d payments not strictly increasing in time", p.UserID)
		}
		lastPaid[p.UserID] = p.PaidAt
	}
}

func TestGeneratePayments_FirstPaymentBounds(t *testing.T) {
	users, payments := generateFixture(t, 42)

	regByID := make(map[int]time.Time, len(users))
	for _, u := range users {
		regByID[u.ID] = u.RegisteredAt
	}

	seen := make(map[int]bool)
	for _, p := range payments {
		if seen[p.UserID] {
			continue
		}
		seen[p.UserID] = true

		if p.Amount < 299 || p.Amount > 499 {
			t.Errorf("first payment %.2f outside the 299..499 first-payment range", p.Amount)
		}
		delay := p.PaidAt.Sub(regByID[p.UserID])
		if delay < 0 || delay > 30*24*time.Hour {
			t.Errorf("first payment for user %d landed %v after registration, want within 30 days", p.UserID, delay)
		}
	}
}

func TestGeneratePayments_AmountBounds(t *testing.T) {
	_, payments := generateFixture(t, 42)

	seen := make(map[int]int)
	for _, p := range payments {
		seen[p.UserID]++
		if seen[p.UserID] == 1 {
			continue // first payments have their own range
		}
		if p.Amount < 99 || p.Amount > 5000 {
			t.Errorf("repeat payment %.2f outside the 99..5000 range", p.Amount)
		}
	}
}

func TestGeneratePayments_RepeatCap(t *testing.T) {
	_, payments := generateFixture(t, 42)

	perUser := make(map[int]int)
	for _, p := range payments {
		perUser[p.UserID]++
	}
	for id, n := range perUser {
		if n > 6 {
			t.Errorf("user %d has %d payments, cap is 1 first + 5 repeats", id, n)
		}
	}
}

func TestGeneratePayments_ZeroPayRate(t *testing.T) {
	src := sim.NewSource(42)
	users, err := sim.GenerateUsers(defaultUserParams(200), src)
	if err != nil {
		t.Fatalf("generate users: %v", err)
	}

	p := defaultPaymentParams()
	p.PayRate = 0

	if got := sim.GeneratePayments(users, p, src); len(got) != 0 {
		t.Errorf("zero pay rate should yield no payments, got %d", len(got))
	}
}

func TestGeneratePayments_AllPayOnceWithoutRepeats(t *testing.T) {
	src := sim.NewSource(42)
	users, err := sim.GenerateUsers(defaultUserParams(200), src)
	if err != nil {
		t.Fatalf("generate users: %v", err)
	}

	p := defaultPaymentParams()
	p.PayRate = 1
	p.RepeatRate = 0

	payments := sim.GeneratePayments(users, p, src)
	if len(payments) != len(users) {
		t.Fatalf("expected exactly one payment per user, got %d for %d users", len(payments), len(users))
	}
}

func TestGenerate_FullScenario(t *testing.T) {
	p := sim.DefaultParams()
	p.Users = 1000

	users, payments, err := sim.Generate(p)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(users) != 1000 {
		t.Fatalf("expected 1000 users, got %d", len(users))
	}
	if len(payments) == 0 {
		t.Fatal("expected a non-empty payment stream at default rates")
	}

	users2, payments2, err := sim.Generate(p)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !reflect.DeepEqual(users, users2) || !reflect.DeepEqual(payments, payments2) {
		t.Error("fixed-seed scenarios must reproduce exactly")
	}
}
