package applock

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tinoosan/fintrack/internal/errs"
	"github.com/tinoosan/fintrack/internal/storage/memory"
)

func newService(t *testing.T, now *time.Time) (Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return New(store, WithCost(bcrypt.MinCost), WithClock(func() time.Time { return *now })), store
}

func TestSetEnableVerifyChange(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc, store := newService(t, &now)
	ctx := context.Background()

	if err := svc.SetEnabled(ctx, true); !errors.Is(err, errs.ErrPINRequired) {
		t.Fatalf("enabling without a PIN: expected ErrPINRequired, got %v", err)
	}
	for _, bad := range []string{"", "123", "12345", "12a4", "١٢٣٤"} {
		if err := svc.SetPIN(ctx, "", bad); !errors.Is(err, errs.ErrInvalid) {
			t.Fatalf("PIN %q: expected ErrInvalid, got %v", bad, err)
		}
	}
	if err := svc.SetPIN(ctx, "", "1234"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if hash, _, _ := store.State(ctx, keyPINHash); hash == "1234" || hash == "" {
		t.Fatalf("PIN must be stored hashed, got %q", hash)
	}
	if err := svc.SetEnabled(ctx, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if st, _ := svc.Status(ctx); !st.Enabled || !st.PINSet {
		t.Fatalf("unexpected status %+v", st)
	}
	if err := svc.Verify(ctx, "1234"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.Verify(ctx, "4321"); !errors.Is(err, errs.ErrPINMismatch) {
		t.Fatalf("expected ErrPINMismatch, got %v", err)
	}
	if err := svc.SetPIN(ctx, "0000", "5678"); !errors.Is(err, errs.ErrPINMismatch) {
		t.Fatalf("change with wrong current PIN: expected ErrPINMismatch, got %v", err)
	}
	if err := svc.SetPIN(ctx, "1234", "5678"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := svc.Verify(ctx, "5678"); err != nil {
		t.Fatalf("verify new PIN: %v", err)
	}
	if err := svc.SetEnabled(ctx, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if st, _ := svc.Status(ctx); st.Enabled || !st.PINSet {
		t.Fatalf("disabling keeps the PIN: %+v", st)
	}
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newService(t, &now)
	ctx := context.Background()
	if err := svc.SetPIN(ctx, "", "2468"); err != nil {
		t.Fatalf("set: %v", err)
	}
	for i := 0; i < MaxAttempts; i++ {
		if err := svc.Verify(ctx, "0000"); !errors.Is(err, errs.ErrPINMismatch) {
			t.Fatalf("attempt %d: expected ErrPINMismatch, got %v", i, err)
		}
	}
	if err := svc.Verify(ctx, "2468"); !errors.Is(err, errs.ErrLockedOut) {
		t.Fatalf("correct PIN during lockout: expected ErrLockedOut, got %v", err)
	}
	now = now.Add(LockoutPeriod)
	if err := svc.Verify(ctx, "2468"); err != nil {
		t.Fatalf("after lockout: %v", err)
	}
}

func TestForgetClearsPINAndDisables(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newService(t, &now)
	ctx := context.Background()
	if err := svc.SetPIN(ctx, "", "1111"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := svc.SetEnabled(ctx, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := svc.Forget(ctx); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if st, _ := svc.Status(ctx); st.Enabled || st.PINSet {
		t.Fatalf("forget should clear everything: %+v", st)
	}
	if err := svc.Verify(ctx, "1111"); !errors.Is(err, errs.ErrPINRequired) {
		t.Fatalf("expected ErrPINRequired after forget, got %v", err)
	}
	if err := svc.SetPIN(ctx, "", "2222"); err != nil {
		t.Fatalf("a new PIN needs no current PIN after forget: %v", err)
	}
}
