// Package applock guards the app behind a 4-digit PIN. Only a bcrypt hash of the
// PIN is stored, next to the enabled flag, in device state outside the dataset.
package applock

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "golang.org/x/crypto/bcrypt"

    "github.com/tinoosan/fintrack/internal/errs"
)

const (
    keyPINHash = "applock.pinHash"
    keyEnabled = "applock.enabled"

    // MaxAttempts consecutive wrong PINs start a lockout of LockoutPeriod.
    MaxAttempts   = 5
    LockoutPeriod = time.Minute
)

// Store holds device-level key/value state.
type Store interface {
    State(ctx context.Context, key string) (string, bool, error)
    PutState(ctx context.Context, key, value string) error
    DeleteState(ctx context.Context, key string) error
}

type Status struct {
    Enabled bool `json:"enabled"`
    PINSet  bool `json:"pinSet"`
}

type Service interface {
    Status(ctx context.Context) (Status, error)
    // SetPIN stores the first PIN, or replaces the current one after checking current.
    SetPIN(ctx context.Context, current, pin string) error
    // SetEnabled turns the lock on or off. Turning it on needs a PIN.
    SetEnabled(ctx context.Context, enabled bool) error
    // Verify checks pin against the stored hash.
    Verify(ctx context.Context, pin string) error
    // Forget clears the PIN and turns the lock off.
    Forget(ctx context.Context) error
}

type Option func(*service)

// WithCost sets the bcrypt cost used for new hashes.
func WithCost(cost int) Option { return func(s *service) { s.cost = cost } }

func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

type service struct {
    store Store
    cost  int
    now   func() time.Time

    mu          sync.Mutex // serializes PIN checks and changes
    failures    int
    lockedUntil time.Time
}

func New(store Store, opts ...Option) Service {
    s := &service{store: store, cost: bcrypt.DefaultCost, now: time.Now}
    for _, o := range opts { o(s) }
    return s
}

// ValidPIN reports whether pin is exactly four ASCII digits.
func ValidPIN(pin string) bool {
    if len(pin) != 4 { return false }
    for i := 0; i < len(pin); i++ {
        if pin[i] < '0' || pin[i] > '9' { return false }
    }
    return true
}

func (s *service) Status(ctx context.Context) (Status, error) {
    hash, set, err := s.store.State(ctx, keyPINHash)
    if err != nil { return Status{}, err }
    enabled, _, err := s.store.State(ctx, keyEnabled)
    if err != nil { return Status{}, err }
    set = set && hash != ""
    return Status{Enabled: set && enabled == "true", PINSet: set}, nil
}

func (s *service) SetPIN(ctx context.Context, current, pin string) error {
    if !ValidPIN(pin) { return fmt.Errorf("PIN must be 4 digits: %w", errs.ErrInvalid) }
    s.mu.Lock()
    defer s.mu.Unlock()
    hash, set, err := s.store.State(ctx, keyPINHash)
    if err != nil { return err }
    if set && hash != "" {
        if err := s.checkLocked(hash, current); err != nil { return err }
    }
    next, err := bcrypt.GenerateFromPassword([]byte(pin), s.cost)
    if err != nil { return err }
    return s.store.PutState(ctx, keyPINHash, string(next))
}

func (s *service) SetEnabled(ctx context.Context, enabled bool) error {
    if enabled {
        st, err := s.Status(ctx)
        if err != nil { return err }
        if !st.PINSet { return fmt.Errorf("set a PIN before enabling the lock: %w", errs.ErrPINRequired) }
    }
    return s.store.PutState(ctx, keyEnabled, fmt.Sprint(enabled))
}

func (s *service) Verify(ctx context.Context, pin string) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    hash, set, err := s.store.State(ctx, keyPINHash)
    if err != nil { return err }
    if !set || hash == "" { return fmt.Errorf("no PIN is set: %w", errs.ErrPINRequired) }
    return s.checkLocked(hash, pin)
}

func (s *service) Forget(ctx context.Context) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if err := s.store.DeleteState(ctx, keyPINHash); err != nil { return err }
    s.failures, s.lockedUntil = 0, time.Time{}
    return s.store.PutState(ctx, keyEnabled, "false")
}

// checkLocked compares pin with hash and counts failures. s.mu must be held.
func (s *service) checkLocked(hash, pin string) error {
    now := s.now()
    if now.Before(s.lockedUntil) {
        return fmt.Errorf("too many wrong PINs, retry after %s: %w", s.lockedUntil.Sub(now).Round(time.Second), errs.ErrLockedOut)
    }
    err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
    if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
        s.failures++
        if s.failures >= MaxAttempts {
            s.failures = 0
            s.lockedUntil = now.Add(LockoutPeriod)
        }
        return fmt.Errorf("incorrect PIN: %w", errs.ErrPINMismatch)
    }
    if err != nil { return err }
    s.failures = 0
    return nil
}
