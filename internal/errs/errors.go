package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
    ErrNotFound = errors.New("not_found")
    ErrConflict = errors.New("conflict")
    ErrInvalid  = errors.New("invalid")
    // ErrNameExists is returned when a category or payment method name is already taken
    ErrNameExists = errors.New("name_exists")
)

// Transaction editor rejections. Each one is terminal: nothing is committed.
var (
    ErrInvalidAmount                  = errors.New("invalid_amount")
    ErrInvalidType                    = errors.New("invalid_type")
    ErrMissingCategoryOrPaymentMethod = errors.New("missing_category_or_payment_method")
    ErrMissingTransferAccount         = errors.New("missing_transfer_account")
    ErrSameAccountTransfer            = errors.New("same_account_transfer")
    ErrInsufficientFunds              = errors.New("insufficient_funds")
)

// ErrInvalidBackup indicates an import document that cannot be restored.
var ErrInvalidBackup = errors.New("invalid_backup")

// App lock and demo mode.
var (
    ErrPINRequired = errors.New("pin_required")
    ErrPINMismatch = errors.New("pin_mismatch")
    ErrLockedOut   = errors.New("locked_out")
    ErrDemoActive  = errors.New("demo_mode_active")
)

// Code returns the stable code string for a known sentinel, or "" when err matches none.
func Code(err error) string {
    for _, e := range []error{
        ErrInvalidAmount, ErrInvalidType, ErrMissingCategoryOrPaymentMethod,
        ErrMissingTransferAccount, ErrSameAccountTransfer, ErrInsufficientFunds,
        ErrInvalidBackup, ErrPINRequired, ErrPINMismatch, ErrLockedOut, ErrDemoActive,
        ErrNameExists, ErrNotFound, ErrConflict, ErrInvalid,
    } {
        if errors.Is(err, e) {
            return e.Error()
        }
    }
    return ""
}
