package settlement

import "errors"

var (
	ErrSymbolRequired     = errors.New("You must provide a symbol")
	ErrInvalidShares      = errors.New("The number of shares must be a positive integer")
	ErrInsufficientCash   = errors.New("You need to provide more cash")
	ErrStockNotOwned      = errors.New("You don't own that stock")
	ErrInsufficientShares = errors.New("You don't own that many shares")
	ErrInvalidDeposit     = errors.New("Cash must be a positive integer")
	ErrUserNotFound       = errors.New("User not found")

	// ErrCorruptLedger signals an invariant violation (e.g. a holding about
	// to go negative). It must never occur in correct operation; the
	// surrounding transaction is rolled back.
	ErrCorruptLedger = errors.New("Ledger state is corrupt")
)
