package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
)

var (
	// ErrUnbalanced is wrapped by every *UnbalancedTransactionError.
	ErrUnbalanced = errors.New("credits and debits do not balance")

	// ErrAuditMismatch is wrapped by every *AuditError.
	ErrAuditMismatch = errors.New("journal does not reproduce ledger")
)

// UnbalancedTransactionError is returned when a transaction's changes do not
// sum to zero.
type UnbalancedTransactionError struct {
	Date        date.Date
	Description string
	Sum         decimal.Decimal
	Changes     []Change
}

func (e *UnbalancedTransactionError) Error() string {
	return fmt.Sprintf("%s: transaction %q does not balance, changes sum to %s", e.Date, e.Description, e.Sum)
}

func (e *UnbalancedTransactionError) Unwrap() error { return ErrUnbalanced }

func (e *UnbalancedTransactionError) GetDate() date.Date { return e.Date }

// AuditError reports the first account where replaying the journal diverges
// from the ledger.
type AuditError struct {
	Path Path
	Want decimal.Decimal
	Got  decimal.Decimal
}

func (e *AuditError) Error() string {
	account := e.Path.String()
	if account == "" {
		account = "(root)"
	}
	return fmt.Sprintf("account %s: ledger holds %s but journal replays to %s", account, e.Want, e.Got)
}

func (e *AuditError) Unwrap() error { return ErrAuditMismatch }

func (e *AuditError) GetAccount() string { return e.Path.String() }
