package instrument

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
)

// ErrNonPositiveAmount is wrapped by every *AmountError.
var ErrNonPositiveAmount = errors.New("amount must be positive")

// AmountError is returned when a deposit or withdrawal is not positive.
type AmountError struct {
	Date   date.Date
	Kind   string
	Amount decimal.Decimal
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("%s: %s of %s: %s", e.Date, e.Kind, e.Amount, ErrNonPositiveAmount)
}

func (e *AmountError) Unwrap() error { return ErrNonPositiveAmount }

func (e *AmountError) GetDate() date.Date { return e.Date }
