// Package errors provides error formatting infrastructure for simulation errors.
// It separates error formatting from domain logic, allowing errors to be rendered in
// multiple formats (text, JSON) for different consumers (CLI, scripts).
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: Formats errors for command-line output with their context
//   - JSONFormatter: Formats errors as structured JSON
//
// Domain-specific error types remain in their respective packages (e.g., ledger),
// while this package handles the presentation layer.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/ledger"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// New returns the formatter for the named format, "text" or "json".
func New(format string) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTextFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown error format %q", format)
	}
}

// Flatten expands errors that wrap a list of errors, such as validation
// errors, into their members.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var errs []error
		for _, e := range multi.Unwrap() {
			errs = append(errs, Flatten(e)...)
		}
		return errs
	}
	return []error{err}
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	indent int
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithIndent sets the indentation of context lines below the message.
func WithIndent(n int) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.indent = n
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{indent: 3}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error followed by the context it carries.
func (tf *TextFormatter) Format(err error) string {
	if errs := Flatten(err); len(errs) > 1 {
		return tf.FormatAll(errs)
	}

	var unbalanced *ledger.UnbalancedTransactionError
	if As(err, &unbalanced) {
		return tf.formatTransaction(err.Error(), unbalanced)
	}

	var fixedPoint *engine.FixedPointError
	if As(err, &fixedPoint) {
		return tf.formatPending(err.Error(), fixedPoint.Pending)
	}

	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))

		// Add blank line between errors (but not after the last one)
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// formatTransaction writes the offending transaction below the message, one
// change per line with amounts aligned.
func (tf *TextFormatter) formatTransaction(message string, e *ledger.UnbalancedTransactionError) string {
	var buf bytes.Buffer
	indent := strings.Repeat(" ", tf.indent)

	buf.WriteString(message)
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, "%s%s %q\n", indent, e.Date, e.Description)

	width := 0
	for _, c := range e.Changes {
		width = max(width, runewidth.StringWidth(c.Path.String()))
	}
	for _, c := range e.Changes {
		fmt.Fprintf(&buf, "%s  %s  %s\n", indent, runewidth.FillRight(c.Path.String(), width), c.Amount.String())
	}

	return strings.TrimRight(buf.String(), "\n")
}

// formatPending lists the sources of events that were still pending.
func (tf *TextFormatter) formatPending(message string, pending []engine.Event) string {
	var buf bytes.Buffer
	indent := strings.Repeat(" ", tf.indent)

	buf.WriteString(message)
	buf.WriteString("\n\n")
	for _, e := range pending {
		fmt.Fprintf(&buf, "%sfrom %s: %T\n", indent, e.Source.String(), e.Payload)
	}

	return strings.TrimRight(buf.String(), "\n")
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	errJSON := jf.toJSON(err)
	data, _ := json.Marshal(errJSON)
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	jsonErrors := jf.FormatAllToSlice(errs)
	data, _ := json.MarshalIndent(jsonErrors, "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		for _, e := range Flatten(err) {
			result = append(result, jf.toJSON(e))
		}
	}
	return result
}

// toJSON converts an error to ErrorJSON. Details are collected from the
// first error in the chain that provides them.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Details: make(map[string]interface{}),
	}

	var dated interface{ GetDate() date.Date }
	if As(err, &dated) {
		errJSON.Details["date"] = dated.GetDate().String()
	}

	var account interface{ GetAccount() string }
	if As(err, &account) {
		errJSON.Details["account"] = account.GetAccount()
	}

	var field interface{ GetField() string }
	if As(err, &field) {
		errJSON.Details["field"] = field.GetField()
	}

	var unroutable *engine.UnroutableActionError
	if As(err, &unroutable) {
		errJSON.Details["source"] = unroutable.Action.Source.String()
		errJSON.Details["destination"] = unroutable.Action.Destination.String()
	}

	if len(errJSON.Details) == 0 {
		errJSON.Details = nil
	}
	return errJSON
}
