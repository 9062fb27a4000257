package cli

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/finsim/errors"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
	errFieldStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})

	linePattern = regexp.MustCompile(`line (\d+):`)
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
	text   *errors.TextFormatter
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source, text: errors.NewTextFormatter()}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	if line := sourceLine(err); line > 0 && r.source != nil {
		return r.renderWithSourceContext(line, err.Error())
	}

	var field interface{ GetField() string }
	if errors.As(err, &field) {
		name := field.GetField()
		message := strings.TrimPrefix(err.Error(), name+": ")
		return errFieldStyle.Render(name) + ": " + errorStyle.Render(message)
	}

	formatted := r.text.Format(err)
	message, context, found := strings.Cut(formatted, "\n")
	if !found {
		return errorStyle.Render(formatted)
	}
	return errorStyle.Render(message) + "\n" + errContextStyle.Render(context)
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// sourceLine returns the 1-based line a YAML error points at, or 0.
func sourceLine(err error) int {
	m := linePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	line, _ := strconv.Atoi(m[1])
	return line
}

func (r *ErrorRenderer) renderWithSourceContext(line int, message string) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(r.source), "\n")

	startLine := max(line-3, 0)
	endLine := min(line+1, len(sourceLines)-1)

	for i := startLine; i <= endLine; i++ {
		if i == line-1 {
			buf.WriteString(errCaretStyle.Render(" > "))
		} else {
			buf.WriteString("   ")
		}
		buf.WriteString(errContextStyle.Render(sourceLines[i]))
		buf.WriteByte('\n')
	}

	return buf.String()
}

// reportErrors writes every error in err to w in the requested format and
// returns how many there were.
func reportErrors(w io.Writer, format string, source []byte, err error) (int, error) {
	errs := errors.Flatten(err)

	if format == "json" {
		f, ferr := errors.New(format)
		if ferr != nil {
			return 0, ferr
		}
		_, _ = fmt.Fprintln(w, f.FormatAll(errs))
		return len(errs), nil
	}

	_, _ = fmt.Fprintln(w, NewErrorRenderer(source).RenderAll(errs))
	return len(errs), nil
}
