package ledger

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

type treeLine struct {
	label string
	total string
}

// WriteTree renders the account tree with each account's total balance
// right-aligned in a single column:
//
//	ledger                 0
//	├─ assets          10000
//	│  └─ bank         10000
//	└─ income         -10000
func WriteTree(w io.Writer, root *Account) error {
	var lines []treeLine
	lines = append(lines, treeLine{label: root.name, total: root.total.String()})
	collectTree(root, "", &lines)

	labelWidth, totalWidth := 0, 0
	for _, l := range lines {
		labelWidth = max(labelWidth, runewidth.StringWidth(l.label))
		totalWidth = max(totalWidth, runewidth.StringWidth(l.total))
	}

	for _, l := range lines {
		label := runewidth.FillRight(l.label, labelWidth)
		total := runewidth.FillLeft(l.total, totalWidth)
		if _, err := fmt.Fprintf(w, "%s  %s\n", label, total); err != nil {
			return err
		}
	}
	return nil
}

func collectTree(a *Account, prefix string, lines *[]treeLine) {
	for i, child := range a.children {
		branch, extension := "├─ ", "│  "
		if i == len(a.children)-1 {
			branch, extension = "└─ ", "   "
		}
		*lines = append(*lines, treeLine{label: prefix + branch + child.name, total: child.total.String()})
		collectTree(child, prefix+extension, lines)
	}
}

// String renders the tree as WriteTree does.
func (a *Account) String() string {
	var sb strings.Builder
	_ = WriteTree(&sb, a)
	return sb.String()
}
