package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/finsim/output"
)

// formatTimingTree outputs the timing tree in a hierarchical format.
// Example output:
//
//	Simulate: 125ms
//	├─ 2021-01-02: 1ms
//	├─ 2021-01-03: 1ms
//	└─ 363 more: 123ms
func formatTimingTree(w io.Writer, root *timerNode, styles *output.Styles, maxChildren int) {
	duration := root.end.Sub(root.start)

	if styles != nil {
		_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Keyword(root.name), formatDuration(duration))
	} else {
		_, _ = fmt.Fprintf(w, "%s: %s\n", root.name, formatDuration(duration))
	}

	formatChildren(w, root.children, "", styles, maxChildren)
}

// formatChildren lists children under prefix, folding everything past
// maxChildren into one line.
func formatChildren(w io.Writer, children []*timerNode, prefix string, styles *output.Styles, maxChildren int) {
	shown := children
	var folded []*timerNode
	if maxChildren > 0 && len(children) > maxChildren {
		shown, folded = children[:maxChildren], children[maxChildren:]
	}

	for i, child := range shown {
		isLast := i == len(shown)-1 && len(folded) == 0
		formatNode(w, child, prefix, isLast, styles, maxChildren)
	}

	if len(folded) > 0 {
		var total time.Duration
		for _, node := range folded {
			total += node.end.Sub(node.start)
		}
		formatLine(w, prefix+"└─ ", fmt.Sprintf("%d more", len(folded)), total, styles)
	}
}

// formatNode recursively formats a node and its children.
func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles, maxChildren int) {
	var branch, extension string
	if isLast {
		branch = "└─ "
		extension = "   "
	} else {
		branch = "├─ "
		extension = "│  "
	}

	formatLine(w, prefix+branch, node.name, node.end.Sub(node.start), styles)
	formatChildren(w, node.children, prefix+extension, styles, maxChildren)
}

func formatLine(w io.Writer, tree, name string, duration time.Duration, styles *output.Styles) {
	if styles == nil {
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", tree, name, formatDuration(duration))
		return
	}

	// Slow operations (>= 100ms) are highlighted.
	timing := formatDuration(duration)
	if duration >= 100*time.Millisecond {
		timing = styles.Warning(timing)
	} else {
		timing = styles.Dim(timing)
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(tree), name, timing)
}

// formatDuration formats a duration for display.
// Shows milliseconds for < 1s, seconds for >= 1s.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		ms := float64(d) / float64(time.Millisecond)
		return fmt.Sprintf("%.0fms", ms)
	}
	s := float64(d) / float64(time.Second)
	return fmt.Sprintf("%.2fs", s)
}
