package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ChristianF88/fjsort/steps"
	"github.com/rivo/tview"
)

// stageColors maps each stage to the tview color its title is drawn in.
var stageColors = map[steps.Stage]string{
	steps.StageInitial:        "white",
	steps.StagePairing:        "mediumpurple",
	steps.StageSeparation:     "slateblue",
	steps.StageRecursiveStart: "dodgerblue",
	steps.StageRecursiveDone:  "dodgerblue",
	steps.StageInsertionStart: "darkorange",
	steps.StageJacobsthalInfo: "yellow",
	steps.StageInsertion:      "green",
	steps.StageComplete:       "lime",
}

func stageColor(stage steps.Stage) string {
	if c, ok := stageColors[stage]; ok {
		return c
	}
	return "white"
}

func stageTitle(stage steps.Stage) string {
	return strings.ToUpper(strings.ReplaceAll(string(stage), "-", " "))
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// RenderStep draws one recorded step as tview-tagged text.
func RenderStep(step steps.Step[float64]) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s::b]%s[-::-]", stageColor(step.Stage), stageTitle(step.Stage))
	if step.Depth > 0 {
		fmt.Fprintf(&b, " [gray](depth %d)[-]", step.Depth)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "[white]%s[-]\n", tview.Escape(step.Description))
	fmt.Fprintf(&b, "[gray]Comparisons so far:[-] [::b]%d[::-]\n\n", step.Comparisons)

	if info := step.Jacobsthal; info != nil {
		b.WriteString("[yellow::b]Jacobsthal Number Info[-::-]\n")
		fmt.Fprintf(&b, "[yellow]  J(%d) = %d, J(%d) = %d\n", info.Index, info.Current, info.Index-1, info.Previous)
		fmt.Fprintf(&b, "  Inserting indices from %d down to %d[-]\n\n", info.High, info.Low)
	}

	if step.Stage == steps.StageInitial && len(step.Array) > 0 {
		b.WriteString("[::b]Input[::-]\n")
		b.WriteString(renderArray(step.Array, "white"))
		b.WriteString("\n\n")
	}

	if len(step.Pairs) > 0 || step.Extra != nil {
		b.WriteString("[::b]Pairs (smaller → larger)[::-]\n")
		b.WriteString(renderPairs(step.Pairs, step.Extra))
		b.WriteString("\n\n")
	}

	if len(step.MainChain) > 0 && !step.Sorted {
		b.WriteString("[::b]Main Chain[::-]\n")
		b.WriteString(renderMainChain(step.MainChain, step.InsertPosition))
		b.WriteString("\n\n")
	}

	if len(step.PendChain) > 0 && !step.Sorted {
		b.WriteString("[::b]Pend Chain[::-]\n")
		b.WriteString(renderPendChain(step.PendChain, step.Highlight, step.Inserted))
		b.WriteString("\n\n")
	}

	if step.Sorted {
		b.WriteString("[lime::b]✓ Sorted Array Complete![-::-]\n")
		b.WriteString(renderArray(step.Array, "lime"))
		b.WriteString("\n")
		if len(step.JacobsthalSequence) > 0 {
			fmt.Fprintf(&b, "[gray]Jacobsthal numbers used: %s[-]\n", joinInts(step.JacobsthalSequence))
		}
	}

	return b.String()
}

func renderArray(values []float64, color string) string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = fmt.Sprintf("[black:%s:b] %s [-:-:-]", color, formatValue(v))
	}
	return strings.Join(cells, " ")
}

func renderPairs(pairs [][2]float64, extra *float64) string {
	cells := make([]string, 0, len(pairs)+1)
	for _, p := range pairs {
		cells = append(cells, fmt.Sprintf("[mediumpurple]%s → [::b]%s[::-][-]", formatValue(p[0]), formatValue(p[1])))
	}
	if extra != nil {
		cells = append(cells, fmt.Sprintf("[darkorange::b]%s[::-] (odd)[-]", formatValue(*extra)))
	}
	return strings.Join(cells, "   ")
}

// renderMainChain marks the element at pos, the one placed by the current
// insertion.
func renderMainChain(chain []float64, pos *int) string {
	cells := make([]string, len(chain))
	for i, v := range chain {
		if pos != nil && *pos == i {
			cells[i] = fmt.Sprintf("[black:green:b]>%s<[-:-:-]", formatValue(v))
			continue
		}
		cells[i] = fmt.Sprintf("[white:dodgerblue:b] %s [-:-:-]", formatValue(v))
	}
	return strings.Join(cells, " ")
}

// renderPendChain colors highlighted entries green, inserted ones gray and
// waiting ones orange, each prefixed with its pend index.
func renderPendChain(pend []float64, highlight []int, inserted []bool) string {
	lit := make(map[int]bool, len(highlight))
	for _, i := range highlight {
		lit[i] = true
	}
	cells := make([]string, len(pend))
	for i, v := range pend {
		switch {
		case lit[i]:
			cells[i] = fmt.Sprintf("[gray]%d[-][black:green:b]>%s<[-:-:-]", i, formatValue(v))
		case i < len(inserted) && inserted[i]:
			cells[i] = fmt.Sprintf("[gray]%d[-][black:gray] %s [-:-:-]", i, formatValue(v))
		default:
			cells[i] = fmt.Sprintf("[gray]%d[-][white:darkorange:b] %s [-:-:-]", i, formatValue(v))
		}
	}
	return strings.Join(cells, " ")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
