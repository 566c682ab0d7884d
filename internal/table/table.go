// Package table renders interpreted sensor readings as grouped plain-text
// tables. Grouping follows the sensor-type path segment; the "last group
// printed" marker lives here, not in the interpreter, so a header is
// emitted exactly once per group transition and survives watch-mode
// refreshes.
package table

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/sensors"
)

// Layout selects the column set and widths of one table flavor. Numeric
// columns are padded and truncated to a fixed width so rows stay aligned
// across refreshes.
type Layout struct {
	NameWidth      int
	StatusWidth    int
	ValueWidth     int
	UnitWidth      int
	ThresholdWidth int
	ShowFatal      bool // include the FatalHigh column
}

// List is the layout of the one-shot listing.
var List = Layout{
	NameWidth:      16,
	StatusWidth:    8,
	ValueWidth:     9,
	UnitWidth:      7,
	ThresholdWidth: 8,
}

// Watch is the layout of watch mode; it adds the fatal threshold column.
var Watch = Layout{
	NameWidth:      16,
	StatusWidth:    8,
	ValueWidth:     9,
	UnitWidth:      7,
	ThresholdWidth: 8,
	ShowFatal:      true,
}

// Printer writes grouped sensor rows to w. Rows accumulate per group and
// are rendered when the group changes or Flush is called. Printer is not
// safe for concurrent use; the application serializes access through its
// snapshot pipeline.
type Printer struct {
	w      io.Writer
	layout Layout

	group      string
	hasGroup   bool
	newSection bool
	rows       []table.Row
}

// NewPrinter returns a printer writing tables in the given layout to w.
func NewPrinter(w io.Writer, layout Layout) *Printer {
	return &Printer{w: w, layout: layout}
}

// Add queues one reading. When the reading's type segment differs from the
// previous one, the pending group is rendered first and a new header block
// begins. The marker persists across Flush calls, so a refresh that starts
// in the same group continues under the existing header.
func (p *Printer) Add(r sensors.Reading) {
	group := sensors.TypeSegment(r.Path)
	if !p.hasGroup || group != p.group {
		p.render()
		p.group = group
		p.hasGroup = true
		p.newSection = true
	}

	row := table.Row{
		sensors.Name(r.Path),
		r.View.Status.String(),
		r.View.Value,
		r.View.Unit,
		r.View.CriticalLow,
		r.View.WarningLow,
		r.View.WarningHigh,
		r.View.CriticalHigh,
	}
	if p.layout.ShowFatal {
		row = append(row, r.View.FatalHigh)
	}
	p.rows = append(p.rows, row)
}

// Flush renders any pending rows. The group marker is kept so a subsequent
// refresh starting in the same group does not repeat the header.
func (p *Printer) Flush() {
	p.render()
}

func (p *Printer) render() {
	if len(p.rows) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.w)

	header := table.Row{"NAME", "STATUS", "VALUE", "UNIT", "CRIT-LO", "WARN-LO", "WARN-HI", "CRIT-HI"}
	if p.layout.ShowFatal {
		header = append(header, "FATAL-HI")
	}
	if p.newSection {
		fmt.Fprintf(p.w, "%s:\n", p.group)
		t.AppendHeader(header)
		p.newSection = false
	}
	t.AppendRows(p.rows)

	style := table.StyleDefault
	style.Options = table.OptionsNoBordersAndSeparators
	t.SetStyle(style)

	configs := []table.ColumnConfig{
		{Number: 1, WidthMin: p.layout.NameWidth, WidthMax: p.layout.NameWidth},
		{Number: 2, WidthMin: p.layout.StatusWidth, WidthMax: p.layout.StatusWidth},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignRight,
			WidthMin: p.layout.ValueWidth, WidthMax: p.layout.ValueWidth},
		{Number: 4, WidthMin: p.layout.UnitWidth, WidthMax: p.layout.UnitWidth},
	}
	for col := 5; col <= len(header); col++ {
		configs = append(configs, table.ColumnConfig{
			Number: col, Align: text.AlignRight, AlignHeader: text.AlignRight,
			WidthMin: p.layout.ThresholdWidth, WidthMax: p.layout.ThresholdWidth,
		})
	}
	t.SetColumnConfigs(configs)

	t.Render()
	p.rows = p.rows[:0]
}
