package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/austinm2151/ECON-434-FinalProject/internal/app"
	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
	"github.com/austinm2151/ECON-434-FinalProject/internal/exporter"
	"github.com/austinm2151/ECON-434-FinalProject/internal/poverty"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func renderRates(w io.Writer, rates []poverty.PovertyRateRow) {
	if len(rates) == 0 {
		_, _ = fmt.Fprintln(w, "No period has classified households")
		return
	}

	t := newTable(w, "Poverty rate by period")
	t.AppendHeader(table.Row{"Period", "Households", "Below line", "Rate"})
	for _, r := range rates {
		t.AppendRow(table.Row{r.Period, r.TotalCount, r.BelowCount, fmt.Sprintf("%.2f%%", r.Rate*100)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

func renderExclusions(w io.Writer, result *poverty.Result) {
	if len(result.Excluded) == 0 {
		return
	}

	kinds := make([]string, 0, len(result.Excluded))
	for k := range result.Excluded {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	t := newTable(w, "Excluded households")
	t.AppendHeader(table.Row{"Reason", "Households"})
	for _, k := range kinds {
		t.AppendRow(table.Row{k, result.Excluded[apperrors.Kind(k)]})
	}
	t.AppendFooter(table.Row{"Total", result.ExcludedTotal()})
	t.Render()
}

func renderKeys(w io.Writer, result *poverty.Result) {
	rows := exporter.KeyRows(result)
	if len(rows) == 0 {
		return
	}

	t := newTable(w, "Threshold keys")
	t.AppendHeader(table.Row{"Family size", "Children", "Status", "Households"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Key.FamilySize, r.Key.Children, r.Status, r.Households})
	}
	t.Render()
}

func renderOutputs(w io.Writer, report *app.Report) {
	for _, name := range report.OutputNames() {
		_, _ = fmt.Fprintf(w, "%-16s %s\n", name, report.Outputs[name])
	}
}

// renderThresholds prints one row per key with a column per threshold type;
// the classification type is starred
func renderThresholds(w io.Writer, tbl *poverty.ThresholdTable, stats poverty.ReshapeStats) {
	types := tbl.Types()

	header := table.Row{"Family size", "Children"}
	for _, tt := range types {
		if tt == tbl.Primary() {
			tt += " *"
		}
		header = append(header, tt)
	}

	t := newTable(w, "Poverty thresholds")
	t.AppendHeader(header)
	for _, k := range tbl.Keys() {
		row := table.Row{familyLabel(k.FamilySize), childrenLabel(k.Children)}
		for _, tt := range types {
			if v, ok := tbl.Value(k, tt); ok {
				row = append(row, strconv.FormatFloat(v, 'f', 2, 64))
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d keys from %d rows, %d dropped, %d capped)\n",
		tbl.Len(), stats.Rows, stats.Dropped, stats.Capped)
}

func familyLabel(n int) string {
	if n == poverty.MaxFamilySize {
		return strconv.Itoa(n) + "+"
	}
	return strconv.Itoa(n)
}

func childrenLabel(n int) string {
	if n == poverty.MaxChildren {
		return strconv.Itoa(n) + "+"
	}
	return strconv.Itoa(n)
}
