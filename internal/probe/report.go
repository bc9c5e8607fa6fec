package probe

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Render writes a table of results. Passing checks are listed only when
// verbose is set; the summary line is always written.
func Render(w io.Writer, results []Result, verbose, colored bool) {
	rows := results
	if !verbose {
		rows = lo.Filter(results, func(r Result, _ int) bool { return !r.Passed })
	}

	paint := func(s string, c color.Color) string {
		if !colored {
			return s
		}
		return c.Render(s)
	}

	if len(rows) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Check", "Result", "Time", "Detail"})
		table.SetAutoWrapText(false)
		table.SetAutoFormatHeaders(true)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		table.SetHeaderLine(false)
		table.SetCenterSeparator("")
		table.SetColumnSeparator("")
		table.SetRowSeparator("")
		table.SetTablePadding("\t")
		for _, r := range rows {
			status := paint("PASS", color.FgGreen)
			if !r.Passed {
				status = paint("FAIL", color.FgRed)
			}
			table.Append([]string{r.Name, status, strconv.FormatInt(r.Duration.Milliseconds(), 10) + "ms", r.Detail})
		}
		table.Render()
	}

	failed := lo.CountBy(results, func(r Result) bool { return !r.Passed })
	summary := fmt.Sprintf("%d checks, %d passed, %d failed", len(results), len(results)-failed, failed)
	if failed > 0 {
		summary = paint(summary, color.FgRed)
	} else {
		summary = paint(summary, color.FgGreen)
	}
	_, _ = fmt.Fprintln(w, summary)
}
