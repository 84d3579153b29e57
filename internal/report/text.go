package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/akbarifar/mro-estimator/internal/pricing"
)

// WriteText writes the cost breakdown, per-part subtotals and grand total.
func WriteText(w io.Writer, q pricing.Quote) error {
	ew := &errWriter{w: w}

	fmt.Fprintln(ew, "=== COST BREAKDOWN (USD) ===")

	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PART NO\tDESCRIPTION\tPROCEDURE\tQTY\tBASE\tMULT\tTOTAL")
	for _, item := range q.LineItems {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t$%s\t%s\t$%s\n",
			item.PartNumber,
			item.Description,
			item.ProcedureCode,
			item.Quantity,
			Money(item.BaseCost),
			Multiplier(item.Multiplier),
			Money(item.Total),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(ew)
	fmt.Fprintln(ew, "--- SUBTOTALS PER PART ---")
	for _, s := range q.Subtotals {
		fmt.Fprintln(ew, SubtotalLine(s))
	}

	fmt.Fprintln(ew)
	fmt.Fprintf(ew, "GRAND TOTAL: %s\n", GrandTotalLine(q))

	return ew.err
}

// errWriter keeps the first write error so rendering code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
