// Package output provides utilities for formatting and displaying search results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/CaioPinho9/space-planner/internal/simulation"
	"github.com/CaioPinho9/space-planner/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable summary and purchase table.
func PrettyFormat(w io.Writer, status simulation.Status) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "--- Best plan (simulation %d) ---\n", status.BestIndex)
	_, _ = p.Fprintf(w, "Final income: %.4f (%s)\n", status.BestIncome, format.Compact(status.BestIncome))
	_, _ = p.Fprintf(w, "Simulations: %d over %.1fs (%s)\n",
		status.SimulationCount, status.ElapsedTime, format.Rate(status.SimulationsPerSecond))
	_, _ = p.Fprintf(w, "Average income: %.4f\n\n", status.AverageIncome)

	if len(status.BestLog) == 0 {
		_, _ = fmt.Fprintf(w, "No purchases\n")
		return
	}
	_, _ = fmt.Fprintf(w, "Tick  | Item                 | Owned | Cost          | Income\n")
	_, _ = fmt.Fprintf(w, "____  | ____________________ | _____ | _____________ | ______\n")
	for _, e := range status.BestLog {
		_, _ = p.Fprintf(w, "%-5d | %-20s | %5d | %13.0f | %.4f\n", e.Tick, e.Item, e.Quantity, e.Cost, e.Income)
	}
}

// CsvFormat writes the purchase log in comma-separated value format.
func CsvFormat(w io.Writer, status simulation.Status) {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"tick", "item", "quantity", "cost", "income"})
	for _, e := range status.BestLog {
		_ = cw.Write([]string{
			strconv.Itoa(e.Tick),
			e.Item,
			strconv.Itoa(e.Quantity),
			strconv.FormatFloat(e.Cost, 'f', 2, 64),
			strconv.FormatFloat(e.Income, 'f', 6, 64),
		})
	}
	cw.Flush()
}
