package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/CaioPinho9/space-planner/internal/simulation"
)

func sampleStatus() simulation.Status {
	return simulation.Status{
		BestIncome:           12400,
		BestIndex:            7,
		SimulationCount:      1500,
		ElapsedTime:          2,
		SimulationsPerSecond: 750,
		AverageIncome:        9000,
		BestLog: []simulation.Event{
			{Tick: 10, Income: 2, Item: "Potato", Cost: 10, Quantity: 0},
			{Tick: 400, Income: 12400, Item: "MarisPipers", Cost: 8000, Quantity: 0},
		},
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, sampleStatus())
	out := buf.String()

	for _, want := range []string{
		"Best plan (simulation 7)",
		"Final income: 12,400.0000 (12.40k)",
		"Simulations: 1,500",
		"MarisPipers",
		"8,000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrettyFormat() output missing %q:\n%s", want, out)
		}
	}
}

func TestPrettyFormatNoPurchases(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, simulation.Status{BestIndex: -1})
	if !strings.Contains(buf.String(), "No purchases") {
		t.Errorf("expected an empty-log notice, got:\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	CsvFormat(&buf, sampleStatus())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "tick,item,quantity,cost,income" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "10,Potato,0,10.00,2.000000" {
		t.Errorf("unexpected first row: %s", lines[1])
	}
}

func TestCsvFormatQuotesItemNames(t *testing.T) {
	status := simulation.Status{BestLog: []simulation.Event{
		{Tick: 3, Item: `Spud "Deluxe"`, Quantity: 1, Cost: 25, Income: 4},
		{Tick: 7, Item: "Mash, Extra", Quantity: 0, Cost: 40, Income: 5},
	}}

	var buf bytes.Buffer
	CsvFormat(&buf, status)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[1] != `3,"Spud ""Deluxe""",1,25.00,4.000000` {
		t.Errorf("unexpected quoted row: %s", lines[1])
	}
	if lines[2] != `7,"Mash, Extra",0,40.00,5.000000` {
		t.Errorf("unexpected comma row: %s", lines[2])
	}
}
