// Package predictor quotes item prices by quantity from fitted price curves.
package predictor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownItem is returned when no curve exists for an item.
var ErrUnknownItem = errors.New("no price curve for item")

// Predictor supplies the cost of buying the quantity-th unit of an item.
type Predictor interface {
	Cost(quantity int, name string) (float64, error)
}

// Parameters describe one exponential price curve: cost = a * b^quantity.
type Parameters struct {
	Name string  `json:"name"`
	A    float64 `json:"a"`
	B    float64 `json:"b"`
}

// Exponential is a Predictor backed by a set of fitted exponential curves. It
// is read-only after construction and safe for concurrent use.
type Exponential struct {
	curves map[string]Parameters
}

// NewExponential builds a predictor from the given curves. Later entries
// replace earlier ones with the same name.
func NewExponential(params []Parameters) (*Exponential, error) {
	curves := make(map[string]Parameters, len(params))
	for _, p := range params {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("price curve without a name")
		}
		if p.A <= 0 || p.B <= 0 || math.IsNaN(p.A) || math.IsNaN(p.B) {
			return nil, fmt.Errorf("price curve %s has invalid parameters a=%v b=%v", p.Name, p.A, p.B)
		}
		curves[p.Name] = p
	}
	return &Exponential{curves: curves}, nil
}

// Cost returns round(a * b^quantity) for the named item.
func (e *Exponential) Cost(quantity int, name string) (float64, error) {
	p, ok := e.curves[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownItem, name)
	}
	return math.Round(p.A * math.Pow(p.B, float64(quantity))), nil
}

// Has reports whether a curve exists for name.
func (e *Exponential) Has(name string) bool {
	_, ok := e.curves[name]
	return ok
}

// Parameters lists all curves sorted by name.
func (e *Exponential) Parameters() []Parameters {
	out := make([]Parameters, 0, len(e.curves))
	for _, p := range e.curves {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadParametersFile reads curves from a CSV file with the header
// "Column,a,b". A missing file yields no curves and no error.
func LoadParametersFile(path string) ([]Parameters, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open price parameters: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return ParseParameters(f)
}

// ParseParameters decodes the CSV form used by LoadParametersFile.
func ParseParameters(r io.Reader) ([]Parameters, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read price parameters header: %w", err)
	}
	idx := map[string]int{}
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	nameCol, okName := idx["column"]
	aCol, okA := idx["a"]
	bCol, okB := idx["b"]
	if !okName || !okA || !okB {
		return nil, fmt.Errorf("price parameters header must contain Column, a and b, got %v", header)
	}

	var params []Parameters
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read price parameters line %d: %w", line, err)
		}
		a, err := strconv.ParseFloat(strings.TrimSpace(record[aCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid a on line %d: %w", line, err)
		}
		b, err := strconv.ParseFloat(strings.TrimSpace(record[bCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid b on line %d: %w", line, err)
		}
		params = append(params, Parameters{Name: strings.TrimSpace(record[nameCol]), A: a, B: b})
	}
	return params, nil
}

// Table is a Predictor that returns fixed prices per quantity, falling back to
// the last listed price. It is mainly useful for scripted catalogs and tests.
type Table map[string][]float64

// Cost returns the price for quantity (1-based).
func (t Table) Cost(quantity int, name string) (float64, error) {
	prices, ok := t[name]
	if !ok || len(prices) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownItem, name)
	}
	i := quantity - 1
	if i < 0 {
		i = 0
	}
	if i >= len(prices) {
		i = len(prices) - 1
	}
	return prices[i], nil
}
