// Package market serves the sample crop price table shown on the dashboard.
package market

import "strings"

// Price is one row of the market table, in rupees per quintal.
type Price struct {
	Crop        string  `json:"crop"`
	PricePerQtl float64 `json:"price_per_qtl"`
	Market      string  `json:"market"`
}

// Bar is one bar of the price chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

var samplePrices = []Price{
	{Crop: "Wheat", PricePerQtl: 2200, Market: "Market A"},
	{Crop: "Rice", PricePerQtl: 2500, Market: "Market B"},
	{Crop: "Maize", PricePerQtl: 1800, Market: "Market A"},
	{Crop: "Tomato", PricePerQtl: 6000, Market: "Market C"},
}

// Table is a read-only price table.
type Table struct {
	rows []Price
}

// NewSampleTable returns the built-in sample prices.
func NewSampleTable() *Table {
	return NewTable(samplePrices)
}

// NewTable copies rows into a Table.
func NewTable(rows []Price) *Table {
	return &Table{rows: append([]Price(nil), rows...)}
}

// Prices returns rows whose crop name contains filter, ignoring case, in table
// order. An empty filter returns every row.
func (t *Table) Prices(filter string) []Price {
	filter = strings.ToLower(strings.TrimSpace(filter))
	out := make([]Price, 0, len(t.rows))
	for _, p := range t.rows {
		if filter == "" || strings.Contains(strings.ToLower(p.Crop), filter) {
			out = append(out, p)
		}
	}
	return out
}

// Chart turns rows into bar chart series labelled by crop.
func Chart(rows []Price) []Bar {
	bars := make([]Bar, 0, len(rows))
	for _, p := range rows {
		bars = append(bars, Bar{Label: p.Crop, Value: p.PricePerQtl})
	}
	return bars
}
