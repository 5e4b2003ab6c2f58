package report

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozon-tools/ozon-app-sheets/catalog"
	"github.com/ozon-tools/ozon-app-sheets/prices"
)

const (
	NotSpecified = "not specified"
	InStock      = "in stock"
	OutOfStock   = "out of stock"

	TimestampLayout = "2006-01-02 15:04:05"
)

var Header = []string{"seller id", "product name", "current price", "recommended price", "status"}

type Row struct {
	ID               string
	Name             string
	CurrentPrice     decimal.Decimal
	RecommendedPrice string
	Status           string
}

type Report struct {
	Rows        []Row
	GeneratedAt time.Time
}

// Build joins the products with the recommended prices, one row per product in product order. The status
// is derived from each product's stock and price rather than assuming the catalog has already filtered
// out unavailable products.
func Build(products []catalog.Product, overrides prices.Table, now time.Time) Report {
	rows := make([]Row, 0, len(products))

	for _, p := range products {
		recommended := NotSpecified
		if v, ok := overrides[p.ID]; ok {
			recommended = string(v)
		}

		status := OutOfStock
		if p.Available() {
			status = InStock
		}

		rows = append(rows, Row{
			ID:               p.ID,
			Name:             p.Name,
			CurrentPrice:     p.Price,
			RecommendedPrice: recommended,
			Status:           status,
		})
	}

	return Report{
		Rows:        rows,
		GeneratedAt: now,
	}
}

// Values returns the row cells in header order. The cells are written RAW, so text cells stay text and the
// prices are sent as JSON numbers without any float rounding. A recommended price that is not a plain number
// is sent unchanged as text.
func (r Row) Values() []any {
	return []any{
		r.ID,
		r.Name,
		json.Number(r.CurrentPrice.String()),
		number(r.RecommendedPrice),
		r.Status,
	}
}

func number(v string) any {
	if _, err := decimal.NewFromString(v); err != nil || !json.Valid([]byte(v)) {
		return v
	}

	return json.Number(v)
}

func (r Report) Values() [][]any {
	values := make([][]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		values = append(values, row.Values())
	}

	return values
}

func (r Report) Timestamp() string {
	return r.GeneratedAt.Format(TimestampLayout)
}
