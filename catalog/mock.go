package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ozon-tools/ozon-app-sheets/log"
)

// Mock is a fixed catalog for running without marketplace credentials.
type Mock struct {
	Products []Product
}

func NewMock() *Mock {
	return &Mock{
		Products: []Product{
			{ID: "12345", Name: "Xiaomi Redmi Note 12 smartphone", Price: decimal.NewFromInt(19999), Stock: 15},
			{ID: "67890", Name: "Sony WH-1000XM4 headphones", Price: decimal.NewFromInt(29999), Stock: 8},
			{ID: "11111", Name: "iPhone 14 Pro case", Price: decimal.NewFromInt(2499), Stock: 0},
			{ID: "22222", Name: "Power Bank 20000 mAh", Price: decimal.NewFromInt(4499), Stock: 25},
			{ID: "33333", Name: "Amazfit GTS 4 smartwatch", Price: decimal.NewFromInt(12999), Stock: 3},
		},
	}
}

func (m *Mock) ListAvailableProducts(ctx context.Context) ([]Product, error) {
	log.Infof("Retrieving products from mock catalog")

	if err := ctx.Err(); err != nil {
		return nil, &UnavailableError{Source: "mock", Err: err}
	}

	products := Available(m.Products)

	log.Infof("Found %v available products", len(products))

	return products, nil
}
