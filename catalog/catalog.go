package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a single marketplace listing.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Stock int
}

// Source yields the sellable products of a catalog in the order the catalog returns them.
type Source interface {
	ListAvailableProducts(ctx context.Context) ([]Product, error)
}

// ErrUnavailable matches (with errors.Is) every catalog fetch failure.
var ErrUnavailable = errors.New("catalog unavailable")

type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%v catalog unavailable (%v)", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// Available returns true if the product is in stock and has a price.
func (p Product) Available() bool {
	return p.Stock > 0 && p.Price.IsPositive()
}

// Available returns the available products, preserving order.
func Available(products []Product) []Product {
	list := []Product{}
	for _, p := range products {
		if p.Available() {
			list = append(list, p)
		}
	}

	return list
}
