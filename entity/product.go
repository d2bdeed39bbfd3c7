package entity

import "github.com/shopspring/decimal"

// Product is a single purchase line of a payment request.
type Product struct {
	Name  string          `json:"name" bson:"name"`
	Count int             `json:"count" bson:"count"`
	Price decimal.Decimal `json:"price" bson:"price"`
}

// Sum returns the line total: price rounded to 2 decimals times count.
func (p Product) Sum() decimal.Decimal {
	return p.Price.Round(2).Mul(decimal.NewFromInt(int64(p.Count)))
}

// ProductsSum returns the aggregate amount of the product lines.
func ProductsSum(products []Product) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.Sum())
	}
	return sum
}
