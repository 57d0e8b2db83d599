package model

import "github.com/shopspring/decimal"

// Row projections returned by the statistics queries. The grouping is done
// in SQL; picking winners out of the groups is done by package statistics.

// ClientSpending is the summed price of every order a client placed.
type ClientSpending struct {
	Client Client
	Total  decimal.Decimal
}

// AgeCategoryCount is how many orders clients of one age placed in a category.
type AgeCategoryCount struct {
	Age      int
	Category string
	Count    int64
}

// AgeProductCount is how many times clients of one age ordered a product.
type AgeProductCount struct {
	Age     int
	Product Product
	Count   int64
}

// CategoryClientCount is how many orders a client placed in a category.
type CategoryClientCount struct {
	Category string
	Client   Client
	Count    int64
}

// ClientBalance carries a client's cash next to what they spent.
type ClientBalance struct {
	Client Client
	Spent  decimal.Decimal
}

// ClientDebit is a client whose spending exceeds their cash. Debit is
// negative.
type ClientDebit struct {
	Client Client          `json:"client"`
	Debit  decimal.Decimal `json:"debit"`
}

// ProductPrice identifies a product by id and name together with its price.
type ProductPrice struct {
	ID    uint64          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CategoryPriceRow is one raw price-statistics row. Either side may be
// absent: the query emits one row per cheapest product and one row per most
// expensive product of each category.
type CategoryPriceRow struct {
	Category string
	Min      *ProductPrice
	Max      *ProductPrice
	AvgPrice decimal.NullDecimal
}

// CategoryPriceStatistic groups the cheapest and most expensive products of
// a category with the category's average price.
type CategoryPriceStatistic struct {
	MinProducts []ProductPrice      `json:"minProducts"`
	MaxProducts []ProductPrice      `json:"maxProducts"`
	AvgPrice    decimal.NullDecimal `json:"avgPrice"`
}

// Merge combines two statistics for the same category: both product lists
// are concatenated and the first valid average wins.
func (s CategoryPriceStatistic) Merge(other CategoryPriceStatistic) CategoryPriceStatistic {
	out := CategoryPriceStatistic{
		MinProducts: append(append([]ProductPrice{}, s.MinProducts...), other.MinProducts...),
		MaxProducts: append(append([]ProductPrice{}, s.MaxProducts...), other.MaxProducts...),
		AvgPrice:    s.AvgPrice,
	}
	if !out.AvgPrice.Valid {
		out.AvgPrice = other.AvgPrice
	}
	return out
}
