// Package statistics turns the grouped rows of the shop queries into the
// shapes the API returns. "Most" always means every entry tied for the
// maximum, never a single arbitrary winner. Input order is kept within each
// result list.
package statistics

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/shop-backend/internal/model"
)

// TopSpenders returns every client whose total equals the highest total.
func TopSpenders(rows []model.ClientSpending) []model.Client {
	out := []model.Client{}
	var best decimal.Decimal
	for i, r := range rows {
		switch cmp := r.Total.Cmp(best); {
		case i == 0 || cmp > 0:
			best = r.Total
			out = append(out[:0], r.Client)
		case cmp == 0:
			out = append(out, r.Client)
		}
	}
	return out
}

// MostPopularCategories returns, per client age, the categories ordered
// most often.
func MostPopularCategories(rows []model.AgeCategoryCount) map[int][]string {
	return argmaxPerKey(rows,
		func(r model.AgeCategoryCount) int { return r.Age },
		func(r model.AgeCategoryCount) int64 { return r.Count },
		func(r model.AgeCategoryCount) string { return r.Category })
}

// MostFrequentProducts returns, per client age, the products ordered most
// often.
func MostFrequentProducts(rows []model.AgeProductCount) map[int][]model.Product {
	return argmaxPerKey(rows,
		func(r model.AgeProductCount) int { return r.Age },
		func(r model.AgeProductCount) int64 { return r.Count },
		func(r model.AgeProductCount) model.Product { return r.Product })
}

// MostCommonClients returns, per category, the clients with the most
// orders in it.
func MostCommonClients(rows []model.CategoryClientCount) map[string][]model.Client {
	return argmaxPerKey(rows,
		func(r model.CategoryClientCount) string { return r.Category },
		func(r model.CategoryClientCount) int64 { return r.Count },
		func(r model.CategoryClientCount) model.Client { return r.Client })
}

// Debits computes cash minus spending per client and keeps only the
// clients below zero.
func Debits(rows []model.ClientBalance) []model.ClientDebit {
	out := []model.ClientDebit{}
	for _, r := range rows {
		debit := r.Client.Cash.Sub(r.Spent)
		if debit.IsNegative() {
			out = append(out, model.ClientDebit{Client: r.Client, Debit: debit})
		}
	}
	return out
}

// MergePriceStatistics folds raw price rows into one statistic per
// category, merging rows that share a category.
func MergePriceStatistics(rows []model.CategoryPriceRow) map[string]model.CategoryPriceStatistic {
	out := make(map[string]model.CategoryPriceStatistic)
	for _, r := range rows {
		stat := model.CategoryPriceStatistic{
			MinProducts: []model.ProductPrice{},
			MaxProducts: []model.ProductPrice{},
			AvgPrice:    r.AvgPrice,
		}
		if r.Min != nil {
			stat.MinProducts = append(stat.MinProducts, *r.Min)
		}
		if r.Max != nil {
			stat.MaxProducts = append(stat.MaxProducts, *r.Max)
		}
		if prev, ok := out[r.Category]; ok {
			stat = prev.Merge(stat)
		}
		out[r.Category] = stat
	}
	return out
}

type leader[V any] struct {
	count int64
	items []V
}

func argmaxPerKey[R any, K comparable, V any](rows []R, key func(R) K, count func(R) int64, value func(R) V) map[K][]V {
	best := make(map[K]*leader[V])
	for _, r := range rows {
		k, n := key(r), count(r)
		cur, ok := best[k]
		switch {
		case !ok || n > cur.count:
			best[k] = &leader[V]{count: n, items: []V{value(r)}}
		case n == cur.count:
			cur.items = append(cur.items, value(r))
		}
	}
	out := make(map[K][]V, len(best))
	for k, l := range best {
		out[k] = l.items
	}
	return out
}
