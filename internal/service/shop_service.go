package service

import (
	"context"
	"strings"

	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/statistics"
	"github.com/iliyamo/shop-backend/internal/validation"
)

// ShopService answers the /shop reports. The store groups; package
// statistics selects.
type ShopService struct {
	stats StatisticsStore
}

// NewShopService builds the report service over stats.
func NewShopService(stats StatisticsStore) *ShopService {
	return &ShopService{stats: stats}
}

// ClientsWithBiggestPayment returns every client tied for the highest total
// spending.
func (s *ShopService) ClientsWithBiggestPayment(ctx context.Context) ([]model.Client, error) {
	rows, err := s.stats.ClientSpending(ctx)
	if err != nil {
		return nil, err
	}
	return statistics.TopSpenders(rows), nil
}

// ClientsWithBiggestPaymentInCategory is ClientsWithBiggestPayment over the
// orders of one category.
func (s *ShopService) ClientsWithBiggestPaymentInCategory(ctx context.Context, category string) ([]model.Client, error) {
	if err := validation.Category(category); err != nil {
		return nil, err
	}
	rows, err := s.stats.ClientSpendingInCategory(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	return statistics.TopSpenders(rows), nil
}

// MostPopularCategoryByAge maps each client age to the categories with the
// most orders at that age, ties included.
func (s *ShopService) MostPopularCategoryByAge(ctx context.Context) (map[int][]string, error) {
	rows, err := s.stats.AgeCategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	return statistics.MostPopularCategories(rows), nil
}

func (s *ShopService) MostFrequentProductByAge(ctx context.Context) (map[int][]model.Product, error) {
	rows, err := s.stats.AgeProductCounts(ctx)
	if err != nil {
		return nil, err
	}
	return statistics.MostFrequentProducts(rows), nil
}

func (s *ShopService) MostCommonClientsByCategory(ctx context.Context) (map[string][]model.Client, error) {
	rows, err := s.stats.CategoryClientCounts(ctx)
	if err != nil {
		return nil, err
	}
	return statistics.MostCommonClients(rows), nil
}

// ClientDebits lists the clients whose orders cost more than their cash.
func (s *ShopService) ClientDebits(ctx context.Context) ([]model.ClientDebit, error) {
	rows, err := s.stats.ClientBalances(ctx)
	if err != nil {
		return nil, err
	}
	return statistics.Debits(rows), nil
}

func (s *ShopService) CategoryPrices(ctx context.Context) (map[string]model.CategoryPriceStatistic, error) {
	rows, err := s.stats.CategoryPriceRows(ctx)
	if err != nil {
		return nil, err
	}
	return statistics.MergePriceStatistics(rows), nil
}
