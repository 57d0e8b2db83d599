package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/logger"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/validation"
)

// ProductService validates and stores products.
type ProductService struct {
	CRUD[model.Product, model.Product]
	products ProductStore
}

func NewProductService(products ProductStore) *ProductService {
	return &ProductService{
		CRUD: NewCRUD("products", Store[model.Product](products),
			func(p model.Product) uint64 { return p.ID },
			func(p model.Product) model.Product { return p }),
		products: products,
	}
}

// Create fails with Conflict when the category already holds a product of
// that name.
func (s *ProductService) Create(ctx context.Context, req model.ProductRequest) (model.Product, error) {
	req.Name, req.Category = strings.TrimSpace(req.Name), strings.TrimSpace(req.Category)
	req.Price = req.Price.Round(model.MoneyScale)
	if err := validation.Product.Validate(req); err != nil {
		return model.Product{}, err
	}
	exists, err := s.products.ExistsByNameAndCategory(ctx, req.Name, req.Category)
	if err != nil {
		return model.Product{}, err
	}
	if exists {
		return model.Product{}, apperror.Conflict("product %s in category %s already exists", req.Name, req.Category)
	}
	p := model.Product{Name: req.Name, Category: req.Category, Price: req.Price}
	if err := s.products.Create(ctx, &p); err != nil {
		return model.Product{}, err
	}
	logger.Info("product created", zap.Uint64("product_id", p.ID), zap.String("category", p.Category))
	return p, nil
}
