package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/shop-backend/internal/logger"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/validation"
)

// OrderService links an existing client to an existing product.
type OrderService struct {
	CRUD[model.Order, model.OrderView]
	orders   OrderStore
	clients  Store[model.Client]
	products Store[model.Product]
}

func NewOrderService(orders OrderStore, clients Store[model.Client], products Store[model.Product]) *OrderService {
	return &OrderService{
		CRUD: NewCRUD("orders", Store[model.Order](orders),
			func(o model.Order) uint64 { return o.ID },
			model.Order.View),
		orders:   orders,
		clients:  clients,
		products: products,
	}
}

// Create links an existing client to an existing product. Either being
// absent fails with NotFound.
func (s *OrderService) Create(ctx context.Context, req model.OrderRequest) (model.OrderView, error) {
	if err := validation.Order.Validate(req); err != nil {
		return model.OrderView{}, err
	}
	client, err := s.clients.FindByID(ctx, req.ClientID)
	if err != nil {
		return model.OrderView{}, err
	}
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return model.OrderView{}, err
	}
	o := model.Order{ClientID: client.ID, ProductID: product.ID, Client: client, Product: product}
	if err := s.orders.Create(ctx, &o); err != nil {
		return model.OrderView{}, err
	}
	logger.Info("order created",
		zap.Uint64("order_id", o.ID),
		zap.Uint64("client_id", o.ClientID),
		zap.Uint64("product_id", o.ProductID),
	)
	return o.View(), nil
}
