package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/service"
)

// ShopHandler serves the reports under /shop.
type ShopHandler struct {
	Shop *service.ShopService
}

// NewShopHandler wires the report endpoints to shop.
func NewShopHandler(shop *service.ShopService) *ShopHandler {
	return &ShopHandler{Shop: shop}
}

// TopClients handles GET /shop/clients/top and lists every client tied for
// the highest total spending.
func (h *ShopHandler) TopClients(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Shop.ClientsWithBiggestPayment(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// TopClientsInCategory handles GET /shop/clients/top/category?category=X.
// An empty category is a validation failure.
func (h *ShopHandler) TopClientsInCategory(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Shop.ClientsWithBiggestPaymentInCategory(ctx, c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// CategoriesByAge handles GET /shop/age/categories and returns, per client
// age, the categories ordered most often. The JSON object is keyed by age.
func (h *ShopHandler) CategoriesByAge(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Shop.MostPopularCategoryByAge(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ProductsByAge handles GET /shop/age/products and returns, per client age,
// the products ordered most often.
func (h *ShopHandler) ProductsByAge(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Shop.MostFrequentProductByAge(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ClientsByCategory handles GET /shop/categories/clients and returns, per
// category, the clients that ordered from it most often.
func (h *ShopHandler) ClientsByCategory(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Shop.MostCommonClientsByCategory(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Debits handles GET /shop/clients/debit and lists the clients who spent
// more than their cash, each with the (negative) difference.
func (h *ShopHandler) Debits(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Shop.ClientDebits(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// CategoryPrices handles GET /shop/categories/prices and returns the cheapest
// and dearest products and the average price of every category.
func (h *ShopHandler) CategoryPrices(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Shop.CategoryPrices(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
