package model

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits kept by the DECIMAL(19,2)
// money columns. Amounts are rounded to it before they are checked or
// stored.
const MoneyScale = 2

// Client mirrors the `clients` table. Name and surname form a unique pair.
type Client struct {
	ID      uint64          `json:"id"`
	Name    string          `json:"name"`
	Surname string          `json:"surname"`
	Age     int             `json:"age"`
	Cash    decimal.Decimal `json:"cash"`
}

// Product mirrors the `products` table. Name and category form a unique pair.
type Product struct {
	ID       uint64          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// Order links a client to a product. Rows are never updated.
type Order struct {
	ID        uint64
	ClientID  uint64
	ProductID uint64
	Client    Client
	Product   Product
}

// OrderView is the API shape of an order, with both ends resolved.
type OrderView struct {
	ID      uint64  `json:"id"`
	Client  Client  `json:"client"`
	Product Product `json:"product"`
}

// View returns the API shape of o. Client and Product must be loaded.
func (o Order) View() OrderView {
	return OrderView{ID: o.ID, Client: o.Client, Product: o.Product}
}
