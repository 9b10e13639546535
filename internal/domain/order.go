package domain

// OrderItem is one purchased line in an order, mirroring the storefront API
// order-item shape.
type OrderItem struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is the checkout payload submitted to the storefront API.
type Order struct {
	ID         int64       `json:"id,omitempty"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Email      string      `json:"email"`
	Street     string      `json:"street"`
	Zip        string      `json:"zip"`
	City       string      `json:"city"`
	Newsletter bool        `json:"newsletter"`
	Items      []OrderItem `json:"items"`
	Total      float64     `json:"total"`
}

// OrderItemsFromCart converts cart lines into order items.
func OrderItemsFromCart(cart *Cart) []OrderItem {
	items := make([]OrderItem, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}
	return items
}
