package domain

// LineItem is a single entry in the cart, unique per product id.
// The JSON field names follow the storefront API order-item shape.
type LineItem struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart is the ordered collection of line items for one session.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Total calculates the sum of unit price times quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the line with the given product id,
// or -1 if no such line exists.
func (c *Cart) FindItemIndex(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add inserts the item, merging with an existing line for the same product
// by adding quantities. Name and price of an existing line are refreshed from
// the incoming item since the catalog may have changed.
func (c *Cart) Add(item LineItem) {
	if i := c.FindItemIndex(item.ProductID); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		c.Items[i].Name = item.Name
		c.Items[i].UnitPrice = item.UnitPrice
		return
	}
	c.Items = append(c.Items, item)
}

// Remove drops the line with the given product id. Returns false if the cart
// has no such line.
func (c *Cart) Remove(productID int64) bool {
	i := c.FindItemIndex(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// SetQuantity replaces the quantity of the line with the given product id.
// Returns false if the cart has no such line.
func (c *Cart) SetQuantity(productID int64, quantity int) bool {
	i := c.FindItemIndex(productID)
	if i < 0 {
		return false
	}
	c.Items[i].Quantity = quantity
	return true
}

// Clear removes all lines.
func (c *Cart) Clear() {
	c.Items = nil
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing internal state to mutation.
func (c *Cart) Clone() *Cart {
	if len(c.Items) == 0 {
		return &Cart{Items: []LineItem{}}
	}
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{Items: items}
}
