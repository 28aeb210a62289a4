package cart

// Item is one cart line. Quantity never goes below 1: mutations that would
// reach zero remove the line instead.
type Item struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity uint    `json:"quantity"`
	Image    string  `json:"image"`
}

// Cart is a plain value object over an ordered item list. It does no I/O and
// is not safe for concurrent use; a single client context owns it.
type Cart struct {
	Items []Item
}

func New() *Cart {
	return &Cart{}
}

// AddItem inserts the item with quantity 1, or bumps the quantity by 1 when
// the id is already present. Price, name and image of an existing line are
// left untouched.
func (c *Cart) AddItem(item Item) {
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Quantity++
			return
		}
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// RemoveItem deletes the line with the given id. No-op when absent.
func (c *Cart) RemoveItem(id uint) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the stored quantity exactly. A quantity of zero or less
// removes the line.
func (c *Cart) UpdateQuantity(id uint, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(id)
		return
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = uint(quantity)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (c *Cart) ItemCount() uint {
	count := uint(0)
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
