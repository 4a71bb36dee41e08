package domain

import "math"

// CartItem is one consolidated cart line. CartItemID is the true identity;
// when empty it is derived from ProductID and Size.
type CartItem struct {
	ProductID  string  `json:"productId"`
	CartItemID string  `json:"cartItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Size       string  `json:"size"`
	Slug       string  `json:"slug"`
}

// Cart is an explicit value owned by the caller (session cookie, test, ...).
// TotalAmount always equals the sum of Price*Quantity over Items, rounded to
// two decimals after every mutation. The JSON shape is the serialization
// contract handed to session storage.
type Cart struct {
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func cartIdentity(productID, size string) string {
	return productID + "-" + size
}

func (c *Cart) findMatch(item CartItem) int {
	for i, it := range c.Items {
		if item.CartItemID != "" && it.CartItemID != "" {
			if it.CartItemID == item.CartItemID {
				return i
			}
			continue
		}
		if it.ProductID == item.ProductID && it.Size == item.Size {
			return i
		}
	}
	return -1
}

func (c *Cart) findByIdentity(identity string) int {
	for i, it := range c.Items {
		if it.CartItemID == identity {
			return i
		}
	}
	for i, it := range c.Items {
		if it.ProductID == identity {
			return i
		}
	}
	return -1
}

// Add merges item into an existing line matched on CartItemID (when both
// sides carry one) or on (ProductID, Size); otherwise it inserts a new line,
// deriving the identity if none was supplied. Quantity is taken as given —
// stock clamping is the caller's job.
func (c *Cart) Add(item CartItem) {
	if i := c.findMatch(item); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		c.TotalAmount = round2(c.TotalAmount + c.Items[i].Price*float64(item.Quantity))
		return
	}
	if item.CartItemID == "" {
		item.CartItemID = cartIdentity(item.ProductID, item.Size)
	}
	c.Items = append(c.Items, item)
	c.TotalAmount = round2(c.TotalAmount + item.Price*float64(item.Quantity))
}

// Remove deletes the line matched by CartItemID, falling back to ProductID.
// Unknown identities are a no-op.
func (c *Cart) Remove(identity string) {
	i := c.findByIdentity(identity)
	if i < 0 {
		return
	}
	it := c.Items[i]
	c.TotalAmount = round2(c.TotalAmount - it.Price*float64(it.Quantity))
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// UpdateQuantity sets the line's quantity and adjusts the total by the
// price-weighted delta. Quantity is not re-checked against stock here; that
// clamp belongs to the caller.
func (c *Cart) UpdateQuantity(identity string, quantity int) {
	i := c.findByIdentity(identity)
	if i < 0 {
		return
	}
	it := &c.Items[i]
	c.TotalAmount = round2(c.TotalAmount + it.Price*float64(quantity-it.Quantity))
	it.Quantity = quantity
}

func (c *Cart) Clear() {
	c.Items = nil
	c.TotalAmount = 0
}

// Quantity reports the current quantity for an identity, 0 when absent.
func (c *Cart) Quantity(identity string) int {
	if i := c.findByIdentity(identity); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}
