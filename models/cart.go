package models

import "github.com/shopspring/decimal"

type CartItem struct {
	BookID   int64           `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	Stock    int             `json:"stock"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	Items []CartItem `json:"items"`
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

func (c Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Find returns the index of the item for bookID, or -1.
func (c Cart) Find(bookID int64) int {
	for i, it := range c.Items {
		if it.BookID == bookID {
			return i
		}
	}
	return -1
}

func (c Cart) Quantity(bookID int64) int {
	if i := c.Find(bookID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}
