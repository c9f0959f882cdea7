package domain

import "time"

type Cart struct {
	ID         string     `bson:"_id,omitempty" json:"-"`
	CustomerID int64      `bson:"customer_id" json:"customer_id"`
	Items      []CartItem `bson:"items" json:"items"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// CartItem is one pending selection. UnitPrice is a snapshot taken when the
// product was first added; it does not follow later catalog changes.
type CartItem struct {
	ProductID   int64     `bson:"product_id" json:"product_id"`
	ProductName string    `bson:"product_name" json:"product_name"`
	UnitPrice   float64   `bson:"unit_price" json:"unit_price"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	AddedAt     time.Time `bson:"added_at" json:"added_at"`
}

// Item returns the line for productID, or nil. At most one line exists per
// product.
func (c *Cart) Item(productID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
