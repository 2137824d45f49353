package models

import (
	"github.com/jinzhu/gorm"
)

// Order represents a submitted order as persisted by the backend
type Order struct {
	gorm.Model
	PublicID string      `gorm:"unique_index"`
	Number   int         `gorm:"unique_index"`
	Name     string
	Status   string
	Items    []OrderItem `gorm:"foreignkey:OrderID"`
}

// OrderItem represents one ingredient placement in an order
type OrderItem struct {
	gorm.Model
	OrderID      uint
	Position     int
	IngredientID string
}

// IngredientIDs returns the catalog ids of the order in placement order.
func (o *Order) IngredientIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.IngredientID)
	}
	return ids
}

// FeedOrder converts the persisted order into its feed representation.
func (o *Order) FeedOrder() FeedOrder {
	return FeedOrder{
		ID:          o.PublicID,
		Name:        o.Name,
		Status:      OrderStatus(o.Status),
		Ingredients: o.IngredientIDs(),
		Number:      o.Number,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// Confirmation returns the submission confirmation for the order.
func (o *Order) Confirmation() OrderConfirmation {
	return OrderConfirmation{Name: o.Name, Number: o.Number}
}
