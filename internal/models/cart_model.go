package models

import "time"

// Cart is a snapshot of the items a user intends to buy.
type Cart struct {
	ID        string     `json:"_id" bson:"_id" firestore:"id"`
	Paid      bool       `json:"paid" bson:"paid" firestore:"paid"`
	Items     []LineItem `json:"items" bson:"items" firestore:"items"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt" firestore:"updatedAt"`
}

// LineItem references a product and the requested quantity.
type LineItem struct {
	ProductID string `json:"product" bson:"product" firestore:"product"`
	Quantity  int    `json:"quantity" bson:"quantity" firestore:"quantity"`
}

// CartView is a cart with its products resolved and totals computed.
type CartView struct {
	ID        string         `json:"_id"`
	Paid      bool           `json:"paid"`
	Items     []LineItemView `json:"items"`
	Total     string         `json:"total"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// LineItemView is a line item with its product populated. Product is nil
// when the referenced product no longer exists.
type LineItemView struct {
	Product   *ProductView `json:"product"`
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	UnitPrice string       `json:"unitPrice"`
	LineTotal string       `json:"lineTotal"`
}
