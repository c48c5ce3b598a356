package models

import "time"

// Category groups products.
type Category struct {
	ID   string `json:"_id" bson:"_id" firestore:"-"`
	Name string `json:"name" bson:"name" firestore:"name"`
}

// Variant is a colour option of a product.
type Variant struct {
	ID       string `json:"_id" bson:"_id" firestore:"-"`
	Name     string `json:"name" bson:"name" firestore:"name"`
	ColorHex string `json:"colorHex" bson:"colorHex" firestore:"colorHex"`
}

// Size is a size option of a product.
type Size struct {
	ID   string `json:"_id" bson:"_id" firestore:"-"`
	Name string `json:"name" bson:"name" firestore:"name"`
}

// Product is a sellable catalog item. Category, User, Variants and Sizes
// hold ids of the referenced records.
type Product struct {
	ID          string    `json:"_id" bson:"_id" firestore:"-"`
	Name        string    `json:"name" bson:"name" firestore:"name"`
	Description string    `json:"description" bson:"description" firestore:"description"`
	Price       float64   `json:"price" bson:"price" firestore:"price"`
	Discount    float64   `json:"discount" bson:"discount" firestore:"discount"`
	Images      []string  `json:"images" bson:"images" firestore:"images"`
	Category    string    `json:"category" bson:"category" firestore:"category"`
	User        string    `json:"user" bson:"user" firestore:"user"`
	Variants    []string  `json:"variants" bson:"variants" firestore:"variants"`
	Sizes       []string  `json:"sizes" bson:"sizes" firestore:"sizes"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt" firestore:"updatedAt"`
}

// ProductOwner is the subset of the creating user exposed with a product.
type ProductOwner struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// ProductView is a product with its references populated. A reference that
// no longer resolves is left out.
type ProductView struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Discount    float64       `json:"discount"`
	Images      []string      `json:"images"`
	Category    *Category     `json:"category"`
	User        *ProductOwner `json:"user"`
	Variants    []Variant     `json:"variants"`
	Sizes       []Size        `json:"sizes"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	Items []*Product `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
