package models

import (
	"encoding/json"
	"strconv"
)

// SignupRequest represents the request body for creating an account.
type SignupRequest struct {
	Name            string `json:"name" binding:"required,min=3,max=50"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	Image           string `json:"image,omitempty" binding:"omitempty,url"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateUserRequest represents the request body for updating the own profile.
// Image is a pointer so an omitted image keeps the current one.
type UpdateUserRequest struct {
	Name  string  `json:"name" binding:"required,min=3,max=50"`
	Email string  `json:"email" binding:"required,email"`
	Image *string `json:"image,omitempty" binding:"omitempty,url"`
}

// ChangePasswordRequest represents the request body for changing the password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,min=6"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// ForgotPasswordRequest represents the request body for requesting a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents the request body for setting a new password
// with a reset token.
type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// CategoryRequest is used to create or rename a category.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=3,max=50"`
}

// VariantRequest is used to create or update a variant.
type VariantRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	ColorHex string `json:"colorHex" binding:"required,len=7,hexcolor"`
}

// SizeRequest is used to create or rename a size.
type SizeRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// CreateProductRequest represents the request body for creating a product.
// Reference ids are checked by the product service so that malformed and
// unknown ids are reported together.
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required,min=3,max=200"`
	Description string   `json:"description" binding:"required,min=3,max=1000"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Discount    float64  `json:"discount" binding:"gte=0,lte=100"`
	Images      []string `json:"images" binding:"omitempty,dive,url"`
	Category    string   `json:"category" binding:"required"`
	Variants    []string `json:"variants" binding:"required,min=1"`
	Sizes       []string `json:"sizes" binding:"required,min=1"`
}

// UpdateProductRequest represents a partial product update.
// Pointers distinguish omitted fields from zero values.
type UpdateProductRequest struct {
	Name        *string   `json:"name,omitempty" binding:"omitempty,min=3,max=200"`
	Description *string   `json:"description,omitempty" binding:"omitempty,min=3,max=1000"`
	Price       *float64  `json:"price,omitempty" binding:"omitempty,gt=0"`
	Discount    *float64  `json:"discount,omitempty" binding:"omitempty,gte=0,lte=100"`
	Images      *[]string `json:"images,omitempty" binding:"omitempty,dive,url"`
	Category    *string   `json:"category,omitempty"`
	Variants    *[]string `json:"variants,omitempty" binding:"omitempty,min=1"`
	Sizes       *[]string `json:"sizes,omitempty" binding:"omitempty,min=1"`
}

// AddToCartRequest carries the full content of the new unpaid cart.
type AddToCartRequest struct {
	Items []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CartItemRequest is one line of AddToCartRequest. Its fields carry no
// binding rules; the cart service checks every line and reports all failures
// at once.
type CartItemRequest struct {
	Product  string   `json:"product"`
	Quantity Quantity `json:"quantity"`
}

// Quantity keeps the raw JSON value of a cart item quantity. Decoding never
// fails, so malformed values surface as item errors instead of a body error.
type Quantity json.RawMessage

// UnmarshalJSON stores data as is.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = append((*q)[:0], data...)
	return nil
}

// MarshalJSON writes the raw value back, or null when empty.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if len(q) == 0 {
		return []byte("null"), nil
	}
	return q, nil
}

// Int returns the quantity when it is a JSON integer greater than zero.
// Quoted numbers, fractions and null are rejected.
func (q Quantity) Int() (int, bool) {
	n, err := strconv.Atoi(string(q))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
