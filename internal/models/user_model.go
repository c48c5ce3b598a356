package models

import "time"

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a customer or administrator account.
type User struct {
	ID                   string     `json:"_id" bson:"_id" firestore:"-"`
	Name                 string     `json:"name" bson:"name" firestore:"name"`
	Email                string     `json:"email" bson:"email" firestore:"email"`
	Image                string     `json:"image" bson:"image" firestore:"image"`
	PasswordHash         string     `json:"-" bson:"password" firestore:"password"`
	Role                 string     `json:"role" bson:"role" firestore:"role"`
	Banned               bool       `json:"banned" bson:"banned" firestore:"banned"`
	PasswordResetToken   string     `json:"-" bson:"passwordResetToken" firestore:"passwordResetToken"`
	PasswordResetExpires *time.Time `json:"-" bson:"passwordResetExpires,omitempty" firestore:"passwordResetExpires,omitempty"`

	// ActiveCart is the single unpaid cart of the user, if any.
	ActiveCart *Cart `json:"activeCart" bson:"activeCart,omitempty" firestore:"activeCart,omitempty"`
	// CartHistory holds paid carts in the order they were paid.
	CartHistory []Cart `json:"cartHistory" bson:"cartHistory" firestore:"cartHistory"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt" firestore:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Carts returns the chronological cart list: paid carts followed by the
// unpaid one. The returned slice is a copy.
func (u *User) Carts() []Cart {
	carts := make([]Cart, 0, len(u.CartHistory)+1)
	carts = append(carts, u.CartHistory...)
	if u.ActiveCart != nil {
		carts = append(carts, *u.ActiveCart)
	}
	return carts
}

// PublicUser is the user shape returned by listing endpoints.
type PublicUser struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image"`
	Role      string    `json:"role"`
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips carts and credentials.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		Role:      u.Role,
		Banned:    u.Banned,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthUser is returned after signup, login and password reset.
type AuthUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
	Role  string `json:"role"`
	Token string `json:"token"`
}
