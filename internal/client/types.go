package client

import "time"

// Envelope mirrors the services' response wrapper.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Total   *int   `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
}

type Page[T any] struct {
	Items []T
	Total int
}

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
}

// ProductInput carries create and partial-update payloads; nil fields are omitted.
type ProductInput struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type ProductQuery struct {
	Category string
	Limit    int
}

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

type UserInput struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

type UserQuery struct {
	Role   string
	Active *bool
	Limit  int
}

type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Health struct {
	Success   bool   `json:"success"`
	Service   string `json:"service"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Ptr is a convenience for filling Input structs.
func Ptr[V any](v V) *V { return &v }
