package products

import (
	"net/url"
	"strings"
	"time"

	"MockShop/internal/resource"
)

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
}

func (p Product) RecordID() int { return p.ID }

func (p Product) WithID(id int) Product {
	p.ID = id
	return p
}

// Input is the body of create and update requests. Nil fields were absent.
type Input struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	Description *string  `json:"description"`
}

// Seed returns the catalogue every fresh process starts with.
func Seed() []Product {
	return []Product{
		{ID: 1, Name: "Wireless Bluetooth Headphones", Price: 99.99, Category: "Electronics", Stock: 50,
			Description: "High-quality wireless headphones with noise cancellation"},
		{ID: 2, Name: "Smart Watch", Price: 299.99, Category: "Electronics", Stock: 25,
			Description: "Feature-rich smartwatch with health monitoring"},
		{ID: 3, Name: "Running Shoes", Price: 129.99, Category: "Sports", Stock: 100,
			Description: "Comfortable running shoes for all terrains"},
		{ID: 4, Name: "Coffee Maker", Price: 79.99, Category: "Home", Stock: 30,
			Description: "Automatic drip coffee maker with programmable timer"},
	}
}

func NewStore() *resource.MemStore[Product] {
	return resource.NewMemStore(Seed()...)
}

// Kind wires products into the generic resource API.
func Kind() resource.Kind[Product, Input] {
	return resource.Kind[Product, Input]{
		Name:        "Product",
		CheckCreate: checkCreate,
		CheckUpdate: checkUpdate,
		Build:       build,
		Apply:       apply,
		Filter:      filter,
	}
}

func checkCreate(in Input, mode resource.UpdateMode) error {
	if !nonEmpty(in.Name) || !resource.Provided(in.Price, mode) || !nonEmpty(in.Category) {
		return resource.Invalid("Name, price, and category are required")
	}
	return checkValues(in)
}

// checkUpdate rejects payloads that would leave a record create would refuse.
// Only present mode can blank a field; truthy mode ignores empty strings.
func checkUpdate(in Input, mode resource.UpdateMode) error {
	if mode == resource.UpdatePresent && (blank(in.Name) || blank(in.Category)) {
		return resource.Invalid("Name and category cannot be empty")
	}
	return checkValues(in)
}

func checkValues(in Input) error {
	if (in.Price != nil && *in.Price < 0) || (in.Stock != nil && *in.Stock < 0) {
		return resource.Invalid("Price and stock must be non-negative")
	}
	return nil
}

func build(in Input, _ time.Time) Product {
	p := Product{
		Name:     *in.Name,
		Price:    *in.Price,
		Category: *in.Category,
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	return p
}

func apply(p Product, in Input, mode resource.UpdateMode) Product {
	resource.Assign(&p.Name, in.Name, mode)
	resource.Assign(&p.Price, in.Price, mode)
	resource.Assign(&p.Category, in.Category, mode)
	resource.Assign(&p.Stock, in.Stock, mode)
	resource.Assign(&p.Description, in.Description, mode)
	return p
}

func filter(q url.Values) func(Product) bool {
	category := q.Get("category")
	if category == "" {
		return nil
	}
	return func(p Product) bool { return strings.EqualFold(p.Category, category) }
}

func nonEmpty(s *string) bool { return s != nil && *s != "" }

func blank(s *string) bool { return s != nil && strings.TrimSpace(*s) == "" }
