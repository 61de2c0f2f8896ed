package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Persona is an operating role layered on top of an authenticated account.
// It gates which navigation and operations a UI shows; the remote boundary
// performs its own enforcement regardless.
type Persona string

const (
	PersonaAdmin       Persona = "admin"
	PersonaSalesperson Persona = "salesperson"
)

// ParsePersona validates a persona string from user input.
func ParsePersona(s string) (Persona, error) {
	switch Persona(s) {
	case PersonaAdmin, PersonaSalesperson:
		return Persona(s), nil
	default:
		return "", fmt.Errorf("unknown persona %q (expected %q or %q)", s, PersonaAdmin, PersonaSalesperson)
	}
}

// Session is the explicit auth/session object handed to adapters after a
// successful login. It replaces the ambient global the original UI kept:
// created by Login, carried by the caller, torn down at logout.
type Session struct {
	UserID   int       `json:"user_id"`
	Username string    `json:"username"`
	Persona  Persona   `json:"persona"`
	IssuedAt time.Time `json:"issued_at"`
}

// WithPersona returns a copy of the session operating under the given persona.
func (s Session) WithPersona(p Persona) Session {
	s.Persona = p
	return s
}

// Customer is a catalog customer row as returned by the remote boundary.
type Customer struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Product is a catalog product row as returned by the remote boundary.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"is_active"`
}

// Catalog is the customers + products snapshot the sale wizard works from.
// It is a read-only view; the remote database stays authoritative.
type Catalog struct {
	Customers []Customer `json:"customers"`
	Products  []Product  `json:"products"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// FindCustomer returns the customer with the given ID, if present.
func (c *Catalog) FindCustomer(id int) (*Customer, bool) {
	for i := range c.Customers {
		if c.Customers[i].ID == id {
			return &c.Customers[i], true
		}
	}
	return nil, false
}

// FindProduct returns the product with the given ID, if present.
func (c *Catalog) FindProduct(id int) (*Product, bool) {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i], true
		}
	}
	return nil, false
}
