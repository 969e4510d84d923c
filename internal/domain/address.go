package domain

import (
	"time"
)

// Address represents a saved address belonging to one user. The three flags
// are independent: any number of a user's addresses may simultaneously be
// default, shipping, or billing.
type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	State      string    `json:"state"`
	Zip        string    `json:"zip"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
	IsShipping bool      `json:"is_shipping"`
	IsBilling  bool      `json:"is_billing"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AddressUpdate describes a sparse update to an owned address. Nil pointers
// mean the field is left untouched.
type AddressUpdate struct {
	Line1      *string
	Line2      *string
	State      *string
	Zip        *string
	Country    *string
	IsDefault  *bool
	IsShipping *bool
	IsBilling  *bool
}

// Empty reports whether the update carries no fields at all.
func (a AddressUpdate) Empty() bool {
	return a.Line1 == nil && a.Line2 == nil && a.State == nil && a.Zip == nil &&
		a.Country == nil && a.IsDefault == nil && a.IsShipping == nil && a.IsBilling == nil
}
