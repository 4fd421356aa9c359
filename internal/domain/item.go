package domain

import "errors"

// ErrNotFound is returned when no item matches the requested id.
var ErrNotFound = errors.New("item not found")

type Item struct {
	ID          int64    `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Description *string  `db:"description" json:"description"`
	Category    *string  `db:"category" json:"category"`
	Price       *float64 `db:"price" json:"price"`
	Quantity    int64    `db:"quantity" json:"quantity"`
	CreatedAt   string   `db:"created_at" json:"created_at"`
	UpdatedAt   string   `db:"updated_at" json:"updated_at"`
}

// Optional fields distinguish absent (Set=false), explicit null
// (Set=true, Null=true) and a concrete value.

type OptString struct {
	Set   bool
	Null  bool
	Value string
}

type OptFloat struct {
	Set   bool
	Null  bool
	Value float64
}

type OptInt struct {
	Set   bool
	Null  bool
	Value int64
}

// ItemChange is the typed partial-update set: each field carries its own
// present-or-absent state, so a write touches exactly the fields the
// caller supplied.
type ItemChange struct {
	Name        OptString
	Description OptString
	Category    OptString
	Price       OptFloat
	Quantity    OptInt
}

// Empty reports whether the change set names no fields at all.
func (c ItemChange) Empty() bool {
	return !c.Name.Set && !c.Description.Set && !c.Category.Set && !c.Price.Set && !c.Quantity.Set
}
