package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles. A role is assigned at registration
// and never changes afterwards.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDesigner Role = "designer"
	RoleCustomer Role = "customer"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleDesigner, RoleCustomer}

// ParseRole converts a raw string into a Role, rejecting anything outside the set.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: role must be one of admin, designer, customer", ErrInvalidInput)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDesigner, RoleCustomer:
		return true
	}
	return false
}

// Account models a registered storefront user.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the account holds role r.
func (a *Account) HasRole(r Role) bool {
	return a != nil && a.Role == r
}

// Caller is the identity resolved for a single request. A nil *Caller is an
// anonymous visitor.
type Caller struct {
	AccountID int64
	Role      Role
}

// CallerFor builds the request identity of an authenticated account.
func CallerFor(a *Account) *Caller {
	if a == nil {
		return nil
	}
	return &Caller{AccountID: a.ID, Role: a.Role}
}
