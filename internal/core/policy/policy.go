// Package policy decides whether a caller may perform a storefront operation.
// It holds no state: every decision is a function of the caller, the
// operation and, for product mutations, the target product.
package policy

import (
	"fmt"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

// Operation names an action the policy can gate.
type Operation string

const (
	OpViewCatalog      Operation = "view_catalog"
	OpRegister         Operation = "register"
	OpLogin            Operation = "login"
	OpCreateProduct    Operation = "create_product"
	OpUpdateProduct    Operation = "update_product"
	OpDeleteProduct    Operation = "delete_product"
	OpViewOwnProducts  Operation = "view_own_products"
	OpViewAdminCatalog Operation = "view_admin_catalog"
)

// rule decides for an authenticated caller.
type rule func(c *domain.Caller, target *domain.Product) bool

// entry holds the decision for one operation. Roles missing from byRole are denied.
type entry struct {
	anonymous bool
	byRole    map[domain.Role]rule
}

func always(*domain.Caller, *domain.Product) bool { return true }

func ownsTarget(c *domain.Caller, target *domain.Product) bool {
	return target.OwnedBy(c.AccountID)
}

var everyRole = map[domain.Role]rule{
	domain.RoleAdmin:    always,
	domain.RoleDesigner: always,
	domain.RoleCustomer: always,
}

var table = map[Operation]entry{
	OpViewCatalog: {anonymous: true, byRole: everyRole},
	OpRegister:    {anonymous: true},
	OpLogin:       {anonymous: true, byRole: everyRole},
	OpCreateProduct: {byRole: map[domain.Role]rule{
		domain.RoleAdmin:    always,
		domain.RoleDesigner: always,
	}},
	OpUpdateProduct: {byRole: map[domain.Role]rule{
		domain.RoleAdmin:    always,
		domain.RoleDesigner: ownsTarget,
	}},
	OpDeleteProduct: {byRole: map[domain.Role]rule{
		domain.RoleAdmin: always,
	}},
	OpViewOwnProducts: {byRole: map[domain.Role]rule{
		domain.RoleDesigner: always,
	}},
	OpViewAdminCatalog: {byRole: map[domain.Role]rule{
		domain.RoleAdmin: always,
	}},
}

// Allowed reports whether caller may perform op on target. A nil caller is
// anonymous; target is only consulted by ownership rules.
func Allowed(caller *domain.Caller, op Operation, target *domain.Product) bool {
	e, ok := table[op]
	if !ok {
		return false
	}
	if caller == nil {
		return e.anonymous
	}
	r, ok := e.byRole[caller.Role]
	if !ok {
		return false
	}
	return r(caller, target)
}

// DeniedError reports the operation the policy refused. It matches
// domain.ErrAccessDenied under errors.Is.
type DeniedError struct {
	Op Operation
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrAccessDenied, e.Op)
}

func (e *DeniedError) Unwrap() error { return domain.ErrAccessDenied }

// Authorize is Allowed expressed as an error: nil or a *DeniedError.
func Authorize(caller *domain.Caller, op Operation, target *domain.Product) error {
	if Allowed(caller, op, target) {
		return nil
	}
	return &DeniedError{Op: op}
}

// Attribution returns the creator to record for a product created by caller:
// nil for administrators, the caller's own id for designers.
func Attribution(caller *domain.Caller) *int64 {
	if caller == nil || caller.Role != domain.RoleDesigner {
		return nil
	}
	id := caller.AccountID
	return &id
}
