package rbac

import (
	"context"
	"database/sql"
	"fmt"

	"mediadesk/internal/repo"
)

// ForbiddenError indicates the principal may not perform the action.
type ForbiddenError struct {
	Resource Resource
	Action   Action
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("permission %s:%s required", e.Resource, e.Action)
}

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   Role
}

// Service layers the row-ownership check over the coarse grant matrix.
type Service struct {
	DB *sql.DB
}

// CheckAccess authorizes action on a resource class, and when resourceID is
// set, on that specific row. Admins bypass ownership. A missing row surfaces
// as repo.ErrNotFound rather than a denial.
func (s Service) CheckAccess(ctx context.Context, p Principal, resource Resource, action Action, resourceID string) error {
	if !ValidRole(p.Role) {
		return ForbiddenError{Resource: resource, Action: action}
	}
	if p.Role == RoleAdmin {
		return nil
	}
	if !HasPermission(p.Role, resource, action) {
		return ForbiddenError{Resource: resource, Action: action}
	}
	if resourceID == "" {
		return nil
	}
	resolver, ok := ownershipResolvers[resource]
	if !ok {
		// No per-row owner column; the grant matrix decides.
		return nil
	}
	owns, err := resolver(ctx, s, p, resourceID)
	if err != nil {
		return err
	}
	if !owns {
		return ForbiddenError{Resource: resource, Action: action}
	}
	return nil
}

// OwnershipResolver decides whether the principal owns one row of a resource.
// A missing row surfaces as repo.ErrNotFound.
type OwnershipResolver func(ctx context.Context, s Service, p Principal, id string) (bool, error)

// ownershipResolvers holds the per-resource refinement. Resources without an
// entry have no owner column and fall through to the coarse grant.
var ownershipResolvers = map[Resource]OwnershipResolver{
	ResourceClients:   resolveClientOwner,
	ResourceCampaigns: resolveCreatorOrAssignee("campaigns"),
	ResourceTasks:     resolveCreatorOrAssignee("tasks"),
	ResourceInvoices:  resolveInvoiceOwner,
}

func resolveClientOwner(ctx context.Context, s Service, p Principal, id string) (bool, error) {
	if p.Role == RoleManager {
		return true, nil
	}
	var ownerID string
	err := s.DB.QueryRowContext(ctx, `SELECT owner_id FROM clients WHERE id=? AND deleted_at IS NULL`, id).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return false, repo.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return ownerID == p.UserID, nil
}

func resolveCreatorOrAssignee(table string) OwnershipResolver {
	query := fmt.Sprintf(`SELECT created_by_id, assigned_to_id FROM %s WHERE id=? AND deleted_at IS NULL`, table)
	return func(ctx context.Context, s Service, p Principal, id string) (bool, error) {
		if p.Role == RoleManager {
			return true, nil
		}
		var createdBy string
		var assignedTo sql.NullString
		err := s.DB.QueryRowContext(ctx, query, id).Scan(&createdBy, &assignedTo)
		if err == sql.ErrNoRows {
			return false, repo.ErrNotFound
		}
		if err != nil {
			return false, err
		}
		return createdBy == p.UserID || (assignedTo.Valid && assignedTo.String == p.UserID), nil
	}
}

func resolveInvoiceOwner(ctx context.Context, s Service, p Principal, id string) (bool, error) {
	if p.Role == RoleFinance {
		return true, nil
	}
	var createdBy string
	err := s.DB.QueryRowContext(ctx, `SELECT created_by_id FROM invoices WHERE id=? AND deleted_at IS NULL`, id).Scan(&createdBy)
	if err == sql.ErrNoRows {
		return false, repo.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return createdBy == p.UserID, nil
}
