package domain

import "context"

// Kind identifies a user-owned record type.
type Kind string

const (
	KindMeal             Kind = "meal"
	KindIntake           Kind = "intake"
	KindIndividualIntake Kind = "individual_intake"
	KindWater            Kind = "water"
	KindUser             Kind = "user"
)

// OwnerLookup resolves the owning user of a record.
type OwnerLookup interface {
	// OwnerOf returns ErrNotFound when the record does not exist.
	OwnerOf(ctx context.Context, kind Kind, id int64) (int64, error)
}

// OwnershipPolicy decides whether a caller may act on a record, before any
// mutating statement is issued.
type OwnershipPolicy struct {
	owners OwnerLookup
}

// NewOwnershipPolicy creates a policy backed by owners.
func NewOwnershipPolicy(owners OwnerLookup) *OwnershipPolicy {
	return &OwnershipPolicy{owners: owners}
}

// Authorize returns ErrNotFound if the record is missing or belongs to
// someone other than caller. Callers cannot tell the two apart.
func (p *OwnershipPolicy) Authorize(ctx context.Context, caller int64, kind Kind, id int64) error {
	if caller <= 0 {
		return ErrUnauthenticated
	}
	if kind == KindUser {
		if id != caller {
			return ErrNotFound
		}
		return nil
	}
	owner, err := p.owners.OwnerOf(ctx, kind, id)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotFound
	}
	return nil
}
