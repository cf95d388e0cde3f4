package shipping

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/garmentcrm/backend/internal/domain/shipping"
)

// ReconcilePlan is the delta between the client's package working set and
// what is persisted for the order. Creates and Updates carry the working
// packages verbatim; Deletes lists persisted specifications absent from
// the working set.
type ReconcilePlan struct {
	Creates []*shipping.WorkingPackage
	Updates []*shipping.WorkingPackage
	Deletes []uuid.UUID
}

// Reconciler validates a package working set and computes the persistence
// delta for it. It is stateless and safe for concurrent use.
type Reconciler struct{}

// NewReconciler creates a new reconciler
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Validate checks the working set before anything is persisted. Packages
// must each carry at least one live item assignment and a carrier/service
// selection, and the run must resolve a usable shipping contact phone:
// the first package phone if any package carries one, otherwise
// fallbackPhone (the customer's primary contact number).
func (r *Reconciler) Validate(packages []*shipping.WorkingPackage, items []*shipping.WorkingItem, fallbackPhone string) error {
	if len(packages) > 0 {
		var empty []string
		for _, pkg := range packages {
			assigned := false
			for _, item := range items {
				if item.Action == shipping.ItemActionDelete {
					continue
				}
				if item.AssignedTo(pkg.Ref) {
					assigned = true
					break
				}
			}
			if !assigned {
				empty = append(empty, packageLabel(pkg))
			}
		}
		if len(empty) > 0 {
			return newValidationError(
				"the following packages have no items assigned: %s; assign at least one item to every package or remove the empty ones",
				strings.Join(empty, ", "))
		}

		var missingCarrier []string
		for _, pkg := range packages {
			if !pkg.HasCarrierSelection() {
				missingCarrier = append(missingCarrier, packageLabel(pkg))
			}
		}
		if len(missingCarrier) > 0 {
			return newValidationError(
				"carrier and service are required for the following packages: %s",
				strings.Join(missingCarrier, ", "))
		}

		refs := make(map[string]bool, len(packages))
		for _, pkg := range packages {
			refs[pkg.Ref] = true
		}
		for _, item := range items {
			if item.Action == shipping.ItemActionDelete {
				continue
			}
			for ref, qty := range item.PackageQuantities {
				if qty > 0 && !refs[ref] {
					return newValidationError(
						"item %s is assigned to unknown package reference %s", item.ItemName, ref)
				}
			}
		}
	}

	phone := r.ResolvePhone(packages, fallbackPhone)
	if strings.TrimSpace(phone) == "" {
		return newValidationError(
			"a shipping contact phone number is required: set one on a package or on the customer's primary contact")
	}
	if digits := countDigits(phone); digits < 10 {
		return newValidationError(
			"shipping contact phone number must contain at least 10 digits, got %d", digits)
	}

	return nil
}

// ResolvePhone returns the first non-blank package phone number, falling
// back to the given customer contact number
func (r *Reconciler) ResolvePhone(packages []*shipping.WorkingPackage, fallbackPhone string) string {
	for _, pkg := range packages {
		if strings.TrimSpace(pkg.PhoneNumber) != "" {
			return pkg.PhoneNumber
		}
	}
	return fallbackPhone
}

// Plan partitions the working set against the persisted specifications.
// Reconciling a persisted set against itself yields no creates and no
// deletes, only in-place updates.
func (r *Reconciler) Plan(desired []*shipping.WorkingPackage, persisted []shipping.PackageSpecification) *ReconcilePlan {
	plan := &ReconcilePlan{}
	kept := make(map[uuid.UUID]bool, len(desired))

	for _, pkg := range desired {
		switch pkg.Kind {
		case shipping.PackageNew:
			plan.Creates = append(plan.Creates, pkg)
		case shipping.PackageExisting:
			kept[pkg.ID] = true
			plan.Updates = append(plan.Updates, pkg)
		}
	}

	for i := range persisted {
		if !kept[persisted[i].ID] {
			plan.Deletes = append(plan.Deletes, persisted[i].ID)
		}
	}

	return plan
}

func packageLabel(pkg *shipping.WorkingPackage) string {
	if strings.TrimSpace(pkg.Name) != "" {
		return pkg.Name
	}
	return pkg.Ref
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
