// Package authz resolves the request principal and evaluates the access
// policy declared for the invoked operation.
package authz

import (
	"fmt"

	"github.com/atelier-lms/atelier/internal/shared"
)

// Operation describes one protected entry point. Policy may be nil, meaning
// any authenticated principal passes. Public additionally admits anonymous
// requests as the synthetic guest.
type Operation struct {
	ID     string
	Policy *shared.AccessPolicy
	Public bool
}

// Registry holds every operation descriptor, built once at startup and
// read-only afterwards.
type Registry struct {
	ops map[string]Operation
}

// NewRegistry indexes the given operations by id.
func NewRegistry(ops ...Operation) (*Registry, error) {
	indexed := make(map[string]Operation, len(ops))
	for _, op := range ops {
		if op.ID == "" {
			return nil, fmt.Errorf("authz: operation with empty id")
		}
		if _, exists := indexed[op.ID]; exists {
			return nil, fmt.Errorf("authz: duplicate operation %q", op.ID)
		}
		indexed[op.ID] = op
	}
	return &Registry{ops: indexed}, nil
}

// Lookup returns the descriptor for an operation id.
func (r *Registry) Lookup(id string) (Operation, bool) {
	op, ok := r.ops[id]
	return op, ok
}
