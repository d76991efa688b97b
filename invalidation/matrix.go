package invalidation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/goliatone/go-tips-admin/cache"
)

var (
	// ErrUnknownEvent is returned when the matrix has no row for an
	// (entity, mutation) pair.
	ErrUnknownEvent = errors.New("invalidation: no matrix row for event")

	// ErrMissingCategoryID is returned when a row evicts category detail views
	// but the event names no affected category.
	ErrMissingCategoryID = errors.New("invalidation: event requires at least one category id")

	// ErrNilCategoryID is returned for uuid.Nil category ids.
	ErrNilCategoryID = errors.New("invalidation: category id must not be nil")
)

// Entity is a mutated business entity kind.
type Entity int

const (
	EntityCategory Entity = iota + 1
	EntityTip
	EntityUser
)

// String returns the lowercase entity name.
func (e Entity) String() string {
	switch e {
	case EntityCategory:
		return "category"
	case EntityTip:
		return "tip"
	case EntityUser:
		return "user"
	default:
		return "unknown"
	}
}

// Mutation is the kind of write applied to an entity.
type Mutation int

const (
	MutationCreate Mutation = iota + 1
	MutationUpdate
	MutationDelete
)

// String returns the lowercase mutation name.
func (m Mutation) String() string {
	switch m {
	case MutationCreate:
		return "create"
	case MutationUpdate:
		return "update"
	case MutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Scope is a set of cached views that must be evicted.
type Scope uint8

const (
	ScopeDashboard Scope = 1 << iota
	ScopeCategoryList
	ScopeCategory

	ScopeNone Scope = 0
)

// Has reports whether s includes every bit of other.
func (s Scope) Has(other Scope) bool {
	return s&other == other
}

// Event describes one successful mutation. CategoryIDs lists every category
// whose detail view is affected: the category itself for category writes, the
// tip's category for tip writes, or both the old and new category when a tip
// moves.
type Event struct {
	Entity      Entity
	Mutation    Mutation
	CategoryIDs []uuid.UUID
}

// String returns "entity.mutation", e.g. "tip.update".
func (e Event) String() string {
	return e.Entity.String() + "." + e.Mutation.String()
}

// Row keys the matrix.
type Row struct {
	Entity   Entity
	Mutation Mutation
}

// Matrix maps each mutation to the views it makes stale.
type Matrix map[Row]Scope

// DefaultMatrix returns the invalidation dependency matrix. Every mutation of
// every entity evicts the dashboard, user updates included, so no change to a
// displayed count can be missed.
func DefaultMatrix() Matrix {
	all := ScopeDashboard | ScopeCategoryList | ScopeCategory

	return Matrix{
		{EntityCategory, MutationCreate}: ScopeDashboard | ScopeCategoryList,
		{EntityCategory, MutationUpdate}: all,
		{EntityCategory, MutationDelete}: all,

		{EntityTip, MutationCreate}: all,
		{EntityTip, MutationUpdate}: all,
		{EntityTip, MutationDelete}: all,

		{EntityUser, MutationCreate}: ScopeDashboard,
		{EntityUser, MutationUpdate}: ScopeDashboard,
		{EntityUser, MutationDelete}: ScopeDashboard,
	}
}

// Scope returns the scope for an (entity, mutation) pair.
func (m Matrix) Scope(entity Entity, mutation Mutation) (Scope, bool) {
	s, ok := m[Row{Entity: entity, Mutation: mutation}]
	return s, ok
}

// Resources expands an event into the concrete resources to evict. Category
// ids are deduplicated and keep their first-seen order. Ids on an event whose
// row does not evict category detail views are ignored.
func (m Matrix) Resources(ev Event) ([]cache.Resource, error) {
	scope, ok := m.Scope(ev.Entity, ev.Mutation)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, ev)
	}

	out := make([]cache.Resource, 0, 2+len(ev.CategoryIDs))
	if scope.Has(ScopeDashboard) {
		out = append(out, cache.Dashboard)
	}
	if scope.Has(ScopeCategoryList) {
		out = append(out, cache.CategoryList)
	}

	if !scope.Has(ScopeCategory) {
		return out, nil
	}

	if len(ev.CategoryIDs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCategoryID, ev)
	}

	seen := make(map[uuid.UUID]struct{}, len(ev.CategoryIDs))
	for _, id := range ev.CategoryIDs {
		if id == uuid.Nil {
			return nil, fmt.Errorf("%w: %s", ErrNilCategoryID, ev)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, cache.Category(id))
	}
	return out, nil
}

// MatrixRow is the flat, printable form of one matrix entry.
type MatrixRow struct {
	Entity       string `json:"entity"`
	Mutation     string `json:"mutation"`
	Dashboard    bool   `json:"dashboard"`
	CategoryList bool   `json:"category_list"`
	Category     bool   `json:"category"`
}

// Rows returns the matrix ordered by entity then mutation.
func (m Matrix) Rows() []MatrixRow {
	keys := make([]Row, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Entity != keys[j].Entity {
			return keys[i].Entity < keys[j].Entity
		}
		return keys[i].Mutation < keys[j].Mutation
	})

	rows := make([]MatrixRow, 0, len(keys))
	for _, k := range keys {
		s := m[k]
		rows = append(rows, MatrixRow{
			Entity:       k.Entity.String(),
			Mutation:     k.Mutation.String(),
			Dashboard:    s.Has(ScopeDashboard),
			CategoryList: s.Has(ScopeCategoryList),
			Category:     s.Has(ScopeCategory),
		})
	}
	return rows
}
