package cache

import (
	"github.com/google/uuid"
)

// Key strings for the cached read views. Read-path population and invalidation
// must both go through KeyFor; never spell these literals elsewhere.
const (
	DashboardKey      = "AdminDashboard"
	CategoryListKey   = "CategoryList"
	CategoryKeyPrefix = "Category_"
)

// ResourceKind names an independently cacheable read view.
type ResourceKind int

const (
	KindDashboard ResourceKind = iota + 1
	KindCategoryList
	KindCategory
)

// String returns the kind name used in logs and metric attributes.
func (k ResourceKind) String() string {
	switch k {
	case KindDashboard:
		return "dashboard"
	case KindCategoryList:
		return "category_list"
	case KindCategory:
		return "category"
	default:
		return "unknown"
	}
}

// Resource identifies one cache entry. Only KindCategory carries an ID.
type Resource struct {
	Kind ResourceKind
	ID   uuid.UUID
}

var (
	// Dashboard is the global admin dashboard aggregate.
	Dashboard = Resource{Kind: KindDashboard}

	// CategoryList is the global list of categories with tip counts.
	CategoryList = Resource{Kind: KindCategoryList}
)

// Category returns the detail view resource for a single category.
func Category(id uuid.UUID) Resource {
	return Resource{Kind: KindCategory, ID: id}
}

// KeyFor maps a resource to its cache key. It is a pure function; the category
// key embeds the canonical UUID string so distinct ids never collide.
func KeyFor(r Resource) string {
	switch r.Kind {
	case KindDashboard:
		return DashboardKey
	case KindCategoryList:
		return CategoryListKey
	case KindCategory:
		return CategoryKeyPrefix + r.ID.String()
	default:
		return ""
	}
}

// String implements fmt.Stringer using the cache key.
func (r Resource) String() string {
	return KeyFor(r)
}
