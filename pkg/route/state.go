package route

import "github.com/vanderheijden86/taskpeek/pkg/model"

// FilterKey names one of the list filters.
type FilterKey string

const (
	FilterPhase     FilterKey = "phase"
	FilterMilestone FilterKey = "milestone"
	FilterRole      FilterKey = "role"
	FilterStatus    FilterKey = "status"
	FilterBlocked   FilterKey = "blocked_filter"
)

// FilterKeys lists the filter keys in address order.
var FilterKeys = []FilterKey{FilterPhase, FilterMilestone, FilterRole, FilterStatus, FilterBlocked}

// BlockedFilter restricts the list to blocked or unblocked tasks.
type BlockedFilter string

const (
	BlockedAny      BlockedFilter = ""
	BlockedOnly     BlockedFilter = "blocked"
	BlockedExcluded BlockedFilter = "unblocked"
)

// Filters holds the active list filters. Empty fields are inactive.
type Filters struct {
	Phase     string
	Milestone string
	Role      string
	Status    model.Status
	Blocked   BlockedFilter
}

// Get returns the value of the filter named by key.
func (f Filters) Get(key FilterKey) string {
	switch key {
	case FilterPhase:
		return f.Phase
	case FilterMilestone:
		return f.Milestone
	case FilterRole:
		return f.Role
	case FilterStatus:
		return string(f.Status)
	case FilterBlocked:
		return string(f.Blocked)
	}
	return ""
}

// With returns a copy of f with key set to value. It reports false, and
// returns f unchanged, when the key is unknown or the value is not allowed
// for that key. An empty value clears the filter.
func (f Filters) With(key FilterKey, value string) (Filters, bool) {
	if !ValidFilterValue(key, value) {
		return f, false
	}
	switch key {
	case FilterPhase:
		f.Phase = value
	case FilterMilestone:
		f.Milestone = value
	case FilterRole:
		f.Role = value
	case FilterStatus:
		f.Status = model.Status(value)
	case FilterBlocked:
		f.Blocked = BlockedFilter(value)
	}
	return f, true
}

// Active reports whether any filter is set.
func (f Filters) Active() bool {
	return f != Filters{}
}

// ValidFilterValue reports whether value is acceptable for key.
func ValidFilterValue(key FilterKey, value string) bool {
	switch key {
	case FilterPhase, FilterMilestone, FilterRole:
		return true
	case FilterStatus:
		return value == "" || model.Status(value).IsValid()
	case FilterBlocked:
		switch BlockedFilter(value) {
		case BlockedAny, BlockedOnly, BlockedExcluded:
			return true
		}
	}
	return false
}

// SortField is a column the list can be ordered by.
type SortField string

const (
	SortTitle     SortField = "title"
	SortStatus    SortField = "status"
	SortRole      SortField = "role"
	SortPhase     SortField = "phase"
	SortMilestone SortField = "milestone"
	SortUpdatedAt SortField = "updated_at"
)

// SortFields lists the sortable fields in picker order.
var SortFields = []SortField{SortUpdatedAt, SortTitle, SortStatus, SortRole, SortPhase, SortMilestone}

// Valid reports whether s is a known sort field.
func (s SortField) Valid() bool {
	for _, f := range SortFields {
		if f == s {
			return true
		}
	}
	return false
}

// SortOrder is the list ordering direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

// Flip returns the opposite order.
func (o SortOrder) Flip() SortOrder {
	if o == OrderAsc {
		return OrderDesc
	}
	return OrderAsc
}

// GroupBy selects how list rows are grouped. GroupNone leaves them flat.
type GroupBy string

const (
	GroupNone      GroupBy = ""
	GroupPhase     GroupBy = "phase"
	GroupMilestone GroupBy = "milestone"
	GroupStatus    GroupBy = "status"
	GroupRole      GroupBy = "role"
)

// GroupByOptions lists the grouping modes in cycle order.
var GroupByOptions = []GroupBy{GroupNone, GroupPhase, GroupMilestone, GroupStatus, GroupRole}

// Valid reports whether g is a known grouping.
func (g GroupBy) Valid() bool {
	for _, o := range GroupByOptions {
		if o == g {
			return true
		}
	}
	return false
}

// Defaults for a fresh list.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	DefaultSort     = SortUpdatedAt
	DefaultOrder    = OrderDesc
)

// ListState is everything that determines which page of tasks is shown.
// It is a comparable value: two states are equal iff == holds.
type ListState struct {
	Filters  Filters
	Search   string
	Sort     SortField
	Order    SortOrder
	GroupBy  GroupBy
	Page     int
	PageSize int
}

// DefaultListState returns the state of an unfiltered first page.
func DefaultListState() ListState {
	return ListState{
		Sort:     DefaultSort,
		Order:    DefaultOrder,
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

// IsDefault reports whether s equals DefaultListState.
func (s ListState) IsDefault() bool {
	return s == DefaultListState()
}
