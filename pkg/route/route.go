// Package route maps dashboard views to and from their address fragments.
//
// A fragment looks like "#/list?status=to_do&page=2" or "#/task/T1". Decode
// never fails: anything it cannot make sense of becomes the default list and
// is reported with ok == false so the caller can canonicalize the address.
package route

// Kind identifies which view a Route addresses.
type Kind int

const (
	KindList Kind = iota
	KindOverview
	KindBoard
	KindTask
)

// String returns the path segment for the kind.
func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindOverview:
		return "overview"
	case KindBoard:
		return "board"
	case KindTask:
		return "task"
	default:
		return "unknown"
	}
}

// Swimlane selects the board column grouping. SwimlaneStatus is the default.
type Swimlane string

const (
	SwimlaneStatus    Swimlane = ""
	SwimlanePhase     Swimlane = "phase"
	SwimlaneRole      Swimlane = "role"
	SwimlaneMilestone Swimlane = "milestone"
)

// Swimlanes lists the board groupings in cycle order.
var Swimlanes = []Swimlane{SwimlaneStatus, SwimlanePhase, SwimlaneRole, SwimlaneMilestone}

// Valid reports whether s is a known swimlane.
func (s Swimlane) Valid() bool {
	switch s {
	case SwimlaneStatus, SwimlanePhase, SwimlaneRole, SwimlaneMilestone:
		return true
	}
	return false
}

// Route is a tagged union over the dashboard views. Only the field matching
// Kind is meaningful; the others are zero. Routes are comparable.
type Route struct {
	Kind     Kind
	List     ListState
	Swimlane Swimlane
	TaskID   string
}

// ListRoute returns the list view for s.
func ListRoute(s ListState) Route {
	return Route{Kind: KindList, List: s}
}

// DefaultRoute returns the unfiltered first page of the list.
func DefaultRoute() Route {
	return ListRoute(DefaultListState())
}

// OverviewRoute returns the phase overview.
func OverviewRoute() Route {
	return Route{Kind: KindOverview}
}

// BoardRoute returns the board with the given swimlane.
func BoardRoute(s Swimlane) Route {
	return Route{Kind: KindBoard, Swimlane: s}
}

// TaskRoute returns the shareable address of a single task.
func TaskRoute(id string) Route {
	return Route{Kind: KindTask, TaskID: id}
}

// String returns the fragment for r, including the leading '#'.
func (r Route) String() string {
	return Href(r)
}
