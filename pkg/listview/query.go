package listview

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// Row is a task as displayed in the list.
type Row struct {
	Task    model.Task
	Blocked bool
}

// DisplayStatus is the task status, except that a blocked to_do task shows as
// "blocked".
func (r Row) DisplayStatus() string {
	if r.Blocked && r.Task.Status == model.StatusToDo {
		return "blocked"
	}
	return string(r.Task.Status)
}

// Group is a run of rows sharing a grouping key. Key is empty for rows that
// have no value for the grouped field.
type Group struct {
	Key  string
	Rows []Row
}

// Query applies the client-side part of s to one page of tasks: search,
// blocked filter and sort.
func Query(tasks []model.Task, blocked map[string]bool, s route.ListState) []Row {
	needle := strings.ToLower(strings.TrimSpace(s.Search))
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" && !matches(t, needle) {
			continue
		}
		b := blocked[t.ID]
		switch s.Filters.Blocked {
		case route.BlockedOnly:
			if !b {
				continue
			}
		case route.BlockedExcluded:
			if b {
				continue
			}
		}
		rows = append(rows, Row{Task: t, Blocked: b})
	}
	SortRows(rows, s.Sort, s.Order)
	return rows
}

func matches(t model.Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle) ||
		strings.Contains(strings.ToLower(t.ID), needle)
}

var statusRank = map[model.Status]int{
	model.StatusToDo:       0,
	model.StatusInProgress: 1,
	model.StatusDone:       2,
}

func rank(s model.Status) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank)
}

// compare orders a before b on field, returning <0, 0 or >0.
func compare(a, b model.Task, field route.SortField) int {
	switch field {
	case route.SortTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case route.SortStatus:
		return rank(a.Status) - rank(b.Status)
	case route.SortRole:
		return strings.Compare(a.Role, b.Role)
	case route.SortPhase:
		return strings.Compare(a.PhaseID, b.PhaseID)
	case route.SortMilestone:
		return strings.Compare(a.MilestoneID, b.MilestoneID)
	default:
		at, aok := a.UpdatedTime()
		bt, bok := b.UpdatedTime()
		switch {
		case aok && bok:
			return at.Compare(bt)
		case aok:
			return 1
		case bok:
			return -1
		}
		return strings.Compare(a.UpdatedAt, b.UpdatedAt)
	}
}

// SortRows sorts rows in place. Ties break on id ascending regardless of order.
func SortRows(rows []Row, field route.SortField, order route.SortOrder) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i].Task, rows[j].Task, field)
		if c == 0 {
			return rows[i].Task.ID < rows[j].Task.ID
		}
		if order == route.OrderAsc {
			return c < 0
		}
		return c > 0
	})
}

// GroupKey returns the value of the grouped field for t.
func GroupKey(t model.Task, by route.GroupBy) string {
	switch by {
	case route.GroupPhase:
		return t.PhaseID
	case route.GroupMilestone:
		return t.MilestoneID
	case route.GroupStatus:
		return string(t.Status)
	case route.GroupRole:
		return t.Role
	}
	return ""
}

// GroupRows splits sorted rows into groups, ordered by first appearance.
// GroupNone yields a single group holding every row.
func GroupRows(rows []Row, by route.GroupBy) []Group {
	if by == route.GroupNone {
		return []Group{{Rows: rows}}
	}
	index := make(map[string]int)
	var groups []Group
	for _, r := range rows {
		key := GroupKey(r.Task, by)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}

// Age renders how long ago ts was, in the coarse units the list shows.
func Age(ts string, now time.Time) string {
	t, ok := model.ParseTimestamp(ts)
	if !ok {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}
