package ui

import (
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/taskpeek/pkg/catalog"
	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// filterForm edits every list filter at once. The form binds to the string
// fields, so a filterForm must not be copied once built.
type filterForm struct {
	form *huh.Form

	phase     string
	milestone string
	role      string
	status    string
	blocked   string
}

func newFilterForm(cat *catalog.Catalog, cur route.Filters) *filterForm {
	f := &filterForm{
		phase:     cur.Phase,
		milestone: cur.Milestone,
		role:      cur.Role,
		status:    string(cur.Status),
		blocked:   string(cur.Blocked),
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Phase").
				Options(phaseOptions(cat, cur.Phase)...).
				Value(&f.phase),
			huh.NewSelect[string]().
				Title("Milestone").
				Options(milestoneOptions(cat, cur.Milestone)...).
				Value(&f.milestone),
			huh.NewSelect[string]().
				Title("Role").
				Options(roleOptions(cur.Role)...).
				Value(&f.role),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions()...).
				Value(&f.status),
			huh.NewSelect[string]().
				Title("Blocked").
				Options(
					huh.NewOption("Any", string(route.BlockedAny)),
					huh.NewOption("Blocked only", string(route.BlockedOnly)),
					huh.NewOption("Unblocked only", string(route.BlockedExcluded)),
				).
				Value(&f.blocked),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
	return f
}

// filters returns the chosen values. The store drops any it does not accept.
func (f *filterForm) filters() route.Filters {
	return route.Filters{
		Phase:     f.phase,
		Milestone: f.milestone,
		Role:      f.role,
		Status:    model.Status(f.status),
		Blocked:   route.BlockedFilter(f.blocked),
	}
}

func anyOption() huh.Option[string] {
	return huh.NewOption("Any", "")
}

// phaseOptions lists catalog phases. A current value the catalog does not
// know is kept so opening the form never drops it.
func phaseOptions(cat *catalog.Catalog, cur string) []huh.Option[string] {
	opts := []huh.Option[string]{anyOption()}
	known := false
	if cat != nil {
		for _, p := range cat.Phases {
			opts = append(opts, huh.NewOption(cat.PhaseLabel(p.ID), p.ID))
			known = known || p.ID == cur
		}
	}
	if cur != "" && !known {
		opts = append(opts, huh.NewOption(cur, cur))
	}
	return opts
}

func milestoneOptions(cat *catalog.Catalog, cur string) []huh.Option[string] {
	opts := []huh.Option[string]{anyOption()}
	known := false
	if cat != nil {
		for _, m := range cat.Milestones {
			opts = append(opts, huh.NewOption(cat.MilestoneLabel(m.ID), m.ID))
			known = known || m.ID == cur
		}
	}
	if cur != "" && !known {
		opts = append(opts, huh.NewOption(cur, cur))
	}
	return opts
}

func roleOptions(cur string) []huh.Option[string] {
	opts := []huh.Option[string]{anyOption()}
	for _, r := range model.KnownRoles {
		opts = append(opts, huh.NewOption(r.Label, r.Value))
	}
	if cur != "" && !model.IsKnownRole(cur) {
		opts = append(opts, huh.NewOption(cur, cur))
	}
	return opts
}

func statusOptions() []huh.Option[string] {
	opts := []huh.Option[string]{anyOption()}
	for _, s := range model.Statuses {
		opts = append(opts, huh.NewOption(s.Label(), string(s)))
	}
	return opts
}
