package model_test

import (
	"testing"

	"github.com/vanderheijden86/taskpeek/pkg/model"
)

func TestStatusIsValid(t *testing.T) {
	for _, s := range model.Statuses {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []model.Status{"", "blocked", "DONE"} {
		if s.IsValid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
	if !model.StatusDone.IsDone() || model.StatusInProgress.IsDone() {
		t.Error("IsDone should only hold for done")
	}
	if got := model.StatusInProgress.Label(); got != "in progress" {
		t.Errorf("expected 'in progress', got %q", got)
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    model.Task
		wantErr bool
	}{
		{"valid", model.Task{ID: "T1", Status: model.StatusToDo}, false},
		{"empty id", model.Task{Status: model.StatusToDo}, true},
		{"bad status", model.Task{ID: "T1", Status: "nope"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, in := range []string{"2025-03-01T10:00:00Z", "2025-03-01 10:00:00", "2025-03-01T10:00:00"} {
		ts, ok := model.ParseTimestamp(in)
		if !ok {
			t.Errorf("expected %q to parse", in)
			continue
		}
		if ts.Year() != 2025 || ts.Month() != 3 || ts.Hour() != 10 {
			t.Errorf("unexpected parse of %q: %v", in, ts)
		}
	}
	if _, ok := model.ParseTimestamp("yesterday"); ok {
		t.Error("expected garbage timestamp to be rejected")
	}
	if _, ok := (model.Task{}).UpdatedTime(); ok {
		t.Error("expected empty UpdatedAt to be rejected")
	}
}

func TestIsKnownRole(t *testing.T) {
	if !model.IsKnownRole("developer") {
		t.Error("developer should be a known role")
	}
	if model.IsKnownRole("astronaut") {
		t.Error("astronaut should not be a known role")
	}
}

func TestFlagUnmarshal(t *testing.T) {
	tests := map[string]bool{
		`true`: true, `1`: true, `"1"`: true,
		`false`: false, `0`: false, `"0"`: false, `null`: false,
	}
	for in, want := range tests {
		var f model.Flag
		if err := f.UnmarshalJSON([]byte(in)); err != nil {
			t.Errorf("UnmarshalJSON(%s) error: %v", in, err)
			continue
		}
		if bool(f) != want {
			t.Errorf("UnmarshalJSON(%s) = %v, want %v", in, f, want)
		}
	}
	var f model.Flag
	if err := f.UnmarshalJSON([]byte(`"yes"`)); err == nil {
		t.Error("expected error for unrecognized flag")
	}
}
