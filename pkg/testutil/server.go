package testutil

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/taskpeek/pkg/model"
)

// Server is an httptest server speaking the taskman read API over a Dataset.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	data     Dataset
	failures map[string]int
	hits     map[string]int
	hook     func(*http.Request)
}

// NewServer starts a fake server over data and closes it when the test ends.
func NewServer(tb testing.TB, data Dataset) *Server {
	tb.Helper()
	s := &Server{data: data, failures: make(map[string]int), hits: make(map[string]int)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", s.handleTasks)
	mux.HandleFunc("GET /tasks/count", s.handleCount)
	mux.HandleFunc("GET /task/{id}", s.handleTask)
	mux.HandleFunc("GET /task/{id}/deps", s.handleTaskDeps)
	mux.HandleFunc("GET /task/{id}/notes", s.handleNotes)
	mux.HandleFunc("GET /task_deps", s.handleDeps)
	mux.HandleFunc("GET /phases", s.handlePhases)
	mux.HandleFunc("GET /milestones", s.handleMilestones)

	s.Server = httptest.NewServer(s.intercept(mux))
	tb.Cleanup(s.Close)
	return s
}

// Fail makes every request to path answer with code until cleared with 0.
func (s *Server) Fail(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == 0 {
		delete(s.failures, path)
		return
	}
	s.failures[path] = code
}

// Hits returns how many requests were made to path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// SetHook installs fn to run before each request is served. The hook runs
// without the server lock held, so it may block.
func (s *Server) SetHook(fn func(*http.Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = fn
}

// PutTask inserts or replaces a task.
func (s *Server) PutTask(t model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Tasks {
		if s.data.Tasks[i].ID == t.ID {
			s.data.Tasks[i] = t
			return
		}
	}
	s.data.Tasks = append(s.data.Tasks, t)
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		code := s.failures[r.URL.Path]
		hook := s.hook
		s.mu.Unlock()

		if hook != nil {
			hook(r)
		}
		if code != 0 {
			http.Error(w, http.StatusText(code), code)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func intParam(r *http.Request, name string, def, lo, hi int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return min(max(n, lo), hi)
}

// matching applies the filters the real server understands. Unknown statuses
// and roles are ignored, as upstream does.
func (s *Server) matching(r *http.Request) []model.Task {
	q := r.URL.Query()
	status := model.Status(q.Get("status"))
	role := q.Get("role")
	out := []model.Task{}
	for _, t := range s.data.Tasks {
		if v := q.Get("phase"); q.Has("phase") && t.PhaseID != v {
			continue
		}
		if v := q.Get("milestone"); q.Has("milestone") && t.MilestoneID != v {
			continue
		}
		if status.IsValid() && t.Status != status {
			continue
		}
		if model.IsKnownRole(role) && t.Role != role {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PhaseID != b.PhaseID {
			return a.PhaseID < b.PhaseID
		}
		ao, bo := sortOrder(a), sortOrder(b)
		if ao != bo {
			return ao < bo
		}
		return a.ID < b.ID
	})
	return out
}

func sortOrder(t model.Task) int {
	if t.SortOrder == nil {
		return 0
	}
	return *t.SortOrder
}

func page[T any](items []T, limit, page int) []T {
	start := (page - 1) * limit
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tasks := s.matching(r)
	s.mu.Unlock()
	limit := intParam(r, "limit", 50, 1, 200)
	p := intParam(r, "page", 1, 1, 1<<30)
	writeJSON(w, page(tasks, limit, p))
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.matching(r))
	s.mu.Unlock()
	writeJSON(w, map[string]int{"count": n})
}

func (s *Server) lookup(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.data.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, t)
}

func (s *Server) edgesFor(id string) []model.DependencyEdge {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.DependencyEdge{}
	for _, e := range s.data.Edges {
		if id == "" || e.TaskID == id {
			out = append(out, e)
		}
	}
	return out
}

func (s *Server) handleTaskDeps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.edgesFor(r.PathValue("id")))
}

func (s *Server) handleDeps(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 100, 1, 500)
	p := intParam(r, "page", 1, 1, 1<<30)
	writeJSON(w, page(s.edgesFor(r.URL.Query().Get("task_id")), limit, p))
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	notes := append([]model.Note{}, s.data.Notes[r.PathValue("id")]...)
	s.mu.Unlock()
	writeJSON(w, notes)
}

func (s *Server) handlePhases(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	phases := append([]model.Phase{}, s.data.Phases...)
	s.mu.Unlock()
	writeJSON(w, page(phases, intParam(r, "limit", 50, 1, 100), 1))
}

func (s *Server) handleMilestones(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	milestones := append([]model.Milestone{}, s.data.Milestones...)
	s.mu.Unlock()
	writeJSON(w, page(milestones, intParam(r, "limit", 50, 1, 100), 1))
}
