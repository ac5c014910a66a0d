package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/transform"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var (
	adminUser    = &models.User{ID: 1, Username: "ada", FullName: "Ada Lovelace", Role: models.RoleAdmin, Active: true}
	employeeUser = &models.User{ID: 2, Username: "grace", FullName: "Grace Hopper", Role: models.RoleEmployee, Active: true}
)

// newTestStore spins up a fake server and a store bound to it. calls
// counts every request the store actually sends.
func newTestStore(t *testing.T, user *models.User, handler http.Handler) (*Store, *int64) {
	t.Helper()
	var calls int64
	counting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		handler.ServeHTTP(w, r)
	})
	server := httptest.NewServer(counting)
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL, silentLogger())
	return New(client, user, silentLogger()), &calls
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func boardHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []api.Task{
			{TaskID: 10, Title: "Wire the relay", Status: "TO_DO", Priority: "HIGH", DueDate: "2025-11-20", AssigneeIDs: []int64{2}},
			{TaskID: 11, Title: "Punch cards", Status: "IN_PROGRESS", Priority: "LOW", DueDate: "2025-11-22"},
		})
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []api.User{
			{UserID: 1, Username: "ada", FullName: "Ada Lovelace", Role: "GROUP_LEADER", Status: "ACTIVE"},
			{UserID: 2, Username: "grace", FullName: "Grace Hopper", Role: "MEMBER", Status: "ACTIVE"},
		})
	})
	return mux
}

func TestLoadBoard(t *testing.T) {
	s, _ := newTestStore(t, adminUser, boardHandler())
	if err := s.LoadBoard(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(s.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(s.Tasks))
	}
	if len(s.Users) != 2 {
		t.Fatalf("users = %d, want 2", len(s.Users))
	}
	if s.Tasks[0].Status != models.StatusPending {
		t.Errorf("status = %q, want pending", s.Tasks[0].Status)
	}
	if !s.Assignments.Assigned(10, 2) {
		t.Error("assignment relation not rebuilt")
	}
}

func TestLoadBoardShapeErrorFailsWhole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []api.Task{{Title: "no id"}})
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []api.User{{UserID: 1, FullName: "Ada Lovelace"}})
	})
	s, _ := newTestStore(t, adminUser, mux)
	s.Tasks = []models.Task{{ID: 99, Title: "previous"}}

	err := s.LoadBoard(context.Background())
	var shapeErr *transform.DataShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("want DataShapeError, got %v", err)
	}
	// The old collection survives a failed admit.
	if len(s.Tasks) != 1 || s.Tasks[0].ID != 99 {
		t.Error("failed admit must not replace collections")
	}
}

func TestDeniedMutationNeverReachesNetwork(t *testing.T) {
	s, calls := newTestStore(t, employeeUser, boardHandler())

	_, err := s.CreateTask(context.Background(), TaskForm{Title: "x", DueDate: "2025-12-01"})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
	if err := s.TrashTask(context.Background(), 10); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
	if _, err := s.ToggleUserStatus(context.Background(), 1); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}

	if got := atomic.LoadInt64(calls); got != 0 {
		t.Errorf("denied mutations sent %d requests, want 0", got)
	}
}

func TestValidationFailsBeforeNetwork(t *testing.T) {
	s, calls := newTestStore(t, adminUser, boardHandler())

	if _, err := s.CreateTask(context.Background(), TaskForm{DueDate: "2025-12-01"}); err == nil {
		t.Error("missing title should fail")
	}
	if _, err := s.CreateTask(context.Background(), TaskForm{Title: "x"}); err == nil {
		t.Error("missing due date should fail")
	}
	if got := atomic.LoadInt64(calls); got != 0 {
		t.Errorf("invalid forms sent %d requests, want 0", got)
	}
}

func TestMoveTaskStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /api/tasks", boardHandler())
	mux.Handle("GET /api/users", boardHandler())
	mux.HandleFunc("PUT /api/tasks/10", func(w http.ResponseWriter, r *http.Request) {
		var req api.UpdateTaskRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Status != "IN_PROGRESS" {
			t.Errorf("wire status = %q, want IN_PROGRESS", req.Status)
		}
		if req.UserID != 1 {
			t.Errorf("userId = %d, want 1", req.UserID)
		}
		writeJSON(w, api.Task{TaskID: 10, Title: "Wire the relay", Status: "IN_PROGRESS", Priority: "HIGH", DueDate: "2025-11-20", AssigneeIDs: []int64{2}})
	})

	s, _ := newTestStore(t, adminUser, mux)
	if err := s.LoadBoard(context.Background()); err != nil {
		t.Fatal(err)
	}

	task, err := s.MoveTaskStatus(context.Background(), 10, models.StatusInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if task.Status != models.StatusInProgress {
		t.Errorf("status = %q, want in progress", task.Status)
	}
	// Reconciled in place, not duplicated.
	if len(s.Tasks) != 2 {
		t.Errorf("tasks = %d, want 2", len(s.Tasks))
	}
	count := 0
	for _, have := range s.Tasks {
		if have.ID == 10 {
			count++
			if have.Status != models.StatusInProgress {
				t.Errorf("collection status = %q, want in progress", have.Status)
			}
		}
	}
	if count != 1 {
		t.Errorf("task 10 appears %d times, want 1", count)
	}
}

func TestUpdateTaskCarriesStatusChangeInOneRequest(t *testing.T) {
	var puts int64
	mux := http.NewServeMux()
	mux.Handle("GET /api/tasks", boardHandler())
	mux.Handle("GET /api/users", boardHandler())
	mux.HandleFunc("PUT /api/tasks/10", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&puts, 1)
		var req api.UpdateTaskRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Status != "IN_PROGRESS" {
			t.Errorf("wire status = %q, want IN_PROGRESS", req.Status)
		}
		if req.Title != "Rewired relay" {
			t.Errorf("title = %q, want the edited title", req.Title)
		}
		writeJSON(w, api.Task{TaskID: 10, Title: req.Title, Status: req.Status, Priority: "HIGH", DueDate: "2025-11-20"})
	})

	s, _ := newTestStore(t, adminUser, mux)
	if err := s.LoadBoard(context.Background()); err != nil {
		t.Fatal(err)
	}

	task, err := s.UpdateTask(context.Background(), 10, TaskForm{
		Title:    "Rewired relay",
		DueDate:  "2025-11-20",
		Status:   models.StatusInProgress,
		Priority: models.PriorityHigh,
	})
	if err != nil {
		t.Fatal(err)
	}
	if task.Status != models.StatusInProgress {
		t.Errorf("status = %q, want in progress", task.Status)
	}
	if got := atomic.LoadInt64(&puts); got != 1 {
		t.Errorf("edit with status change sent %d PUTs, want 1", got)
	}
}

func TestUpdateTaskRejectsInvalidTransition(t *testing.T) {
	s, calls := newTestStore(t, adminUser, boardHandler())
	if err := s.LoadBoard(context.Background()); err != nil {
		t.Fatal(err)
	}
	loaded := atomic.LoadInt64(calls)

	// Task 10 is pending; an edit may not jump it straight to completed.
	_, err := s.UpdateTask(context.Background(), 10, TaskForm{
		Title:   "Wire the relay",
		DueDate: "2025-11-20",
		Status:  models.StatusCompleted,
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
	if got := atomic.LoadInt64(calls); got != loaded {
		t.Errorf("rejected edit sent %d extra requests", got-loaded)
	}
}

func TestMoveTaskStatusRejectsInvalidTransition(t *testing.T) {
	s, calls := newTestStore(t, adminUser, boardHandler())
	if err := s.LoadBoard(context.Background()); err != nil {
		t.Fatal(err)
	}
	loaded := atomic.LoadInt64(calls)

	// Task 10 is pending; pending cannot jump straight to completed.
	_, err := s.MoveTaskStatus(context.Background(), 10, models.StatusCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
	if got := atomic.LoadInt64(calls); got != loaded {
		t.Errorf("rejected transition sent %d extra requests", got-loaded)
	}
}

func TestMoveTaskStatusEmployeeNeedsAssignment(t *testing.T) {
	s, calls := newTestStore(t, employeeUser, boardHandler())
	if err := s.LoadBoard(context.Background()); err != nil {
		t.Fatal(err)
	}
	loaded := atomic.LoadInt64(calls)

	// Task 11 has no assignees; the employee may not move it.
	if _, err := s.MoveTaskStatus(context.Background(), 11, models.StatusCompleted); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
	if got := atomic.LoadInt64(calls); got != loaded {
		t.Error("denied move reached the network")
	}
}

func TestValidTransition(t *testing.T) {
	tests := []struct {
		from, to models.Status
		want     bool
	}{
		{models.StatusPending, models.StatusInProgress, true},
		{models.StatusPending, models.StatusOnHold, true},
		{models.StatusPending, models.StatusCompleted, false},
		{models.StatusInProgress, models.StatusCompleted, true},
		{models.StatusInProgress, models.StatusPending, true},
		{models.StatusInProgress, models.StatusOnHold, false},
		{models.StatusCompleted, models.StatusInProgress, true},
		{models.StatusCompleted, models.StatusPending, false},
		{models.StatusOnHold, models.StatusPending, true},
		{models.StatusOnHold, models.StatusCompleted, false},
		{models.StatusPending, models.StatusPending, true},
	}
	for _, tt := range tests {
		if got := validTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("validTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestAddCommentRejectsUnknownCategory(t *testing.T) {
	s, calls := newTestStore(t, adminUser, boardHandler())
	if _, err := s.AddComment(context.Background(), 10, "hi", "Shouting", nil); err == nil {
		t.Fatal("unknown category should fail")
	}
	if _, err := s.AddComment(context.Background(), 10, "   ", models.CategoryCommented, nil); err == nil {
		t.Fatal("blank text should fail")
	}
	if got := atomic.LoadInt64(calls); got != 0 {
		t.Errorf("rejected comments sent %d requests, want 0", got)
	}
}

func TestAddComment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/comments", func(w http.ResponseWriter, r *http.Request) {
		var req api.CreateCommentRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Category != "Bug" {
			t.Errorf("category = %q, want Bug", req.Category)
		}
		writeJSON(w, api.Comment{CommentID: 7, TaskID: req.TaskID, UserID: req.UserID, Text: req.Text, Category: req.Category, CreatedAt: "2025-11-18T10:00:00Z"})
	})
	s, _ := newTestStore(t, employeeUser, mux)

	comment, err := s.AddComment(context.Background(), 10, "  found it  ", models.CategoryBug, nil)
	if err != nil {
		t.Fatal(err)
	}
	if comment.Text != "found it" {
		t.Errorf("text = %q, want trimmed", comment.Text)
	}
	if len(s.Comments) != 1 {
		t.Errorf("comments = %d, want 1", len(s.Comments))
	}
}

func TestLoadDashboardToleratesMissingActivityEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /api/tasks", boardHandler())
	mux.Handle("GET /api/users", boardHandler())
	// No /api/activities route: the mux answers 404.
	s, _ := newTestStore(t, adminUser, mux)

	if err := s.LoadDashboard(context.Background()); err != nil {
		t.Fatalf("404 on activities should be tolerated, got %v", err)
	}
	if len(s.Activities) != 0 {
		t.Errorf("activities = %d, want 0", len(s.Activities))
	}
	if len(s.Tasks) != 2 {
		t.Errorf("tasks = %d, want 2", len(s.Tasks))
	}
}

func TestLoadTrash(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/trash", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []api.Task{{TaskID: 20, Title: "Old draft", Status: "TO_DO"}})
	})
	mux.Handle("GET /api/users", boardHandler())
	s, _ := newTestStore(t, adminUser, mux)

	if err := s.LoadTrash(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(s.TrashedTasks) != 1 {
		t.Fatalf("trashed = %d, want 1", len(s.TrashedTasks))
	}
	if !s.TrashedTasks[0].Trashed {
		t.Error("trash endpoint records must be marked trashed")
	}
}

func TestTrashAndRestore(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /api/tasks", boardHandler())
	mux.Handle("GET /api/users", boardHandler())
	mux.HandleFunc("DELETE /api/tasks/10", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("permanent") == "true" {
			t.Error("trash must not be permanent")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT /api/tasks/10/restore", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, api.Task{TaskID: 10, Title: "Wire the relay", Status: "TO_DO"})
	})
	s, _ := newTestStore(t, adminUser, mux)
	if err := s.LoadBoard(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.TrashTask(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	for _, task := range s.Tasks {
		if task.ID == 10 {
			t.Fatal("trashed task still in active collection")
		}
	}

	restored, err := s.RestoreTask(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Trashed {
		t.Error("restored task still marked trashed")
	}
	found := false
	for _, task := range s.Tasks {
		if task.ID == 10 {
			found = true
		}
	}
	if !found {
		t.Error("restored task missing from active collection")
	}
}

// memoryCache is an in-memory Cache for tests.
type memoryCache struct {
	data map[string][]byte
}

func (c *memoryCache) SaveSnapshot(key string, v any) error {
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = data
	return nil
}

func (c *memoryCache) LoadSnapshot(key string, v any) (time.Time, error) {
	data, ok := c.data[key]
	if !ok {
		return time.Time{}, errors.New("not cached")
	}
	return time.Now(), json.Unmarshal(data, v)
}

func TestBoardSnapshotFallback(t *testing.T) {
	cache := &memoryCache{}

	s, _ := newTestStore(t, adminUser, boardHandler())
	s.SetCache(cache)
	if err := s.LoadBoard(context.Background()); err != nil {
		t.Fatal(err)
	}

	// A fresh store against a dead server can still hydrate the board.
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	offline := New(api.NewClient(dead.URL, silentLogger()), adminUser, silentLogger())
	offline.SetCache(cache)

	if err := offline.LoadBoard(context.Background()); err == nil {
		t.Fatal("load against a dead server should fail")
	}
	if _, ok := offline.HydrateBoard(); !ok {
		t.Fatal("hydrate should succeed from the snapshot")
	}
	if len(offline.Tasks) != 2 || len(offline.Users) != 2 {
		t.Errorf("hydrated %d tasks, %d users", len(offline.Tasks), len(offline.Users))
	}
	if !offline.Assignments.Assigned(10, 2) {
		t.Error("assignments not rebuilt after hydrate")
	}
}

func TestHydrateBoardWithoutCache(t *testing.T) {
	s, _ := newTestStore(t, adminUser, boardHandler())
	if _, ok := s.HydrateBoard(); ok {
		t.Error("hydrate must fail without a cache")
	}
}

func TestPurgeSendsPermanentFlag(t *testing.T) {
	var sawPermanent bool
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/tasks/20", func(w http.ResponseWriter, r *http.Request) {
		sawPermanent = r.URL.Query().Get("permanent") == "true"
		w.WriteHeader(http.StatusNoContent)
	})
	s, _ := newTestStore(t, adminUser, mux)
	s.TrashedTasks = []models.Task{{ID: 20, Trashed: true}}

	if err := s.PurgeTask(context.Background(), 20); err != nil {
		t.Fatal(err)
	}
	if !sawPermanent {
		t.Error("purge must send permanent=true")
	}
	if len(s.TrashedTasks) != 0 {
		t.Error("purged task still in trash collection")
	}
}
