package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/models"
)

func TestStatusFromWire(t *testing.T) {
	tests := []struct {
		wire string
		want models.Status
	}{
		{"TO_DO", models.StatusPending},
		{"PENDING", models.StatusPending},
		{"IN_PROGRESS", models.StatusInProgress},
		{"DONE", models.StatusCompleted},
		{"", models.StatusPending},
		{"SOMETHING_NEW", models.StatusPending},
	}
	for _, tt := range tests {
		if got := StatusFromWire(tt.wire); got != tt.want {
			t.Errorf("StatusFromWire(%q) = %q, want %q", tt.wire, got, tt.want)
		}
	}
}

func TestStatusToWire(t *testing.T) {
	tests := []struct {
		status models.Status
		want   string
	}{
		{models.StatusPending, "PENDING"},
		{models.StatusInProgress, "IN_PROGRESS"},
		{models.StatusCompleted, "DONE"},
		{models.StatusOnHold, "PENDING"},
	}
	for _, tt := range tests {
		if got := StatusToWire(tt.status); got != tt.want {
			t.Errorf("StatusToWire(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestPriorityRoundTrip(t *testing.T) {
	tests := []struct {
		wire string
		want models.Priority
	}{
		{"LOW", models.PriorityLow},
		{"MEDIUM", models.PriorityMedium},
		{"HIGH", models.PriorityHigh},
		{"URGENT", models.PriorityUrgent},
		{"", models.PriorityLow},
		{"UNKNOWN", models.PriorityLow},
	}
	for _, tt := range tests {
		if got := PriorityFromWire(tt.wire); got != tt.want {
			t.Errorf("PriorityFromWire(%q) = %q, want %q", tt.wire, got, tt.want)
		}
	}
	// Every normalized priority must survive the trip back.
	for _, p := range []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent} {
		if got := PriorityFromWire(PriorityToWire(p)); got != p {
			t.Errorf("round trip of %q gave %q", p, got)
		}
	}
}

func TestRoleMapping(t *testing.T) {
	if got := RoleFromWire("GROUP_LEADER"); got != models.RoleAdmin {
		t.Errorf("RoleFromWire(GROUP_LEADER) = %q, want admin", got)
	}
	if got := RoleFromWire("MEMBER"); got != models.RoleEmployee {
		t.Errorf("RoleFromWire(MEMBER) = %q, want employee", got)
	}
	if got := RoleFromWire("anything else"); got != models.RoleEmployee {
		t.Errorf("RoleFromWire fallback = %q, want employee", got)
	}
	if got := RoleToWire(models.RoleAdmin); got != "GROUP_LEADER" {
		t.Errorf("RoleToWire(admin) = %q", got)
	}
	if got := RoleToWire(models.RoleEmployee); got != "MEMBER" {
		t.Errorf("RoleToWire(employee) = %q", got)
	}
}

func TestActiveMapping(t *testing.T) {
	if !ActiveFromWire("ACTIVE") {
		t.Error("ACTIVE should map to active")
	}
	if ActiveFromWire("INACTIVE") || ActiveFromWire("") {
		t.Error("non-ACTIVE statuses should map to inactive")
	}
	if ActiveToWire(true) != "ACTIVE" || ActiveToWire(false) != "INACTIVE" {
		t.Error("ActiveToWire mapping wrong")
	}
}

func TestParseTimestampOrNow(t *testing.T) {
	now := time.Date(2025, 11, 18, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", "2025-11-01T08:30:00Z", time.Date(2025, 11, 1, 8, 30, 0, 0, time.UTC)},
		{"local datetime", "2025-11-01T08:30:00", time.Date(2025, 11, 1, 8, 30, 0, 0, time.UTC)},
		{"bare date", "2025-11-01", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)},
		{"empty", "", now},
		{"garbage", "next tuesday", now},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTimestampOrNow(tt.in, now); !got.Equal(tt.want) {
				t.Errorf("ParseTimestampOrNow(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUserFromWireMissingID(t *testing.T) {
	_, err := UserFromWire(api.User{Username: "ghost"}, time.Now())
	var shapeErr *DataShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("want DataShapeError, got %v", err)
	}
	if shapeErr.Entity != "user" {
		t.Errorf("entity = %q, want user", shapeErr.Entity)
	}
}

func TestTaskFromWire(t *testing.T) {
	now := time.Date(2025, 11, 18, 12, 0, 0, 0, time.UTC)
	users := []models.User{
		{ID: 1, FullName: "Ada Lovelace"},
		{ID: 2, FullName: "Grace Hopper"},
	}

	t.Run("resolves assignee names against the roster", func(t *testing.T) {
		task, err := TaskFromWire(api.Task{
			TaskID:        10,
			Title:         "Wire the relay",
			Status:        "TO_DO",
			AssigneeNames: []string{"Grace Hopper", "Nobody Known"},
		}, users, false, now)
		if err != nil {
			t.Fatal(err)
		}
		if len(task.AssigneeIDs) != 1 || task.AssigneeIDs[0] != 2 {
			t.Errorf("AssigneeIDs = %v, want [2]", task.AssigneeIDs)
		}
	})

	t.Run("inline ids win over names", func(t *testing.T) {
		task, err := TaskFromWire(api.Task{
			TaskID:        11,
			Title:         "Punch cards",
			AssigneeIDs:   []int64{1},
			AssigneeNames: []string{"Grace Hopper"},
		}, users, false, now)
		if err != nil {
			t.Fatal(err)
		}
		if len(task.AssigneeIDs) != 1 || task.AssigneeIDs[0] != 1 {
			t.Errorf("AssigneeIDs = %v, want [1]", task.AssigneeIDs)
		}
	})

	t.Run("category defaults to General", func(t *testing.T) {
		task, err := TaskFromWire(api.Task{TaskID: 12, Title: "x"}, nil, false, now)
		if err != nil {
			t.Fatal(err)
		}
		if task.Category != "General" {
			t.Errorf("Category = %q, want General", task.Category)
		}
	})

	t.Run("completed tasks get a completion date", func(t *testing.T) {
		task, err := TaskFromWire(api.Task{
			TaskID:    13,
			Title:     "x",
			Status:    "DONE",
			UpdatedAt: "2025-11-10T09:00:00Z",
		}, nil, false, now)
		if err != nil {
			t.Fatal(err)
		}
		if task.CompletedDate == nil {
			t.Fatal("CompletedDate not set")
		}
		if !task.CompletedDate.Equal(task.UpdatedAt) {
			t.Errorf("CompletedDate = %v, want %v", task.CompletedDate, task.UpdatedAt)
		}
	})

	t.Run("missing taskId is a shape error", func(t *testing.T) {
		_, err := TaskFromWire(api.Task{Title: "no id"}, nil, false, now)
		var shapeErr *DataShapeError
		if !errors.As(err, &shapeErr) {
			t.Fatalf("want DataShapeError, got %v", err)
		}
	})

	t.Run("trashed flag comes from the caller", func(t *testing.T) {
		task, err := TaskFromWire(api.Task{TaskID: 14, Title: "x"}, nil, true, now)
		if err != nil {
			t.Fatal(err)
		}
		if !task.Trashed {
			t.Error("Trashed not set")
		}
	})
}

func TestCommentFromWire(t *testing.T) {
	now := time.Now()

	t.Run("empty category becomes Commented", func(t *testing.T) {
		c, err := CommentFromWire(api.Comment{CommentID: 1, TaskID: 10, Text: "hi"}, now)
		if err != nil {
			t.Fatal(err)
		}
		if c.Category != models.CategoryCommented {
			t.Errorf("Category = %q, want Commented", c.Category)
		}
	})

	t.Run("unknown category is a shape error", func(t *testing.T) {
		_, err := CommentFromWire(api.Comment{CommentID: 2, Category: "Shouting"}, now)
		var shapeErr *DataShapeError
		if !errors.As(err, &shapeErr) {
			t.Fatalf("want DataShapeError, got %v", err)
		}
	})

	t.Run("known category passes through", func(t *testing.T) {
		c, err := CommentFromWire(api.Comment{CommentID: 3, Category: "Bug"}, now)
		if err != nil {
			t.Fatal(err)
		}
		if c.Category != models.CategoryBug {
			t.Errorf("Category = %q, want Bug", c.Category)
		}
	})
}

func TestBuildAssignments(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, AssigneeIDs: []int64{10, 11}},
		{ID: 2, AssigneeIDs: []int64{}},
	}
	records := []api.Assignment{
		{TaskID: 1, UserID: 99}, // ignored, task 1 has inline ids
		{TaskID: 2, UserID: 10},
		{TaskID: 2, UserID: 12},
		{TaskID: 3, UserID: 11},
	}

	rel := BuildAssignments(tasks, records)

	if !rel.Assigned(1, 10) || !rel.Assigned(1, 11) {
		t.Error("inline assignees missing from relation")
	}
	if rel.Assigned(1, 99) {
		t.Error("record must not override inline assignees")
	}
	if !rel.Assigned(2, 10) || !rel.Assigned(2, 12) {
		t.Error("records should fill tasks without inline assignees")
	}
	if !rel.Assigned(3, 11) {
		t.Error("records for unknown tasks still enter the relation")
	}
	if rel.Assigned(2, 11) {
		t.Error("unexpected assignment")
	}
}
