package views

import (
	"fmt"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/models"
)

func TestDashboardStats(t *testing.T) {
	today := "2025-11-18"
	tasks := []models.Task{
		{ID: 1, Status: models.StatusPending, DueDate: "2025-11-17"},   // overdue
		{ID: 2, Status: models.StatusCompleted, DueDate: "2025-11-10"}, // completed, not overdue
		{ID: 3, Status: models.StatusInProgress, DueDate: "2025-11-18"},
		{ID: 4, Status: models.StatusPending, DueDate: "2025-11-18"},
		{ID: 5, Status: models.StatusCompleted, DueDate: "2025-11-30"},
		{ID: 6, Status: models.StatusPending, DueDate: "2025-11-01", Trashed: true}, // ignored
	}

	stats := DashboardStats(tasks, today)
	if stats.Completed != 2 {
		t.Errorf("Completed = %d, want 2", stats.Completed)
	}
	if stats.DueToday != 2 {
		t.Errorf("DueToday = %d, want 2", stats.DueToday)
	}
	if stats.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", stats.Overdue)
	}
}

func TestCountByPriorityFoldsUrgentIntoHigh(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Priority: models.PriorityLow},
		{ID: 2, Priority: models.PriorityMedium},
		{ID: 3, Priority: models.PriorityHigh},
		{ID: 4, Priority: models.PriorityUrgent},
		{ID: 5, Priority: models.PriorityUrgent, Trashed: true},
	}
	counts := CountByPriority(tasks)
	if counts.Low != 1 || counts.Medium != 1 || counts.High != 2 {
		t.Errorf("counts = %+v, want {Low:1 Medium:1 High:2}", counts)
	}
}

func TestUpcomingDeadlines(t *testing.T) {
	var tasks []models.Task
	for i := 1; i <= 8; i++ {
		tasks = append(tasks, models.Task{
			ID:      int64(i),
			Status:  models.StatusPending,
			DueDate: fmt.Sprintf("2025-12-%02d", 20-i), // descending dates
		})
	}
	tasks = append(tasks,
		models.Task{ID: 100, Status: models.StatusCompleted, DueDate: "2025-12-01"},
		models.Task{ID: 101, Status: models.StatusPending, DueDate: "2025-12-02", Trashed: true},
	)

	upcoming := UpcomingDeadlines(tasks)
	if len(upcoming) != 5 {
		t.Fatalf("got %d tasks, want 5", len(upcoming))
	}
	for i := 1; i < len(upcoming); i++ {
		if upcoming[i-1].DueDate > upcoming[i].DueDate {
			t.Errorf("not ascending at %d: %s > %s", i, upcoming[i-1].DueDate, upcoming[i].DueDate)
		}
	}
	for _, task := range upcoming {
		if task.ID == 100 || task.ID == 101 {
			t.Errorf("task %d should be excluded", task.ID)
		}
	}
}

func TestRecentActivity(t *testing.T) {
	base := time.Date(2025, 11, 18, 12, 0, 0, 0, time.UTC)
	users := []models.User{
		{ID: 1, FullName: "Ada Lovelace"},
		{ID: 2, FullName: "Grace Hopper"},
	}
	tasks := []models.Task{
		{ID: 10, Title: "Compile report", UpdatedAt: base.Add(-3 * time.Hour), Status: models.StatusInProgress},
		{ID: 11, Title: "Debug relay", UpdatedAt: base.Add(-1 * time.Hour), Status: models.StatusCompleted},
	}
	comments := []models.Comment{
		{ID: 1, UserID: 1, TaskID: 10, Category: models.CategoryStarted, CreatedAt: base.Add(-2 * time.Hour)},
		{ID: 2, UserID: 2, TaskID: 11, Category: models.CategoryBug, CreatedAt: base.Add(-30 * time.Minute)},
		{ID: 3, UserID: 99, TaskID: 10, Category: models.CategoryCommented, CreatedAt: base}, // unknown user, skipped
	}

	feed := RecentActivity(comments, tasks, users)

	if len(feed) == 0 {
		t.Fatal("empty feed")
	}
	// Newest first.
	for i := 1; i < len(feed); i++ {
		if feed[i-1].Timestamp.Before(feed[i].Timestamp) {
			t.Errorf("feed not newest-first at %d", i)
		}
	}
	// The unknown-user comment never appears.
	for _, entry := range feed {
		if entry.Kind == models.ActivityComment && entry.ID == 3 {
			t.Error("comment with unknown user leaked into the feed")
		}
	}
	// The newest entry is the Bug comment by Grace Hopper.
	if feed[0].Actor != "Grace Hopper" || feed[0].Kind != models.ActivityComment {
		t.Errorf("newest entry = %+v, want Grace Hopper's comment", feed[0])
	}
	// Status touches have no recorded actor; they carry the neutral label
	// rather than borrowing a roster name.
	var touches int
	for _, entry := range feed {
		if entry.Kind != models.ActivityStatusChange {
			continue
		}
		touches++
		if entry.Actor != "Team" {
			t.Errorf("status touch actor = %q, want %q", entry.Actor, "Team")
		}
	}
	if touches == 0 {
		t.Error("no status touches in the feed")
	}
}

func TestRecentActivityStatusTouchActorWithoutRoster(t *testing.T) {
	base := time.Date(2025, 11, 18, 12, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: 10, Title: "Compile report", UpdatedAt: base, Status: models.StatusInProgress},
	}

	feed := RecentActivity(nil, tasks, nil)
	if len(feed) != 1 {
		t.Fatalf("feed length = %d, want 1", len(feed))
	}
	if feed[0].Actor != "Team" {
		t.Errorf("actor = %q, want %q", feed[0].Actor, "Team")
	}
}

func TestRecentActivityCap(t *testing.T) {
	base := time.Date(2025, 11, 18, 12, 0, 0, 0, time.UTC)
	users := []models.User{{ID: 1, FullName: "Ada Lovelace"}}
	var tasks []models.Task
	var comments []models.Comment
	for i := 1; i <= 15; i++ {
		tasks = append(tasks, models.Task{ID: int64(i), Title: "t", UpdatedAt: base.Add(-time.Duration(i) * time.Minute)})
		comments = append(comments, models.Comment{
			ID: int64(i), UserID: 1, TaskID: int64(i),
			Category:  models.CategoryCommented,
			CreatedAt: base.Add(-time.Duration(i) * time.Second),
		})
	}
	feed := RecentActivity(comments, tasks, users)
	if len(feed) != 10 {
		t.Errorf("feed length = %d, want 10", len(feed))
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2025, 11, 18, 23, 59, 0, 0, time.UTC)
	if got := Today(now); got != "2025-11-18" {
		t.Errorf("Today = %q", got)
	}
}
