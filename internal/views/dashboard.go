package views

import (
	"sort"
	"time"

	"github.com/taskdeck/taskdeck/internal/models"
)

// Stats are the dashboard headline numbers, computed over non-trashed
// tasks with calendar-day string comparison (time of day never matters).
type Stats struct {
	Completed int
	DueToday  int
	Overdue   int
}

// DashboardStats computes the headline numbers. today is a YYYY-MM-DD date.
func DashboardStats(tasks []models.Task, today string) Stats {
	var s Stats
	for _, t := range tasks {
		if t.Trashed {
			continue
		}
		if t.Status == models.StatusCompleted {
			s.Completed++
		}
		if t.DueDate == today {
			s.DueToday++
		}
		if t.DueDate < today && t.Status != models.StatusCompleted {
			s.Overdue++
		}
	}
	return s
}

// PriorityCounts buckets tasks for the priority chart. Urgent folds into
// high, matching the three-bar display.
type PriorityCounts struct {
	Low    int
	Medium int
	High   int
}

// CountByPriority tallies non-trashed tasks per chart bucket.
func CountByPriority(tasks []models.Task) PriorityCounts {
	var c PriorityCounts
	for _, t := range tasks {
		if t.Trashed {
			continue
		}
		switch t.Priority {
		case models.PriorityUrgent, models.PriorityHigh:
			c.High++
		case models.PriorityMedium:
			c.Medium++
		default:
			c.Low++
		}
	}
	return c
}

// upcomingLimit caps the deadline list.
const upcomingLimit = 5

// UpcomingDeadlines returns the next tasks by due date: non-trashed,
// not completed, ascending, at most five.
func UpcomingDeadlines(tasks []models.Task) []models.Task {
	var upcoming []models.Task
	for _, t := range tasks {
		if t.Trashed || t.Status == models.StatusCompleted {
			continue
		}
		upcoming = append(upcoming, t)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate < upcoming[j].DueDate
	})
	if len(upcoming) > upcomingLimit {
		upcoming = upcoming[:upcomingLimit]
	}
	return upcoming
}

// activityLimit caps the merged feed.
const activityLimit = 10

// RecentActivity merges comment events and task status touches into one
// feed, newest first, capped to ten. Comments resolve their actor and task
// by id; entries that reference unknown users or tasks are skipped. Status
// touches use the task's updated_at as the event time; the actor is not
// tracked per task, so they carry the neutral "Team" label.
func RecentActivity(comments []models.Comment, tasks []models.Task, users []models.User) []models.Activity {
	userByID := make(map[int64]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	taskByID := make(map[int64]models.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	var feed []models.Activity

	recent := append([]models.Comment(nil), comments...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > activityLimit {
		recent = recent[:activityLimit]
	}
	for _, c := range recent {
		user, okUser := userByID[c.UserID]
		task, okTask := taskByID[c.TaskID]
		if !okUser || !okTask {
			continue
		}
		feed = append(feed, models.Activity{
			ID:        c.ID,
			Kind:      models.ActivityComment,
			Actor:     user.FullName,
			Action:    string(c.Category),
			TaskTitle: task.Title,
			Timestamp: c.CreatedAt,
			Label:     string(c.Category),
		})
	}

	var touches []models.Activity
	for _, t := range tasks {
		if t.Trashed {
			continue
		}
		touches = append(touches, models.Activity{
			ID:        t.ID + statusTouchIDOffset,
			Kind:      models.ActivityStatusChange,
			Actor:     "Team",
			Action:    "updated status to",
			TaskTitle: t.Title,
			Timestamp: t.UpdatedAt,
			Label:     string(t.Status),
		})
	}
	sort.SliceStable(touches, func(i, j int) bool {
		return touches[i].Timestamp.After(touches[j].Timestamp)
	})
	if len(touches) > activityLimit/2 {
		touches = touches[:activityLimit/2]
	}
	feed = append(feed, touches...)

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	if len(feed) > activityLimit {
		feed = feed[:activityLimit]
	}
	return feed
}

// statusTouchIDOffset keeps synthetic status-touch ids clear of comment ids.
const statusTouchIDOffset = 10000

// Today formats now as the calendar-day string the stats compare against.
func Today(now time.Time) string {
	return now.Format("2006-01-02")
}
