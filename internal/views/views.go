// Package views computes read-only projections of the normalized
// collections: kanban buckets, sorted lists, filters, dashboard numbers.
// Nothing here mutates its inputs.
package views

import (
	"sort"
	"strings"

	"github.com/taskdeck/taskdeck/internal/models"
)

// Bucket is a kanban column.
type Bucket string

const (
	BucketToDo       Bucket = "To Do"
	BucketInProgress Bucket = "In Progress"
	BucketDone       Bucket = "Done"
)

// Buckets lists the columns in board order.
var Buckets = []Bucket{BucketToDo, BucketInProgress, BucketDone}

// BucketFor maps a task status to its board column. Pending and on-hold
// tasks both land in To Do.
func BucketFor(s models.Status) Bucket {
	switch s {
	case models.StatusInProgress:
		return BucketInProgress
	case models.StatusCompleted:
		return BucketDone
	default:
		return BucketToDo
	}
}

// StatusFor maps a board column back to the status a drop assigns.
func StatusFor(b Bucket) models.Status {
	switch b {
	case BucketInProgress:
		return models.StatusInProgress
	case BucketDone:
		return models.StatusCompleted
	default:
		return models.StatusPending
	}
}

// Board holds the kanban grouping. Arrival order is preserved within each
// column; trashed tasks never appear.
type Board struct {
	Columns map[Bucket][]models.Task
}

// GroupBoard partitions tasks into the three fixed columns.
func GroupBoard(tasks []models.Task) Board {
	board := Board{Columns: map[Bucket][]models.Task{
		BucketToDo:       {},
		BucketInProgress: {},
		BucketDone:       {},
	}}
	for _, t := range tasks {
		if t.Trashed {
			continue
		}
		bucket := BucketFor(t.Status)
		board.Columns[bucket] = append(board.Columns[bucket], t)
	}
	return board
}

// SortField selects what a list sort orders by.
type SortField string

const (
	SortByTitle    SortField = "title"
	SortByDueDate  SortField = "due_date"
	SortByPriority SortField = "priority"
	SortByAssignee SortField = "assignee"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// priorityRank fixes the total order used for priority sorting.
var priorityRank = map[models.Priority]int{
	models.PriorityUrgent: 4,
	models.PriorityHigh:   3,
	models.PriorityMedium: 2,
	models.PriorityLow:    1,
}

// PriorityRank returns the sort rank of p; unknown priorities rank 0.
func PriorityRank(p models.Priority) int {
	return priorityRank[p]
}

// SortTasks returns a sorted copy. Ties keep original collection order.
// The assignee field orders by the first assignee's full name, resolved
// against users; unassigned tasks sort with an empty name.
func SortTasks(tasks []models.Task, users []models.User, field SortField, dir SortDirection) []models.Task {
	sorted := append([]models.Task(nil), tasks...)

	byID := make(map[int64]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.FullName
	}
	firstAssignee := func(t models.Task) string {
		if len(t.AssigneeIDs) == 0 {
			return ""
		}
		return byID[t.AssigneeIDs[0]]
	}

	less := func(a, b models.Task) bool {
		switch field {
		case SortByTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortByDueDate:
			return a.DueDate < b.DueDate
		case SortByPriority:
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		case SortByAssignee:
			return firstAssignee(a) < firstAssignee(b)
		default:
			return false
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if dir == Descending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// FilterAll disables a filter dimension.
const FilterAll = "all"

// Filter is a conjunctive task filter. AssigneeID zero, or a dimension set
// to FilterAll (or left empty), disables that dimension.
type Filter struct {
	AssigneeID int64
	Category   string
	Tag        string
}

func (f Filter) wantsCategory() bool {
	return f.Category != "" && f.Category != FilterAll
}

func (f Filter) wantsTag() bool {
	return f.Tag != "" && f.Tag != FilterAll
}

// FilterTasks applies f over the non-trashed tasks, preserving order.
func FilterTasks(tasks []models.Task, f Filter) []models.Task {
	filtered := []models.Task{}
	for _, t := range tasks {
		if t.Trashed {
			continue
		}
		if f.AssigneeID != 0 && !t.IsAssigned(f.AssigneeID) {
			continue
		}
		if f.wantsCategory() && t.Category != f.Category {
			continue
		}
		if f.wantsTag() && !hasTag(t, f.Tag) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

func hasTag(t models.Task, tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// Categories returns the distinct categories across tasks, in first-seen order.
func Categories(tasks []models.Task) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tasks {
		if t.Trashed || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, t.Category)
	}
	return out
}

// Tags returns the distinct tags across tasks, in first-seen order.
func Tags(tasks []models.Task) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tasks {
		if t.Trashed {
			continue
		}
		for _, tag := range t.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
