package models

import "time"

// Status is the normalized task status used everywhere inside the client.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on hold"
)

// Priority is the normalized task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Task is a task normalized from the backend wire shape.
type Task struct {
	ID            int64
	Title         string
	Description   string
	StartDate     string // calendar date, YYYY-MM-DD
	DueDate       string // calendar date, YYYY-MM-DD
	CompletedDate *time.Time
	Status        Status
	Priority      Priority
	Category      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Trashed       bool
	Tags          []string
	AssigneeIDs   []int64
	Attachments   []Attachment
}

// IsAssigned reports whether userID is in the task's assignee set.
func (t Task) IsAssigned(userID int64) bool {
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Attachment is a file attached to a task. Read-only in this client.
type Attachment struct {
	ID         int64
	TaskID     int64
	FileName   string
	FileType   string
	FileSize   int64 // bytes
	FileURL    string
	UploadedBy int64
	UploadedAt time.Time
}

// Assignments maps task id to the set of assigned user ids. It is built
// once at load time from whichever source the backend provides, so
// nothing downstream has to care about the legacy assignment records.
type Assignments map[int64][]int64

// Assigned reports whether userID is assigned to taskID.
func (a Assignments) Assigned(taskID, userID int64) bool {
	for _, id := range a[taskID] {
		if id == userID {
			return true
		}
	}
	return false
}
