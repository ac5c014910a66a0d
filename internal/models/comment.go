package models

import "time"

// CommentCategory labels what a comment records. The set is fixed;
// transformers reject anything else coming off the wire.
type CommentCategory string

const (
	CategoryStarted    CommentCategory = "Started"
	CategoryCompleted  CommentCategory = "Completed"
	CategoryInProgress CommentCategory = "In Progress"
	CategoryCommented  CommentCategory = "Commented"
	CategoryBug        CommentCategory = "Bug"
	CategoryAssigned   CommentCategory = "Assigned"
)

// CommentCategories lists every valid category, in display order.
var CommentCategories = []CommentCategory{
	CategoryStarted,
	CategoryCompleted,
	CategoryInProgress,
	CategoryCommented,
	CategoryBug,
	CategoryAssigned,
}

// ValidCommentCategory reports whether c is one of the fixed categories.
func ValidCommentCategory(c CommentCategory) bool {
	for _, known := range CommentCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Comment is a note on a task. Immutable once created.
type Comment struct {
	ID        int64
	UserID    int64
	TaskID    int64
	ParentID  *int64 // single-level threading
	Text      string
	CreatedAt time.Time
	Category  CommentCategory
}

// Activity is one entry in the recent-activity feed.
type Activity struct {
	ID        int64
	Kind      ActivityKind
	Actor     string // full name
	Action    string // human action phrase
	TaskTitle string
	Timestamp time.Time
	Label     string // comment category or task status, optional
}

// ActivityKind distinguishes feed entry sources.
type ActivityKind string

const (
	ActivityComment      ActivityKind = "comment"
	ActivityStatusChange ActivityKind = "status_change"
)
