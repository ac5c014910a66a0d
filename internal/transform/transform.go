// Package transform converts backend wire records into the client's
// normalized entities. Everything here is pure; "now" is always passed in
// so missing timestamps default deterministically.
package transform

import (
	"fmt"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/models"
)

// DataShapeError reports a wire record too malformed to admit, such as a
// missing identifier. Callers treat the whole fetch as failed.
type DataShapeError struct {
	Entity string
	Reason string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("malformed %s record: %s", e.Entity, e.Reason)
}

// StatusFromWire maps a backend status to the normalized one. Unknown or
// missing values come back as pending.
func StatusFromWire(s string) models.Status {
	switch s {
	case "IN_PROGRESS":
		return models.StatusInProgress
	case "DONE":
		return models.StatusCompleted
	case "TO_DO", "PENDING":
		return models.StatusPending
	default:
		return models.StatusPending
	}
}

// StatusToWire maps a normalized status back to wire vocabulary.
func StatusToWire(s models.Status) string {
	switch s {
	case models.StatusInProgress:
		return "IN_PROGRESS"
	case models.StatusCompleted:
		return "DONE"
	case models.StatusOnHold:
		return "PENDING" // the server has no on-hold state
	default:
		return "PENDING"
	}
}

// PriorityFromWire maps a backend priority. Unknown values come back low.
func PriorityFromWire(p string) models.Priority {
	switch p {
	case "URGENT":
		return models.PriorityUrgent
	case "HIGH":
		return models.PriorityHigh
	case "MEDIUM":
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// PriorityToWire maps a normalized priority back to wire vocabulary.
func PriorityToWire(p models.Priority) string {
	switch p {
	case models.PriorityUrgent:
		return "URGENT"
	case models.PriorityHigh:
		return "HIGH"
	case models.PriorityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// RoleFromWire maps a backend role. Only GROUP_LEADER is an admin.
func RoleFromWire(r string) models.Role {
	if r == "GROUP_LEADER" {
		return models.RoleAdmin
	}
	return models.RoleEmployee
}

// RoleToWire maps a normalized role back to wire vocabulary.
func RoleToWire(r models.Role) string {
	if r == models.RoleAdmin {
		return "GROUP_LEADER"
	}
	return "MEMBER"
}

// ActiveFromWire maps the backend account status string to the active flag.
func ActiveFromWire(status string) bool {
	return status == "ACTIVE"
}

// ActiveToWire maps the active flag back to the account status string.
func ActiveToWire(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "INACTIVE"
}

// timestampLayouts covers the formats the server emits: RFC3339, the
// zone-less LocalDateTime serialization, and bare calendar dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestampOrNow parses a wire timestamp, defaulting to now when the
// value is missing or unparseable. Total by design: sort and format code
// downstream never sees a zero time.
func ParseTimestampOrNow(s string, now time.Time) time.Time {
	if s == "" {
		return now
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}

// UserFromWire normalizes a backend user record.
func UserFromWire(u api.User, now time.Time) (models.User, error) {
	if u.UserID == 0 {
		return models.User{}, &DataShapeError{Entity: "user", Reason: "missing userId"}
	}
	return models.User{
		ID:          u.UserID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        RoleFromWire(u.Role),
		CreatedAt:   ParseTimestampOrNow(u.CreatedAt, now),
		Active:      ActiveFromWire(u.Status),
		AvatarColor: u.AvatarColor,
	}, nil
}

// TaskFromWire normalizes a backend task record. The trashed flag comes
// from which endpoint produced the record, not from the payload. When the
// record carries assignee names instead of ids, names are resolved against
// the already-normalized user collection by exact full-name match;
// unmatched names are dropped.
func TaskFromWire(t api.Task, users []models.User, trashed bool, now time.Time) (models.Task, error) {
	if t.TaskID == 0 {
		return models.Task{}, &DataShapeError{Entity: "task", Reason: "missing taskId"}
	}

	assignees := t.AssigneeIDs
	if len(assignees) == 0 && len(t.AssigneeNames) > 0 {
		assignees = resolveAssigneeNames(t.AssigneeNames, users)
	}

	category := t.CategoryName
	if category == "" {
		category = "General"
	}

	task := models.Task{
		ID:          t.TaskID,
		Title:       t.Title,
		Description: t.Description,
		StartDate:   t.StartDate,
		DueDate:     t.DueDate,
		Status:      StatusFromWire(t.Status),
		Priority:    PriorityFromWire(t.Priority),
		Category:    category,
		CreatedAt:   ParseTimestampOrNow(t.CreatedAt, now),
		UpdatedAt:   ParseTimestampOrNow(t.UpdatedAt, now),
		Trashed:     trashed,
		Tags:        t.Tags,
		AssigneeIDs: assignees,
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if task.AssigneeIDs == nil {
		task.AssigneeIDs = []int64{}
	}
	for _, a := range t.Attachments {
		att, err := AttachmentFromWire(a, now)
		if err != nil {
			return models.Task{}, err
		}
		task.Attachments = append(task.Attachments, att)
	}
	if task.Status == models.StatusCompleted {
		done := task.UpdatedAt
		task.CompletedDate = &done
	}
	return task, nil
}

func resolveAssigneeNames(names []string, users []models.User) []int64 {
	byName := make(map[string]int64, len(users))
	for _, u := range users {
		byName[u.FullName] = u.ID
	}
	var ids []int64
	for _, name := range names {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
		}
		// Unmatched names are dropped. Lossy, but the server only sends
		// names on legacy list payloads that also lack assignment records.
	}
	return ids
}

// CommentFromWire normalizes a backend comment. The category must be one
// of the fixed set; an empty category becomes Commented, anything else is
// a shape error.
func CommentFromWire(c api.Comment, now time.Time) (models.Comment, error) {
	if c.CommentID == 0 {
		return models.Comment{}, &DataShapeError{Entity: "comment", Reason: "missing commentId"}
	}
	category := models.CommentCategory(c.Category)
	if c.Category == "" {
		category = models.CategoryCommented
	} else if !models.ValidCommentCategory(category) {
		return models.Comment{}, &DataShapeError{
			Entity: "comment",
			Reason: fmt.Sprintf("unknown category %q", c.Category),
		}
	}
	return models.Comment{
		ID:        c.CommentID,
		UserID:    c.UserID,
		TaskID:    c.TaskID,
		ParentID:  c.ParentCommentID,
		Text:      c.Text,
		CreatedAt: ParseTimestampOrNow(c.CreatedAt, now),
		Category:  category,
	}, nil
}

// AttachmentFromWire normalizes a backend attachment.
func AttachmentFromWire(a api.Attachment, now time.Time) (models.Attachment, error) {
	if a.AttachmentID == 0 {
		return models.Attachment{}, &DataShapeError{Entity: "attachment", Reason: "missing attachmentId"}
	}
	return models.Attachment{
		ID:         a.AttachmentID,
		TaskID:     a.TaskID,
		FileName:   a.FileName,
		FileType:   a.FileType,
		FileSize:   a.FileSize,
		FileURL:    a.FileURL,
		UploadedBy: a.UploadedBy,
		UploadedAt: ParseTimestampOrNow(a.UploadedAt, now),
	}, nil
}

// ActivityFromWire normalizes a backend activity log entry into a feed item.
func ActivityFromWire(a api.ActivityLog, now time.Time) models.Activity {
	action := a.Description
	if action == "" {
		action = "updated"
	}
	return models.Activity{
		ID:        a.ActivityID,
		Kind:      models.ActivityStatusChange,
		Actor:     a.UserFullName,
		Action:    action,
		TaskTitle: a.TaskTitle,
		Timestamp: ParseTimestampOrNow(a.CreatedAt, now),
		Label:     a.NewValue,
	}
}

// BuildAssignments folds the two assignment sources into one relation.
// A task's inline assignee ids win; standalone assignment records only
// fill in tasks that arrived without them.
func BuildAssignments(tasks []models.Task, records []api.Assignment) models.Assignments {
	rel := make(models.Assignments, len(tasks))
	inline := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		if len(t.AssigneeIDs) > 0 {
			inline[t.ID] = true
			rel[t.ID] = append([]int64(nil), t.AssigneeIDs...)
		}
	}
	for _, r := range records {
		if inline[r.TaskID] {
			continue
		}
		rel[r.TaskID] = append(rel[r.TaskID], r.UserID)
	}
	return rel
}
