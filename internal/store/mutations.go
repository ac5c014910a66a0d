package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/permissions"
	"github.com/taskdeck/taskdeck/internal/transform"
)

// TaskForm carries the task fields a create or edit submits.
type TaskForm struct {
	Title       string
	Description string
	StartDate   string
	DueDate     string
	Status      models.Status
	Priority    models.Priority
	Category    string
	Tags        []string
	AssigneeIDs []int64
}

// Validate checks the form locally; validation failures never reach the
// network.
func (f TaskForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(f.DueDate) == "" {
		return fmt.Errorf("due date is required")
	}
	return nil
}

// CreateTask creates a task on the server and admits the saved record.
func (s *Store) CreateTask(ctx context.Context, form TaskForm) (*models.Task, error) {
	if !permissions.CanCreateTask(s.user) {
		return nil, fmt.Errorf("you don't have permission to create tasks: %w", ErrPermissionDenied)
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	saved, err := s.client.CreateTask(ctx, api.CreateTaskRequest{
		Title:        form.Title,
		Description:  form.Description,
		Status:       transform.StatusToWire(form.Status),
		Priority:     transform.PriorityToWire(form.Priority),
		StartDate:    form.StartDate,
		DueDate:      form.DueDate,
		CategoryName: form.Category,
		CreatedByID:  s.user.ID,
		AssigneeIDs:  form.AssigneeIDs,
		Tags:         form.Tags,
	})
	if err != nil {
		return nil, err
	}
	task, err := transform.TaskFromWire(*saved, s.Users, false, time.Now())
	if err != nil {
		return nil, err
	}
	s.upsertTask(task)
	s.logger.WithFields(logrus.Fields{"task_id": task.ID, "title": task.Title}).Info("task created")
	return &task, nil
}

// UpdateTask edits a task on the server and admits the saved record. A
// status change rides the same request and is checked against the state
// machine first.
func (s *Store) UpdateTask(ctx context.Context, taskID int64, form TaskForm) (*models.Task, error) {
	existing := s.findTask(taskID)
	if !permissions.CanEditTask(s.user, existing) {
		return nil, fmt.Errorf("you don't have permission to edit tasks: %w", ErrPermissionDenied)
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if existing != nil && form.Status != "" && form.Status != existing.Status && !validTransition(existing.Status, form.Status) {
		return nil, fmt.Errorf("cannot move task from %q to %q: %w", existing.Status, form.Status, ErrInvalidTransition)
	}
	saved, err := s.client.UpdateTask(ctx, taskID, api.UpdateTaskRequest{
		Title:        form.Title,
		Description:  form.Description,
		Status:       transform.StatusToWire(form.Status),
		Priority:     transform.PriorityToWire(form.Priority),
		StartDate:    form.StartDate,
		DueDate:      form.DueDate,
		CategoryName: form.Category,
		AssigneeIDs:  form.AssigneeIDs,
		Tags:         form.Tags,
		UserID:       s.user.ID,
	})
	if err != nil {
		return nil, err
	}
	task, err := transform.TaskFromWire(*saved, s.Users, false, time.Now())
	if err != nil {
		return nil, err
	}
	s.upsertTask(task)
	return &task, nil
}

// validTransition encodes the task status machine: pending and completed
// only ever border in progress, and on hold is a parking state off pending.
func validTransition(from, to models.Status) bool {
	if from == to {
		return true
	}
	switch from {
	case models.StatusPending:
		return to == models.StatusInProgress || to == models.StatusOnHold
	case models.StatusInProgress:
		return to == models.StatusPending || to == models.StatusCompleted
	case models.StatusCompleted:
		return to == models.StatusInProgress
	case models.StatusOnHold:
		return to == models.StatusPending
	}
	return false
}

// MoveTaskStatus moves a task between statuses (board drop or explicit
// edit). The policy gate and the state machine are both checked before
// any network traffic.
func (s *Store) MoveTaskStatus(ctx context.Context, taskID int64, target models.Status) (*models.Task, error) {
	existing := s.findTask(taskID)
	if existing == nil {
		return nil, fmt.Errorf("task %d not found", taskID)
	}
	if !permissions.CanUpdateTaskStatus(s.user, existing, s.Assignments) {
		return nil, fmt.Errorf("you don't have permission to update this task's status: %w", ErrPermissionDenied)
	}
	if !validTransition(existing.Status, target) {
		return nil, fmt.Errorf("cannot move task from %q to %q: %w", existing.Status, target, ErrInvalidTransition)
	}
	if existing.Status == target {
		return existing, nil
	}
	saved, err := s.client.UpdateTask(ctx, taskID, api.UpdateTaskRequest{
		Status: transform.StatusToWire(target),
		UserID: s.user.ID,
	})
	if err != nil {
		return nil, err
	}
	task, err := transform.TaskFromWire(*saved, s.Users, false, time.Now())
	if err != nil {
		return nil, err
	}
	task.UpdatedAt = time.Now()
	s.upsertTask(task)
	s.logger.WithFields(logrus.Fields{
		"task_id": taskID,
		"from":    string(existing.Status),
		"to":      string(target),
	}).Info("task status moved")
	return &task, nil
}

// TrashTask soft-deletes a task. It disappears from the active
// collection and will show up in the trash view.
func (s *Store) TrashTask(ctx context.Context, taskID int64) error {
	if !permissions.CanDeleteTask(s.user) {
		return fmt.Errorf("you don't have permission to delete tasks: %w", ErrPermissionDenied)
	}
	if err := s.client.DeleteTask(ctx, taskID, false); err != nil {
		return err
	}
	s.removeTask(taskID)
	s.logger.WithField("task_id", taskID).Info("task trashed")
	return nil
}

// RestoreTask brings a task back from the trash.
func (s *Store) RestoreTask(ctx context.Context, taskID int64) (*models.Task, error) {
	if !permissions.CanDeleteTask(s.user) {
		return nil, fmt.Errorf("you don't have permission to restore tasks: %w", ErrPermissionDenied)
	}
	saved, err := s.client.RestoreTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task, err := transform.TaskFromWire(*saved, s.Users, false, time.Now())
	if err != nil {
		return nil, err
	}
	s.removeTrashed(taskID)
	s.upsertTask(task)
	return &task, nil
}

// PurgeTask permanently deletes an already-trashed task. Irreversible.
func (s *Store) PurgeTask(ctx context.Context, taskID int64) error {
	if !permissions.CanDeleteTask(s.user) {
		return fmt.Errorf("you don't have permission to permanently delete tasks: %w", ErrPermissionDenied)
	}
	if err := s.client.DeleteTask(ctx, taskID, true); err != nil {
		return err
	}
	s.removeTrashed(taskID)
	s.logger.WithField("task_id", taskID).Info("task permanently deleted")
	return nil
}

// AddComment posts a comment on a task. The category must be one of the
// fixed set; an empty category records as Commented.
func (s *Store) AddComment(ctx context.Context, taskID int64, text string, category models.CommentCategory, parentID *int64) (*models.Comment, error) {
	if !permissions.CanAddComment(s.user) {
		return nil, fmt.Errorf("you must be signed in to comment: %w", ErrPermissionDenied)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment text is required")
	}
	if category == "" {
		category = models.CategoryCommented
	}
	if !models.ValidCommentCategory(category) {
		return nil, fmt.Errorf("unknown comment category %q", category)
	}
	saved, err := s.client.CreateComment(ctx, api.CreateCommentRequest{
		TaskID:          taskID,
		UserID:          s.user.ID,
		ParentCommentID: parentID,
		Text:            strings.TrimSpace(text),
		Category:        string(category),
	})
	if err != nil {
		return nil, err
	}
	comment, err := transform.CommentFromWire(*saved, time.Now())
	if err != nil {
		return nil, err
	}
	s.Comments = append(s.Comments, comment)
	return &comment, nil
}

// UserForm carries the fields for adding a member or editing a profile.
type UserForm struct {
	Username    string
	FullName    string
	Email       string
	Password    string
	Role        models.Role
	AvatarColor string
}

// Validate checks the form locally.
func (f UserForm) Validate(requirePassword bool) error {
	if strings.TrimSpace(f.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if strings.TrimSpace(f.FullName) == "" {
		return fmt.Errorf("full name is required")
	}
	if !validEmail(f.Email) {
		return fmt.Errorf("please enter a valid email address")
	}
	if requirePassword && len(f.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if f.Password != "" && len(f.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

// validEmail is the same loose check the signup form applies: something,
// an @, something, a dot, something.
func validEmail(email string) bool {
	at := strings.IndexRune(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}

// CreateUser adds a team member.
func (s *Store) CreateUser(ctx context.Context, form UserForm) (*models.User, error) {
	if !permissions.CanManageTeam(s.user) {
		return nil, fmt.Errorf("you don't have permission to manage team members: %w", ErrPermissionDenied)
	}
	if err := form.Validate(true); err != nil {
		return nil, err
	}
	saved, err := s.client.CreateUser(ctx, api.CreateUserRequest{
		Username:    form.Username,
		FullName:    form.FullName,
		Email:       form.Email,
		Password:    form.Password,
		Role:        transform.RoleToWire(form.Role),
		AvatarColor: form.AvatarColor,
	})
	if err != nil {
		return nil, err
	}
	user, err := transform.UserFromWire(*saved, time.Now())
	if err != nil {
		return nil, err
	}
	s.upsertUser(user)
	return &user, nil
}

// ToggleUserStatus flips a member between active and inactive.
func (s *Store) ToggleUserStatus(ctx context.Context, userID int64) (*models.User, error) {
	if !permissions.CanManageTeam(s.user) {
		return nil, fmt.Errorf("you don't have permission to manage team members: %w", ErrPermissionDenied)
	}
	target := s.findUser(userID)
	if target == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}
	saved, err := s.client.UpdateUser(ctx, userID, api.UpdateUserRequest{
		Status: transform.ActiveToWire(!target.Active),
	})
	if err != nil {
		return nil, err
	}
	user, err := transform.UserFromWire(*saved, time.Now())
	if err != nil {
		return nil, err
	}
	s.upsertUser(user)
	return &user, nil
}

// UpdateProfile updates the session user's own record.
func (s *Store) UpdateProfile(ctx context.Context, form UserForm) (*models.User, error) {
	if s.user == nil {
		return nil, fmt.Errorf("you must be signed in: %w", ErrPermissionDenied)
	}
	if err := form.Validate(false); err != nil {
		return nil, err
	}
	saved, err := s.client.UpdateUser(ctx, s.user.ID, api.UpdateUserRequest{
		Username:    form.Username,
		FullName:    form.FullName,
		Email:       form.Email,
		Password:    form.Password,
		AvatarColor: form.AvatarColor,
	})
	if err != nil {
		return nil, err
	}
	user, err := transform.UserFromWire(*saved, time.Now())
	if err != nil {
		return nil, err
	}
	s.upsertUser(user)
	s.user = &user
	return &user, nil
}

func (s *Store) findTask(id int64) *models.Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

func (s *Store) findUser(id int64) *models.User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// upsertTask replaces the task with the same id or appends it. The
// collection never holds two records for one id.
func (s *Store) upsertTask(task models.Task) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == task.ID {
			s.Tasks[i] = task
			s.Assignments = transform.BuildAssignments(s.Tasks, nil)
			return
		}
	}
	s.Tasks = append(s.Tasks, task)
	s.Assignments = transform.BuildAssignments(s.Tasks, nil)
}

func (s *Store) upsertUser(user models.User) {
	for i := range s.Users {
		if s.Users[i].ID == user.ID {
			s.Users[i] = user
			return
		}
	}
	s.Users = append(s.Users, user)
}

func (s *Store) removeTask(id int64) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
			break
		}
	}
	s.Assignments = transform.BuildAssignments(s.Tasks, nil)
}

func (s *Store) removeTrashed(id int64) {
	for i := range s.TrashedTasks {
		if s.TrashedTasks[i].ID == id {
			s.TrashedTasks = append(s.TrashedTasks[:i], s.TrashedTasks[i+1:]...)
			return
		}
	}
}
