// Package store sequences every user-initiated change: permission check
// first, then the network call, then reconciliation into the held
// collections. Local state never changes before the server confirms.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/transform"
)

// ErrPermissionDenied means the policy refused the mutation. No network
// call was made.
var ErrPermissionDenied = errors.New("permission denied")

// ErrInvalidTransition means the requested status move is not allowed by
// the task state machine.
var ErrInvalidTransition = errors.New("invalid status transition")

// Cache persists board snapshots between runs so a screen can fall back
// to the last good fetch when the server is unreachable.
type Cache interface {
	SaveSnapshot(key string, v any) error
	LoadSnapshot(key string, v any) (time.Time, error)
}

const boardSnapshotKey = "board"

type boardSnapshot struct {
	Tasks []models.Task
	Users []models.User
}

// Store owns one screen's normalized collections. It is created per
// screen and discarded on navigation; there is no cross-screen cache.
type Store struct {
	client *api.Client
	logger *logrus.Logger
	user   *models.User
	cache  Cache

	Tasks        []models.Task
	TrashedTasks []models.Task
	Users        []models.User
	Comments     []models.Comment
	Activities   []models.Activity
	Assignments  models.Assignments
}

// New builds a store for the given session user.
func New(client *api.Client, user *models.User, logger *logrus.Logger) *Store {
	return &Store{client: client, logger: logger, user: user}
}

// User returns the session user the store was built for.
func (s *Store) User() *models.User {
	return s.user
}

// SetCache installs the snapshot cache. Without one, offline fallback is
// simply unavailable.
func (s *Store) SetCache(c Cache) {
	s.cache = c
}

// HydrateBoard fills the collections from the cached board snapshot and
// reports when it was saved. It returns false when nothing is cached.
func (s *Store) HydrateBoard() (time.Time, bool) {
	if s.cache == nil {
		return time.Time{}, false
	}
	var snap boardSnapshot
	savedAt, err := s.cache.LoadSnapshot(boardSnapshotKey, &snap)
	if err != nil {
		return time.Time{}, false
	}
	s.Tasks = snap.Tasks
	s.Users = snap.Users
	s.Assignments = transform.BuildAssignments(s.Tasks, nil)
	return savedAt, true
}

// join runs the fetches concurrently and fails if any of them fails. A
// screen either gets all of its data or an error; there is no partial
// render.
func join(fetches ...func() error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(fetches))
	for i, fetch := range fetches {
		wg.Add(1)
		go func(i int, fetch func() error) {
			defer wg.Done()
			errs[i] = fetch()
		}(i, fetch)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadBoard fetches tasks and users for the board and list screens.
func (s *Store) LoadBoard(ctx context.Context) error {
	var wireTasks []api.Task
	var wireUsers []api.User
	err := join(
		func() error {
			var err error
			wireTasks, err = s.client.Tasks(ctx)
			return err
		},
		func() error {
			var err error
			wireUsers, err = s.client.Users(ctx)
			return err
		},
	)
	if err != nil {
		return err
	}
	if err := s.admit(wireTasks, wireUsers, false); err != nil {
		return err
	}
	if s.cache != nil {
		snap := boardSnapshot{Tasks: s.Tasks, Users: s.Users}
		if err := s.cache.SaveSnapshot(boardSnapshotKey, snap); err != nil {
			s.logger.WithError(err).Warn("board snapshot not saved")
		}
	}
	return nil
}

// LoadTrash fetches the trashed tasks plus users for assignee display.
func (s *Store) LoadTrash(ctx context.Context) error {
	var wireTasks []api.Task
	var wireUsers []api.User
	err := join(
		func() error {
			var err error
			wireTasks, err = s.client.Trash(ctx)
			return err
		},
		func() error {
			var err error
			wireUsers, err = s.client.Users(ctx)
			return err
		},
	)
	if err != nil {
		return err
	}
	if err := s.admit(nil, wireUsers, false); err != nil {
		return err
	}
	now := time.Now()
	s.TrashedTasks = s.TrashedTasks[:0]
	for _, wt := range wireTasks {
		task, err := transform.TaskFromWire(wt, s.Users, true, now)
		if err != nil {
			return err
		}
		s.TrashedTasks = append(s.TrashedTasks, task)
	}
	return nil
}

// LoadDashboard fetches tasks, users, and the recent activity feed.
// Servers without the activity endpoint degrade to a feed derived from
// task status touches.
func (s *Store) LoadDashboard(ctx context.Context) error {
	var wireTasks []api.Task
	var wireUsers []api.User
	var wireActs []api.ActivityLog
	var actErr error
	err := join(
		func() error {
			var err error
			wireTasks, err = s.client.Tasks(ctx)
			return err
		},
		func() error {
			var err error
			wireUsers, err = s.client.Users(ctx)
			return err
		},
		func() error {
			var err error
			wireActs, err = s.client.RecentActivities(ctx, 10)
			if err != nil {
				var apiErr *api.Error
				if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
					actErr = err // tolerated below
					return nil
				}
			}
			return err
		},
	)
	if err != nil {
		return err
	}
	if err := s.admit(wireTasks, wireUsers, false); err != nil {
		return err
	}
	now := time.Now()
	s.Activities = s.Activities[:0]
	if actErr == nil {
		for _, a := range wireActs {
			s.Activities = append(s.Activities, transform.ActivityFromWire(a, now))
		}
	}
	return nil
}

// LoadTaskDetail fetches one task, its comments, and the roster.
func (s *Store) LoadTaskDetail(ctx context.Context, taskID int64) error {
	var wireTask *api.Task
	var wireComments []api.Comment
	var wireUsers []api.User
	err := join(
		func() error {
			var err error
			wireTask, err = s.client.Task(ctx, taskID)
			return err
		},
		func() error {
			var err error
			wireComments, err = s.client.TaskComments(ctx, taskID)
			return err
		},
		func() error {
			var err error
			wireUsers, err = s.client.Users(ctx)
			return err
		},
	)
	if err != nil {
		return err
	}
	if err := s.admit([]api.Task{*wireTask}, wireUsers, false); err != nil {
		return err
	}
	now := time.Now()
	s.Comments = s.Comments[:0]
	for _, wc := range wireComments {
		comment, err := transform.CommentFromWire(wc, now)
		if err != nil {
			return err
		}
		s.Comments = append(s.Comments, comment)
	}
	return nil
}

// LoadTeam fetches the roster.
func (s *Store) LoadTeam(ctx context.Context) error {
	wireUsers, err := s.client.Users(ctx)
	if err != nil {
		return err
	}
	return s.admit(nil, wireUsers, false)
}

// admit transforms wire records and replaces the held collections. Users
// are normalized first so task records carrying assignee names can be
// resolved. A shape error fails the whole admit; nothing is replaced.
func (s *Store) admit(wireTasks []api.Task, wireUsers []api.User, trashed bool) error {
	now := time.Now()

	users := s.Users
	if wireUsers != nil {
		users = make([]models.User, 0, len(wireUsers))
		for _, wu := range wireUsers {
			user, err := transform.UserFromWire(wu, now)
			if err != nil {
				return err
			}
			users = append(users, user)
		}
	}

	tasks := s.Tasks
	if wireTasks != nil {
		tasks = make([]models.Task, 0, len(wireTasks))
		for _, wt := range wireTasks {
			task, err := transform.TaskFromWire(wt, users, trashed, now)
			if err != nil {
				return err
			}
			tasks = append(tasks, task)
		}
	}

	s.Users = users
	s.Tasks = tasks
	s.Assignments = transform.BuildAssignments(s.Tasks, nil)
	return nil
}
