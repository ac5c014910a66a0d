// Package permissions holds the role policy. Every predicate is total and
// fail-closed: a nil user never grants anything.
package permissions

import "github.com/taskdeck/taskdeck/internal/models"

// IsAdmin reports whether the user is an admin.
func IsAdmin(user *models.User) bool {
	return user != nil && user.Role == models.RoleAdmin
}

// IsEmployee reports whether the user is a regular employee.
func IsEmployee(user *models.User) bool {
	return user != nil && user.Role == models.RoleEmployee
}

// CanCreateTask reports whether the user may create tasks.
func CanCreateTask(user *models.User) bool {
	return IsAdmin(user)
}

// CanEditTask reports whether the user may edit the task. The task is part
// of the contract for future per-owner rules; today only admins edit.
func CanEditTask(user *models.User, _ *models.Task) bool {
	return IsAdmin(user)
}

// CanDeleteTask reports whether the user may trash tasks.
func CanDeleteTask(user *models.User) bool {
	return IsAdmin(user)
}

// CanViewTask reports whether the user may view tasks. Any authenticated
// user can.
func CanViewTask(user *models.User) bool {
	return user != nil
}

// CanUpdateTaskStatus reports whether the user may move the task between
// statuses. Admins always can; employees only on tasks assigned to them.
func CanUpdateTaskStatus(user *models.User, task *models.Task, assignments models.Assignments) bool {
	if user == nil || task == nil {
		return false
	}
	if IsAdmin(user) {
		return true
	}
	if IsEmployee(user) {
		return IsAssignedToTask(user, task, assignments)
	}
	return false
}

// CanAddComment reports whether the user may comment. Any authenticated
// user can.
func CanAddComment(user *models.User) bool {
	return user != nil
}

// CanAssignEmployees reports whether the user may assign tasks.
func CanAssignEmployees(user *models.User) bool {
	return IsAdmin(user)
}

// CanManageTeam reports whether the user may activate or disable members.
func CanManageTeam(user *models.User) bool {
	return IsAdmin(user)
}

// IsAssignedToTask reports whether the user is assigned to the task. The
// task's own assignee set is preferred; the normalized relation covers
// records that arrived without inline assignees.
func IsAssignedToTask(user *models.User, task *models.Task, assignments models.Assignments) bool {
	if user == nil || task == nil {
		return false
	}
	if len(task.AssigneeIDs) > 0 {
		return task.IsAssigned(user.ID)
	}
	return assignments.Assigned(task.ID, user.ID)
}
