package models

import "testing"

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		full string
		want string
	}{
		{"two names", "Ada Lovelace", "AL"},
		{"three names keep first two", "Grace Brewster Hopper", "GB"},
		{"single name", "Ada", "A"},
		{"lowercase input", "ada lovelace", "AL"},
		{"empty", "", ""},
		{"extra spaces", "  Ada   Lovelace  ", "AL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{FullName: tt.full}
			if got := u.Initials(); got != tt.want {
				t.Errorf("Initials(%q) = %q, want %q", tt.full, got, tt.want)
			}
		})
	}
}

func TestTaskIsAssigned(t *testing.T) {
	task := Task{AssigneeIDs: []int64{1, 3}}
	if !task.IsAssigned(1) || !task.IsAssigned(3) {
		t.Error("assigned user not found")
	}
	if task.IsAssigned(2) {
		t.Error("unassigned user matched")
	}
	if (Task{}).IsAssigned(1) {
		t.Error("empty assignee set matched")
	}
}

func TestAssignmentsAssigned(t *testing.T) {
	rel := Assignments{10: {1, 2}}
	if !rel.Assigned(10, 2) {
		t.Error("relation lookup failed")
	}
	if rel.Assigned(10, 3) || rel.Assigned(11, 1) {
		t.Error("false positive")
	}
	var empty Assignments
	if empty.Assigned(1, 1) {
		t.Error("nil relation matched")
	}
}

func TestValidCommentCategory(t *testing.T) {
	for _, c := range CommentCategories {
		if !ValidCommentCategory(c) {
			t.Errorf("%q should be valid", c)
		}
	}
	if ValidCommentCategory("Shouting") || ValidCommentCategory("") {
		t.Error("unknown categories should be invalid")
	}
}
