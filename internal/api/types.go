package api

// Wire shapes as the backend serves them. Field spellings and enum
// vocabulary (PENDING, GROUP_LEADER, ACTIVE, ...) belong to the server;
// nothing outside internal/transform should touch them.

// Task is the backend task representation.
type Task struct {
	TaskID            int64        `json:"taskId"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Status            string       `json:"status"`   // PENDING, TO_DO, IN_PROGRESS, DONE
	Priority          string       `json:"priority"` // LOW, MEDIUM, HIGH, URGENT
	StartDate         string       `json:"startDate"`
	DueDate           string       `json:"dueDate"`
	CategoryName      string       `json:"categoryName"`
	CreatedByUsername string       `json:"createdByUsername"`
	AssigneeCount     int          `json:"assigneeCount"`
	AssigneeIDs       []int64      `json:"assigneeIds"`
	AssigneeNames     []string     `json:"assigneeNames"`
	Tags              []string     `json:"tags"`
	CreatedAt         string       `json:"createdAt"`
	UpdatedAt         string       `json:"updatedAt"`
	Attachments       []Attachment `json:"attachments,omitempty"`
}

// User is the backend user representation.
type User struct {
	UserID      int64  `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Role        string `json:"role"`   // GROUP_LEADER, MEMBER
	Status      string `json:"status"` // ACTIVE, INACTIVE
	AvatarColor string `json:"avatarColor"`
	CreatedAt   string `json:"createdAt"`
}

// Comment is the backend comment representation.
type Comment struct {
	CommentID       int64  `json:"commentId"`
	TaskID          int64  `json:"taskId"`
	UserID          int64  `json:"userId"`
	Username        string `json:"username"`
	UserFullName    string `json:"userFullName"`
	ParentCommentID *int64 `json:"parentCommentId"`
	Text            string `json:"text"`
	Category        string `json:"category"`
	CreatedAt       string `json:"createdAt"`
}

// Attachment is the backend attachment representation.
type Attachment struct {
	AttachmentID int64  `json:"attachmentId"`
	TaskID       int64  `json:"taskId"`
	FileName     string `json:"fileName"`
	FileType     string `json:"fileType"`
	FileSize     int64  `json:"fileSize"`
	FileURL      string `json:"fileUrl"`
	UploadedBy   int64  `json:"uploadedBy"`
	UploadedAt   string `json:"uploadedAt"`
}

// Assignment is the standalone assignment record some backend versions
// return instead of inlining assigneeIds on the task.
type Assignment struct {
	AssignmentID int64  `json:"assignmentId"`
	UserID       int64  `json:"userId"`
	TaskID       int64  `json:"taskId"`
	AssignedDate string `json:"assignedDate"`
}

// ActivityLog is the backend activity feed entry.
type ActivityLog struct {
	ActivityID   int64  `json:"activityId"`
	TaskID       int64  `json:"taskId"`
	TaskTitle    string `json:"taskTitle"`
	UserID       int64  `json:"userId"`
	UserFullName string `json:"userFullName"`
	ActionType   string `json:"actionType"`
	OldValue     string `json:"oldValue"`
	NewValue     string `json:"newValue"`
	Description  string `json:"description"`
	CreatedAt    string `json:"createdAt"`
}

// LoginRequest is the credentials payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the login result.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateTaskRequest creates a task. Status and Priority use wire vocabulary.
type CreateTaskRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	StartDate    string   `json:"startDate,omitempty"`
	DueDate      string   `json:"dueDate"`
	CategoryName string   `json:"categoryName,omitempty"`
	CreatedByID  int64    `json:"createdById"`
	AssigneeIDs  []int64  `json:"assigneeIds,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// UpdateTaskRequest updates a task. UserID is the user performing the update.
type UpdateTaskRequest struct {
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Status       string   `json:"status,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	DueDate      string   `json:"dueDate,omitempty"`
	CategoryName string   `json:"categoryName,omitempty"`
	AssigneeIDs  []int64  `json:"assigneeIds,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	UserID       int64    `json:"userId"`
}

// CreateCommentRequest creates a comment on a task.
type CreateCommentRequest struct {
	TaskID          int64  `json:"taskId"`
	UserID          int64  `json:"userId"`
	ParentCommentID *int64 `json:"parentCommentId,omitempty"`
	Text            string `json:"text"`
	Category        string `json:"category,omitempty"`
}

// CreateUserRequest adds a team member.
type CreateUserRequest struct {
	Username    string `json:"username"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	AvatarColor string `json:"avatarColor,omitempty"`
}

// UpdateUserRequest updates a team member. Empty fields are left unchanged;
// Password is only updated when provided.
type UpdateUserRequest struct {
	Username    string `json:"username,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
	Role        string `json:"role,omitempty"`
	Status      string `json:"status,omitempty"`
	AvatarColor string `json:"avatarColor,omitempty"`
}
