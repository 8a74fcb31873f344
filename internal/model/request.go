package model

type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type RoleAssignRequest struct {
	RoleID int `json:"role_id"`
}

type AuditActor struct {
	UserID string `json:"user_id,omitempty"`
	IP     string `json:"ip,omitempty"`
}

type AuditEntry struct {
	ID         int64      `json:"id"`
	Action     string     `json:"action"`
	OccurredAt string     `json:"occurred_at"`
	Actor      AuditActor `json:"actor"`
	Status     string     `json:"status"`
	Resource   string     `json:"resource,omitempty"`
	Before     any        `json:"before,omitempty"`
	After      any        `json:"after,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type AuditQuery struct {
	Action   string
	ActorID  string
	Status   string
	Resource string
	From     string
	To       string
	Page     int
	Limit    int
}
