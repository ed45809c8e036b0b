package model

type AuditActor struct {
	UserID int64  `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	IP     string `json:"ip,omitempty"`
}

type AuditEntry struct {
	Action     string     `json:"action"`
	OccurredAt string     `json:"occurred_at"`
	Actor      AuditActor `json:"actor"`
	Status     string     `json:"status"`
	Resource   string     `json:"resource,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type AuditQuery struct {
	Action  string
	ActorID int64
	Status  string
	Page    int
	Limit   int
}

type AuditListData struct {
	Items []AuditEntry `json:"items"`
}

const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)
