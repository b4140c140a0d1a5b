package api

import "time"

type ScheduleStatus string

const (
	StatusDraft     ScheduleStatus = "draft"
	StatusPublished ScheduleStatus = "published"
)

type Schedule struct {
	ID        int            `json:"id"`
	Version   int            `json:"version"`
	Status    ScheduleStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at,omitzero"`
	CreatedBy int            `json:"created_by,omitempty"`
}

// ScheduleItem places one order on one workcenter. Referential integrity and
// Start < End are the backend's responsibility.
type ScheduleItem struct {
	ScheduleID   int       `json:"schedule_id,omitempty"`
	WorkcenterID int       `json:"workcenter_id"`
	OrderID      int       `json:"order_id"`
	Start        time.Time `json:"start_ts"`
	End          time.Time `json:"end_ts"`
	SequenceNo   int       `json:"sequence_no"`
}

type ScheduleDraft struct {
	Schedule Schedule       `json:"schedule"`
	Items    []ScheduleItem `json:"items"`
}

type KPI struct {
	TotalLatenessMin int     `json:"total_lateness_min"`
	TotalSetupMin    int     `json:"total_setup_min"`
	ChangeCount      int     `json:"change_count"`
	AvgUtilization   float64 `json:"avg_utilization"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	UserName    string `json:"user_name"`
}

type runResponse struct {
	Draft ScheduleDraft `json:"draft"`
	KPI   KPI           `json:"kpi"`
}

type publishRequest struct {
	ScheduleID int `json:"schedule_id"`
}

type rollbackRequest struct {
	Version int `json:"version"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}
