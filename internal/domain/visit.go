package domain

import "time"

type VisitStatus string

const (
	VisitStatusPlanned  VisitStatus = "PLANNED"
	VisitStatusDone     VisitStatus = "DONE"
	VisitStatusCanceled VisitStatus = "CANCELED"
)

type Visit struct {
	ID           int         `json:"id"`
	CommercialID int         `json:"commercial_id"`
	Commercial   *Commercial `json:"commercial,omitempty"`
	ClientID     int         `json:"client_id"`
	Client       *Client     `json:"client,omitempty"`
	ScheduledAt  time.Time   `json:"scheduled_at"`
	Status       VisitStatus `json:"status"`
	Note         string      `json:"note,omitempty"`
	BranchIDs    []int       `json:"branch_ids,omitempty"`
}
