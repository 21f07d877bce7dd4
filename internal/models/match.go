package models

import "time"

const (
	MatchStatusRequested  = "requested"
	MatchStatusAccepted   = "accepted"
	MatchStatusInProgress = "in_progress"
	MatchStatusEnded      = "ended"
	MatchStatusRejected   = "rejected"
	MatchStatusForceEnded = "force_ended"
)

const (
	MatchRequestedByUser  = "user"
	MatchRequestedByCoach = "coach"
)

// Match pairs one user profile with one coach profile. The profile ids are
// immutable after creation; everything else moves through MatchService.
type Match struct {
	ID             int64      `json:"id"`
	UserProfileID  int64      `json:"user_profile_id"`
	CoachProfileID int64      `json:"coach_profile_id"`
	Status         string     `json:"status"`
	RequestedBy    string     `json:"requested_by"`
	RequestedAt    time.Time  `json:"requested_at"`
	AcceptedAt     *time.Time `json:"accepted_at"`
	EndedAt        *time.Time `json:"ended_at"`
	EndReason      *string    `json:"end_reason"`
	Blocked        bool       `json:"blocked"`
	BlockReason    *string    `json:"block_reason"`
	Reported       bool       `json:"reported"`
	ReportReason   *string    `json:"report_reason"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func MatchStatusTerminal(status string) bool {
	switch status {
	case MatchStatusEnded, MatchStatusRejected, MatchStatusForceEnded:
		return true
	default:
		return false
	}
}
