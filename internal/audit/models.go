package audit

import (
	"time"

	id "tasquest/pkg/domain"
)

// Action names an audited account event.
type Action string

const (
	ActionAccountCreated Action = "account_created"
	ActionSignedIn       Action = "signed_in"
	ActionSignInFailed   Action = "sign_in_failed"
	ActionSignedOut      Action = "signed_out"
	ActionProfileUpdated Action = "profile_updated"
)

// Event is emitted from domain logic to capture key account actions. It stays
// transport-agnostic so sinks can fan out (memory, Kafka).
type Event struct {
	Action    Action       `json:"action"`
	AccountID id.AccountID `json:"account_id"`
	Email     string       `json:"email,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	ClientIP  string       `json:"client_ip,omitempty"`
	Device    string       `json:"device,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}
