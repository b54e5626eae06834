package messages

import "time"

// Queue names for case pipeline events
const (
	// CaseCreated is queue name for the event after a new case is registered
	CaseCreated = "CaseCreated"
)

// CaseEvent is the event sent to the broker when a case is created from audio
type CaseEvent struct {
	AudioID  string    `json:"audioID"`
	CaseID   string    `json:"caseID"`
	UserID   string    `json:"userID,omitempty"`
	Email    string    `json:"email,omitempty"`
	Category string    `json:"category,omitempty"`
	At       time.Time `json:"at"`
}

// NewCaseEvent creates a case event with the current timestamp
func NewCaseEvent(audioID string, caseID string, userID string, email string, category string) *CaseEvent {
	return &CaseEvent{AudioID: audioID, CaseID: caseID, UserID: userID,
		Email: email, Category: category, At: time.Now()}
}
