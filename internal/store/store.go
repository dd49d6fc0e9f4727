package store

import "time"

type FlowKind string

const (
	FlowLogin    FlowKind = "login"
	FlowRegister FlowKind = "register"
)

type FlowStep string

const (
	StepWaitingForCredential FlowStep = "waiting_for_credential"
	StepWaitingForName       FlowStep = "waiting_for_name"
	StepWaitingForEmail      FlowStep = "waiting_for_email"
	StepWaitingForID         FlowStep = "waiting_for_id"
)

// LoginFlow tracks a multi-step login or registration sub-conversation.
// Collected fields are kept unvalidated; the step sequence is the contract.
type LoginFlow struct {
	Kind  FlowKind `json:"kind"`
	Step  FlowStep `json:"step"`
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	ID    string   `json:"id,omitempty"`
}

// State is the per-sender conversation state. A sender holds at most one
// active flow; AIAssist marks the continued AI-conversation loop.
type State struct {
	Flow     *LoginFlow `json:"flow,omitempty"`
	AIAssist bool       `json:"ai_assist,omitempty"`
}

// Empty reports whether the state carries nothing worth keeping.
func (s State) Empty() bool {
	return s.Flow == nil && !s.AIAssist
}

// InteractionRecord is one audited AI exchange.
type InteractionRecord struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Model     string    `json:"model"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// Store holds per-sender conversation state keyed by the platform sender id.
// GetState returns nil (no error) when the sender has no state.
type Store interface {
	GetState(sender string) (*State, error)
	PutState(sender string, st State) error
	DeleteState(sender string) error
	LogInteraction(rec InteractionRecord) error
	Close() error
}
