package types

import (
	"github.com/go-playground/validator/v10"
)

// SendMessageRequest is the body of a candidate turn.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=20000"`
}

// Validate validates the SendMessageRequest using the validator.
func (r *SendMessageRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// StartInterviewResponse is returned once the opening message is produced.
type StartInterviewResponse struct {
	SessionID string `json:"session_id"`
	CaseID    string `json:"case_id"`
	Message   string `json:"message"`
}

// SendMessageResponse carries the interviewer's reply to one turn.
type SendMessageResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Finished  bool   `json:"finished"`
}

// InterviewStateResponse is the read-only interview snapshot.
type InterviewStateResponse struct {
	Finished           bool         `json:"finished"`
	RemainingQuestions int          `json:"remaining_questions"`
	HistoryLen         int          `json:"history_len"`
	Conversation       Conversation `json:"conversation"`
}
