package models

import "time"

// BatchRun tracks the execution of one input document
type BatchRun struct {
	ID          string     `json:"id" db:"id"`
	InputKey    string     `json:"input_key" db:"input_key"`
	OutputKey   string     `json:"output_key,omitempty" db:"output_key"`
	Status      string     `json:"status" db:"status"`
	ActionCount int        `json:"action_count" db:"action_count"`
	ResultCount int        `json:"result_count" db:"result_count"`
	Error       string     `json:"error,omitempty" db:"error"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// BatchStatus constants
const (
	BatchStatusPending    = "pending"
	BatchStatusProcessing = "processing"
	BatchStatusCompleted  = "completed"
	BatchStatusFailed     = "failed"
)

// IsTerminal reports whether the run can no longer change status.
func (b *BatchRun) IsTerminal() bool {
	return b.Status == BatchStatusCompleted || b.Status == BatchStatusFailed
}

// BatchMessage asks a worker to process a stored batch run
type BatchMessage struct {
	BatchID     string    `json:"batch_id"`
	InputKey    string    `json:"input_key"`
	SubmittedAt time.Time `json:"submitted_at"`
}
