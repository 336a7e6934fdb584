package domain

import (
	"errors"
	"time"
)

var ErrMissingRunID = errors.New("run_id is required")

// StatusUnknown is recorded when a caller omits the run status.
const StatusUnknown = "unknown"

// Record is one appended metrics entry. The timestamp is assigned at write
// time, so the (RunID, Timestamp) pair stays unique across retries of the
// same run.
type Record struct {
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
	AgentName       string    `json:"agent_name"`
	TokensConsumed  int       `json:"tokens_consumed"`
	TokensGenerated int       `json:"tokens_generated"`
	ResponseTimeMs  float64   `json:"response_time_ms"`
	ConfidenceScore float64   `json:"confidence_score"`
	Status          string    `json:"status"`
}
