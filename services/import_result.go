package services

import (
	"fmt"

	"github.com/google/uuid"
)

// Severity distinguishes blocking problems from advisory ones. Warnings
// never flip a batch invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue is one finding against one CSV row. Row is the 1-based
// source line number (the header is line 1).
type ValidationIssue struct {
	Row      int      `json:"row"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationResult accumulates issues for a batch without short-circuiting.
type ValidationResult struct {
	Issues []ValidationIssue `json:"issues"`
}

func NewValidationResult() *ValidationResult {
	return &ValidationResult{Issues: []ValidationIssue{}}
}

func (r *ValidationResult) AddError(row int, field, message string) {
	r.Issues = append(r.Issues, ValidationIssue{Row: row, Field: field, Message: message, Severity: SeverityError})
}

func (r *ValidationResult) AddWarning(row int, field, message string) {
	r.Issues = append(r.Issues, ValidationIssue{Row: row, Field: field, Message: message, Severity: SeverityWarning})
}

// Merge appends another result's issues, keeping their original rows.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Issues = append(r.Issues, other.Issues...)
}

// Valid reports whether the batch may be imported: warnings allowed,
// errors not.
func (r *ValidationResult) Valid() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

func (r *ValidationResult) Errors() []ValidationIssue {
	return r.bySeverity(SeverityError)
}

func (r *ValidationResult) Warnings() []ValidationIssue {
	return r.bySeverity(SeverityWarning)
}

func (r *ValidationResult) bySeverity(sev Severity) []ValidationIssue {
	out := []ValidationIssue{}
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// ImportAction is the fate of a single row.
type ImportAction string

const (
	ActionCreated ImportAction = "created"
	ActionUpdated ImportAction = "updated"
	ActionSkipped ImportAction = "skipped"
	ActionError   ImportAction = "error"
)

// ImportItem is one row's outcome, formatted at aggregation time so the
// report is directly consumable. EntityType names what the row resolved
// to (swimmer, meet, swim_time, time_standard); EntityID is set once the
// record exists in the store.
type ImportItem struct {
	Row        int          `json:"row"`
	Action     ImportAction `json:"action"`
	EntityType string       `json:"entity_type,omitempty"`
	EntityID   *uuid.UUID   `json:"entity_id,omitempty"`
	Message    string       `json:"message"`
}

// ImportResult is the batch report: every processed row's fate plus
// counters. Success is false as soon as any row records an error; rows
// that succeeded still count.
type ImportResult struct {
	Success      bool         `json:"success"`
	CreatedCount int          `json:"created_count"`
	UpdatedCount int          `json:"updated_count"`
	SkippedCount int          `json:"skipped_count"`
	ErrorCount   int          `json:"error_count"`
	Items        []ImportItem `json:"items"`
}

func NewImportResult() *ImportResult {
	return &ImportResult{Success: true, Items: []ImportItem{}}
}

func (r *ImportResult) AddCreated(row int, entityType string, entityID uuid.UUID, message string) {
	r.CreatedCount++
	r.Items = append(r.Items, ImportItem{Row: row, Action: ActionCreated, EntityType: entityType, EntityID: &entityID, Message: message})
}

func (r *ImportResult) AddUpdated(row int, entityType string, entityID uuid.UUID, message string) {
	r.UpdatedCount++
	r.Items = append(r.Items, ImportItem{Row: row, Action: ActionUpdated, EntityType: entityType, EntityID: &entityID, Message: message})
}

func (r *ImportResult) AddSkipped(row int, entityType string, message string) {
	r.SkippedCount++
	r.Items = append(r.Items, ImportItem{Row: row, Action: ActionSkipped, EntityType: entityType, Message: message})
}

func (r *ImportResult) AddError(row int, message string) {
	r.ErrorCount++
	r.Success = false
	r.Items = append(r.Items, ImportItem{Row: row, Action: ActionError, Message: message})
}

// Summary is a one-line digest for logs and CLI output.
func (r *ImportResult) Summary() string {
	return fmt.Sprintf("created=%d updated=%d skipped=%d errors=%d",
		r.CreatedCount, r.UpdatedCount, r.SkippedCount, r.ErrorCount)
}
