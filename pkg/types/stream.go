// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// StepInfo is the bookkeeping record for one planned unit of work. The id
// must be unique within a plan's step set; the schema does not enforce
// uniqueness, that is the planner's responsibility.
type StepInfo struct {
	// ID uniquely identifies the step within a plan.
	ID string `json:"id" yaml:"id"`

	// Type names the kind of step: web, academic, x, or analysis.
	Type string `json:"type" yaml:"type"`

	// Details carries the originating query or analysis object. The
	// schema layer does not validate its contents; it is opaque payload
	// defined by the producer.
	Details map[string]any `json:"details" yaml:"details"`
}

// Validate checks required fields.
func (s StepInfo) Validate() error {
	var errs fieldErrs
	if s.ID == "" {
		errs.add("id", "must not be empty")
	}
	if s.Type == "" {
		errs.add("type", "must not be empty")
	}
	return errs.err("StepInfo")
}

// NewStepID returns a fresh step identifier with the given kind prefix
// and plan ordinal (e.g. "web-0-f47ac10b").
func NewStepID(kind string, ordinal int) string {
	return fmt.Sprintf("%s-%d-%s", kind, ordinal, uuid.NewString()[:8])
}

// UpdateStatus is the lifecycle state of a streamed step or phase.
type UpdateStatus string

const (
	StatusRunning   UpdateStatus = "running"
	StatusCompleted UpdateStatus = "completed"
)

// validUpdateStatus reports whether s is a legal status.
func validUpdateStatus(s UpdateStatus) bool {
	return s == StatusRunning || s == StatusCompleted
}

// StreamUpdateData is the payload of one progress event. The required
// header fields are always present; the optional fields are populated
// conditionally by event kind — an absent field means "not applicable to
// this event" and is omitted from the JSON encoding. The constructors in
// internal/stream build the legal (type, status) combinations.
type StreamUpdateData struct {
	// ID identifies the step or phase this update refers to.
	ID string `json:"id" yaml:"id"`

	// Type is the step or phase kind: plan, web, academic, x, analysis,
	// gap, synthesis, progress, or error.
	Type string `json:"type" yaml:"type"`

	// Status is the current state: running or completed.
	Status UpdateStatus `json:"status" yaml:"status"`

	// Title is the display title for the update.
	Title string `json:"title" yaml:"title"`

	// Message describes the current status or result.
	Message string `json:"message" yaml:"message"`

	// Timestamp is the event time in epoch seconds.
	Timestamp float64 `json:"timestamp" yaml:"timestamp"`

	// Overwrite tells the consumer to replace the prior update sharing
	// this ID rather than append.
	Overwrite bool `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`

	// Plan carries the research plan on a completed plan update.
	Plan *ResearchPlan `json:"plan,omitempty" yaml:"plan,omitempty"`

	// TotalSteps is the number of steps planned for the whole run.
	TotalSteps *int `json:"totalSteps,omitempty" yaml:"total_steps,omitempty"`

	// Query is the query string on search-step updates.
	Query *string `json:"query,omitempty" yaml:"query,omitempty"`

	// Results carries the hits on a completed search update.
	Results []SearchResultItem `json:"results,omitempty" yaml:"results,omitempty"`

	// AnalysisType names the analysis on analysis-step updates.
	AnalysisType *string `json:"analysisType,omitempty" yaml:"analysis_type,omitempty"`

	// Findings carries analysis findings in loosely-typed form for display.
	Findings []map[string]any `json:"findings,omitempty" yaml:"findings,omitempty"`

	// Gaps carries identified knowledge gaps on gap-analysis updates.
	Gaps []KnowledgeGap `json:"gaps,omitempty" yaml:"gaps,omitempty"`

	// Recommendations carries follow-up recommendations on gap-analysis updates.
	Recommendations []RecommendedFollowup `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`

	// Uncertainties carries remaining uncertainties on synthesis updates.
	Uncertainties []string `json:"uncertainties,omitempty" yaml:"uncertainties,omitempty"`

	// CompletedSteps is the number of steps finished so far, on progress updates.
	CompletedSteps *int `json:"completedSteps,omitempty" yaml:"completed_steps,omitempty"`

	// IsComplete marks the whole research run as finished, on progress updates.
	IsComplete *bool `json:"isComplete,omitempty" yaml:"is_complete,omitempty"`
}

// Validate checks the required header fields and the status enum. The
// optional fields are not cross-checked against Type here; wire consumers
// expect the flat shape and tolerate any combination.
func (d StreamUpdateData) Validate() error {
	var errs fieldErrs
	if d.ID == "" {
		errs.add("id", "must not be empty")
	}
	if d.Type == "" {
		errs.add("type", "must not be empty")
	}
	if !validUpdateStatus(d.Status) {
		errs.add("status", "must be one of running, completed; got %q", string(d.Status))
	}
	if d.Title == "" {
		errs.add("title", "must not be empty")
	}
	if d.Message == "" {
		errs.add("message", "must not be empty")
	}
	return errs.err("StreamUpdateData")
}

// StreamUpdateType is the fixed envelope discriminator for every streamed
// research event.
const StreamUpdateType = "research_update"

// StreamUpdate is the framed message sent over the streaming transport:
// a constant type discriminator and the event payload.
type StreamUpdate struct {
	// Type is always the literal "research_update".
	Type string `json:"type" yaml:"type"`

	// Data is the event payload.
	Data StreamUpdateData `json:"data" yaml:"data"`
}

// NewStreamUpdate wraps data in a correctly discriminated envelope.
func NewStreamUpdate(data StreamUpdateData) StreamUpdate {
	return StreamUpdate{Type: StreamUpdateType, Data: data}
}

// MarshalJSON forces the type discriminator to its fixed literal, whatever
// the struct holds.
func (u StreamUpdate) MarshalJSON() ([]byte, error) {
	type alias StreamUpdate
	a := alias(u)
	a.Type = StreamUpdateType
	return json.Marshal(a)
}

// Validate checks the discriminator and the payload.
func (u StreamUpdate) Validate() error {
	var errs fieldErrs
	if u.Type != StreamUpdateType {
		errs.add("type", "must be the literal %q; got %q", StreamUpdateType, u.Type)
	}
	if err := u.Data.Validate(); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			for _, f := range ve.Fields {
				errs.add("data."+f.Field, "%s", f.Message)
			}
		} else {
			errs.add("data", "%v", err)
		}
	}
	return errs.err("StreamUpdate")
}
