// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Limitation describes a caveat identified during gap analysis.
type Limitation struct {
	// Type classifies the limitation (e.g. "source bias", "data scarcity").
	Type string `json:"type" yaml:"type"`

	// Description details the limitation.
	Description string `json:"description" yaml:"description"`

	// Severity scores the limitation; higher means more severe
	// (typically 2-10, advisory).
	Severity int `json:"severity" yaml:"severity"`

	// PotentialSolutions suggests ways to mitigate the limitation.
	PotentialSolutions []string `json:"potential_solutions" yaml:"potential_solutions"`
}

// Validate checks required fields.
func (l Limitation) Validate() error {
	var errs fieldErrs
	if l.Type == "" {
		errs.add("type", "must not be empty")
	}
	if l.Description == "" {
		errs.add("description", "must not be empty")
	}
	return errs.err("Limitation")
}

// KnowledgeGap describes a topic the research has not yet addressed.
type KnowledgeGap struct {
	// Topic is the area where knowledge is lacking.
	Topic string `json:"topic" yaml:"topic"`

	// Reason says why the gap exists or matters.
	Reason string `json:"reason" yaml:"reason"`

	// AdditionalQueries suggests searches that could fill the gap.
	AdditionalQueries []string `json:"additional_queries" yaml:"additional_queries"`
}

// Validate checks required fields.
func (g KnowledgeGap) Validate() error {
	var errs fieldErrs
	if g.Topic == "" {
		errs.add("topic", "must not be empty")
	}
	if g.Reason == "" {
		errs.add("reason", "must not be empty")
	}
	return errs.err("KnowledgeGap")
}

// RecommendedFollowup is a suggested next action from gap analysis.
type RecommendedFollowup struct {
	// Action is the suggested follow-up.
	Action string `json:"action" yaml:"action"`

	// Rationale explains the recommendation.
	Rationale string `json:"rationale" yaml:"rationale"`

	// Priority scores the follow-up (typically 2-10, advisory).
	Priority int `json:"priority" yaml:"priority"`
}

// Validate checks required fields.
func (r RecommendedFollowup) Validate() error {
	var errs fieldErrs
	if r.Action == "" {
		errs.add("action", "must not be empty")
	}
	if r.Rationale == "" {
		errs.add("rationale", "must not be empty")
	}
	return errs.err("RecommendedFollowup")
}

// GapAnalysisResult is the aggregate output of the gap-analysis phase.
type GapAnalysisResult struct {
	// Limitations lists identified limitations in the research so far.
	Limitations []Limitation `json:"limitations" yaml:"limitations"`

	// KnowledgeGaps lists identified gaps.
	KnowledgeGaps []KnowledgeGap `json:"knowledge_gaps" yaml:"knowledge_gaps"`

	// RecommendedFollowup lists suggested next actions.
	RecommendedFollowup []RecommendedFollowup `json:"recommended_followup" yaml:"recommended_followup"`
}

// Validate checks every contained record.
func (r GapAnalysisResult) Validate() error {
	var errs fieldErrs
	for i, l := range r.Limitations {
		collectNested(&errs, "limitations", i, l.Validate())
	}
	for i, g := range r.KnowledgeGaps {
		collectNested(&errs, "knowledge_gaps", i, g.Validate())
	}
	for i, f := range r.RecommendedFollowup {
		collectNested(&errs, "recommended_followup", i, f.Validate())
	}
	return errs.err("GapAnalysisResult")
}
