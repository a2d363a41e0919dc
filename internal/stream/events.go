// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stream builds, frames, and replays the progress events emitted
// while a research plan executes. The wire shape is the flat
// types.StreamUpdate record; the constructors here are the only way
// pipeline code builds events, so each (type, status) combination carries
// exactly the fields that apply to it.
package stream

import (
	"fmt"
	"time"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Well-known step ids for the phase-level events. Search and analysis
// steps use ids generated with types.NewStepID instead.
const (
	PlanStepID      = "research-plan"
	ProgressStepID  = "research-progress"
	GapAnalysisID   = "gap-analysis"
	SynthesisStepID = "final-synthesis"
)

// now returns the current time in epoch seconds. Tests override it for
// deterministic timestamps.
var now = func() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

func base(id, kind string, status types.UpdateStatus, title, message string) types.StreamUpdateData {
	return types.StreamUpdateData{
		ID:        id,
		Type:      kind,
		Status:    status,
		Title:     title,
		Message:   message,
		Timestamp: now(),
	}
}

// PlanRunning announces that plan generation has started.
func PlanRunning() types.StreamUpdate {
	return types.NewStreamUpdate(base(
		PlanStepID, "plan", types.StatusRunning,
		"Research Plan", "Creating research plan...",
	))
}

// PlanCompleted delivers the generated plan and the total step count. It
// overwrites the running plan message.
func PlanCompleted(plan types.ResearchPlan, totalSteps int) types.StreamUpdate {
	d := base(
		PlanStepID, "plan", types.StatusCompleted,
		"Research Plan", "Research plan created",
	)
	d.Overwrite = true
	d.Plan = &plan
	d.TotalSteps = &totalSteps
	return types.NewStreamUpdate(d)
}

// sourceLabel returns the display name for a search source.
func sourceLabel(source types.Source) string {
	if source == types.SourceX {
		return "X"
	}
	return string(source)
}

// SearchRunning announces that one planned search has started.
func SearchRunning(stepID string, source types.Source, query string) types.StreamUpdate {
	d := base(
		stepID, string(source), types.StatusRunning,
		fmt.Sprintf("Searching %s sources", sourceLabel(source)),
		fmt.Sprintf("Searching for: %s", query),
	)
	d.Query = &query
	return types.NewStreamUpdate(d)
}

// SearchCompleted delivers the results of one search step, overwriting
// the running message.
func SearchCompleted(stepID string, source types.Source, query string, results []types.SearchResultItem) types.StreamUpdate {
	d := base(
		stepID, string(source), types.StatusCompleted,
		fmt.Sprintf("Searched %s sources", sourceLabel(source)),
		fmt.Sprintf("Found %d results for: %s", len(results), query),
	)
	d.Overwrite = true
	d.Query = &query
	d.Results = results
	return types.NewStreamUpdate(d)
}

// AnalysisRunning announces that one planned analysis has started.
func AnalysisRunning(stepID, analysisType string) types.StreamUpdate {
	d := base(
		stepID, "analysis", types.StatusRunning,
		fmt.Sprintf("Analyzing: %s", analysisType),
		fmt.Sprintf("Running %s analysis...", analysisType),
	)
	d.AnalysisType = &analysisType
	return types.NewStreamUpdate(d)
}

// AnalysisCompleted delivers the findings of one analysis step in the
// loosely-typed display form, overwriting the running message.
func AnalysisCompleted(stepID, analysisType string, findings []types.AnalysisFinding) types.StreamUpdate {
	d := base(
		stepID, "analysis", types.StatusCompleted,
		fmt.Sprintf("Analyzed: %s", analysisType),
		fmt.Sprintf("Completed %s analysis with %d findings", analysisType, len(findings)),
	)
	d.Overwrite = true
	d.AnalysisType = &analysisType
	d.Findings = findingMaps(findings)
	return types.NewStreamUpdate(d)
}

// findingMaps converts findings to the loose key-value form the stream
// contract uses for display payloads.
func findingMaps(findings []types.AnalysisFinding) []map[string]any {
	if findings == nil {
		return nil
	}
	out := make([]map[string]any, len(findings))
	for i, f := range findings {
		out[i] = map[string]any{
			"insight":    f.Insight,
			"evidence":   f.Evidence,
			"confidence": f.Confidence,
		}
	}
	return out
}

// GapAnalysisRunning announces the start of the gap-analysis phase.
func GapAnalysisRunning() types.StreamUpdate {
	return types.NewStreamUpdate(base(
		GapAnalysisID, "analysis", types.StatusRunning,
		"Gap Analysis", "Reviewing limitations and missing knowledge...",
	))
}

// GapAnalysisCompleted delivers the gap report, overwriting the running
// message.
func GapAnalysisCompleted(result types.GapAnalysisResult) types.StreamUpdate {
	d := base(
		GapAnalysisID, "analysis", types.StatusCompleted,
		"Gap Analysis",
		fmt.Sprintf("Identified %d gaps and %d limitations",
			len(result.KnowledgeGaps), len(result.Limitations)),
	)
	d.Overwrite = true
	d.Gaps = result.KnowledgeGaps
	d.Recommendations = result.RecommendedFollowup
	return types.NewStreamUpdate(d)
}

// SynthesisRunning announces the start of the final synthesis phase.
func SynthesisRunning() types.StreamUpdate {
	return types.NewStreamUpdate(base(
		SynthesisStepID, "analysis", types.StatusRunning,
		"Final Synthesis", "Synthesizing findings across all research...",
	))
}

// SynthesisCompleted delivers the synthesis, overwriting the running
// message. Key findings travel in the loose display form; remaining
// uncertainties travel verbatim.
func SynthesisCompleted(result types.FinalSynthesisResult) types.StreamUpdate {
	d := base(
		SynthesisStepID, "analysis", types.StatusCompleted,
		"Final Synthesis",
		fmt.Sprintf("Synthesized %d key findings", len(result.KeyFindings)),
	)
	d.Overwrite = true
	d.Findings = keyFindingMaps(result.KeyFindings)
	d.Uncertainties = result.RemainingUncertainties
	return types.NewStreamUpdate(d)
}

func keyFindingMaps(findings []types.KeyFinding) []map[string]any {
	if findings == nil {
		return nil
	}
	out := make([]map[string]any, len(findings))
	for i, f := range findings {
		out[i] = map[string]any{
			"finding":             f.Finding,
			"confidence":          f.Confidence,
			"supporting_evidence": f.SupportingEvidence,
		}
	}
	return out
}

// Progress reports how many steps have finished. Progress events always
// overwrite the previous one so the consumer shows a single counter.
func Progress(completed, total int, isComplete bool) types.StreamUpdate {
	status := types.StatusRunning
	if isComplete {
		status = types.StatusCompleted
	}
	d := base(
		ProgressStepID, "progress", status,
		"Research Progress",
		fmt.Sprintf("Completed %d of %d steps", completed, total),
	)
	d.Overwrite = true
	d.CompletedSteps = &completed
	d.TotalSteps = &total
	d.IsComplete = &isComplete
	return types.NewStreamUpdate(d)
}

// ErrorUpdate reports a step failure. The message carries the error
// detail; the step is marked completed so consumers stop waiting on it.
func ErrorUpdate(stepID, detail string) types.StreamUpdate {
	return types.NewStreamUpdate(base(
		stepID, "error", types.StatusCompleted,
		"Research Error", detail,
	))
}
