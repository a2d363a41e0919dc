// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deep-research/pkg/types"
)

// fixedClock pins the event timestamp for the duration of a test.
func fixedClock(t *testing.T, epoch float64) {
	t.Helper()
	orig := now
	now = func() float64 { return epoch }
	t.Cleanup(func() { now = orig })
}

func TestPlanEvents(t *testing.T) {
	fixedClock(t, 1755916800)

	running := PlanRunning()
	require.NoError(t, running.Validate())
	assert.Equal(t, PlanStepID, running.Data.ID)
	assert.Equal(t, "plan", running.Data.Type)
	assert.Equal(t, types.StatusRunning, running.Data.Status)
	assert.False(t, running.Data.Overwrite)
	assert.Nil(t, running.Data.Plan)

	plan := types.ResearchPlan{
		SearchQueries: []types.SearchQuery{
			{Query: "q", Rationale: "r", Source: types.SourceWeb, Priority: 2},
		},
	}
	completed := PlanCompleted(plan, 3)
	require.NoError(t, completed.Validate())
	assert.Equal(t, PlanStepID, completed.Data.ID)
	assert.Equal(t, types.StatusCompleted, completed.Data.Status)
	assert.True(t, completed.Data.Overwrite, "completion replaces the running message")
	require.NotNil(t, completed.Data.Plan)
	assert.Equal(t, plan, *completed.Data.Plan)
	require.NotNil(t, completed.Data.TotalSteps)
	assert.Equal(t, 3, *completed.Data.TotalSteps)
	assert.Equal(t, 1755916800.0, completed.Data.Timestamp)
}

func TestSearchEvents(t *testing.T) {
	fixedClock(t, 1755916800)

	running := SearchRunning("web-0-aa", types.SourceWeb, "golang generics")
	require.NoError(t, running.Validate())
	assert.Equal(t, "web", running.Data.Type)
	require.NotNil(t, running.Data.Query)
	assert.Equal(t, "golang generics", *running.Data.Query)
	assert.Nil(t, running.Data.Results, "results only travel on completion")

	results := []types.SearchResultItem{{
		Source:  types.SourceWeb,
		Title:   "t",
		URL:     "https://example.com",
		Content: "c",
	}}
	completed := SearchCompleted("web-0-aa", types.SourceWeb, "golang generics", results)
	require.NoError(t, completed.Validate())
	assert.True(t, completed.Data.Overwrite)
	assert.Equal(t, results, completed.Data.Results)
	assert.Contains(t, completed.Data.Message, "Found 1 results")
}

func TestSearchEventXLabel(t *testing.T) {
	u := SearchRunning("x-1-bb", types.SourceX, "q")
	assert.Equal(t, "x", u.Data.Type)
	assert.Contains(t, u.Data.Title, "X sources")
}

func TestAnalysisEvents(t *testing.T) {
	running := AnalysisRunning("analysis-0-cc", "comparative")
	require.NoError(t, running.Validate())
	require.NotNil(t, running.Data.AnalysisType)
	assert.Equal(t, "comparative", *running.Data.AnalysisType)
	assert.Nil(t, running.Data.Findings)

	findings := []types.AnalysisFinding{
		{Insight: "A beats B", Evidence: []string{"bench 3"}, Confidence: 0.8},
	}
	completed := AnalysisCompleted("analysis-0-cc", "comparative", findings)
	require.NoError(t, completed.Validate())
	assert.True(t, completed.Data.Overwrite)
	require.Len(t, completed.Data.Findings, 1)
	assert.Equal(t, "A beats B", completed.Data.Findings[0]["insight"])
	assert.Equal(t, 0.8, completed.Data.Findings[0]["confidence"])
}

func TestGapAnalysisRunning(t *testing.T) {
	u := GapAnalysisRunning()
	require.NoError(t, u.Validate())
	assert.Equal(t, GapAnalysisID, u.Data.ID)
	assert.Equal(t, "analysis", u.Data.Type)
	assert.Equal(t, types.StatusRunning, u.Data.Status)
	assert.Nil(t, u.Data.Gaps)
	assert.Nil(t, u.Data.Recommendations)
}

func TestGapAnalysisCompleted(t *testing.T) {
	result := types.GapAnalysisResult{
		KnowledgeGaps: []types.KnowledgeGap{
			{Topic: "pricing", Reason: "no data", AdditionalQueries: []string{"gpu pricing"}},
		},
		RecommendedFollowup: []types.RecommendedFollowup{
			{Action: "search vendors", Rationale: "primary source", Priority: 3},
		},
	}
	u := GapAnalysisCompleted(result)
	require.NoError(t, u.Validate())
	assert.Equal(t, GapAnalysisID, u.Data.ID)
	assert.Equal(t, result.KnowledgeGaps, u.Data.Gaps)
	assert.Equal(t, result.RecommendedFollowup, u.Data.Recommendations)
}

func TestSynthesisRunning(t *testing.T) {
	u := SynthesisRunning()
	require.NoError(t, u.Validate())
	assert.Equal(t, SynthesisStepID, u.Data.ID)
	assert.Equal(t, "analysis", u.Data.Type)
	assert.Equal(t, types.StatusRunning, u.Data.Status)
	assert.Nil(t, u.Data.Findings)
	assert.Nil(t, u.Data.Uncertainties)
}

func TestSynthesisCompleted(t *testing.T) {
	result := types.FinalSynthesisResult{
		KeyFindings: []types.KeyFinding{
			{Finding: "A preferred", Confidence: 0.9, SupportingEvidence: []string{"analysis-0"}},
		},
		RemainingUncertainties: []string{"long-term cost"},
	}
	u := SynthesisCompleted(result)
	require.NoError(t, u.Validate())
	assert.Equal(t, SynthesisStepID, u.Data.ID)
	assert.Equal(t, []string{"long-term cost"}, u.Data.Uncertainties)
	require.Len(t, u.Data.Findings, 1)
	assert.Equal(t, "A preferred", u.Data.Findings[0]["finding"])
}

func TestProgressEvents(t *testing.T) {
	u := Progress(2, 5, false)
	require.NoError(t, u.Validate())
	assert.Equal(t, types.StatusRunning, u.Data.Status)
	assert.True(t, u.Data.Overwrite)
	require.NotNil(t, u.Data.CompletedSteps)
	assert.Equal(t, 2, *u.Data.CompletedSteps)
	require.NotNil(t, u.Data.IsComplete)
	assert.False(t, *u.Data.IsComplete)

	final := Progress(5, 5, true)
	assert.Equal(t, types.StatusCompleted, final.Data.Status)
	assert.True(t, *final.Data.IsComplete)
}

func TestErrorUpdate(t *testing.T) {
	u := ErrorUpdate("web-2-dd", "search backend unreachable")
	require.NoError(t, u.Validate())
	assert.Equal(t, "error", u.Data.Type)
	assert.Equal(t, types.StatusCompleted, u.Data.Status)
	assert.Equal(t, "search backend unreachable", u.Data.Message)
}
