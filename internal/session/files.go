// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session persists one research run to disk: the plan and its
// step set as YAML files, and the update stream in a SQLite journal. A
// saved session can be inspected or replayed later without re-running
// anything upstream.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deep-research/pkg/types"
)

const (
	planFile = "plan.yaml"
	stepsDir = "steps"
)

// PlanFile is the on-disk representation of a research plan and the step
// set derived from it.
type PlanFile struct {
	Plan    types.ResearchPlan `yaml:"plan"`
	Steps   []types.StepInfo   `yaml:"steps"`
	Summary PlanSummary        `yaml:"summary"`
}

// PlanSummary stores step counts and a timestamp.
type PlanSummary struct {
	TotalSteps    int       `yaml:"total_steps"`
	SearchSteps   int       `yaml:"search_steps"`
	AnalysisSteps int       `yaml:"analysis_steps"`
	Timestamp     time.Time `yaml:"timestamp"`
}

// BuildSteps derives the step set from a plan, one step per search query
// and per required analysis, in plan order. Each step gets a fresh unique
// id and carries its originating plan entry in Details.
func BuildSteps(plan types.ResearchPlan) []types.StepInfo {
	steps := make([]types.StepInfo, 0, len(plan.SearchQueries)+len(plan.RequiredAnalyses))
	for i, q := range plan.SearchQueries {
		steps = append(steps, types.StepInfo{
			ID:   types.NewStepID(string(q.Source), i),
			Type: string(q.Source),
			Details: map[string]any{
				"query":     q.Query,
				"rationale": q.Rationale,
				"source":    string(q.Source),
				"priority":  q.Priority,
			},
		})
	}
	for i, a := range plan.RequiredAnalyses {
		steps = append(steps, types.StepInfo{
			ID:   types.NewStepID("analysis", i),
			Type: "analysis",
			Details: map[string]any{
				"type":        a.Type,
				"description": a.Description,
				"importance":  a.Importance,
			},
		})
	}
	return steps
}

// WritePlanFile validates the plan, derives its step set, and saves both
// to dir/plan.yaml. It returns the written PlanFile.
func WritePlanFile(dir string, plan types.ResearchPlan) (PlanFile, error) {
	if err := plan.Validate(); err != nil {
		return PlanFile{}, err
	}

	steps := BuildSteps(plan)
	pf := PlanFile{
		Plan:  plan,
		Steps: steps,
		Summary: PlanSummary{
			TotalSteps:    len(steps),
			SearchSteps:   len(plan.SearchQueries),
			AnalysisSteps: len(plan.RequiredAnalyses),
			Timestamp:     time.Now().UTC(),
		},
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return PlanFile{}, fmt.Errorf("creating session directory: %w", err)
	}
	data, err := yaml.Marshal(&pf)
	if err != nil {
		return PlanFile{}, fmt.Errorf("marshaling plan file: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, planFile), data, 0o644); err != nil {
		return PlanFile{}, fmt.Errorf("writing plan file: %w", err)
	}
	return pf, nil
}

// ReadPlanFile loads a previously saved plan from dir/plan.yaml and
// validates the contained plan.
func ReadPlanFile(dir string) (*PlanFile, error) {
	data, err := os.ReadFile(filepath.Join(dir, planFile))
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	var pf PlanFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	if err := pf.Plan.Validate(); err != nil {
		return nil, err
	}
	return &pf, nil
}

// StepKind classifies a saved step result file.
type StepKind string

const (
	KindSearch      StepKind = "search"
	KindAnalysis    StepKind = "analysis"
	KindGapAnalysis StepKind = "gap_analysis"
	KindSynthesis   StepKind = "synthesis"
)

// StepResultFile is the on-disk representation of one step's output.
// Exactly one payload field is set, matching Kind.
type StepResultFile struct {
	StepID    string                      `yaml:"step_id"`
	Kind      StepKind                    `yaml:"kind"`
	Timestamp time.Time                   `yaml:"timestamp"`
	Search    *types.SearchStepResult     `yaml:"search,omitempty"`
	Analysis  *types.AnalysisResult       `yaml:"analysis,omitempty"`
	Gaps      *types.GapAnalysisResult    `yaml:"gaps,omitempty"`
	Synthesis *types.FinalSynthesisResult `yaml:"synthesis,omitempty"`
}

// payload returns the record matching Kind, or nil when the file is
// internally inconsistent.
func (f StepResultFile) payload() types.Record {
	switch f.Kind {
	case KindSearch:
		if f.Search != nil {
			return *f.Search
		}
	case KindAnalysis:
		if f.Analysis != nil {
			return *f.Analysis
		}
	case KindGapAnalysis:
		if f.Gaps != nil {
			return *f.Gaps
		}
	case KindSynthesis:
		if f.Synthesis != nil {
			return *f.Synthesis
		}
	}
	return nil
}

// WriteStepResult validates and saves one step's output to
// dir/steps/[stepID].yaml.
func WriteStepResult(dir string, f StepResultFile) error {
	if f.StepID == "" {
		return fmt.Errorf("step result has no step_id")
	}
	rec := f.payload()
	if rec == nil {
		return fmt.Errorf("step %s: no payload for kind %q", f.StepID, f.Kind)
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	if f.Timestamp.IsZero() {
		f.Timestamp = time.Now().UTC()
	}

	outDir := filepath.Join(dir, stepsDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating steps directory: %w", err)
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling step result: %w", err)
	}
	path := filepath.Join(outDir, f.StepID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing step result: %w", err)
	}
	return nil
}

// ReadStepResult loads one step's output from dir/steps/[stepID].yaml
// and validates it.
func ReadStepResult(dir, stepID string) (*StepResultFile, error) {
	path := filepath.Join(dir, stepsDir, stepID+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading step result: %w", err)
	}
	var f StepResultFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing step result %s: %w", stepID, err)
	}
	rec := f.payload()
	if rec == nil {
		return nil, fmt.Errorf("step %s: no payload for kind %q", stepID, f.Kind)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListStepResults loads every saved step result in dir/steps/, sorted by
// step id. A missing steps directory yields an empty list.
func ListStepResults(dir string) ([]StepResultFile, error) {
	entries, err := os.ReadDir(filepath.Join(dir, stepsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading steps directory: %w", err)
	}

	var out []StepResultFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		stepID := strings.TrimSuffix(entry.Name(), ".yaml")
		f, err := ReadStepResult(dir, stepID)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StepID < out[j].StepID })
	return out, nil
}
