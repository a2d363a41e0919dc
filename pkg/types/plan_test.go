// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"strings"
	"testing"
)

func TestSearchQueryValidate(t *testing.T) {
	tests := []struct {
		name      string
		query     SearchQuery
		wantField string
	}{
		{
			name:  "valid web query",
			query: SearchQuery{Query: "quantum error correction", Rationale: "core topic", Source: SourceWeb, Priority: 2},
		},
		{
			name:  "all is legal for a query",
			query: SearchQuery{Query: "q", Rationale: "r", Source: SourceAll, Priority: 3},
		},
		{
			name:      "missing query",
			query:     SearchQuery{Rationale: "r", Source: SourceWeb, Priority: 2},
			wantField: "query",
		},
		{
			name:      "missing rationale",
			query:     SearchQuery{Query: "q", Source: SourceWeb},
			wantField: "rationale",
		},
		{
			name:      "unknown source",
			query:     SearchQuery{Query: "q", Rationale: "r", Source: "reddit"},
			wantField: "source",
		},
		{
			name:      "empty source",
			query:     SearchQuery{Query: "q", Rationale: "r"},
			wantField: "source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			requireFieldError(t, err, "SearchQuery", tt.wantField)
		})
	}
}

func TestSearchQueryPriorityNotBounded(t *testing.T) {
	// Priority ranges are advisory; any integer passes.
	for _, p := range []int{-5, 0, 2, 100} {
		q := SearchQuery{Query: "q", Rationale: "r", Source: SourceAcademic, Priority: p}
		if err := q.Validate(); err != nil {
			t.Errorf("priority %d rejected: %v", p, err)
		}
	}
}

func TestRequiredAnalysisValidate(t *testing.T) {
	a := RequiredAnalysis{Type: "comparative", Description: "compare approaches", Importance: 4}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	requireFieldError(t, RequiredAnalysis{Description: "d"}.Validate(), "RequiredAnalysis", "type")
	requireFieldError(t, RequiredAnalysis{Type: "t"}.Validate(), "RequiredAnalysis", "description")
}

func TestResearchPlanValidate(t *testing.T) {
	// Both lists empty is a valid plan.
	if err := (ResearchPlan{}).Validate(); err != nil {
		t.Fatalf("empty plan: Validate() = %v, want nil", err)
	}

	plan := ResearchPlan{
		SearchQueries: []SearchQuery{
			{Query: "q1", Rationale: "r1", Source: SourceWeb, Priority: 2},
			{Query: "q2", Rationale: "r2", Source: "bogus", Priority: 3},
		},
		RequiredAnalyses: []RequiredAnalysis{
			{Type: "", Description: "d", Importance: 1},
		},
	}

	err := plan.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if ve.Record != "ResearchPlan" {
		t.Errorf("Record = %q, want ResearchPlan", ve.Record)
	}

	// Nested failures carry the list index and inner field name.
	msg := err.Error()
	if !strings.Contains(msg, "search_queries[1].source") {
		t.Errorf("error %q should name search_queries[1].source", msg)
	}
	if !strings.Contains(msg, "required_analyses[0].type") {
		t.Errorf("error %q should name required_analyses[0].type", msg)
	}
}

// requireFieldError asserts that err is a *ValidationError for record
// naming field among its failures.
func requireFieldError(t *testing.T, err error, record, field string) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("got %v, want *ValidationError", err)
	}
	if ve.Record != record {
		t.Fatalf("Record = %q, want %q", ve.Record, record)
	}
	for _, f := range ve.Fields {
		if f.Field == field {
			return
		}
	}
	t.Fatalf("fields %v do not name %q", ve.Fields, field)
}
