// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the validated record schemas exchanged between the
// stages of the deep-research pipeline: planning, search, analysis, gap
// analysis, synthesis, and streaming progress updates.
//
// Every record is an immutable value: construct it (struct literal or one
// of the constructors in internal/stream), call Validate, and pass it on.
// Serialization is plain JSON with the field names fixed by the wire
// contract; Decode applies lenient parsing (unknown fields ignored) and
// validates the result. All validation failures are reported as
// *ValidationError naming the offending fields.
package types

import "fmt"

// Source identifies where a search query is directed or where a result
// came from. SourceAll is legal only on a SearchQuery; results always
// name a concrete source.
type Source string

const (
	SourceWeb      Source = "web"
	SourceAcademic Source = "academic"
	SourceX        Source = "x"
	SourceAll      Source = "all"
)

// validQuerySource reports whether s is legal for a SearchQuery.
func validQuerySource(s Source) bool {
	switch s {
	case SourceWeb, SourceAcademic, SourceX, SourceAll:
		return true
	}
	return false
}

// validResultSource reports whether s is legal for a search result.
func validResultSource(s Source) bool {
	switch s {
	case SourceWeb, SourceAcademic, SourceX:
		return true
	}
	return false
}

// SearchQuery is one planned search action within a research plan.
type SearchQuery struct {
	// Query is the search query string to execute.
	Query string `json:"query" yaml:"query"`

	// Rationale explains why this query matters for the research goal.
	Rationale string `json:"rationale" yaml:"rationale"`

	// Source selects the backend(s) to search: web, academic, x, or all.
	Source Source `json:"source" yaml:"source"`

	// Priority orders execution; lower means higher priority (typically 2-4).
	// The range is advisory and not enforced.
	Priority int `json:"priority" yaml:"priority"`
}

// Validate checks required fields and the source enum.
func (q SearchQuery) Validate() error {
	var errs fieldErrs
	if q.Query == "" {
		errs.add("query", "must not be empty")
	}
	if q.Rationale == "" {
		errs.add("rationale", "must not be empty")
	}
	if !validQuerySource(q.Source) {
		errs.add("source", "must be one of web, academic, x, all; got %q", string(q.Source))
	}
	return errs.err("SearchQuery")
}

// RequiredAnalysis is one planned analysis step within a research plan.
type RequiredAnalysis struct {
	// Type names the analysis to perform (e.g. "comparative", "sentiment").
	Type string `json:"type" yaml:"type"`

	// Description says what the analysis should cover.
	Description string `json:"description" yaml:"description"`

	// Importance scores the analysis; higher means more important
	// (typically 1-5, advisory).
	Importance int `json:"importance" yaml:"importance"`
}

// Validate checks required fields.
func (a RequiredAnalysis) Validate() error {
	var errs fieldErrs
	if a.Type == "" {
		errs.add("type", "must not be empty")
	}
	if a.Description == "" {
		errs.add("description", "must not be empty")
	}
	return errs.err("RequiredAnalysis")
}

// ResearchPlan is the aggregate plan produced by the planning stage.
// List order is the intended execution order; either list may be empty.
type ResearchPlan struct {
	// SearchQueries lists the planned searches.
	SearchQueries []SearchQuery `json:"search_queries" yaml:"search_queries"`

	// RequiredAnalyses lists the planned analyses over the search results.
	RequiredAnalyses []RequiredAnalysis `json:"required_analyses" yaml:"required_analyses"`
}

// Validate checks every contained query and analysis. Offending entries
// are reported with their list index (e.g. "search_queries[2].source").
func (p ResearchPlan) Validate() error {
	var errs fieldErrs
	for i, q := range p.SearchQueries {
		collectNested(&errs, "search_queries", i, q.Validate())
	}
	for i, a := range p.RequiredAnalyses {
		collectNested(&errs, "required_analyses", i, a.Validate())
	}
	return errs.err("ResearchPlan")
}

// collectNested folds a nested record's validation failure into errs,
// prefixing each field with the list name and index.
func collectNested(errs *fieldErrs, list string, idx int, err error) {
	if err == nil {
		return
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		errs.add(fmt.Sprintf("%s[%d]", list, idx), "%v", err)
		return
	}
	for _, f := range ve.Fields {
		errs.add(fmt.Sprintf("%s[%d].%s", list, idx, f.Field), "%s", f.Message)
	}
}
