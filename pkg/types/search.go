// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchResultItem is a single hit returned by a search backend.
type SearchResultItem struct {
	// Source names the backend the result came from: web, academic, or x.
	Source Source `json:"source" yaml:"source"`

	// Title is the result title.
	Title string `json:"title" yaml:"title"`

	// URL locates the result.
	URL string `json:"url" yaml:"url"`

	// Content is the snippet or summary text for the result.
	Content string `json:"content" yaml:"content"`

	// TweetID is set only for results with Source == SourceX.
	TweetID string `json:"tweetId,omitempty" yaml:"tweet_id,omitempty"`
}

// Validate checks required fields, the source enum, and that tweetId is
// only present on x results.
func (r SearchResultItem) Validate() error {
	var errs fieldErrs
	if !validResultSource(r.Source) {
		errs.add("source", "must be one of web, academic, x; got %q", string(r.Source))
	}
	if r.Title == "" {
		errs.add("title", "must not be empty")
	}
	if r.URL == "" {
		errs.add("url", "must not be empty")
	}
	if r.Content == "" {
		errs.add("content", "must not be empty")
	}
	if r.TweetID != "" && r.Source != SourceX {
		errs.add("tweetId", "only valid when source is %q; source is %q", string(SourceX), string(r.Source))
	}
	return errs.err("SearchResultItem")
}

// SearchStepResult holds the results obtained by executing one planned
// search query. It carries a copy of the originating query, not a
// reference into the plan.
type SearchStepResult struct {
	// Type is the search performed for this step: web, academic, or x.
	Type Source `json:"type" yaml:"type"`

	// Query is the plan entry that prompted this search.
	Query SearchQuery `json:"query" yaml:"query"`

	// Results lists the hits found. May be empty.
	Results []SearchResultItem `json:"results" yaml:"results"`
}

// Validate checks the type enum, the embedded query, and every result.
func (s SearchStepResult) Validate() error {
	var errs fieldErrs
	if !validResultSource(s.Type) {
		errs.add("type", "must be one of web, academic, x; got %q", string(s.Type))
	}
	if err := s.Query.Validate(); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			for _, f := range ve.Fields {
				errs.add("query."+f.Field, "%s", f.Message)
			}
		} else {
			errs.add("query", "%v", err)
		}
	}
	for i, r := range s.Results {
		collectNested(&errs, "results", i, r.Validate())
	}
	return errs.err("SearchStepResult")
}
