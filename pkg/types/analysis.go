// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AnalysisFinding is a single insight produced by an analysis step.
type AnalysisFinding struct {
	// Insight is the core finding.
	Insight string `json:"insight" yaml:"insight"`

	// Evidence lists supporting material: brief quotes or source references.
	Evidence []string `json:"evidence" yaml:"evidence"`

	// Confidence scores the finding, conceptually 0.0 to 1.0. Only
	// type-correctness is enforced; out-of-range values are accepted.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Validate checks required fields.
func (f AnalysisFinding) Validate() error {
	var errs fieldErrs
	if f.Insight == "" {
		errs.add("insight", "must not be empty")
	}
	return errs.err("AnalysisFinding")
}

// AnalysisResult is the structured output of one analysis step.
type AnalysisResult struct {
	// Findings lists the key findings from the analysis.
	Findings []AnalysisFinding `json:"findings" yaml:"findings"`

	// Implications lists potential implications of the findings.
	Implications []string `json:"implications" yaml:"implications"`

	// Limitations notes caveats specific to this analysis.
	Limitations []string `json:"limitations" yaml:"limitations"`
}

// Validate checks every contained finding.
func (r AnalysisResult) Validate() error {
	var errs fieldErrs
	for i, f := range r.Findings {
		collectNested(&errs, "findings", i, f.Validate())
	}
	return errs.err("AnalysisResult")
}
