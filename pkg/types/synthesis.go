// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// KeyFinding is a synthesized conclusion in the final report.
type KeyFinding struct {
	// Finding is the synthesized conclusion.
	Finding string `json:"finding" yaml:"finding"`

	// Confidence scores the finding, conceptually 0.0 to 1.0. Only
	// type-correctness is enforced.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// SupportingEvidence references the search results or analyses the
	// finding rests on.
	SupportingEvidence []string `json:"supporting_evidence" yaml:"supporting_evidence"`
}

// Validate checks required fields.
func (f KeyFinding) Validate() error {
	var errs fieldErrs
	if f.Finding == "" {
		errs.add("finding", "must not be empty")
	}
	return errs.err("KeyFinding")
}

// FinalSynthesisResult is the aggregate output of the synthesis phase.
// It is produced only when the pipeline runs in its deeper research mode;
// the schema itself does not enforce that.
type FinalSynthesisResult struct {
	// KeyFindings lists the synthesized conclusions.
	KeyFindings []KeyFinding `json:"key_findings" yaml:"key_findings"`

	// RemainingUncertainties lists questions left open after the research.
	RemainingUncertainties []string `json:"remaining_uncertainties" yaml:"remaining_uncertainties"`
}

// Validate checks every contained finding.
func (r FinalSynthesisResult) Validate() error {
	var errs fieldErrs
	for i, f := range r.KeyFindings {
		collectNested(&errs, "key_findings", i, f.Validate())
	}
	return errs.err("FinalSynthesisResult")
}
