// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLenientParsing(t *testing.T) {
	// Unknown fields are ignored so newer producers do not break older
	// consumers.
	payload := []byte(`{
		"query": "q",
		"rationale": "r",
		"source": "academic",
		"priority": 2,
		"added_in_v2": {"nested": true},
		"another_unknown": [1, 2, 3]
	}`)

	q, err := Decode[SearchQuery](payload)
	require.NoError(t, err)
	assert.Equal(t, "q", q.Query)
	assert.Equal(t, SourceAcademic, q.Source)
}

func TestDecodeMissingRequiredField(t *testing.T) {
	_, err := Decode[SearchQuery]([]byte(`{"rationale":"r","source":"web","priority":2}`))
	requireFieldError(t, err, "SearchQuery", "query")
}

func TestDecodeEnumViolation(t *testing.T) {
	_, err := Decode[SearchQuery]([]byte(`{"query":"q","rationale":"r","source":"linkedin","priority":2}`))
	requireFieldError(t, err, "SearchQuery", "source")
}

func TestDecodeWrongJSONType(t *testing.T) {
	// A string where an integer belongs is a validation error naming the field.
	_, err := Decode[SearchQuery]([]byte(`{"query":"q","rationale":"r","source":"web","priority":"high"}`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "priority", ve.Fields[0].Field)
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := Decode[SearchQuery]([]byte(`{"query": `))
	require.Error(t, err)
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve), "syntax errors are not validation errors")
}

func TestConfidenceBounds(t *testing.T) {
	// Boundary values pass; out-of-range floats also pass. The [0,1]
	// range is documentation, not a constraint.
	for _, c := range []float64{0.0, 1.0, 1.5, -0.25} {
		f := AnalysisFinding{Insight: "i", Confidence: c}
		if err := f.Validate(); err != nil {
			t.Errorf("confidence %v rejected: %v", c, err)
		}
	}

	// A non-numeric confidence is a type error.
	_, err := Decode[AnalysisFinding]([]byte(`{"insight":"i","evidence":[],"confidence":"high"}`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "confidence", ve.Fields[0].Field)
}

func TestEncodeRejectsInvalidRecord(t *testing.T) {
	_, err := Encode(SearchQuery{Rationale: "r", Source: SourceWeb})
	requireFieldError(t, err, "SearchQuery", "query")
}

func TestGapAnalysisRoundTrip(t *testing.T) {
	in := GapAnalysisResult{
		Limitations: []Limitation{{
			Type:               "source bias",
			Description:        "web sources dominate",
			Severity:           6,
			PotentialSolutions: []string{"add academic queries"},
		}},
		KnowledgeGaps: []KnowledgeGap{{
			Topic:             "hardware cost",
			Reason:            "no pricing data found",
			AdditionalQueries: []string{"GPU pricing 2026"},
		}},
		RecommendedFollowup: []RecommendedFollowup{{
			Action:    "search vendor sites",
			Rationale: "primary pricing source",
			Priority:  3,
		}},
	}

	data, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode[GapAnalysisResult](data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFinalSynthesisRoundTrip(t *testing.T) {
	in := FinalSynthesisResult{
		KeyFindings: []KeyFinding{{
			Finding:            "approach A is preferred",
			Confidence:         0.85,
			SupportingEvidence: []string{"analysis-0", "web-2"},
		}},
		RemainingUncertainties: []string{"long-term maintenance cost"},
	}

	data, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode[FinalSynthesisResult](data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestAnalysisResultRoundTrip(t *testing.T) {
	in := AnalysisResult{
		Findings: []AnalysisFinding{{
			Insight:    "latency dominates cost",
			Evidence:   []string{"benchmark table, result 3"},
			Confidence: 0.7,
		}},
		Implications: []string{"optimize the hot path first"},
		Limitations:  []string{"single benchmark suite"},
	}

	data, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode[AnalysisResult](data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
