package models

import (
	"cosmonumero/internal/interpretation"
	"cosmonumero/internal/numerology"
)

// Results is the flat reading object the frontend renders.
type Results struct {
	numerology.Result
	interpretation.Narrative
}

// ReadingResponse is returned by POST /readings and /readings/preview.
type ReadingResponse struct {
	Results         Results               `json:"results"`
	NarrativeSource interpretation.Source `json:"narrativeSource"`
	EvaluationYear  int                   `json:"evaluationYear"`
}

func FromReading(r *Reading) ReadingResponse {
	return ReadingResponse{
		Results:         Results{Result: r.Result, Narrative: r.Narrative},
		NarrativeSource: r.NarrativeSource,
		EvaluationYear:  r.EvaluationYear,
	}
}

// DeliverResponse is returned by POST /readings/email.
type DeliverResponse struct {
	Message string `json:"message"`
}
