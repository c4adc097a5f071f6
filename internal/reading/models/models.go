package models

import (
	"time"

	"cosmonumero/internal/interpretation"
	"cosmonumero/internal/numerology"
)

// Reading is the computed and interpreted result of one paid checkout.
// At most one exists per transaction and it never changes once stored.
type Reading struct {
	ID                string
	TransactionID     string
	ExternalReference string
	FullName          string
	BirthDate         numerology.BirthDate
	EvaluationYear    int
	Result            numerology.Result
	Narrative         interpretation.Narrative
	NarrativeSource   interpretation.Source
	CreatedAt         time.Time
}

// Contact is an address a reading was delivered to.
type Contact struct {
	ID            string
	TransactionID string
	Email         string
	Phone         string
	CreatedAt     time.Time
}

// Subject is who a reading is computed for.
type Subject struct {
	FullName  string
	BirthDate numerology.BirthDate
}

// Document is a rendered report ready for download.
type Document struct {
	Filename string
	Content  []byte
}
