package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/event"
)

// ContractAnalysis is the aggregate persisted for every analysed contract:
// the terms that went in, the recalculation and the validation findings.
type ContractAnalysis struct {
	id           uuid.UUID
	terms        ContractTerms
	report       RecalculationReport
	validation   ValidationResult
	createdAt    time.Time
	domainEvents []event.DomainEvent
}

// NewContractAnalysis creates a new analysis and records its domain events.
func NewContractAnalysis(terms ContractTerms, report RecalculationReport, validation ValidationResult, now time.Time) ContractAnalysis {
	a := ContractAnalysis{
		id:         uuid.New(),
		terms:      terms,
		report:     report,
		validation: validation,
		createdAt:  now,
	}

	var methodology string
	if !report.DetectedMethodology.IsZero() {
		methodology = report.DetectedMethodology.String()
	}

	a.domainEvents = append(a.domainEvents, event.NewContractRecalculated(
		a.id, terms.ContractNumber(), terms.BankName(),
		report.Success, methodology, validation.Valid,
		report.Annuity.PeriodicPayment.Round(2), report.StatedVsAnnuityDiff.Decimal.Round(2),
		now,
	))

	if !validation.Valid {
		a.domainEvents = append(a.domainEvents, event.NewContractIrregular(
			a.id, terms.ContractNumber(), terms.BankName(),
			terms.CustomerDocument(), validation.Irregularities, now,
		))
	}

	return a
}

// ReconstructContractAnalysis rebuilds an analysis from persistence without
// recording events.
func ReconstructContractAnalysis(
	id uuid.UUID,
	terms ContractTerms,
	report RecalculationReport,
	validation ValidationResult,
	createdAt time.Time,
) ContractAnalysis {
	return ContractAnalysis{
		id:         id,
		terms:      terms,
		report:     report,
		validation: validation,
		createdAt:  createdAt,
	}
}

func (a ContractAnalysis) ID() uuid.UUID                     { return a.id }
func (a ContractAnalysis) Terms() ContractTerms              { return a.terms }
func (a ContractAnalysis) Report() RecalculationReport       { return a.report }
func (a ContractAnalysis) Validation() ValidationResult      { return a.validation }
func (a ContractAnalysis) CreatedAt() time.Time              { return a.createdAt }
func (a ContractAnalysis) DomainEvents() []event.DomainEvent { return a.domainEvents }

// ClearDomainEvents returns a copy with the pending events removed.
func (a ContractAnalysis) ClearDomainEvents() ContractAnalysis {
	a.domainEvents = nil
	return a
}
