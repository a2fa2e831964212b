package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	aggregateType = "ContractAnalysis"

	TypeContractRecalculated = "contract_analysis.recalculated"
	TypeContractIrregular    = "contract_analysis.irregular"
)

// ContractRecalculated is raised every time a contract analysis is stored.
type ContractRecalculated struct {
	events.BaseEvent
	ContractNumber      string          `json:"contract_number,omitempty"`
	BankName            string          `json:"bank_name,omitempty"`
	Success             bool            `json:"success"`
	Methodology         string          `json:"detected_methodology,omitempty"`
	Valid               bool            `json:"valid"`
	AnnuityPayment      decimal.Decimal `json:"annuity_payment"`
	StatedVsAnnuityDiff decimal.Decimal `json:"stated_vs_annuity_diff"`
	RecalculatedAt      time.Time       `json:"recalculated_at"`
}

func NewContractRecalculated(
	analysisID uuid.UUID,
	contractNumber, bankName string,
	success bool, methodology string, valid bool,
	annuityPayment, statedDiff decimal.Decimal,
	at time.Time,
) ContractRecalculated {
	return ContractRecalculated{
		BaseEvent:           events.NewBaseEvent(TypeContractRecalculated, analysisID, aggregateType, at),
		ContractNumber:      contractNumber,
		BankName:            bankName,
		Success:             success,
		Methodology:         methodology,
		Valid:               valid,
		AnnuityPayment:      annuityPayment,
		StatedVsAnnuityDiff: statedDiff,
		RecalculatedAt:      at,
	}
}

// ContractIrregular is raised when validation marks a contract invalid.
type ContractIrregular struct {
	events.BaseEvent
	ContractNumber   string   `json:"contract_number,omitempty"`
	BankName         string   `json:"bank_name,omitempty"`
	CustomerDocument string   `json:"customer_document,omitempty"`
	Irregularities   []string `json:"irregularities"`
}

func NewContractIrregular(
	analysisID uuid.UUID,
	contractNumber, bankName, customerDocument string,
	irregularities []string,
	at time.Time,
) ContractIrregular {
	return ContractIrregular{
		BaseEvent:        events.NewBaseEvent(TypeContractIrregular, analysisID, aggregateType, at),
		ContractNumber:   contractNumber,
		BankName:         bankName,
		CustomerDocument: customerDocument,
		Irregularities:   irregularities,
	}
}
