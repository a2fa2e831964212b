package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

// ErrInvalidRequest wraps request faults that callers map to a client error.
var ErrInvalidRequest = errors.New("invalid request")

// toTerms converts a request into contract terms. Unknown enum values and
// terms longer than model.MaxInstallments are rejected; unparseable dates are
// treated as absent.
func toTerms(req dto.RecalculateRequest) (model.ContractTerms, error) {
	if req.InstallmentCount != nil && *req.InstallmentCount > model.MaxInstallments {
		return model.ContractTerms{}, fmt.Errorf("%w: installment_count %d exceeds %d",
			ErrInvalidRequest, *req.InstallmentCount, model.MaxInstallments)
	}
	rateType, err := valueobject.NewRateType(req.RateType)
	if err != nil {
		return model.ContractTerms{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	index, err := valueobject.NewReferenceIndex(req.ReferenceIndex)
	if err != nil {
		return model.ContractTerms{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return model.NewContractTerms(model.ContractTermsParams{
		ContractNumber:     req.ContractNumber,
		BankName:           req.BankName,
		CustomerDocument:   req.CustomerDocument,
		Principal:          req.Principal,
		MonthlyRatePercent: req.MonthlyRatePercent,
		InstallmentCount:   req.InstallmentCount,
		InstallmentValue:   req.InstallmentValue,
		FirstDueDate:       parseDate(req.FirstDueDate),
		ContractDate:       parseDate(req.ContractDate),
		RateType:           rateType,
		ReferenceIndex:     index,
	}), nil
}

func parseDate(s string) *time.Time {
	if t, ok := model.ParseContractDate(s); ok {
		return &t
	}
	return nil
}

func toAnalysisResponse(a model.ContractAnalysis, alreadyExisted bool) dto.AnalysisResponse {
	terms := a.Terms()
	return dto.AnalysisResponse{
		ID:               a.ID().String(),
		AlreadyExisted:   alreadyExisted,
		ContractNumber:   terms.ContractNumber(),
		BankName:         terms.BankName(),
		CustomerDocument: terms.CustomerDocument(),
		Report:           toReportResponse(a.Report()),
		Validation:       toValidationResponse(a.Validation()),
		CreatedAt:        a.CreatedAt(),
	}
}

func toReportResponse(r model.RecalculationReport) dto.ReportResponse {
	resp := dto.ReportResponse{
		Success:              r.Success,
		Error:                r.Error,
		ResolvedMonthlyRate:  r.ResolvedMonthlyRate.Round(2),
		ContractMonthlyRate:  round2(r.ContractMonthlyRate),
		ReferenceRateUsed:    round2(r.ReferenceRateUsed),
		ReferenceRateMonthly: round2(r.ReferenceRateMonthly),
		ReferenceRateWarning: r.ReferenceRateWarning,
		StatedInstallment:    round2(r.StatedInstallment),
		DetectedMethodology:  r.DetectedMethodology.String(),
		Annuity:              toScheduleResponse(r.Annuity),
		ConstantAmortization: toScheduleResponse(r.ConstantAmortization),
		StatedVsAnnuityDiff:  round2(r.StatedVsAnnuityDiff),
		StatedVsConstantDiff: round2(r.StatedVsConstantDiff),
		RateDiffAnnualized:   round2(r.RateDiffAnnualized),
	}
	if !r.ContractingDate.IsZero() {
		resp.ContractingDate = r.ContractingDate.Format(time.DateOnly)
	}
	return resp
}

func toScheduleResponse(s model.AmortizationSchedule) dto.ScheduleResponse {
	entries := make([]dto.InstallmentResponse, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = dto.InstallmentResponse{
			Number:           e.Number,
			Payment:          e.Payment.Round(2),
			Interest:         e.Interest.Round(2),
			Principal:        e.Principal.Round(2),
			RemainingBalance: e.RemainingBalance.Round(2),
		}
		if !e.DueDate.IsZero() {
			entries[i].DueDate = e.DueDate.Format(time.DateOnly)
		}
	}
	return dto.ScheduleResponse{
		Method:          s.Method.String(),
		Label:           s.Method.Label(),
		PeriodicPayment: s.PeriodicPayment.Round(2),
		FirstPayment:    s.FirstPayment.Round(2),
		LastPayment:     s.LastPayment.Round(2),
		TotalPaid:       s.TotalPaid.Round(2),
		TotalInterest:   s.TotalInterest.Round(2),
		Entries:         entries,
	}
}

func toValidationResponse(v model.ValidationResult) dto.ValidationResponse {
	resp := dto.ValidationResponse{
		Valid:               v.Valid,
		Irregularities:      v.Irregularities,
		Advisories:          v.Advisories,
		DetectedMethodology: v.DetectedMethodology.String(),
	}
	if resp.Irregularities == nil {
		resp.Irregularities = []string{}
	}
	if resp.Advisories == nil {
		resp.Advisories = []string{}
	}
	return resp
}

func round2(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.Round(2)
	return &v
}
