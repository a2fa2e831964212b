package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/service"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

func ptr[T any](v T) *T { return &v }

func sampleTerms() model.ContractTerms {
	return model.NewContractTerms(model.ContractTermsParams{
		ContractNumber:     "CCB-1",
		BankName:           "Banco Exemplo",
		Principal:          decimal.NewFromInt(50_000),
		MonthlyRatePercent: ptr(decimal.RequireFromString("2.5")),
		InstallmentCount:   ptr(60),
		InstallmentValue:   ptr(decimal.RequireFromString("1617.67")),
		FirstDueDate:       ptr(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)),
		RateType:           valueobject.RateTypeFixed,
	})
}

func TestDocumentsSurviveJSON(t *testing.T) {
	terms := sampleTerms()
	now := func() time.Time { return time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC) }
	report := service.NewContractRecalculator(nil, service.NewMethodologyDetector(service.DefaultDetectionTolerance), now).
		Recalculate(context.Background(), terms)
	require.True(t, report.Success)
	validation := service.NewContractValidator(service.DefaultValidationTolerance).Validate(report)

	rawTerms, err := json.Marshal(toTermsRecord(terms))
	require.NoError(t, err)
	rawReport, err := json.Marshal(toReportRecord(report))
	require.NoError(t, err)
	rawValidation, err := json.Marshal(toValidationRecord(validation))
	require.NoError(t, err)

	var tr termsRecord
	var rr reportRecord
	var vr validationRecord
	require.NoError(t, json.Unmarshal(rawTerms, &tr))
	require.NoError(t, json.Unmarshal(rawReport, &rr))
	require.NoError(t, json.Unmarshal(rawValidation, &vr))

	gotTerms, err := tr.toModel()
	require.NoError(t, err)
	assert.Equal(t, "CCB-1", gotTerms.ContractNumber())
	count, ok := gotTerms.InstallmentCount()
	assert.True(t, ok)
	assert.Equal(t, 60, count)
	_, ok = gotTerms.ContractDate()
	assert.False(t, ok, "absent contract date stays absent")

	gotReport, err := rr.toModel()
	require.NoError(t, err)
	assert.True(t, gotReport.Annuity.PeriodicPayment.Equal(report.Annuity.PeriodicPayment))
	assert.Len(t, gotReport.ConstantAmortization.Entries, 60)
	assert.True(t, gotReport.DetectedMethodology.Equal(valueobject.MethodologyAnnuity))
	assert.False(t, gotReport.ReferenceRateUsed.Valid)
	assert.False(t, gotReport.RateDiffAnnualized.Valid)
	assert.True(t, gotReport.StatedVsAnnuityDiff.Valid)

	gotValidation, err := vr.toModel()
	require.NoError(t, err)
	assert.Equal(t, validation.Valid, gotValidation.Valid)
	assert.NotNil(t, gotValidation.Irregularities)
}

func TestReportRecord_RejectsUnknownMethodology(t *testing.T) {
	_, err := reportRecord{DetectedMethodology: "german"}.toModel()
	assert.ErrorIs(t, err, valueobject.ErrInvalidMethodology)
}
