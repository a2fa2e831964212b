package rest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
	"github.com/devflexlabs/flex-analise-backend/pkg/auth"
)

type mockRecalculator struct {
	executeFunc func(ctx context.Context, req dto.RecalculateRequest) (dto.AnalysisResponse, error)
}

func (m *mockRecalculator) Execute(ctx context.Context, req dto.RecalculateRequest) (dto.AnalysisResponse, error) {
	return m.executeFunc(ctx, req)
}

type mockBatchRecalculator struct {
	executeFunc func(ctx context.Context, req dto.BatchRecalculateRequest) (dto.BatchRecalculateResponse, error)
}

func (m *mockBatchRecalculator) Execute(ctx context.Context, req dto.BatchRecalculateRequest) (dto.BatchRecalculateResponse, error) {
	return m.executeFunc(ctx, req)
}

type mockAnalysisGetter struct {
	executeFunc func(ctx context.Context, id string) (dto.AnalysisResponse, error)
}

func (m *mockAnalysisGetter) Execute(ctx context.Context, id string) (dto.AnalysisResponse, error) {
	return m.executeFunc(ctx, id)
}

type mockSeriesGetter struct {
	executeFunc func(ctx context.Context, req dto.ReferenceSeriesRequest) (dto.ReferenceSeriesResponse, error)
}

func (m *mockSeriesGetter) Execute(ctx context.Context, req dto.ReferenceSeriesRequest) (dto.ReferenceSeriesResponse, error) {
	return m.executeFunc(ctx, req)
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error { return m.err }

func newJWT(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:     "rest-test-secret",
		Issuer:     "flex-analise-test",
		Expiration: 10 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func bearer(t *testing.T, svc *auth.JWTService, scopes ...string) string {
	t.Helper()
	token, err := svc.GenerateToken("extractor-service", scopes)
	require.NoError(t, err)
	return "Bearer " + token
}
