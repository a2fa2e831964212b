package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/devflexlabs/flex-analise-backend/internal/application/dto"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

// MaxSeriesWindow is the widest history window served in one request.
const MaxSeriesWindow = 10 * 365 * 24 * time.Hour

// GetReferenceSeriesUseCase returns raw central-bank observations.
type GetReferenceSeriesUseCase struct {
	source port.RateSeriesSource
	now    func() time.Time
}

// NewGetReferenceSeriesUseCase wires dependencies.
func NewGetReferenceSeriesUseCase(source port.RateSeriesSource) *GetReferenceSeriesUseCase {
	return &GetReferenceSeriesUseCase{source: source, now: time.Now}
}

// Execute returns the observations of a series between From and To. A zero
// To means today; a zero From means one year before To. An empty point list
// means the source returned nothing usable.
func (uc *GetReferenceSeriesUseCase) Execute(ctx context.Context, req dto.ReferenceSeriesRequest) (dto.ReferenceSeriesResponse, error) {
	series, err := valueobject.LookupSeries(req.Series)
	if err != nil {
		return dto.ReferenceSeriesResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	to := req.To
	if to.IsZero() {
		to = uc.now().UTC()
	}
	from := req.From
	if from.IsZero() {
		from = to.AddDate(-1, 0, 0)
	}
	if from.After(to) {
		return dto.ReferenceSeriesResponse{}, fmt.Errorf("%w: from %s is after to %s",
			ErrInvalidRequest, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	if to.Sub(from) > MaxSeriesWindow {
		return dto.ReferenceSeriesResponse{}, fmt.Errorf("%w: window exceeds ten years", ErrInvalidRequest)
	}

	points := uc.source.FetchHistory(ctx, series, from, to)
	resp := dto.ReferenceSeriesResponse{
		Series: series.Name(),
		Code:   series.Code(),
		From:   from.Format(time.DateOnly),
		To:     to.Format(time.DateOnly),
		Points: make([]dto.RatePointResponse, len(points)),
	}
	for i, p := range points {
		resp.Points[i] = dto.RatePointResponse{Date: p.Date.Format(time.DateOnly), Value: p.Value}
	}
	return resp, nil
}
