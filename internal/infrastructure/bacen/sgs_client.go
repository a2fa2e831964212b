package bacen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/devflexlabs/flex-analise-backend/internal/domain/model"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/valueobject"
)

const (
	// DefaultBaseURL is the public SGS endpoint of Banco Central do Brasil.
	DefaultBaseURL = "https://api.bcb.gov.br/dados/serie/bcdata.sgs"
	// DefaultTimeout bounds every request to the SGS API.
	DefaultTimeout = 10 * time.Second

	sgsDateLayout   = "02/01/2006"
	dailyWindowDays = 5
	userAgent       = "FlexAnalise/1.0"
)

var tracer = otel.Tracer("bacen-sgs")

// Config holds SGS client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond limits outbound calls. Zero disables limiting.
	RequestsPerSecond float64
}

// Client reads time series from the BACEN SGS API. It implements
// port.RateSeriesSource. Every failure is logged and reported as missing
// data.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates an SGS client. A nil httpClient gets one with the
// configured timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		limiter: limiter,
		logger:  logger,
	}
}

type sgsPoint struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// FetchRate returns the representative value of series for date.
//
// Monthly series query the whole calendar month and take the last point
// tagged with that month. Daily series query five days around the date and
// take the exact day, else the latest earlier day. Both fall back to the
// last returned point.
func (c *Client) FetchRate(ctx context.Context, series valueobject.Series, date time.Time) (decimal.Decimal, bool) {
	from, to := window(series, date)
	points, err := c.fetch(ctx, series, from, to)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to fetch reference rate",
			"series", series.Name(),
			"date", date.Format(time.DateOnly),
			"error", err,
		)
		return decimal.Decimal{}, false
	}
	if len(points) == 0 {
		return decimal.Decimal{}, false
	}

	p, ok := selectPoint(series, points, date)
	if !ok {
		return decimal.Decimal{}, false
	}
	v, err := decimal.NewFromString(strings.TrimSpace(p.Valor))
	if err != nil {
		c.logger.WarnContext(ctx, "failed to parse reference rate",
			"series", series.Name(),
			"date", date.Format(time.DateOnly),
			"value", p.Valor,
			"error", err,
		)
		return decimal.Decimal{}, false
	}
	return v, true
}

// FetchHistory returns every point of series between from and to. Points
// that cannot be parsed are skipped; request failures yield an empty slice.
func (c *Client) FetchHistory(ctx context.Context, series valueobject.Series, from, to time.Time) []model.RatePoint {
	points, err := c.fetch(ctx, series, from, to)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to fetch series history",
			"series", series.Name(),
			"from", from.Format(time.DateOnly),
			"to", to.Format(time.DateOnly),
			"error", err,
		)
		return []model.RatePoint{}
	}

	out := make([]model.RatePoint, 0, len(points))
	for _, p := range points {
		d, err := time.Parse(sgsDateLayout, p.Data)
		if err != nil {
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(p.Valor))
		if err != nil {
			continue
		}
		out = append(out, model.RatePoint{Date: d, Value: v})
	}
	return out
}

func (c *Client) fetch(ctx context.Context, series valueobject.Series, from, to time.Time) (points []sgsPoint, err error) {
	ctx, span := tracer.Start(ctx, "sgs.fetch", trace.WithAttributes(
		attribute.Int("sgs.series_code", series.Code()),
		attribute.String("sgs.from", from.Format(sgsDateLayout)),
		attribute.String("sgs.to", to.Format(sgsDateLayout)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("dataInicial", from.Format(sgsDateLayout))
	q.Set("dataFinal", to.Format(sgsDateLayout))
	q.Set("formato", "json")
	endpoint := c.baseURL + "/" + strconv.Itoa(series.Code()) + "/dados?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request series %d: %w", series.Code(), err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("series %d: unexpected status %d", series.Code(), resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return nil, fmt.Errorf("decode series %d: %w", series.Code(), err)
	}
	return points, nil
}

func window(series valueobject.Series, date time.Time) (time.Time, time.Time) {
	if series.Periodicity() == valueobject.Monthly {
		first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1)
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -dailyWindowDays), day.AddDate(0, 0, dailyWindowDays)
}

func selectPoint(series valueobject.Series, points []sgsPoint, date time.Time) (sgsPoint, bool) {
	if len(points) == 0 {
		return sgsPoint{}, false
	}
	if series.Periodicity() == valueobject.Monthly {
		suffix := date.Format("01/2006")
		for i := len(points) - 1; i >= 0; i-- {
			if strings.HasSuffix(points[i].Data, suffix) {
				return points[i], true
			}
		}
		return points[len(points)-1], true
	}

	target := date.Format(sgsDateLayout)
	for _, p := range points {
		if p.Data == target {
			return p, true
		}
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	for i := len(points) - 1; i >= 0; i-- {
		d, err := time.Parse(sgsDateLayout, points[i].Data)
		if err != nil {
			continue
		}
		if !d.After(day) {
			return points[i], true
		}
	}
	return points[len(points)-1], true
}
