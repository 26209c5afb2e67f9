package server

import (
	"fmt"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/rentsim/rental-calculator/internal/calculation"
	"github.com/rentsim/rental-calculator/internal/config"
	"github.com/rentsim/rental-calculator/internal/domain"
)

func newTestServer() *Server {
	s := New(nil)
	n := 0
	s.NewID = func() string {
		n++
		return fmt.Sprintf("req-%d", n)
	}
	return s
}

func doRequest(s *Server, method, uri string, body []byte) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != nil {
		req.SetBody(body)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	s.Handle(ctx)
	return ctx
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	return resp
}

func TestHealthz(t *testing.T) {
	ctx := doRequest(newTestServer(), fasthttp.MethodGet, "/healthz", nil)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "req-1", string(ctx.Response.Header.Peek(RequestIDHeader)))
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
}

func TestRequestIDIsEchoed(t *testing.T) {
	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(RequestIDHeader, "caller-42")
	req.SetRequestURI("/healthz")
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)

	newTestServer().Handle(ctx)

	assert.Equal(t, "caller-42", string(ctx.Response.Header.Peek(RequestIDHeader)))
}

func TestRouting(t *testing.T) {
	tests := []struct {
		name   string
		method string
		uri    string
		status int
	}{
		{"unknown route", fasthttp.MethodGet, "/v2/anything", fasthttp.StatusNotFound},
		{"analyze with GET", fasthttp.MethodGet, "/v1/analyze", fasthttp.StatusMethodNotAllowed},
		{"schedule with GET", fasthttp.MethodGet, "/v1/schedule", fasthttp.StatusMethodNotAllowed},
		{"healthz with POST", fasthttp.MethodPost, "/healthz", fasthttp.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := doRequest(newTestServer(), tt.method, tt.uri, nil)
			assert.Equal(t, tt.status, ctx.Response.StatusCode())
			resp := decodeError(t, ctx)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, "req-1", resp.RequestID)
		})
	}
}

func TestAnalyzeExamplePortfolio(t *testing.T) {
	calculation.SetNowFunc(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) })
	defer calculation.SetNowFunc(time.Now)

	portfolio := config.NewInputParser().CreateExamplePortfolio()
	body, err := json.Marshal(portfolio)
	require.NoError(t, err)

	ctx := doRequest(newTestServer(), fasthttp.MethodPost, "/v1/analyze", body)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var report domain.PortfolioReport
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &report))
	require.Len(t, report.Investments, len(portfolio.Investments))
	require.Len(t, report.SCIs, len(portfolio.SCIs))
	assert.Equal(t, portfolio.Investments[0].ID, report.Investments[0].ID)
	assert.NotEmpty(t, report.Investments[0].Years)
	assert.True(t, report.TaxRules.DeficitCap.IsPositive())
}

func TestAnalyzeRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed json", `{"investments": [`, "Invalid request body"},
		{"unknown regime", `{"investments":[{"id":"a","regime":"pinel"}]}`, "Invalid request body"},
		{"no investments", `{"investments":[]}`, "no investments provided"},
		{"duplicate ids", `{"investments":[{"id":"a"},{"id":"a"}]}`, "duplicate investment id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := doRequest(newTestServer(), fasthttp.MethodPost, "/v1/analyze", []byte(tt.body))
			assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
			assert.Contains(t, decodeError(t, ctx).Message, tt.message)
		})
	}
}

func TestSchedule(t *testing.T) {
	body := []byte(`{
		"financing": {"loan_amount": "200000", "annual_rate": 3, "duration_years": 20, "start_date": "2024-01-01"},
		"project": {"start_date": "2024-01-01"}
	}`)

	ctx := doRequest(newTestServer(), fasthttp.MethodPost, "/v1/schedule", body)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	var schedule domain.AmortizationSchedule
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &schedule))
	assert.Len(t, schedule.Rows, 240)
	assert.True(t, schedule.MonthlyPayment.Equal(decimal.RequireFromString("1109.20")),
		"monthly payment = %s", schedule.MonthlyPayment)
	assert.True(t, schedule.Rows[len(schedule.Rows)-1].RemainingBalance.IsZero())
}

func TestScheduleRejectsMalformedBody(t *testing.T) {
	ctx := doRequest(newTestServer(), fasthttp.MethodPost, "/v1/schedule", []byte(`not json`))

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, decodeError(t, ctx).Message, "Invalid request body")
}
