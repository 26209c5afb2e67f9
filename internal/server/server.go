package server

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/rentsim/rental-calculator/internal/calculation"
	"github.com/rentsim/rental-calculator/internal/config"
	"github.com/rentsim/rental-calculator/internal/domain"
)

// RequestIDHeader carries the identifier of every request and its response.
const RequestIDHeader = "X-Request-ID"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// Server exposes the engine over HTTP. It keeps no state between requests.
type Server struct {
	Parser *config.InputParser
	Logger calculation.Logger
	NewID  func() string
}

// New creates a server with a fresh input parser. A nil logger is replaced by a no-op logger.
func New(logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{
		Parser: config.NewInputParser(),
		Logger: logger,
		NewID:  func() string { return uuid.New().String() },
	}
}

// ListenAndServe serves requests on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.Logger.Infof("rentsim server listening on %s", addr)
	return fasthttp.ListenAndServe(addr, s.Handle)
}

// Handle routes one request.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	requestID := string(ctx.Request.Header.Peek(RequestIDHeader))
	if requestID == "" {
		requestID = s.NewID()
	}
	ctx.Response.Header.Set(RequestIDHeader, requestID)

	path := string(ctx.Path())
	switch path {
	case "/healthz":
		if !ctx.IsGet() {
			s.writeError(ctx, fasthttp.StatusMethodNotAllowed, requestID, "Method not allowed")
			return
		}
		s.writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/v1/analyze":
		if !ctx.IsPost() {
			s.writeError(ctx, fasthttp.StatusMethodNotAllowed, requestID, "Method not allowed")
			return
		}
		s.handleAnalyze(ctx, requestID)
	case "/v1/schedule":
		if !ctx.IsPost() {
			s.writeError(ctx, fasthttp.StatusMethodNotAllowed, requestID, "Method not allowed")
			return
		}
		s.handleSchedule(ctx, requestID)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, requestID, "Not found: "+path)
	}
}

func (s *Server) handleAnalyze(ctx *fasthttp.RequestCtx, requestID string) {
	var portfolio domain.Portfolio
	if err := json.Unmarshal(ctx.PostBody(), &portfolio); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, requestID, "Invalid request body: "+err.Error())
		return
	}
	if err := s.Parser.Prepare(&portfolio); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, requestID, err.Error())
		return
	}

	engine := calculation.NewEngineWithRules(portfolio.TaxRules)
	engine.SetLogger(s.Logger)
	report, err := engine.RunPortfolio(ctx, &portfolio)
	if err != nil {
		s.Logger.Errorf("request %s: %v", requestID, err)
		s.writeError(ctx, fasthttp.StatusServiceUnavailable, requestID, err.Error())
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, report)
}

func (s *Server) handleSchedule(ctx *fasthttp.RequestCtx, requestID string) {
	var inv domain.Investment
	if err := json.Unmarshal(ctx.PostBody(), &inv); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, requestID, "Invalid request body: "+err.Error())
		return
	}
	schedule := calculation.NewEngine().Schedule(inv)
	s.writeJSON(ctx, fasthttp.StatusOK, schedule)
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.Logger.Errorf("failed to encode response: %v", err)
		ctx.Error(fmt.Sprintf("failed to encode response: %v", err), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, requestID, message string) {
	s.writeJSON(ctx, status, ErrorResponse{
		Status:    status,
		Message:   message,
		RequestID: requestID,
	})
}
