// Package server exposes the amortization engine and CSV exporter over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/loan-amortization/internal/cache"
	"github.com/iwvelando/loan-amortization/internal/config"
	"github.com/iwvelando/loan-amortization/internal/metrics"
	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/iwvelando/loan-amortization/pkg/export"
	"github.com/iwvelando/loan-amortization/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	engine        *amortization.Engine
	cache         cache.Repository
	maxUploadSize int64
	version       string
	metricsPath   string
}

// Option customizes the handler built by NewHandler.
type Option func(*handler)

// WithCache stores computed schedule responses in repo.
func WithCache(repo cache.Repository) Option {
	return func(h *handler) { h.cache = repo }
}

// WithMetricsPath serves Prometheus metrics at path instead of /metrics.
// An empty path disables the endpoint.
func WithMetricsPath(path string) Option {
	return func(h *handler) { h.metricsPath = path }
}

// NewHandler constructs the HTTP handler that serves the schedule API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, opts ...Option) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		engine:        amortization.NewEngine(logger),
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		metricsPath:   constants.DefaultMetricsPath,
	}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()

	// Schedule computation as JSON
	mux.HandleFunc("/api/schedule", h.handleSchedule)

	// Same computation returned as a CSV download
	mux.HandleFunc("/api/schedule/export", h.handleExport)

	// Parses an exported CSV back into rows
	mux.HandleFunc("/api/schedule/import", h.handleImport)

	mux.HandleFunc("/api/version", h.handleVersion)

	if h.metricsPath != "" {
		mux.Handle(h.metricsPath, promhttp.Handler())
	}

	return mux
}

type scheduleRequest struct {
	Loan    loanRequest    `json:"loan"`
	Options optionsRequest `json:"options"`
	Extras  extrasRequest  `json:"extras"`
}

type optionsRequest struct {
	CurrencyDecimals *int   `json:"currencyDecimals,omitempty"`
	PaymentTiming    string `json:"paymentTiming,omitempty"`
	Mode             string `json:"mode,omitempty"`
	Matching         string `json:"matching,omitempty"`
}

type loanRequest struct {
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	TermMonths        int             `json:"termMonths"`
	StartDate         string          `json:"startDate"`
}

type extrasRequest struct {
	RecurringExtraPrincipal decimal.Decimal  `json:"recurringExtraPrincipal"`
	LumpSums                []lumpSumRequest `json:"lumpSums,omitempty"`
}

type lumpSumRequest struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type scheduleResponse struct {
	Summary     amortization.ScheduleSummary `json:"summary"`
	BaseSummary amortization.ScheduleSummary `json:"baseSummary"`
	Comparison  *amortization.Comparison     `json:"comparison,omitempty"`
	Rows        []amortization.ScheduleRow   `json:"rows"`
	CSV         string                       `json:"csv"`
	Warnings    []string                     `json:"warnings,omitempty"`
	Duration    string                       `json:"duration"`
}

type importResponse struct {
	Rows    int                       `json:"rows"`
	LastRow *amortization.ScheduleRow `json:"lastRow,omitempty"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	req, ok := h.decodeScheduleRequest(w, r, op)
	if !ok {
		return
	}

	key, err := requestKey(req)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	if cached, hit := h.lookup(r, key); hit {
		w.Header().Set("X-Cache", "hit")
		h.writeRawJSON(w, http.StatusOK, []byte(cached))
		return
	}

	resp, err := h.computeSchedule(req)
	if err != nil {
		h.respondComputeError(w, err, op)
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode schedule: %v", err), op)
		return
	}
	body = append(body, '\n')
	h.store(r, key, body)

	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.Int("rows", len(resp.Rows)),
		zap.Int("warnings", len(resp.Warnings)),
		zap.String("duration", resp.Duration),
	)

	w.Header().Set("X-Cache", "miss")
	h.writeRawJSON(w, http.StatusOK, body)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	req, ok := h.decodeScheduleRequest(w, r, op)
	if !ok {
		return
	}

	resp, err := h.computeSchedule(req)
	if err != nil {
		h.respondComputeError(w, err, op)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(resp.CSV)); err != nil {
		h.logger.Error("failed to write CSV response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handleImport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleImport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err), op)
		return
	}

	rows, err := export.ParseSchedule(bytes.NewReader(body))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse schedule: %v", err), op)
		return
	}

	resp := importResponse{Rows: len(rows)}
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		resp.LastRow = &last
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) decodeScheduleRequest(w http.ResponseWriter, r *http.Request, op string) (scheduleRequest, bool) {
	var req scheduleRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return req, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return req, false
	}
	return req, true
}

func (h *handler) computeSchedule(req scheduleRequest) (*scheduleResponse, error) {
	start := time.Now()

	terms, err := req.Loan.toLoanTerms()
	if err != nil {
		return nil, err
	}
	options, err := req.Options.toCalcOptions()
	if err != nil {
		return nil, err
	}
	plan, lumpSumDates, err := req.Extras.toPlan()
	if err != nil {
		return nil, err
	}

	base, err := h.engine.GenerateBaseSchedule(terms, options)
	if err != nil {
		return nil, err
	}
	metrics.SchedulesGenerated.WithLabelValues(constants.BaseScenarioName).Inc()

	result := base
	var comparison *amortization.Comparison
	if !plan.IsZero() {
		result, err = h.engine.GenerateSchedule(terms, plan, options)
		if err != nil {
			return nil, err
		}
		metrics.SchedulesGenerated.WithLabelValues(constants.ExtrasScenarioName).Inc()
		c := amortization.Compare(base.Summary(), result.Summary())
		comparison = &c
	}

	var warnings []string
	for i, date := range lumpSumDates {
		label := fmt.Sprintf("lump sum %d", i+1)
		if warning := validation.ValidateLumpSumDate(label, date, terms.StartDate(), terms.TermMonths()); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	elapsed := time.Since(start)
	metrics.GenerationSeconds.Observe(elapsed.Seconds())

	rows := result.Rows()
	return &scheduleResponse{
		Summary:     result.Summary(),
		BaseSummary: base.Summary(),
		Comparison:  comparison,
		Rows:        rows,
		CSV:         export.ExportSchedule(rows),
		Warnings:    warnings,
		Duration:    elapsed.String(),
	}, nil
}

func (l loanRequest) toLoanTerms() (amortization.LoanTerms, error) {
	start, err := datetime.ParseDate(l.StartDate)
	if err != nil {
		return amortization.LoanTerms{}, fmt.Errorf("%w: loan.startDate %q: %v", amortization.ErrInvalidArgument, l.StartDate, err)
	}
	if err := validation.ValidateTermMonths(l.TermMonths); err != nil {
		return amortization.LoanTerms{}, fmt.Errorf("loan.termMonths: %w", err)
	}
	return amortization.NewLoanTerms(l.Principal, l.AnnualRatePercent, l.TermMonths, start)
}

func (o optionsRequest) toCalcOptions() (amortization.CalcOptions, error) {
	decimals := constants.DefaultCurrencyDecimals
	if o.CurrencyDecimals != nil {
		decimals = *o.CurrencyDecimals
	}
	return config.Options{
		CurrencyDecimals: decimals,
		PaymentTiming:    o.PaymentTiming,
		Mode:             o.Mode,
		Matching:         o.Matching,
	}.ToCalcOptions()
}

func (e extrasRequest) toPlan() (amortization.ExtraPaymentPlan, []time.Time, error) {
	lumpSums := make([]amortization.ExtraPayment, 0, len(e.LumpSums))
	dates := make([]time.Time, 0, len(e.LumpSums))
	for i, ls := range e.LumpSums {
		date, err := datetime.ParseDate(ls.Date)
		if err != nil {
			return amortization.ExtraPaymentPlan{}, nil,
				fmt.Errorf("%w: extras.lumpSums[%d].date %q: %v", amortization.ErrInvalidArgument, i, ls.Date, err)
		}
		payment, err := amortization.NewExtraPayment(date, ls.Amount)
		if err != nil {
			return amortization.ExtraPaymentPlan{}, nil, fmt.Errorf("extras.lumpSums[%d]: %w", i, err)
		}
		lumpSums = append(lumpSums, payment)
		dates = append(dates, date)
	}
	plan, err := amortization.NewExtraPaymentPlan(e.RecurringExtraPrincipal, lumpSums...)
	return plan, dates, err
}

// requestKey fingerprints the decoded request so equivalent bodies that
// differ only in whitespace or number formatting share a cache entry.
func requestKey(req scheduleRequest) (string, error) {
	canonical, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint request: %w", err)
	}
	return cache.ScheduleKey(canonical), nil
}

func (h *handler) lookup(r *http.Request, key string) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	value, ok := h.cache.Get(r.Context(), key)
	if ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return value, true
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()
	return "", false
}

func (h *handler) store(r *http.Request, key string, body []byte) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(r.Context(), key, string(body)); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("failed to cache schedule",
			zap.String("op", "server.store"),
			zap.Error(err),
		)
	}
}

func (h *handler) respondComputeError(w http.ResponseWriter, err error, op string) {
	errorType := metrics.ErrorType(err)
	metrics.CalculationErrors.WithLabelValues(errorType).Inc()

	status := http.StatusInternalServerError
	if errorType != "internal" {
		status = http.StatusBadRequest
	}
	h.respondErrorWithOp(w, status, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("schedule request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.writeRawJSON(w, status, buf.Bytes())
}

func (h *handler) writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
