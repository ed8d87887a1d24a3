// Package server exposes the deadline engine over HTTP.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RakeemAI/Rakeem/internal/catalog"
	"github.com/RakeemAI/Rakeem/internal/config"
	"github.com/RakeemAI/Rakeem/internal/deadlines"
	"github.com/RakeemAI/Rakeem/internal/metrics"
	"github.com/RakeemAI/Rakeem/internal/profile"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
	"github.com/RakeemAI/Rakeem/pkg/errors"
	"github.com/RakeemAI/Rakeem/pkg/output"
	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
)

const (
	pathDeadlines = "/api/deadlines"
	pathCalendar  = "/api/calendar"
	pathICS       = "/api/deadlines.ics"
	pathVersion   = "/api/version"
	pathHealth    = "/healthz"
	pathMetrics   = "/metrics"
)

// CatalogSource supplies the current catalog. *catalog.Store satisfies it.
type CatalogSource interface {
	Snapshot() []catalog.Record
}

// Options configures the handler. Zero values fall back to defaults.
type Options struct {
	Profile        profile.Profile
	DaysAhead      int
	ApplicableOnly bool
	Version        string
	Metrics        *metrics.Metrics
	// Now supplies the current time; tests pin it.
	Now func() time.Time
}

type handler struct {
	logger  *zap.Logger
	source  CatalogSource
	opts    Options
	metrics fasthttp.RequestHandler
}

// NewHandler constructs the fasthttp handler serving the deadline API. A
// negative default horizon is rejected.
func NewHandler(logger *zap.Logger, source CatalogSource, opts Options) (fasthttp.RequestHandler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DaysAhead < 0 {
		return nil, errors.Newf(errors.CodeInvalidArgument, "days ahead must not be negative, got %d", opts.DaysAhead)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Profile == (profile.Profile{}) {
		opts.Profile = profile.Default()
	}
	opts.Version = strings.TrimSpace(opts.Version)
	if opts.Version == "" {
		opts.Version = "dev"
	}

	h := &handler{logger: logger, source: source, opts: opts}
	if opts.Metrics != nil {
		h.metrics = fasthttpadaptor.NewFastHTTPHandler(opts.Metrics.Handler())
	}
	return h.serve, nil
}

func (h *handler) serve(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := string(ctx.Path())

	route := h.route(path)
	if route == nil {
		h.respondError(ctx, fasthttp.StatusNotFound, "not found", "server.serve")
		path = "other"
	} else if !ctx.IsGet() && !ctx.IsHead() {
		ctx.Response.Header.Set("Allow", fasthttp.MethodGet)
		h.respondError(ctx, fasthttp.StatusMethodNotAllowed, fasthttp.StatusMessage(fasthttp.StatusMethodNotAllowed), "server.serve")
	} else {
		route(ctx)
	}

	if h.opts.Metrics != nil {
		h.opts.Metrics.ObserveRequest(path, ctx.Response.StatusCode(), time.Since(start))
	}
}

func (h *handler) route(path string) fasthttp.RequestHandler {
	switch path {
	case pathDeadlines:
		return h.handleDeadlines
	case pathCalendar:
		return h.handleCalendar
	case pathICS:
		return h.handleICS
	case pathVersion:
		return h.handleVersion
	case pathHealth:
		return h.handleHealth
	case pathMetrics:
		return h.metrics
	}
	return nil
}

type deadlinesResponse struct {
	Today     string            `json:"today"`
	DaysAhead int               `json:"days_ahead"`
	Profile   string            `json:"profile"`
	Count     int               `json:"count"`
	Deadlines []deadlines.Entry `json:"deadlines"`
}

type calendarResponse struct {
	Today     string            `json:"today"`
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	Profile   string            `json:"profile"`
	Count     int               `json:"count"`
	Deadlines []deadlines.Entry `json:"deadlines"`
}

// request holds the query parameters shared by the deadline endpoints.
type request struct {
	today     time.Time
	daysAhead int
	profile   profile.Profile
	filter    deadlines.Filter
	engine    *deadlines.Engine
}

func (h *handler) parseRequest(ctx *fasthttp.RequestCtx) (request, error) {
	args := ctx.QueryArgs()
	req := request{daysAhead: h.opts.DaysAhead}

	req.today = datetime.Civil(h.opts.Now())
	if raw := args.Peek("today"); len(raw) > 0 {
		today, err := datetime.ParseDate(string(raw))
		if err != nil {
			return req, err
		}
		req.today = today
	}

	if raw := args.Peek("days"); len(raw) > 0 {
		days, err := strconv.Atoi(string(raw))
		if err != nil {
			return req, errors.Newf(errors.CodeInvalidArgument, "invalid days %q", raw)
		}
		if days < 0 {
			return req, errors.Newf(errors.CodeInvalidArgument, "days must not be negative, got %d", days)
		}
		req.daysAhead = days
	}

	p, err := h.profileFromQuery(args)
	if err != nil {
		return req, err
	}
	req.profile = p

	req.filter = deadlines.Filter{
		Authorities: multiValue(args, "authority"),
		Categories:  multiValue(args, "category"),
	}

	applicable := h.opts.ApplicableOnly
	if raw := args.Peek("applicable_only"); len(raw) > 0 {
		applicable, err = strconv.ParseBool(string(raw))
		if err != nil {
			return req, errors.Newf(errors.CodeInvalidArgument, "invalid applicable_only %q", raw)
		}
	}

	opts := []deadlines.Option{deadlines.WithApplicableOnly(applicable)}
	if h.opts.Metrics != nil {
		opts = append(opts, deadlines.WithRecorder(h.opts.Metrics))
	}
	req.engine = deadlines.NewEngine(h.logger, opts...)
	return req, nil
}

// profileFromQuery overlays query parameters on the configured profile.
func (h *handler) profileFromQuery(args *fasthttp.Args) (profile.Profile, error) {
	pc := config.FromProfile(h.opts.Profile)
	overridden := false

	if raw := args.Peek("vat_frequency"); len(raw) > 0 {
		pc.VATFrequency = string(raw)
		overridden = true
	}
	if raw := args.Peek("cr_issue_date"); len(raw) > 0 {
		pc.CRIssueDate = string(raw)
		overridden = true
	}
	for key, field := range map[string]*int{"fye_month": &pc.FiscalYearEndMonth, "fye_day": &pc.FiscalYearEndDay} {
		raw := args.Peek(key)
		if len(raw) == 0 {
			continue
		}
		n, err := strconv.Atoi(string(raw))
		if err != nil || n <= 0 {
			return profile.Profile{}, errors.Newf(errors.CodeInvalidArgument, "invalid %s %q", key, raw)
		}
		*field = n
		overridden = true
	}

	if !overridden {
		return h.opts.Profile, nil
	}
	return pc.ToProfile()
}

func multiValue(args *fasthttp.Args, key string) []string {
	var values []string
	for _, raw := range args.PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

func (h *handler) handleDeadlines(ctx *fasthttp.RequestCtx) {
	req, err := h.parseRequest(ctx)
	if err != nil {
		h.respondAppError(ctx, err, "server.handleDeadlines")
		return
	}

	entries, err := req.engine.Compute(h.source.Snapshot(), req.daysAhead, req.profile, req.today)
	if err != nil {
		h.respondEngineError(ctx, err, "server.handleDeadlines")
		return
	}
	entries = req.filter.Apply(entries)

	h.writeJSON(ctx, fasthttp.StatusOK, deadlinesResponse{
		Today:     datetime.FormatDate(req.today),
		DaysAhead: req.daysAhead,
		Profile:   req.profile.String(),
		Count:     len(entries),
		Deadlines: entries,
	})
}

func (h *handler) handleCalendar(ctx *fasthttp.RequestCtx) {
	req, err := h.parseRequest(ctx)
	if err != nil {
		h.respondAppError(ctx, err, "server.handleCalendar")
		return
	}

	args := ctx.QueryArgs()
	year, month := req.today.Year(), int(req.today.Month())
	if raw := args.Peek("year"); len(raw) > 0 {
		if year, err = strconv.Atoi(string(raw)); err != nil {
			h.respondAppError(ctx, errors.Newf(errors.CodeInvalidArgument, "invalid year %q", raw), "server.handleCalendar")
			return
		}
	}
	if raw := args.Peek("month"); len(raw) > 0 {
		if month, err = strconv.Atoi(string(raw)); err != nil {
			h.respondAppError(ctx, errors.Newf(errors.CodeInvalidArgument, "invalid month %q", raw), "server.handleCalendar")
			return
		}
	}
	if err := datetime.ValidateMonth(time.Month(month)); err != nil {
		h.respondAppError(ctx, err, "server.handleCalendar")
		return
	}

	entries, err := req.engine.MonthEvents(h.source.Snapshot(), year, time.Month(month), req.profile, req.today)
	if err != nil {
		h.respondEngineError(ctx, err, "server.handleCalendar")
		return
	}
	entries = req.filter.Apply(entries)

	h.writeJSON(ctx, fasthttp.StatusOK, calendarResponse{
		Today:     datetime.FormatDate(req.today),
		Year:      year,
		Month:     month,
		Profile:   req.profile.String(),
		Count:     len(entries),
		Deadlines: entries,
	})
}

func (h *handler) handleICS(ctx *fasthttp.RequestCtx) {
	req, err := h.parseRequest(ctx)
	if err != nil {
		h.respondAppError(ctx, err, "server.handleICS")
		return
	}

	entries, err := req.engine.Compute(h.source.Snapshot(), req.daysAhead, req.profile, req.today)
	if err != nil {
		h.respondEngineError(ctx, err, "server.handleICS")
		return
	}
	entries = req.filter.Apply(entries)

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("text/calendar; charset=utf-8")
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="rakeem_deadlines.ics"`)
	ctx.SetBody(output.ICal(entries, h.opts.Now()))
}

func (h *handler) handleVersion(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, map[string]string{
		"version": h.opts.Version,
	})
}

func (h *handler) handleHealth(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"status":  "ok",
		"records": len(h.source.Snapshot()),
	})
}

func (h *handler) respondAppError(ctx *fasthttp.RequestCtx, err error, op string) {
	status := fasthttp.StatusInternalServerError
	if errors.IsCode(err, errors.CodeInvalidArgument) {
		status = fasthttp.StatusBadRequest
	}
	h.respondError(ctx, status, err.Error(), op)
}

// respondEngineError reports a failure computing deadlines from the served
// catalog. Request parameters are validated beforehand, so any engine error
// is a server-side fault.
func (h *handler) respondEngineError(ctx *fasthttp.RequestCtx, err error, op string) {
	h.respondError(ctx, fasthttp.StatusInternalServerError, err.Error(), op)
}

func (h *handler) respondError(ctx *fasthttp.RequestCtx, status int, message, op string) {
	if status >= fasthttp.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.String("path", string(ctx.Path())),
			zap.Int("status", status),
			zap.String("error", message),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("op", op),
			zap.String("path", string(ctx.Path())),
			zap.Int("status", status),
			zap.String("error", message),
		)
	}
	h.writeJSON(ctx, status, map[string]string{"error": message})
}

func (h *handler) writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
		ctx.Error(`{"error":"internal error"}`, fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, logger *zap.Logger, cfg *Config, handler fasthttp.RequestHandler) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &fasthttp.Server{
		Handler:            handler,
		Name:               "rakeem",
		ReadTimeout:        cfg.ReadTimeout,
		WriteTimeout:       cfg.WriteTimeout,
		MaxRequestBodySize: int(cfg.RequestBodyBytes()),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving deadline API",
			zap.String("op", "server.Serve"),
			zap.String("address", cfg.Address),
		)
		errCh <- srv.ListenAndServe(cfg.Address)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Address, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down deadline API",
		zap.String("op", "server.Serve"),
	)
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
