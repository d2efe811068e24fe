package web

import (
	"context"
	"errors"
	"fmt"
	"github.com/RezaEskandarii/remindfire/client"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/internal/state"
	"github.com/RezaEskandarii/remindfire/types"
	"github.com/gorilla/mux"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

type RouteHandler struct {
	manager    *client.ReminderManager
	CronSecret string
	Port       uint
}

func NewRouteHandler(manager *client.ReminderManager, cronSecret string, port uint) *RouteHandler {
	return &RouteHandler{
		manager:    manager,
		CronSecret: cronSecret,
		Port:       port,
	}
}

type scheduleRequest struct {
	Destination  types.Destination `json:"destination"`
	SubjectID    string            `json:"subjectId"`
	SubjectLabel string            `json:"subjectLabel"`
	DayKey       string            `json:"dayKey"`
	FireTimes    *[]int64          `json:"fireTimes"`
}

type doneRequest struct {
	Destination types.Destination `json:"destination"`
	SubjectID   string            `json:"subjectId"`
	DayKey      string            `json:"dayKey"`
}

type testRequest struct {
	Subscription *types.Destination `json:"subscription"`
	Title        string             `json:"title"`
	Body         string             `json:"body"`
	URL          string             `json:"url"`
}

func (handler *RouteHandler) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	api := r.PathPrefix("/api/push").Subrouter()
	api.HandleFunc("/schedule", handler.handleSchedule).Methods(http.MethodPost)
	api.HandleFunc("/done", handler.handleDone).Methods(http.MethodPost)
	api.HandleFunc("/cron", secretMiddleware(handler.CronSecret, handler.handleCron)).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/send", secretMiddleware(handler.CronSecret, handler.handleSend)).Methods(http.MethodPost)
	api.HandleFunc("/test", handler.handleTest).Methods(http.MethodPost)
	api.HandleFunc("/subscribe", handler.handleSubscribe).Methods(http.MethodPost)
	api.HandleFunc("/subscribe", handler.handleSubscriptionCount).Methods(http.MethodGet)

	r.HandleFunc("/healthz", handler.handleHealth).Methods(http.MethodGet)
	return r
}

// Serve blocks until ctx is cancelled or the listener fails.
func (handler *RouteHandler) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", handler.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		printBanner(addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		log.Println("shutting down http server")
		return server.Shutdown(shutdownCtx)
	}
}

func (handler *RouteHandler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !req.Destination.IsValid() || strings.TrimSpace(req.SubjectID) == "" || strings.TrimSpace(req.DayKey) == "" || req.FireTimes == nil {
		writeError(w, fmt.Errorf("%w: destination, subjectId, dayKey and fireTimes are required", custom_errors.ErrInvalidPayload))
		return
	}

	accepted, err := handler.manager.Schedule(r.Context(), req.Destination, req.SubjectID, req.SubjectLabel, req.DayKey, *req.FireTimes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataMap{"ok": true, "accepted": accepted})
}

func (handler *RouteHandler) handleDone(w http.ResponseWriter, r *http.Request) {
	var req doneRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	marker := types.CompletionMarker{Endpoint: req.Destination.Endpoint, SubjectID: req.SubjectID, DayKey: req.DayKey}
	err := handler.manager.MarkDone(r.Context(), marker)
	switch {
	case errors.Is(err, custom_errors.ErrBackendUnavailable):
		writeJSON(w, http.StatusOK, DataMap{"ok": true, "note": "tracker_disabled"})
	case err != nil:
		writeError(w, err)
	default:
		writeJSON(w, http.StatusOK, DataMap{"ok": true})
	}
}

func (handler *RouteHandler) handleCron(w http.ResponseWriter, r *http.Request) {
	result, err := handler.manager.Sweep(r.Context())
	if errors.Is(err, custom_errors.ErrBackendUnavailable) {
		writeJSON(w, http.StatusNotImplemented, DataMap{"ok": false, "reason": "store_disabled"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (handler *RouteHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", custom_errors.ErrInvalidPayload, err))
		return
	}

	outcome, err := handler.manager.HandleFired(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataMap{
		"ok":      true,
		"sent":    outcome == state.OutcomeSent,
		"skipped": outcome == state.OutcomeSkipped || outcome == state.OutcomeSuppressed,
	})
}

func (handler *RouteHandler) handleTest(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	// an empty or unreadable body is a plain broadcast
	_ = decodeBody(r, &req)

	payload := types.Payload{Title: req.Title, Body: req.Body, URL: req.URL}
	ok, ko, err := handler.manager.TestSend(r.Context(), req.Subscription, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataMap{"ok": ok, "ko": ko})
}

func (handler *RouteHandler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var destination types.Destination
	if err := decodeBody(r, &destination); err != nil {
		writeError(w, err)
		return
	}
	if err := handler.manager.Subscribe(r.Context(), destination); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataMap{"ok": true})
}

func (handler *RouteHandler) handleSubscriptionCount(w http.ResponseWriter, r *http.Request) {
	count, err := handler.manager.SubscriptionCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataMap{"count": count})
}

// handleHealth also reports whether completion markers persist, and the job backlog when a store exists.
func (handler *RouteHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := DataMap{"ok": true, "tracker": handler.manager.TrackerEnabled()}

	pending, err := handler.manager.PendingJobs(r.Context())
	switch {
	case errors.Is(err, custom_errors.ErrBackendUnavailable):
	case err != nil:
		log.Printf("health check: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, DataMap{"ok": false, "error": err.Error()})
		return
	default:
		data.Add("pending", pending)
	}
	writeJSON(w, http.StatusOK, data)
}
