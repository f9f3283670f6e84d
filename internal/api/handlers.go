// Package api exposes HTTP handlers for the training service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nicholas-won/TriOne-sub000/internal/auth"
	"github.com/nicholas-won/TriOne-sub000/internal/domain"
	"github.com/nicholas-won/TriOne-sub000/internal/engine"
)

// Handler coordinates HTTP requests with the training engine.
type Handler struct {
	service *engine.Service
}

// NewHandler builds a Handler.
func NewHandler(service *engine.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/onboarding", h.onboarding)
	mux.HandleFunc("/v1/calibration/results", h.calibrationResult)
	mux.HandleFunc("/v1/plans/active", h.activePlan)
	mux.HandleFunc("/v1/events/select", h.selectEvent)
	mux.HandleFunc("/v1/workouts/", h.workoutAction)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) onboarding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	var req OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := h.service.Onboard(r.Context(), engine.OnboardingInput{
		AthleteID:     claims.Subject,
		VolumeTier:    req.VolumeTier,
		EventID:       req.EventID,
		WantsFullPlan: req.WantsFullPlan,
		Baselines:     req.baselines(),
	}, time.Now().UTC())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := OnboardingResponse{
		Plan:                toPlanView(result.Plan),
		CalibrationRequired: result.CalibrationRequired,
	}
	for _, z := range result.HeartRateZones {
		resp.HeartRateZones = append(resp.HeartRateZones, HeartRateZoneView{
			Zone: z.Zone, MinBPM: z.MinBPM, MaxBPM: z.MaxBPM,
		})
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) calibrationResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	var req CalibrationResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := h.service.ProcessCalibrationResult(r.Context(), claims.Subject, domain.TestType(req.Test), req.Value, time.Now().UTC())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CalibrationResultResponse{
		Test:             string(result.Test),
		DerivedValue:     result.Value,
		AllTestsComplete: result.AllTestsComplete,
	})
}

func (h *Handler) activePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeTrainingRead, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	now := time.Now().UTC()
	from := parseDateParam(r, "from", now.AddDate(0, 0, -7))
	to := parseDateParam(r, "to", now.AddDate(0, 0, 28))

	view, err := h.service.GetActivePlan(r.Context(), claims.Subject, from, to)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := ActivePlanResponse{Plan: toPlanView(view.Plan)}
	resp.Workouts = make([]WorkoutView, 0, len(view.Workouts))
	for _, workout := range view.Workouts {
		resp.Workouts = append(resp.Workouts, toWorkoutView(workout))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) selectEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	var req SelectEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.EventID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "event_id is required")
		return
	}

	plan, err := h.service.SelectEvent(r.Context(), claims.Subject, req.EventID, time.Now().UTC())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ActivePlanResponse{Plan: toPlanView(*plan)})
}

// workoutAction dispatches POST /v1/workouts/{id}/{complete|skip|feedback}.
func (h *Handler) workoutAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/workouts/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing workout id or action")
		return
	}
	workoutID, action := parts[0], parts[1]

	if _, ok := requireScope(w, r, auth.ScopeTrainingWrite); !ok {
		return
	}

	switch action {
	case "complete":
		h.completeWorkout(w, r, workoutID)
	case "skip":
		h.skipWorkout(w, r, workoutID)
	case "feedback":
		h.submitFeedback(w, r, workoutID)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown workout action")
	}
}

func (h *Handler) completeWorkout(w http.ResponseWriter, r *http.Request, workoutID string) {
	if err := h.service.CompleteWorkout(r.Context(), workoutID, time.Now().UTC()); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: string(domain.WorkoutCompleted)})
}

func (h *Handler) skipWorkout(w http.ResponseWriter, r *http.Request, workoutID string) {
	var req SkipWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := h.service.SkipWorkout(r.Context(), workoutID, domain.SkipReason(req.Reason), time.Now().UTC()); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: string(domain.WorkoutSkipped)})
}

func (h *Handler) submitFeedback(w http.ResponseWriter, r *http.Request, workoutID string) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := h.service.SubmitFeedback(r.Context(), workoutID, domain.Rating(req.Rating), req.RPE, time.Now().UTC()); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, StatusResponse{Status: "recorded"})
}

// requireScope extracts claims and enforces that at least one of the scopes
// is present, writing the error response itself when the check fails.
func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	for _, scope := range scopes {
		if claims.HasScope(scope) {
			return claims, true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden", "scope "+scopes[0]+" required")
	return nil, false
}

func parseDateParam(r *http.Request, key string, fallback time.Time) time.Time {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fallback
	}
	return parsed
}

// writeEngineError maps engine and domain errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrWorkoutNotFound),
		errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, engine.ErrNoActivePlan):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, engine.ErrInvalidVolumeTier),
		errors.Is(err, engine.ErrInvalidRPE),
		errors.Is(err, engine.ErrInvalidSkipReason),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrUnknownTestType),
		errors.Is(err, domain.ErrInvalidTestResult):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, engine.ErrIllegalTransition),
		errors.Is(err, domain.ErrActivePlanConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
