package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/modules"
)

// RecognitionService is the slice of the pipeline the HTTP layer needs.
type RecognitionService interface {
	Enroll(ctx context.Context, identityID, displayName string, image []byte) (*config.EnrolledIdentity, error)
	Verify(ctx context.Context, identityID string, image []byte) (*config.RecognitionOutcome, error)
	Identify(ctx context.Context, image []byte) (*config.RecognitionOutcome, error)
	ListEnrolled(ctx context.Context) ([]config.EnrolledIdentity, error)
	RemoveEnrolled(ctx context.Context, identityID string) error
	ListAttendance(ctx context.Context, day time.Time) ([]config.AttendanceRecord, error)
}

// HealthFunc reports readiness of the pipeline's external dependencies.
type HealthFunc func(ctx context.Context) (modelLoaded, databaseConnected bool)

type handler struct {
	service RecognitionService
	health  HealthFunc
	logger  *slog.Logger
}

func newHandler(service RecognitionService, health HealthFunc, logger *slog.Logger) *handler {
	return &handler{
		service: service,
		health:  health,
		logger:  logger,
	}
}

type enrollRequest struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
}

type recognizeRequest struct {
	EmployeeID string `json:"employee_id"`
	Image      string `json:"image"`
}

type identifyRequest struct {
	Image string `json:"image"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeImage accepts both raw base64 and data-URL payloads.
func decodeImage(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ","); idx != -1 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
}

// writeRecognitionError maps pipeline errors onto HTTP statuses. Absence of a
// face and an unknown identity are request-level outcomes, not server faults.
func (h *handler) writeRecognitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, modules.ErrDecodeFailed):
		writeError(w, http.StatusBadRequest, "cannot decode image")
	case errors.Is(err, modules.ErrNoFaceDetected):
		writeError(w, http.StatusUnprocessableEntity, "no face detected in image")
	case errors.Is(err, modules.ErrNotEnrolled):
		writeError(w, http.StatusNotFound, "identity is not enrolled")
	case errors.Is(err, modules.ErrVariantMismatch):
		writeError(w, http.StatusConflict, "stored embedding is incompatible with the active extractor")
	default:
		h.logger.Error("recognition request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	modelLoaded, dbConnected := h.health(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"model_loaded":       modelLoaded,
		"database_connected": dbConnected,
	})
}

func (h *handler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.EmployeeID == "" || req.Image == "" {
		writeError(w, http.StatusBadRequest, "employee_id and image are required")
		return
	}
	if req.Name == "" {
		req.Name = req.EmployeeID
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image is not valid base64")
		return
	}

	identity, err := h.service.Enroll(r.Context(), req.EmployeeID, req.Name, image)
	if err != nil {
		h.writeRecognitionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (h *handler) Recognize(w http.ResponseWriter, r *http.Request) {
	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.EmployeeID == "" || req.Image == "" {
		writeError(w, http.StatusBadRequest, "employee_id and image are required")
		return
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image is not valid base64")
		return
	}

	outcome, err := h.service.Verify(r.Context(), req.EmployeeID, image)
	if err != nil {
		h.writeRecognitionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *handler) Identify(w http.ResponseWriter, r *http.Request) {
	var req identifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image is not valid base64")
		return
	}

	outcome, err := h.service.Identify(r.Context(), image)
	if err != nil {
		h.writeRecognitionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *handler) ListEnrolled(w http.ResponseWriter, r *http.Request) {
	identities, err := h.service.ListEnrolled(r.Context())
	if err != nil {
		h.logger.Error("listing enrolled identities failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if identities == nil {
		identities = []config.EnrolledIdentity{}
	}
	writeJSON(w, http.StatusOK, identities)
}

func (h *handler) RemoveEnrolled(w http.ResponseWriter, r *http.Request) {
	identityID := chi.URLParam(r, "id")
	if err := h.service.RemoveEnrolled(r.Context(), identityID); err != nil {
		h.logger.Error("removing enrolled identity failed", "identity_id", identityID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": identityID})
}

func (h *handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if q := r.URL.Query().Get("day"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "day must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}

	records, err := h.service.ListAttendance(r.Context(), day)
	if err != nil {
		h.logger.Error("listing attendance failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []config.AttendanceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
