// Package server provides HTTP handlers for the level progress API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/tailquest/tailquest/internal/progress"
)

// ProgressHandler serves the level progress routes.
type ProgressHandler struct {
	tracker  *progress.Tracker
	validate *validator.Validate
	trans    ut.Translator
	logger   *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(tracker *progress.Tracker, logger *slog.Logger) (*ProgressHandler, error) {
	validate, trans, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("newRequestValidator() > %w", err)
	}
	return &ProgressHandler{
		tracker:  tracker,
		validate: validate,
		trans:    trans,
		logger:   logger,
	}, nil
}

// Register attaches every route to the mux.
func (h *ProgressHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /start-level", h.handleStartLevel)
	mux.HandleFunc("POST /finish-level", h.handleFinishLevel)
	mux.HandleFunc("POST /level-back", h.handleLevelBack)
	mux.HandleFunc("GET /users", h.handleListUsers)
	mux.HandleFunc("GET /healthz", h.handleHealthz)
}

func (h *ProgressHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.bind(w, r, &req) {
		return
	}

	user, err := h.tracker.Login(r.Context(), req.Username, progress.Track(req.Type))
	if err != nil {
		h.respondError(w, "login", req, err)
		return
	}
	h.respondJSON(w, http.StatusOK, user)
}

func (h *ProgressHandler) handleStartLevel(w http.ResponseWriter, r *http.Request) {
	var req startLevelRequest
	if !h.bind(w, r, &req) {
		return
	}

	attempt, err := h.tracker.StartLevel(r.Context(), req.Username, progress.Track(req.Type), req.Level)
	if err != nil {
		h.respondError(w, "start-level", req, err)
		return
	}
	h.respondJSON(w, http.StatusOK, attempt)
}

func (h *ProgressHandler) handleFinishLevel(w http.ResponseWriter, r *http.Request) {
	var req finishLevelRequest
	if !h.bind(w, r, &req) {
		return
	}

	result, err := h.tracker.FinishLevel(r.Context(), req.Username, progress.Track(req.Type), req.Level, *req.Errors)
	if err != nil {
		h.respondError(w, "finish-level", req, err)
		return
	}
	h.respondJSON(w, http.StatusOK, finishLevelResponse{
		LevelData:     result.Attempt,
		UserLevel:     result.UserLevel,
		HardestErrors: result.HardestErrors,
	})
}

func (h *ProgressHandler) handleLevelBack(w http.ResponseWriter, r *http.Request) {
	var req levelBackRequest
	if !h.bind(w, r, &req) {
		return
	}

	level, err := h.tracker.LevelBack(r.Context(), req.Username)
	if err != nil {
		h.respondError(w, "level-back", req, err)
		return
	}
	h.respondJSON(w, http.StatusOK, levelBackResponse{UserLevel: level})
}

func (h *ProgressHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.tracker.ListUsers(r.Context())
	if err != nil {
		h.respondError(w, "users", nil, err)
		return
	}
	h.respondJSON(w, http.StatusOK, users)
}

func (h *ProgressHandler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// bind decodes the JSON body into req and validates it. On failure it writes
// a 400 response and returns false.
func (h *ProgressHandler) bind(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.logger.Warn("malformed request body", "path", r.URL.Path, "error", err)
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.Warn("invalid request", "path", r.URL.Path, "request", req, "error", err)
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: h.validationMessage(err)})
		return false
	}
	return true
}

func (h *ProgressHandler) validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid request"
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fieldError.Translate(h.trans))
	}
	return strings.Join(messages, "; ")
}

func (h *ProgressHandler) respondError(w http.ResponseWriter, operation string, req any, err error) {
	var invalidInput *progress.InvalidInputError
	var persistErr *progress.PersistenceError

	switch {
	case errors.As(err, &invalidInput):
		h.logger.Warn("invalid input", "operation", operation, "request", req, "error", err)
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: invalidInput.Reason})
	case errors.Is(err, progress.ErrUserNotFound):
		h.logger.Warn("user not found", "operation", operation, "request", req)
		h.respondJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
	case errors.As(err, &persistErr):
		h.logger.Error("failed to persist progress", "operation", operation, "request", req, "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save progress"})
	default:
		h.logger.Error("operation failed", "operation", operation, "request", req, "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (h *ProgressHandler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func newRequestValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate, trans, nil
}
