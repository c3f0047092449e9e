package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tubeinsight/api/internal/application/analyses"
	domai "github.com/tubeinsight/api/internal/domain/ai"
	"github.com/tubeinsight/api/internal/domain/analysis"
	"github.com/tubeinsight/api/internal/domain/faults"
	"github.com/tubeinsight/api/internal/domain/transcript"
	"github.com/tubeinsight/api/internal/domain/video"
	"github.com/tubeinsight/api/internal/middleware"
)

type Router struct {
	svc *analyses.Service
}

func NewRouter(svc *analyses.Service, health http.HandlerFunc) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	if health == nil {
		health = func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte("ok"))
		}
	}
	mux.Get("/health", health)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analyses", r.wrap(r.handleAnalyze))
		rt.Get("/analyses", r.wrap(r.handleList))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Delete("/analyses/{id}", r.wrap(r.handleDelete))
		rt.Get("/faults", r.wrap(r.handleFaults))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps pipeline errors onto HTTP statuses. Every failure leaves through
// here as a structured body; nothing is silently swallowed.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var invalidURL *video.ErrInvalidURL
		var badOutput *analysis.ValidationError
		switch {
		case errors.As(err, &invalidURL):
			writeError(w, http.StatusBadRequest, "please provide a valid YouTube URL")
		case errors.Is(err, transcript.ErrNoTranscript):
			writeError(w, http.StatusUnprocessableEntity, transcript.ErrNoTranscript.Error())
		case errors.Is(err, transcript.ErrToolFailed):
			writeError(w, http.StatusBadGateway, "could not fetch video transcript")
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "ai quota exceeded")
		case errors.As(err, &badOutput):
			writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to parse analysis: %s. Please try again.", badOutput.Error()))
		case errors.Is(err, domai.ErrTransient), errors.Is(err, domai.ErrEmptyCompletion):
			writeError(w, http.StatusBadGateway, "analysis provider unavailable, please try again")
		case errors.Is(err, analysis.ErrNotFound), errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, errBadRequest):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

var errBadRequest = errors.New("bad request")

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/analyses
// Body: {"url": "<youtube url>"}
// Runs the full pipeline and upserts the record for (user, video); submitting
// a URL that was analyzed before re-analyzes it in place.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserFromContext(req.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	if err := middleware.ValidateSubmittedURL(middleware.SanitizeString(body.URL)); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	rec, err := r.svc.Analyze(req.Context(), userID, body.URL)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()

	return writeJSON(w, http.StatusOK, rec)
}

// GET /v1/analyses
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserFromContext(req.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil
	}

	list, err := r.svc.List(req.Context(), userID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*analysis.Record{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserFromContext(req.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil
	}

	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	rec, err := r.svc.Get(req.Context(), userID, analysis.RecordID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

// DELETE /v1/analyses/{id}
// Only the owner's record is ever deleted; an id owned by someone else is
// indistinguishable from a missing one.
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserFromContext(req.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil
	}

	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	if err := r.svc.Delete(req.Context(), userID, analysis.RecordID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/faults?limit=20
func (r *Router) handleFaults(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserFromContext(req.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil
	}

	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.svc.RecentFaults(req.Context(), userID, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*faults.Fault{}
	}
	return writeJSON(w, http.StatusOK, list)
}
