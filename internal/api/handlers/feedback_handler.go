package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/domain/providers"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/feedbackinsights/pkg/errors"
)

const maxSubmissionBytes = 64 << 10

// PersistenceFailureMessage tells the client the analysis ran but nothing was saved.
const PersistenceFailureMessage = "feedback was analyzed but could not be stored"

// FeedbackService defines the feedback operations used by the handler.
type FeedbackService interface {
	Validate(sub entities.FeedbackSubmission) (entities.FeedbackSubmission, error)
	Submit(ctx context.Context, sub entities.FeedbackSubmission) (*entities.FeedbackRecord, error)
	List(ctx context.Context, filter entities.FeedbackFilter) ([]*entities.FeedbackRecord, error)
	Get(ctx context.Context, id int64) (*entities.FeedbackRecord, error)
	Count(ctx context.Context, filter entities.FeedbackFilter) (int, error)
	Categories() []string
}

// FeedbackHandler handles feedback submission, listing and export.
type FeedbackHandler struct {
	service FeedbackService
	guard   *submissionGuard
}

// NewFeedbackHandler creates a new feedback handler. cache may be nil.
func NewFeedbackHandler(service FeedbackService, cache providers.CacheProvider) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		guard:   newSubmissionGuard(cache),
	}
}

// SubmitFeedback handles POST /api/feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var payload entities.FeedbackSubmission
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err := decoder.Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	sub, err := h.service.Validate(payload)
	if err != nil {
		respondWithAppError(w, err, "invalid submission")
		return
	}

	ctx := r.Context()
	ip := clientIP(r)

	allowed, retryAfter := h.guard.allow(ctx, ip)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	fingerprint := submissionFingerprint(sub, ip)
	if !h.guard.claim(ctx, fingerprint) {
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"status": "duplicate_ignored",
		})
		return
	}

	record, err := h.service.Submit(ctx, sub)
	if err != nil {
		h.guard.release(ctx, fingerprint)
		if apperrors.IsType(err, apperrors.ErrorTypePersistence) {
			respondWithError(w, http.StatusInternalServerError, PersistenceFailureMessage)
			return
		}
		respondWithAppError(w, err, "failed to submit feedback")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"status":   "received",
		"feedback": record,
	})
}

// ListFeedback handles GET /api/feedback
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFeedbackFilter(r.URL.Query())
	if err != nil {
		respondWithAppError(w, err, "invalid query")
		return
	}

	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Failed to list feedback")
		respondWithAppError(w, err, "failed to list feedback")
		return
	}

	total := len(records)
	if filter.Limit > 0 {
		unlimited := filter
		unlimited.Limit = 0
		if total, err = h.service.Count(r.Context(), unlimited); err != nil {
			respondWithAppError(w, err, "failed to count feedback")
			return
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"total":    total,
		"feedback": records,
	})
}

// CountFeedback handles GET /api/feedback/count
func (h *FeedbackHandler) CountFeedback(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFeedbackFilter(r.URL.Query())
	if err != nil {
		respondWithAppError(w, err, "invalid query")
		return
	}

	count, err := h.service.Count(r.Context(), filter)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Failed to count feedback")
		respondWithAppError(w, err, "failed to count feedback")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"count": count})
}

// GetFeedback handles GET /api/feedback/{id}
func (h *FeedbackHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		respondWithError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			observability.LoggerFromContext(r.Context()).Error().Err(err).Int64("feedback_id", id).Msg("Failed to get feedback")
		}
		respondWithAppError(w, err, "failed to get feedback")
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// ListCategories handles GET /api/categories
func (h *FeedbackHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.service.Categories(),
	})
}

var exportColumns = []string{
	"id", "created_at", "user_name", "email", "category", "rating", "message",
	"sentiment", "summary", "ai_response", "recommendations", "enrichment_status",
}

// ExportFeedback handles GET /api/feedback/export?format=csv|json
func (h *FeedbackHandler) ExportFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		respondWithError(w, http.StatusBadRequest, "format must be csv or json")
		return
	}

	filter, err := parseFeedbackFilter(q)
	if err != nil {
		respondWithAppError(w, err, "invalid query")
		return
	}

	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Failed to export feedback")
		respondWithAppError(w, err, "failed to export feedback")
		return
	}

	filename := fmt.Sprintf("feedback-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if format == "json" {
		respondWithJSON(w, http.StatusOK, records)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := writeFeedbackCSV(w, records); err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("Failed to write CSV export")
	}
}

func writeFeedbackCSV(w http.ResponseWriter, records []*entities.FeedbackRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.CreatedAt.UTC().Format(time.RFC3339Nano),
			rec.UserName,
			rec.Email,
			rec.Category,
			strconv.Itoa(rec.Rating),
			rec.Message,
			string(rec.Sentiment),
			rec.Summary,
			rec.AIResponse,
			rec.Recommendations,
			string(rec.EnrichmentStatus),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
