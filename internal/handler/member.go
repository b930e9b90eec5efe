package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/forum-backend/internal/service"
)

// =========================================================================
// BOOKMARKS
// =========================================================================

// BookmarkHandler serves the caller's own bookmarks; every route is protected.
type BookmarkHandler struct {
	bookmarks *service.BookmarkService
	logger    *slog.Logger
}

func NewBookmarkHandler(bookmarks *service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks, logger: logger}
}

type BookmarkRequest struct {
	TopicID int64 `json:"topic_id" validate:"gt=0"`
}

// HandleList: GET /api/bookmarks
func (h *BookmarkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	list, err := h.bookmarks.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleAdd: POST /api/bookmarks {"topic_id": n}
func (h *BookmarkHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req BookmarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.bookmarks.Add(r.Context(), userID, req.TopicID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeCreated(w, req.TopicID)
}

// HandleRemove: DELETE /api/bookmarks/{topic_id}
func (h *BookmarkHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	topicID, err := pathID(r, "topic_id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.bookmarks.Remove(r.Context(), userID, topicID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

// =========================================================================
// REPORTS
// =========================================================================

type ReportHandler struct {
	reports *service.ReportService
	logger  *slog.Logger
}

func NewReportHandler(reports *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

type CreateReportRequest struct {
	ReportedUserID int64  `json:"reported_user_id" validate:"gt=0"`
	Reason         string `json:"reason"           validate:"required,max=500"`
}

// HandleCreate: POST /api/reports (protected)
func (h *ReportHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req CreateReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := h.reports.Create(r.Context(), userID, req.ReportedUserID, req.Reason)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeCreated(w, id)
}

// HandleList: GET /api/reports?limit=&offset= (protected)
func (h *ReportHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	list, err := h.reports.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet: GET /api/reports/{id} (protected)
func (h *ReportHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	report, err := h.reports.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =========================================================================
// STATS & HEALTH
// =========================================================================

// Pinger is satisfied by the database handle.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SiteHandler struct {
	stats  *service.StatsService
	db     Pinger
	logger *slog.Logger
}

func NewSiteHandler(stats *service.StatsService, db Pinger, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{stats: stats, db: db, logger: logger}
}

// HandleStats: GET /api/stats
func (h *SiteHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Get(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleHealth reports whether the database answers.
//
// HTTP: GET /healthz → 200 {"status":"ok"} or 503 {"status":"unavailable"}
func (h *SiteHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
