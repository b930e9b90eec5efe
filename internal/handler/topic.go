package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/service"
)

// =========================================================================
// CATEGORIES
// =========================================================================

type CategoryHandler struct {
	categories *service.CategoryService
	logger     *slog.Logger
}

func NewCategoryHandler(categories *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// HandleList: GET /api/categories
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.categories.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet: GET /api/categories/{id}
func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	c, err := h.categories.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleCreate: POST /api/categories (protected)
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := h.categories.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeCreated(w, id)
}

// =========================================================================
// TOPICS
// =========================================================================

type TopicHandler struct {
	topics *service.TopicService
	logger *slog.Logger
}

func NewTopicHandler(topics *service.TopicService, logger *slog.Logger) *TopicHandler {
	return &TopicHandler{topics: topics, logger: logger}
}

type CreateTopicRequest struct {
	CategoryID int64  `json:"category_id" validate:"gt=0"`
	Name       string `json:"name"        validate:"required,max=100"`
}

// UpdateTopicRequest fields are optional; an absent field is left unchanged.
type UpdateTopicRequest struct {
	Name       *string `json:"name"        validate:"omitempty,min=1,max=100"`
	CategoryID *int64  `json:"category_id" validate:"omitempty,gt=0"`
}

// HandleList returns topics newest first.
//
// HTTP: GET /api/topics?limit=&offset=
func (h *TopicHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	topics, err := h.topics.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

// HandleGet: GET /api/topics/{id}
func (h *TopicHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	topic, err := h.topics.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, topic)
}

// HandleCreate opens a topic as the caller.
//
// HTTP: POST /api/topics (protected)
// REQUEST BODY: {"category_id": 1, "name": "Hello"}
// RESPONSE:     201 {"id": 7}
func (h *TopicHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req CreateTopicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := h.topics.Create(r.Context(), userID, req.CategoryID, req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeCreated(w, id)
}

// HandleUpdate: PATCH /api/topics/{id} (protected, author only)
func (h *TopicHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req UpdateTopicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	patch := model.TopicPatch{Name: req.Name, CategoryID: req.CategoryID}
	if err := h.topics.Update(r.Context(), userID, id, patch); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

// HandleDelete: DELETE /api/topics/{id} (protected, author only)
func (h *TopicHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.topics.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

// HandleSearch: GET /api/search?query=
func (h *TopicHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topics.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}
