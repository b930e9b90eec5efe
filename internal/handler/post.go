package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/service"
)

// PostHandler serves posts and the reactions on them.
type PostHandler struct {
	posts     *service.PostService
	reactions *service.ReactionService
	logger    *slog.Logger
}

func NewPostHandler(posts *service.PostService, reactions *service.ReactionService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, reactions: reactions, logger: logger}
}

type CreatePostRequest struct {
	TopicID int64  `json:"topic_id" validate:"gt=0"`
	Text    string `json:"text"     validate:"required,max=1000"`
}

type UpdatePostRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// HandleList returns the posts of one topic, oldest first.
//
// HTTP: GET /api/posts?topic_id=n&limit=&offset=
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	topicID, err := queryInt(r, "topic_id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if topicID <= 0 {
		writeError(w, h.logger, apperror.ValidationFailed("topic_id", "topic_id is required"))
		return
	}
	limit, offset, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	posts, err := h.posts.List(r.Context(), int64(topicID), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleGet: GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleCreate: POST /api/posts (protected)
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := h.posts.Create(r.Context(), userID, req.TopicID, req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeCreated(w, id)
}

// HandleUpdate: PATCH /api/posts/{id} (protected, author only)
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req UpdatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.posts.UpdateText(r.Context(), userID, id, req.Text); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

// HandleDelete: DELETE /api/posts/{id} (protected, author only)
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.posts.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

// HandleListReactions: GET /api/posts/{id}/reactions
func (h *PostHandler) HandleListReactions(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	list, err := h.reactions.ListForPost(r.Context(), postID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleReact puts a palette reaction on a post as the caller.
//
// HTTP: POST /api/posts/{id}/reactions/{reaction_id} (protected)
// RESPONSE: 201 (no body); 409 if already set; 400 if post or reaction is unknown
func (h *PostHandler) HandleReact(w http.ResponseWriter, r *http.Request) {
	userID, postID, reactionID, err := reactionTarget(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.reactions.React(r.Context(), userID, postID, reactionID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// HandleUnreact: DELETE /api/posts/{id}/reactions/{reaction_id} (protected)
func (h *PostHandler) HandleUnreact(w http.ResponseWriter, r *http.Request) {
	userID, postID, reactionID, err := reactionTarget(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.reactions.Unreact(r.Context(), userID, postID, reactionID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

func reactionTarget(r *http.Request) (userID, postID, reactionID int64, err error) {
	if userID, err = callerID(r); err != nil {
		return
	}
	if postID, err = pathID(r, "id"); err != nil {
		return
	}
	reactionID, err = pathID(r, "reaction_id")
	return
}

// =========================================================================
// REACTION PALETTE
// =========================================================================

type ReactionHandler struct {
	reactions *service.ReactionService
	logger    *slog.Logger
}

func NewReactionHandler(reactions *service.ReactionService, logger *slog.Logger) *ReactionHandler {
	return &ReactionHandler{reactions: reactions, logger: logger}
}

type ReactionRequest struct {
	Reaction string `json:"reaction" validate:"required,max=16"`
}

// HandleList: GET /api/available-reactions
func (h *ReactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.reactions.ListAvailable(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreate: POST /api/available-reactions (protected)
func (h *ReactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ReactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := h.reactions.CreateAvailable(r.Context(), req.Reaction)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeCreated(w, id)
}

// HandleUpdate: PATCH /api/available-reactions/{id} (protected)
func (h *ReactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req ReactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.reactions.UpdateAvailable(r.Context(), id, req.Reaction); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

// HandleDelete: DELETE /api/available-reactions/{id} (protected)
func (h *ReactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.reactions.DeleteAvailable(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}
