// Package posts, as part of the blog post module.
// This file holds the HTTP handlers for the post endpoints. They decode
// request payloads, pull the caller identity out of the request context
// where the route requires one, and delegate to the PostService.
package posts

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/blogapi-go/apperror"
	"github.com/user/blogapi-go/auth"
)

// PostHandlers handles HTTP requests for posts.
type PostHandlers struct {
	service PostService
}

// NewPostHandlers creates a new PostHandlers.
func NewPostHandlers(service PostService) *PostHandlers {
	return &PostHandlers{service: service}
}

// HandleList godoc
// @Summary List all posts
// @Tags Posts
// @Produce json
// @Success 200 {array} posts.Post
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/posts [get]
func (h *PostHandlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allPosts, err := h.service.List(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, allPosts)
	}
}

// HandleGet godoc
// @Summary Get a single post
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID"
// @Success 200 {object} posts.Post
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Post does not exist"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/posts/{postID} [get]
func (h *PostHandlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.service.Get(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, post)
	}
}

// HandleCreate godoc
// @Summary Create a post
// @Description Creates a post authored by the authenticated caller. The
// @Description author snapshot is taken from the caller's identity.
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postBody body posts.PostRequest true "Post content"
// @Success 201 {object} posts.Post
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/posts [post]
func (h *PostHandlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, req, ok := h.decodeAuthenticated(w, r)
		if !ok {
			return
		}

		post, err := h.service.Create(r.Context(), caller, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, post)
	}
}

// HandleUpdate godoc
// @Summary Update a post
// @Description Replaces the mutable fields of a post. Only the post's
// @Description author may update it; the author field itself never changes.
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Param postBody body posts.PostRequest true "Post content"
// @Success 200 {object} posts.Post
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Caller is not the author"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Post does not exist"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/posts/{postID} [put]
func (h *PostHandlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, req, ok := h.decodeAuthenticated(w, r)
		if !ok {
			return
		}

		post, err := h.service.Update(r.Context(), caller, chi.URLParam(r, "postID"), req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, post)
	}
}

// HandleDelete godoc
// @Summary Delete a post
// @Description Removes a post. Only the post's author may delete it.
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Success 200 {object} posts.DeleteResponse
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Caller is not the author"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Post does not exist"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/posts/{postID} [delete]
func (h *PostHandlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := auth.UserFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("could not validate credentials", nil))
			return
		}

		if err := h.service.Delete(r.Context(), caller, chi.URLParam(r, "postID")); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, DeleteResponse{Message: "Post has been deleted successfully."})
	}
}

// decodeAuthenticated pulls the caller from the request context and decodes
// the post payload, writing the error response itself when either fails.
func (h *PostHandlers) decodeAuthenticated(w http.ResponseWriter, r *http.Request) (*auth.User, PostRequest, bool) {
	var req PostRequest

	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("could not validate credentials", nil))
		return nil, req, false
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return nil, req, false
	}
	defer r.Body.Close()

	if req.Title == "" || req.Content == "" {
		auth.WriteError(w, r, apperror.NewBadRequestError("title and content are required", nil))
		return nil, req, false
	}

	return caller, req, true
}
