package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/nested-seeder/internal/domain/post/entity"
	"github.com/vadim/nested-seeder/internal/domain/post/service"
	"github.com/vadim/nested-seeder/internal/httpx/response"
)

// PostService defines the interface for post operations
// Interface is defined by consumer (handler), not provider (service)
type PostService interface {
	CreatePost(ctx context.Context, in service.CreateInput) (*entity.Post, error)
	GetPost(ctx context.Context, id string) (*entity.Post, error)
	ListPosts(ctx context.Context, f service.ListFilter) ([]entity.Post, int)
}

// PostHandler handles HTTP requests for posts
type PostHandler struct {
	svc PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(svc PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// RegisterRoutes registers post routes
func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Route("/posts", func(r chi.Router) {
		r.Post("/", h.Create())
		r.Get("/", h.List())
		r.Get("/subs/{subName}", h.ListBySub())
		r.Get("/{id}", h.Get())
	})
}

// CreateRequest represents the request body for creating a post
type CreateRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	URL       string   `json:"url"`
	SubName   string   `json:"subName"`
	PostType  string   `json:"postType"`
	Flair     string   `json:"flair"`
	NSFW      bool     `json:"nsfw"`
	Spoiler   bool     `json:"spoiler"`
	ImageURLs []string `json:"imageUrls"`
}

// Create handles POST /posts
func (h *PostHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		post, err := h.svc.CreatePost(r.Context(), service.CreateInput{
			Title:     req.Title,
			Content:   req.Content,
			URL:       req.URL,
			SubName:   req.SubName,
			PostType:  entity.PostType(req.PostType),
			Flair:     req.Flair,
			NSFW:      req.NSFW,
			Spoiler:   req.Spoiler,
			ImageURLs: req.ImageURLs,
			Author:    UsernameFrom(r.Context()),
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, post)
	}
}

// Get handles GET /posts/{id}
func (h *PostHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.svc.GetPost(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(w, err)
			return
		}

		response.OK(w, post)
	}
}

// List handles GET /posts
func (h *PostHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseListFilter(r)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		posts, _ := h.svc.ListPosts(r.Context(), f)
		response.OK(w, posts)
	}
}

// ListBySub handles GET /posts/subs/{subName}
func (h *PostHandler) ListBySub() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseListFilter(r)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		f.SubName = chi.URLParam(r, "subName")

		posts, _ := h.svc.ListPosts(r.Context(), f)
		response.OK(w, posts)
	}
}

func parseListFilter(r *http.Request) (service.ListFilter, error) {
	var f service.ListFilter
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return f, errors.New("limit must be a non-negative integer")
		}
		f.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return f, errors.New("offset must be a non-negative integer")
		}
		f.Offset = offset
	}

	return f, nil
}

// handleDomainError maps domain errors to HTTP responses
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrPostNotFound):
		response.NotFound(w, err.Error())
	case entity.IsValidationError(err):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "An unexpected error occurred")
	}
}
