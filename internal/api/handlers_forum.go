// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pmatlas/pmatlas/internal/database"
	"github.com/pmatlas/pmatlas/internal/forum"
	"github.com/pmatlas/pmatlas/internal/models"
	"github.com/pmatlas/pmatlas/internal/validation"
)

// ListPosts returns forum posts filtered and sorted per the query parameters:
// q, category, tag, sort (recent|popular|discussed).
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	posts, err := h.db.ListPosts(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	q := r.URL.Query()
	category := models.ForumCategory(q.Get("category"))
	if category == "" {
		category = models.CategoryAll
	}
	if category != models.CategoryAll && !category.Valid() {
		rw.BadRequest("category is not a recognized value")
		return
	}

	posts = forum.Filter(posts, q.Get("q"), category, q.Get("tag"))
	forum.Sort(posts, forum.ParseSortKey(q.Get("sort")))
	rw.Success(posts)
}

// createPostRequest is the POST /api/forum/posts body.
type createPostRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required,max=10000"`
	Category string   `json:"category" validate:"required,forumcategory"`
	Tags     []string `json:"tags" validate:"omitempty,max=10,dive,max=40"`
}

// CreatePost creates a forum post authored by the caller.
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	author, ok := h.ownProfile(rw, r)
	if !ok {
		return
	}

	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	now := time.Now().UTC()
	post := &models.ForumPost{
		ID:        uuid.New().String(),
		AuthorID:  author.ID,
		Title:     req.Title,
		Content:   req.Content,
		Category:  models.ForumCategory(req.Category),
		Tags:      req.Tags,
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := forum.ValidateNewPost(post); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	if err := h.db.CreatePost(r.Context(), post); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Created(post)
}

// GetPost returns one post with its comments and bumps the view count.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	if err := h.db.IncrementViewCount(r.Context(), id); err != nil && !errors.Is(err, database.ErrNotFound) {
		rw.DatabaseError(err)
		return
	}

	post, err := h.db.GetPost(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("Post not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(post)
}

// voteRequest is the body for post and comment votes.
type voteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// VotePost applies an atomic up or down vote to a post.
func (h *Handlers) VotePost(w http.ResponseWriter, r *http.Request) {
	h.applyVote(w, r, func(r *http.Request, up bool) error {
		return h.db.VotePost(r.Context(), chi.URLParam(r, "id"), up)
	})
}

// VoteComment applies an atomic up or down vote to a comment.
func (h *Handlers) VoteComment(w http.ResponseWriter, r *http.Request) {
	h.applyVote(w, r, func(r *http.Request, up bool) error {
		return h.db.VoteComment(r.Context(), chi.URLParam(r, "commentId"), up)
	})
}

func (h *Handlers) applyVote(w http.ResponseWriter, r *http.Request, vote func(*http.Request, bool) error) {
	rw := NewResponseWriter(w, r)

	var req voteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	err := vote(r, req.Direction == "up")
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("Not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(map[string]string{"direction": req.Direction})
}

// createCommentRequest is the POST body for comments.
type createCommentRequest struct {
	Content  string `json:"content" validate:"required,max=5000"`
	ParentID string `json:"parentId" validate:"omitempty,uuid"`
}

// CreateComment adds a comment to a post.
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	author, ok := h.ownProfile(rw, r)
	if !ok {
		return
	}

	postID := chi.URLParam(r, "id")
	if _, err := h.db.GetPost(r.Context(), postID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("Post not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	var req createCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  author.ID,
		Content:   req.Content,
		ParentID:  req.ParentID,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.db.CreateComment(r.Context(), comment); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Created(comment)
}

// ForumTags returns the distinct sorted tag vocabulary of the loaded posts.
func (h *Handlers) ForumTags(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	posts, err := h.db.ListPosts(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(forum.TagVocabulary(posts))
}
