// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

// Package forum implements the listing transforms for the discussion board:
// conjunctive filtering, pinned-first sorting, and tag vocabulary derivation.
package forum

import (
	"errors"
	"sort"
	"strings"

	"github.com/pmatlas/pmatlas/internal/models"
)

// SortKey selects the secondary ordering applied after the pinned flag.
type SortKey string

// Sort keys accepted by the listing endpoint.
const (
	SortRecent    SortKey = "recent"
	SortPopular   SortKey = "popular"
	SortDiscussed SortKey = "discussed"
)

// ParseSortKey maps a query parameter to a sort key, defaulting to recent.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPopular:
		return SortPopular
	case SortDiscussed:
		return SortDiscussed
	}
	return SortRecent
}

// Filter narrows posts to those matching every supplied criterion. The query
// matches case-insensitively against title, content, or any tag; the "all"
// category and the empty tag match everything.
func Filter(posts []*models.ForumPost, query string, category models.ForumCategory, tag string) []*models.ForumPost {
	query = strings.ToLower(strings.TrimSpace(query))

	matched := make([]*models.ForumPost, 0, len(posts))
	for _, p := range posts {
		if category != "" && category != models.CategoryAll && p.Category != category {
			continue
		}
		if tag != "" && !hasTag(p.Tags, tag) {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

func matchesQuery(p *models.ForumPost, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Content), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

// Sort orders posts in place: pinned posts first for every key, then by the
// chosen secondary ordering. Ties keep their incoming order.
func Sort(posts []*models.ForumPost, key SortKey) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		switch key {
		case SortPopular:
			return a.Upvotes > b.Upvotes
		case SortDiscussed:
			return a.CommentCount() > b.CommentCount()
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

// TagVocabulary returns the distinct tags across all posts, sorted
// lexicographically. It is recomputed from the collection on every call.
func TagVocabulary(posts []*models.ForumPost) []string {
	seen := make(map[string]struct{})
	for _, p := range posts {
		for _, tag := range p.Tags {
			if tag != "" {
				seen[tag] = struct{}{}
			}
		}
	}

	vocab := make([]string, 0, len(seen))
	for tag := range seen {
		vocab = append(vocab, tag)
	}
	sort.Strings(vocab)
	return vocab
}

// ParseTags splits a comma-separated tag string, trimming whitespace and
// dropping empty entries. Order and duplicates are preserved.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Validation failures for new posts.
var (
	ErrEmptyTitle      = errors.New("post title must not be empty")
	ErrEmptyContent    = errors.New("post content must not be empty")
	ErrUnknownCategory = errors.New("post category is not recognized")
)

// ValidateNewPost checks the submitter-controlled fields of a new post.
func ValidateNewPost(p *models.ForumPost) error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(p.Content) == "" {
		return ErrEmptyContent
	}
	if !p.Category.Valid() {
		return ErrUnknownCategory
	}
	return nil
}
