// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package models

import "time"

// ForumCategory is a closed enumeration of discussion categories.
type ForumCategory string

// Forum categories. CategoryAll is the filter sentinel accepted by the
// listing endpoint; it is never stored on a post.
const (
	CategoryAll             ForumCategory = "all"
	CategoryJobMarket       ForumCategory = "job-market"
	CategoryInterviewPrep   ForumCategory = "interview-prep"
	CategoryCareerGrowth    ForumCategory = "career-growth"
	CategoryProductStrategy ForumCategory = "product-strategy"
	CategoryIndustryNews    ForumCategory = "industry-news"
	CategoryGeneral         ForumCategory = "general"
)

// Valid reports whether c is a storable category (the "all" sentinel is not).
func (c ForumCategory) Valid() bool {
	switch c {
	case CategoryJobMarket, CategoryInterviewPrep, CategoryCareerGrowth,
		CategoryProductStrategy, CategoryIndustryNews, CategoryGeneral:
		return true
	}
	return false
}

// Comment is a reply on a forum post. ParentID links nested replies.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	ParentID  string    `json:"parentId,omitempty"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostAuthor is the embedded author summary attached to posts and comments.
type PostAuthor struct {
	Name       string     `json:"name"`
	Avatar     string     `json:"avatar,omitempty"`
	Experience Experience `json:"experience,omitempty"`
	PMFocus    []Focus    `json:"pmFocus,omitempty"`
}

// ForumPost is a discussion thread. Pinned posts sort before all others
// regardless of the chosen sort key.
type ForumPost struct {
	ID        string        `json:"id"`
	AuthorID  string        `json:"authorId"`
	Author    *PostAuthor   `json:"author,omitempty"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Category  ForumCategory `json:"category"`
	Tags      []string      `json:"tags"`
	Upvotes   int           `json:"upvotes"`
	Downvotes int           `json:"downvotes"`
	Comments  []Comment     `json:"comments"`
	ViewCount int           `json:"viewCount"`
	IsPinned  bool          `json:"isPinned"`
	IsLocked  bool          `json:"isLocked"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// CommentCount returns the number of comments, tolerating a nil slice for
// posts loaded without their comment tree.
func (p *ForumPost) CommentCount() int {
	return len(p.Comments)
}
