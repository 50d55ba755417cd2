// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package models

import "time"

// ResourceCategory classifies curated resources.
type ResourceCategory string

// Resource categories.
const (
	ResourceInterviewPrep ResourceCategory = "interview-prep"
	ResourceCourses       ResourceCategory = "courses"
	ResourceCommunities   ResourceCategory = "communities"
	ResourceTools         ResourceCategory = "tools"
	ResourceContent       ResourceCategory = "content"
	ResourceTemplates     ResourceCategory = "templates"
)

// Valid reports whether c is a known resource category.
func (c ResourceCategory) Valid() bool {
	switch c {
	case ResourceInterviewPrep, ResourceCourses, ResourceCommunities,
		ResourceTools, ResourceContent, ResourceTemplates:
		return true
	}
	return false
}

// ResourceType is the medium of a curated resource.
type ResourceType string

// Resource types.
const (
	ResourceArticle  ResourceType = "article"
	ResourceVideo    ResourceType = "video"
	ResourceCourse   ResourceType = "course"
	ResourceTool     ResourceType = "tool"
	ResourceTemplate ResourceType = "template"
	ResourceBook     ResourceType = "book"
	ResourcePodcast  ResourceType = "podcast"
)

// Valid reports whether t is a known resource type.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceArticle, ResourceVideo, ResourceCourse, ResourceTool,
		ResourceTemplate, ResourceBook, ResourcePodcast:
		return true
	}
	return false
}

// Resource is a curated community resource (course, article, tool, ...).
type Resource struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	URL         string           `json:"url"`
	Category    ResourceCategory `json:"category"`
	Type        ResourceType     `json:"type"`
	SubmittedBy string           `json:"submittedBy"`
	Rating      float64          `json:"rating"`
	ReviewCount int              `json:"reviewCount"`
	Tags        []string         `json:"tags"`
	IsVerified  bool             `json:"isVerified"`
	CreatedAt   time.Time        `json:"createdAt"`
}
