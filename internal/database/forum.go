// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pmatlas/pmatlas/internal/metrics"
	"github.com/pmatlas/pmatlas/internal/models"
)

const postColumns = `p.id, p.author_id, p.title, p.content, p.category, p.tags,
	p.upvotes, p.downvotes, p.view_count, p.is_pinned, p.is_locked,
	p.created_at, p.updated_at,
	a.name, a.avatar, a.experience, a.pm_focus`

// scanPost reads a post row joined with its author profile.
func scanPost(row rowScanner) (*models.ForumPost, error) {
	var (
		post           models.ForumPost
		tagsRaw        string
		authorName     sql.NullString
		authorAvatar   sql.NullString
		authorExp      sql.NullString
		authorFocusRaw sql.NullString
	)

	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Content, &post.Category, &tagsRaw,
		&post.Upvotes, &post.Downvotes, &post.ViewCount, &post.IsPinned, &post.IsLocked,
		&post.CreatedAt, &post.UpdatedAt,
		&authorName, &authorAvatar, &authorExp, &authorFocusRaw,
	)
	if err != nil {
		return nil, err
	}

	if post.Tags, err = decodeList[string](tagsRaw); err != nil {
		return nil, err
	}
	post.Comments = []models.Comment{}

	if authorName.Valid {
		author := &models.PostAuthor{
			Name:       authorName.String,
			Avatar:     authorAvatar.String,
			Experience: models.Experience(authorExp.String),
		}
		if authorFocusRaw.Valid {
			if author.PMFocus, err = decodeList[models.Focus](authorFocusRaw.String); err != nil {
				return nil, err
			}
		}
		post.Author = author
	}

	return &post, nil
}

// CreatePost stores a new forum post.
func (db *DB) CreatePost(ctx context.Context, post *models.ForumPost) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tagsRaw, err := encodeList(post.Tags)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `INSERT INTO forum_posts (
		id, author_id, title, content, category, tags,
		upvotes, downvotes, view_count, is_pinned, is_locked, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.AuthorID, post.Title, post.Content, string(post.Category), tagsRaw,
		post.Upvotes, post.Downvotes, post.ViewCount, post.IsPinned, post.IsLocked,
		post.CreatedAt, post.UpdatedAt,
	)
	metrics.RecordDBQuery("insert", "forum_posts", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// ListPosts returns all posts with their authors and comment trees.
// Filtering and ordering are applied in the forum engine, not in SQL.
func (db *DB) ListPosts(ctx context.Context) ([]*models.ForumPost, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	query := fmt.Sprintf(`SELECT %s FROM forum_posts p
		LEFT JOIN profiles a ON a.id = p.author_id`, postColumns)

	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("list", "forum_posts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer closeQuietly(rows)

	var posts []*models.ForumPost
	var ids []string
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
		ids = append(ids, post.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	if err := db.attachComments(ctx, posts, ids); err != nil {
		return nil, err
	}

	return posts, nil
}

// GetPost returns a single post with its author and comments.
// Returns ErrNotFound when the post does not exist.
func (db *DB) GetPost(ctx context.Context, id string) (*models.ForumPost, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM forum_posts p
		LEFT JOIN profiles a ON a.id = p.author_id
		WHERE p.id = ?`, postColumns)

	post, err := scanPost(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if err := db.attachComments(ctx, []*models.ForumPost{post}, []string{post.ID}); err != nil {
		return nil, err
	}

	return post, nil
}

// attachComments loads comments for the given post IDs in a single query and
// distributes them onto the posts in creation order.
func (db *DB) attachComments(ctx context.Context, posts []*models.ForumPost, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders, args := buildInClause(ids)
	query := fmt.Sprintf(`SELECT id, post_id, author_id, parent_id, content,
		upvotes, downvotes, created_at
		FROM forum_comments
		WHERE post_id IN (%s)
		ORDER BY created_at`, placeholders)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query comments: %w", err)
	}
	defer closeQuietly(rows)

	byPost := make(map[string][]models.Comment, len(ids))
	for rows.Next() {
		var c models.Comment
		var parentID sql.NullString
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &parentID, &c.Content,
			&c.Upvotes, &c.Downvotes, &c.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		c.ParentID = parentID.String
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating comments: %w", err)
	}

	for _, post := range posts {
		if comments, ok := byPost[post.ID]; ok {
			post.Comments = comments
		}
	}

	return nil
}

// CreateComment stores a new comment on a post.
func (db *DB) CreateComment(ctx context.Context, c *models.Comment) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `INSERT INTO forum_comments (
		id, post_id, author_id, parent_id, content, upvotes, downvotes, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.AuthorID, nullableString(c.ParentID), c.Content,
		c.Upvotes, c.Downvotes, c.CreatedAt,
	)
	metrics.RecordDBQuery("insert", "forum_comments", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// VotePost applies a single vote to a post as an atomic in-place increment.
// Returns ErrNotFound when the post does not exist.
func (db *DB) VotePost(ctx context.Context, id string, up bool) error {
	return db.applyVote(ctx, "forum_posts", id, up)
}

// VoteComment applies a single vote to a comment as an atomic in-place increment.
// Returns ErrNotFound when the comment does not exist.
func (db *DB) VoteComment(ctx context.Context, id string, up bool) error {
	return db.applyVote(ctx, "forum_comments", id, up)
}

func (db *DB) applyVote(ctx context.Context, table, id string, up bool) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	column := "downvotes"
	if up {
		column = "upvotes"
	}

	start := time.Now()
	res, err := db.execWithRetry(ctx,
		fmt.Sprintf("UPDATE %s SET %s = %s + 1 WHERE id = ?", table, column, column), id)
	metrics.RecordDBQuery("vote", table, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to apply vote: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read vote result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps a post's view counter.
func (db *DB) IncrementViewCount(ctx context.Context, id string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.execWithRetry(ctx,
		"UPDATE forum_posts SET view_count = view_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}

// buildInClause builds a parameterized IN clause for the given items.
func buildInClause(items []string) (string, []interface{}) {
	placeholders := make([]string, len(items))
	args := make([]interface{}, len(items))
	for i, item := range items {
		placeholders[i] = "?"
		args[i] = item
	}
	return strings.Join(placeholders, ","), args
}
