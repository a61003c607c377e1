package reviewmodel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// SQLStore reads reviews from the WordPress tables (wp_comments,
// wp_commentmeta, wp_posts) over database/sql. Read-only: the plugin's
// native store owns all writes.
type SQLStore struct {
	db     *sql.DB
	prefix string
}

// NewDB opens and pings the WordPress database.
func NewDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return db, nil
}

// NewSQLStore creates a store over db with the given table prefix
// (usually "wp_").
func NewSQLStore(db *sql.DB, tablePrefix string) *SQLStore {
	if tablePrefix == "" {
		tablePrefix = "wp_"
	}
	return &SQLStore{db: db, prefix: tablePrefix}
}

// FindComment returns the comment row, or nil when it does not exist.
func (s *SQLStore) FindComment(ctx context.Context, id int64) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT comment_ID, comment_post_ID, comment_author, comment_content, comment_type
		FROM %scomments
		WHERE comment_ID = $1
	`, s.prefix)

	var c Comment
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.PostID, &c.Author, &c.Content, &c.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment %d: %w", id, err)
	}

	return &c, nil
}

// FindCommentMeta returns the meta value for key, or "" when absent.
func (s *SQLStore) FindCommentMeta(ctx context.Context, id int64, key string) (string, error) {
	query := fmt.Sprintf(`
		SELECT meta_value
		FROM %scommentmeta
		WHERE comment_id = $1 AND meta_key = $2
		LIMIT 1
	`, s.prefix)

	var value string
	err := s.db.QueryRowContext(ctx, query, id, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find comment meta %d/%s: %w", id, key, err)
	}

	return value, nil
}

// FindPostTitle returns the product title, or "" when the post is missing.
func (s *SQLStore) FindPostTitle(ctx context.Context, id int64) (string, error) {
	query := fmt.Sprintf(`SELECT post_title FROM %sposts WHERE ID = $1`, s.prefix)

	var title string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find post title %d: %w", id, err)
	}

	return title, nil
}

// FindPostExcerpt returns the product's short description, falling back to
// the full description when the excerpt is empty.
func (s *SQLStore) FindPostExcerpt(ctx context.Context, id int64) (string, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(NULLIF(post_excerpt, ''), post_content)
		FROM %sposts
		WHERE ID = $1
	`, s.prefix)

	var excerpt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&excerpt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find post excerpt %d: %w", id, err)
	}

	return excerpt, nil
}
