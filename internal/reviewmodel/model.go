// Package reviewmodel reads product reviews from the WordPress comment
// store. It is the single source of truth for review data; everything
// downstream works on the ReviewContext it produces.
package reviewmodel

import (
	"context"
	"strconv"
	"strings"

	"github.com/reviewreply/pkg/models"
)

// ratingMetaKey is the WooCommerce comment-meta key holding the star
// rating.
const ratingMetaKey = "rating"

// Comment is a raw row from the comment store.
type Comment struct {
	ID      int64
	PostID  int64
	Author  string
	Content string
	Type    string
}

// Store is the read-only review/product datastore consumed by the model.
// Implementations return (nil, nil) or empty strings for absent rows.
type Store interface {
	FindComment(ctx context.Context, id int64) (*Comment, error)
	FindCommentMeta(ctx context.Context, id int64, key string) (string, error)
	FindPostTitle(ctx context.Context, id int64) (string, error)
	FindPostExcerpt(ctx context.Context, id int64) (string, error)
}

// Model builds ReviewContext values from the store.
type Model struct {
	store Store
}

// New creates a review Model.
func New(store Store) *Model {
	return &Model{store: store}
}

// GetByID fetches the review context for a comment. It fails with an
// InvalidReviewError when the comment does not exist, is not a product
// review, has an empty body, or carries no rating.
func (m *Model) GetByID(ctx context.Context, commentID int64) (models.ReviewContext, error) {
	comment, err := m.store.FindComment(ctx, commentID)
	if err != nil {
		return models.ReviewContext{}, err
	}
	if comment == nil || comment.Type != "review" {
		return models.ReviewContext{}, models.NewInvalidReview("comment %d is not a product review", commentID)
	}

	if strings.TrimSpace(comment.Content) == "" {
		return models.ReviewContext{}, models.NewInvalidReview("review is missing a comment")
	}

	rawRating, err := m.store.FindCommentMeta(ctx, commentID, ratingMetaKey)
	if err != nil {
		return models.ReviewContext{}, err
	}
	if rawRating == "" {
		return models.ReviewContext{}, models.NewInvalidReview("review is missing a rating")
	}
	rating, _ := strconv.Atoi(rawRating)

	productName, err := m.store.FindPostTitle(ctx, comment.PostID)
	if err != nil {
		return models.ReviewContext{}, err
	}

	productDescription, err := m.store.FindPostExcerpt(ctx, comment.PostID)
	if err != nil {
		return models.ReviewContext{}, err
	}

	return models.ReviewContext{
		CommentID:          comment.ID,
		ProductID:          comment.PostID,
		ProductName:        productName,
		ProductDescription: productDescription,
		Rating:             rating,
		Comment:            comment.Content,
		Author:             comment.Author,
	}, nil
}
