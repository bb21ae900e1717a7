package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Review limits enforced on submission.
const (
	MinRating        = 1
	MaxRating        = 5
	MinTitleLength   = 5
	MaxTitleLength   = 100
	MinCommentLength = 10
	MaxCommentLength = 1000
	MaxImages        = 5
)

// ErrInvalidReview is matched by every ValidationError.
var ErrInvalidReview = errors.New("review is invalid")

// ValidationError lists every failing field with the message shown next to it.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "review is invalid: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidReview
}

// Review is a customer's rating of a product.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Title     string
	Comment   string
	Images    []string
	CreatedAt time.Time
}

// NewReview trims the free text and validates every field at once.
func NewReview(id, productID, userID string, rating int, title, comment string, images []string, createdAt time.Time) (*Review, error) {
	r := &Review{
		ID:        id,
		ProductID: strings.TrimSpace(productID),
		UserID:    strings.TrimSpace(userID),
		Rating:    rating,
		Title:     strings.TrimSpace(title),
		Comment:   strings.TrimSpace(comment),
		Images:    append([]string(nil), images...),
		CreatedAt: createdAt.UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate returns a *ValidationError describing all failing fields, or nil.
func (r *Review) Validate() error {
	fields := map[string]string{}
	if r.ProductID == "" {
		fields["productId"] = "Product is required"
	}
	if r.UserID == "" {
		fields["userId"] = "User is required"
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		fields["rating"] = "Please select a rating"
	}
	title := strings.TrimSpace(r.Title)
	switch titleLength := utf8.RuneCountInString(title); {
	case title == "":
		fields["title"] = "Title is required"
	case titleLength < MinTitleLength:
		fields["title"] = "Title must be at least 5 characters"
	case titleLength > MaxTitleLength:
		fields["title"] = "Title must not exceed 100 characters"
	}
	comment := strings.TrimSpace(r.Comment)
	switch commentLength := utf8.RuneCountInString(comment); {
	case comment != "" && commentLength < MinCommentLength:
		fields["comment"] = "Comment must be at least 10 characters"
	case commentLength > MaxCommentLength:
		fields["comment"] = "Comment must not exceed 1000 characters"
	}
	if len(r.Images) > MaxImages {
		fields["images"] = "Maximum 5 images allowed"
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Clone returns a deep copy.
func (r *Review) Clone() *Review {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Images = append([]string(nil), r.Images...)
	return &clone
}

var ratingLabels = [...]string{"", "Poor", "Fair", "Good", "Very Good", "Excellent!"}

// RatingLabel names a star rating; out of range values have no label.
func RatingLabel(rating int) string {
	if rating < MinRating || rating > MaxRating {
		return ""
	}
	return ratingLabels[rating]
}
