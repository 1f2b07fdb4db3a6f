package entity

import "errors"

// Domain errors for posts
var (
	// Validation errors
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleTooLong      = errors.New("title must be between 1 and 300 characters")
	ErrContentTooLong    = errors.New("content must be less than 40000 characters")
	ErrURLTooLong        = errors.New("url is too long")
	ErrInvalidURL        = errors.New("invalid url format")
	ErrCommunityRequired = errors.New("community is required")
	ErrCommunityTooLong  = errors.New("community name is too long")
	ErrFlairTooLong      = errors.New("flair is too long")
	ErrInvalidPostType   = errors.New("invalid post type")

	// Lookup errors
	ErrPostNotFound = errors.New("post not found")
)

// IsValidationError reports whether err is a request validation error
func IsValidationError(err error) bool {
	for _, v := range []error{
		ErrTitleRequired, ErrTitleTooLong, ErrContentTooLong, ErrURLTooLong,
		ErrInvalidURL, ErrCommunityRequired, ErrCommunityTooLong, ErrFlairTooLong,
		ErrInvalidPostType,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
