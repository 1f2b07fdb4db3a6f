package entity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// PostType represents the kind of post
type PostType string

const (
	PostTypeText  PostType = "TEXT"
	PostTypeLink  PostType = "LINK"
	PostTypeImage PostType = "IMAGE"
)

// Limits enforced by the posts API
const (
	MaxTitleLength     = 300
	MaxContentLength   = 40000
	MaxURLLength       = 2048
	MaxCommunityLength = 50
	MaxFlairLength     = 64
)

var urlPattern = regexp.MustCompile(`^https?://`)

// Post is a post held by the stub API
type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	URL            string    `json:"url,omitempty"`
	ImageURLs      []string  `json:"imageUrls"`
	PostType       PostType  `json:"postType"`
	AuthorUsername string    `json:"authorUsername"`
	SubName        string    `json:"subName"`
	Flair          string    `json:"flair,omitempty"`
	VoteCount      int       `json:"voteCount"`
	CommentCount   int       `json:"commentCount"`
	NSFW           bool      `json:"nsfw"`
	Spoiler        bool      `json:"spoiler"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Validate checks the post against the API's request constraints
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(p.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if utf8.RuneCountInString(p.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	if len(p.URL) > MaxURLLength {
		return ErrURLTooLong
	}
	if p.URL != "" && !urlPattern.MatchString(p.URL) {
		return ErrInvalidURL
	}
	if strings.TrimSpace(p.SubName) == "" {
		return ErrCommunityRequired
	}
	if utf8.RuneCountInString(p.SubName) > MaxCommunityLength {
		return ErrCommunityTooLong
	}
	if utf8.RuneCountInString(p.Flair) > MaxFlairLength {
		return ErrFlairTooLong
	}
	if !IsValidPostType(p.PostType) {
		return ErrInvalidPostType
	}
	return nil
}

// IsValidPostType reports whether t is a known post type
func IsValidPostType(t PostType) bool {
	switch t {
	case PostTypeText, PostTypeLink, PostTypeImage:
		return true
	}
	return false
}
