package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vadim/nested-seeder/internal/domain/post/entity"
)

// Service keeps posts in memory for the stub API
type Service struct {
	mu    sync.RWMutex
	posts map[string]*entity.Post
	now   func() time.Time
}

// New creates an empty post service
func New() *Service {
	return &Service{
		posts: make(map[string]*entity.Post),
		now:   time.Now,
	}
}

// CreateInput represents input for creating a post
type CreateInput struct {
	Title     string
	Content   string
	URL       string
	SubName   string
	PostType  entity.PostType
	Flair     string
	NSFW      bool
	Spoiler   bool
	ImageURLs []string
	Author    string
}

// CreatePost validates and stores a new post
func (s *Service) CreatePost(ctx context.Context, in CreateInput) (*entity.Post, error) {
	postType := in.PostType
	if postType == "" {
		postType = entity.PostTypeText
	}

	imageURLs := in.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	post := &entity.Post{
		ID:             uuid.New().String(),
		Title:          in.Title,
		Content:        in.Content,
		URL:            in.URL,
		ImageURLs:      imageURLs,
		PostType:       postType,
		AuthorUsername: in.Author,
		SubName:        in.SubName,
		Flair:          in.Flair,
		NSFW:           in.NSFW,
		Spoiler:        in.Spoiler,
		CreatedAt:      s.now().UTC(),
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.posts[post.ID] = post
	s.mu.Unlock()

	return post, nil
}

// GetPost returns a post by ID
func (s *Service) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, entity.ErrPostNotFound
	}
	return post, nil
}

// ListFilter narrows ListPosts
type ListFilter struct {
	SubName string // case-insensitive; empty matches all
	Limit   int    // 0 means no limit
	Offset  int
}

// ListPosts returns posts newest first
func (s *Service) ListPosts(ctx context.Context, f ListFilter) ([]entity.Post, int) {
	s.mu.RLock()
	posts := make([]entity.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if f.SubName != "" && !strings.EqualFold(p.SubName, f.SubName) {
			continue
		}
		posts = append(posts, *p)
	}
	s.mu.RUnlock()

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	total := len(posts)
	if f.Offset > 0 {
		if f.Offset >= len(posts) {
			return []entity.Post{}, total
		}
		posts = posts[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(posts) {
		posts = posts[:f.Limit]
	}

	return posts, total
}

// Count returns the number of stored posts
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}
