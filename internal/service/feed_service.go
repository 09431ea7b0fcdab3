package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/feed"
	"volunteerHub/internal/models/volunteer"
	repo "volunteerHub/internal/repository"
)

const commentLoaders = 8

type CreatePostInput struct {
	Title       string
	Description string
	Area        string
	City        string
}

type FeedService struct {
	repo FeedRepository

	// toggles in flight, keyed by post and volunteer
	toggles singleflight.Group
}

func NewFeedService(repo FeedRepository) *FeedService {
	return &FeedService{repo: repo}
}

// Feed returns posts newest first with their comments oldest first. A post whose
// comments cannot be loaded is returned with none.
func (s *FeedService) Feed(ctx context.Context) ([]feed.PostWithComments, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	result := make([]feed.PostWithComments, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(commentLoaders)

	for i, post := range posts {
		result[i].Post = post
		g.Go(func() error {
			comments, err := s.repo.ListComments(gctx, post.UUID)
			if err != nil {
				logger.Warn("Service: failed to load comments",
					zap.String("post_id", post.UUID.String()),
					zap.Error(err))
				comments = []*feed.Comment{}
			}
			result[i].Comments = comments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	return result, nil
}

func (s *FeedService) CreatePost(ctx context.Context, caller volunteer.Caller, in CreatePostInput) (uuid.UUID, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" {
		return uuid.Nil, NewValidationError("title", "must not be empty")
	}
	if description == "" {
		return uuid.Nil, NewValidationError("description", "must not be empty")
	}

	post := &feed.Post{
		UUID:        uuid.New(),
		Title:       title,
		Description: description,
		AuthorID:    caller.UUID,
		AuthorName:  caller.Name,
		AuthorRole:  caller.Role,
		Area:        strings.TrimSpace(in.Area),
		City:        strings.TrimSpace(in.City),
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return uuid.Nil, fmt.Errorf("create post: %w", err)
	}

	logger.Info("Service: post published", zap.String("post_id", post.UUID.String()))
	return post.UUID, nil
}

func parsePostID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, NewValidationError("postId", "must not be empty")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NewValidationError("postId", "malformed id")
	}
	return id, nil
}

func (s *FeedService) ToggleLike(ctx context.Context, caller volunteer.Caller, rawPostID string) (feed.LikeResult, error) {
	postID, err := parsePostID(rawPostID)
	if err != nil {
		return feed.LikeResult{}, err
	}

	result, shared, err := s.toggle(ctx, postID, caller.UUID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return feed.LikeResult{}, NewValidationError("postId", "unknown post")
		}
		return feed.LikeResult{}, fmt.Errorf("toggle like: %w", err)
	}

	logger.Info("Service: like toggled",
		zap.String("post_id", postID.String()),
		zap.Bool("liked", result.Liked),
		zap.Int("likes", result.Likes),
		zap.Bool("shared", shared))
	return result, nil
}

// toggle runs at most one toggle per (post, volunteer) at a time. Callers that
// arrive while one is running get its result instead of flipping the like back.
// The storage call outlives a caller that gives up waiting, so the others still
// receive a result.
func (s *FeedService) toggle(ctx context.Context, postID, volunteerID uuid.UUID) (feed.LikeResult, bool, error) {
	key := postID.String() + "/" + volunteerID.String()
	ch := s.toggles.DoChan(key, func() (any, error) {
		return s.repo.ToggleLike(context.WithoutCancel(ctx), postID, volunteerID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return feed.LikeResult{}, res.Shared, res.Err
		}
		return res.Val.(feed.LikeResult), res.Shared, nil
	case <-ctx.Done():
		return feed.LikeResult{}, false, ctx.Err()
	}
}

func (s *FeedService) AddComment(ctx context.Context, caller volunteer.Caller, rawPostID, text string) error {
	postID, err := parsePostID(rawPostID)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return NewValidationError("text", "must not be empty")
	}

	comment := &feed.Comment{
		UUID:       uuid.New(),
		PostID:     postID,
		AuthorID:   caller.UUID,
		AuthorName: caller.Name,
		Text:       text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound(ResourcePost, postID.String())
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}
