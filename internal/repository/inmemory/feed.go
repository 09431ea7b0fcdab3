package inmemory

import (
	"context"

	"github.com/google/uuid"

	"volunteerHub/internal/models/feed"
	repo "volunteerHub/internal/repository"
)

func (s *Storage) CreatePost(ctx context.Context, post *feed.Post) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.posts[post.UUID]; exists {
		return repo.ErrDuplicate
	}

	post.CreatedAt = s.now()
	post.Likes = 0
	stored := *post
	s.posts[post.UUID] = &stored
	s.postIDs = append(s.postIDs, post.UUID)
	return nil
}

func (s *Storage) GetPostByID(ctx context.Context, id uuid.UUID) (*feed.Post, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	stored := *post
	return &stored, nil
}

// newest first
func (s *Storage) ListPosts(ctx context.Context) ([]*feed.Post, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*feed.Post, 0, len(s.postIDs))
	for i := len(s.postIDs) - 1; i >= 0; i-- {
		stored := *s.posts[s.postIDs[i]]
		res = append(res, &stored)
	}
	return res, nil
}

func (s *Storage) CreateComment(ctx context.Context, comment *feed.Comment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return repo.ErrNotFound
	}

	comment.CreatedAt = s.now()
	stored := *comment
	s.comments[comment.PostID] = append(s.comments[comment.PostID], &stored)
	return nil
}

// oldest first
func (s *Storage) ListComments(ctx context.Context, postID uuid.UUID) ([]*feed.Comment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*feed.Comment, 0, len(s.comments[postID]))
	for _, c := range s.comments[postID] {
		stored := *c
		res = append(res, &stored)
	}
	return res, nil
}

// ToggleLike removes the volunteer's like if present, otherwise adds it, and moves
// the post's counter by one in the same critical section.
func (s *Storage) ToggleLike(ctx context.Context, postID, volunteerID uuid.UUID) (feed.LikeResult, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return feed.LikeResult{}, repo.ErrNotFound
	}

	now := s.now()
	key := likeKey{postID: postID, volunteerID: volunteerID}
	if _, liked := s.likes[key]; liked {
		delete(s.likes, key)
		if post.Likes > 0 {
			post.Likes--
		}
		post.UpdatedAt = &now
		return feed.LikeResult{Liked: false, Likes: post.Likes}, nil
	}

	s.likes[key] = now
	post.Likes++
	post.UpdatedAt = &now
	return feed.LikeResult{Liked: true, Likes: post.Likes}, nil
}

// RecountLikes rewrites every counter that disagrees with the like records and
// returns how many posts were fixed.
func (s *Storage) RecountLikes(ctx context.Context) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	counts := make(map[uuid.UUID]int, len(s.posts))
	for key := range s.likes {
		counts[key.postID]++
	}

	fixed := 0
	now := s.now()
	for id, post := range s.posts {
		if post.Likes == counts[id] {
			continue
		}
		post.Likes = counts[id]
		post.UpdatedAt = &now
		fixed++
	}
	return fixed, nil
}
