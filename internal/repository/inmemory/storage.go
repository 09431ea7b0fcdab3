package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/feed"
	"volunteerHub/internal/models/task"
	"volunteerHub/internal/models/volunteer"
)

type submissionKey struct {
	taskID      uuid.UUID
	volunteerID uuid.UUID
}

type likeKey struct {
	postID      uuid.UUID
	volunteerID uuid.UUID
}

// Storage keeps every collection in maps guarded by a single lock. Slices of ids
// remember insertion order, which doubles as creation order.
type Storage struct {
	mtx *sync.RWMutex
	now func() time.Time

	volunteers   map[uuid.UUID]*volunteer.Volunteer
	emails       map[string]uuid.UUID
	volunteerIDs []uuid.UUID

	tasks   map[uuid.UUID]*task.Task
	taskIDs []uuid.UUID

	submissions map[submissionKey]*task.Submission

	posts    map[uuid.UUID]*feed.Post
	postIDs  []uuid.UUID
	comments map[uuid.UUID][]*feed.Comment
	likes    map[likeKey]time.Time
}

func NewStorage() *Storage {
	return &Storage{
		mtx:         &sync.RWMutex{},
		now:         time.Now,
		volunteers:  make(map[uuid.UUID]*volunteer.Volunteer),
		emails:      make(map[string]uuid.UUID),
		tasks:       make(map[uuid.UUID]*task.Task),
		submissions: make(map[submissionKey]*task.Submission),
		posts:       make(map[uuid.UUID]*feed.Post),
		comments:    make(map[uuid.UUID][]*feed.Comment),
		likes:       make(map[likeKey]time.Time),
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: in-memory storage is healthy")
	return nil
}

func (s *Storage) Close() {}
