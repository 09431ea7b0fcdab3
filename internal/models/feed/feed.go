package feed

import (
	"time"

	"github.com/google/uuid"

	"volunteerHub/internal/models/volunteer"
)

// Post is a published progress report.
type Post struct {
	UUID        uuid.UUID      `json:"id" db:"uuid"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	AuthorID    uuid.UUID      `json:"authorId" db:"author_id"`
	AuthorName  string         `json:"authorName" db:"author_name"`
	AuthorRole  volunteer.Role `json:"authorRole" db:"author_role"`
	Area        string         `json:"area" db:"area"`
	City        string         `json:"city" db:"city"`
	Likes       int            `json:"likes" db:"likes"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty" db:"updated_at,omitempty"`
}

type Comment struct {
	UUID       uuid.UUID `json:"id" db:"uuid"`
	PostID     uuid.UUID `json:"postId" db:"post_id"`
	AuthorID   uuid.UUID `json:"authorId" db:"author_id"`
	AuthorName string    `json:"authorName" db:"author_name"`
	Text       string    `json:"text" db:"text"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Like records that a volunteer likes a post; one per (PostID, VolunteerID).
type Like struct {
	PostID      uuid.UUID `db:"post_id"`
	VolunteerID uuid.UUID `db:"volunteer_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// LikeResult is the state of a post after a like toggle.
type LikeResult struct {
	Liked bool
	Likes int
}

type PostWithComments struct {
	Post     *Post
	Comments []*Comment
}
