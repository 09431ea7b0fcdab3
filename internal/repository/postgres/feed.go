package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/feed"
)

const postColumns = `uuid, title, description, author_id, author_name, author_role, area, city,
	likes, created_at, updated_at`

func scanPost(row pgx.Row) (*feed.Post, error) {
	p := &feed.Post{}
	err := row.Scan(
		&p.UUID,
		&p.Title,
		&p.Description,
		&p.AuthorID,
		&p.AuthorName,
		&p.AuthorRole,
		&p.Area,
		&p.City,
		&p.Likes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Storage) CreatePost(ctx context.Context, p *feed.Post) error {
	query := `INSERT INTO progress_reports
				(uuid, title, description, author_id, author_name, author_role, area, city)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING likes, created_at`

	err := s.pool.QueryRow(ctx, query,
		p.UUID,
		p.Title,
		p.Description,
		p.AuthorID,
		p.AuthorName,
		p.AuthorRole,
		p.Area,
		p.City,
	).Scan(&p.Likes, &p.CreatedAt)
	if err != nil {
		err = mapError(err)
		logger.Error("Repository: failed to insert post", err)
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *Storage) GetPostByID(ctx context.Context, id uuid.UUID) (*feed.Post, error) {
	query := `SELECT ` + postColumns + ` FROM progress_reports WHERE uuid = $1`

	p, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, mapError(err))
	}
	return p, nil
}

func (s *Storage) ListPosts(ctx context.Context) ([]*feed.Post, error) {
	start := time.Now()
	defer warnIfSlow("list_posts", start)

	query := `SELECT ` + postColumns + ` FROM progress_reports ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: failed to query posts", err)
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []*feed.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func (s *Storage) CreateComment(ctx context.Context, c *feed.Comment) error {
	query := `INSERT INTO comments (uuid, post_id, author_id, author_name, text)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at`

	err := s.pool.QueryRow(ctx, query, c.UUID, c.PostID, c.AuthorID, c.AuthorName, c.Text).Scan(&c.CreatedAt)
	if err != nil {
		err = mapError(err)
		logger.Error("Repository: failed to insert comment", err)
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *Storage) ListComments(ctx context.Context, postID uuid.UUID) ([]*feed.Comment, error) {
	query := `SELECT uuid, post_id, author_id, author_name, text, created_at
			FROM comments
			WHERE post_id = $1
			ORDER BY created_at ASC, uuid`

	rows, err := s.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*feed.Comment, error) {
		c := &feed.Comment{}
		err := row.Scan(&c.UUID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect comments: %w", err)
	}
	return comments, nil
}

// ToggleLike deletes the caller's like if one exists, otherwise inserts it. The
// counter only moves for a row this transaction actually deleted or inserted: when
// two identical toggles race from the unliked state, the second insert hits the
// primary key and leaves the first one's like in place.
func (s *Storage) ToggleLike(ctx context.Context, postID, volunteerID uuid.UUID) (feed.LikeResult, error) {
	start := time.Now()
	defer warnIfSlow("toggle_like", start)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return feed.LikeResult{}, fmt.Errorf("begin toggle like: %w", err)
	}
	defer tx.Rollback(ctx)

	result := feed.LikeResult{}

	deleted, err := tx.Exec(ctx,
		`DELETE FROM likes WHERE post_id = $1 AND volunteer_id = $2`,
		postID, volunteerID)
	if err != nil {
		return feed.LikeResult{}, fmt.Errorf("delete like: %w", err)
	}

	if deleted.RowsAffected() == 1 {
		err = tx.QueryRow(ctx,
			`UPDATE progress_reports
				SET likes = GREATEST(likes - 1, 0), updated_at = NOW()
			WHERE uuid = $1
			RETURNING likes`, postID).Scan(&result.Likes)
		result.Liked = false
	} else {
		inserted, insertErr := tx.Exec(ctx,
			`INSERT INTO likes (post_id, volunteer_id)
			VALUES ($1, $2)
			ON CONFLICT (post_id, volunteer_id) DO NOTHING`,
			postID, volunteerID)
		if insertErr != nil {
			return feed.LikeResult{}, fmt.Errorf("insert like: %w", mapError(insertErr))
		}

		result.Liked = true
		if inserted.RowsAffected() == 1 {
			err = tx.QueryRow(ctx,
				`UPDATE progress_reports
					SET likes = likes + 1, updated_at = NOW()
				WHERE uuid = $1
				RETURNING likes`, postID).Scan(&result.Likes)
		} else {
			logger.Info("Repository: concurrent like collapsed",
				zap.String("post_id", postID.String()),
				zap.String("volunteer_id", volunteerID.String()))
			err = tx.QueryRow(ctx, `SELECT likes FROM progress_reports WHERE uuid = $1`, postID).Scan(&result.Likes)
		}
	}
	if err != nil {
		return feed.LikeResult{}, fmt.Errorf("update like counter: %w", mapError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return feed.LikeResult{}, fmt.Errorf("commit toggle like: %w", err)
	}
	return result, nil
}

// RecountLikes first locks every post whose counter disagrees with its like
// records, then recounts those posts in a second statement. The second statement
// sees toggles that committed while the locks were being taken; toggles still
// running wait for the locks and apply their change on top of the recount.
func (s *Storage) RecountLikes(ctx context.Context) (int, error) {
	start := time.Now()
	defer warnIfSlow("recount_likes", start)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin recount likes: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT p.uuid
		FROM progress_reports p
		WHERE p.likes <> (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.uuid)
		FOR UPDATE OF p`)
	if err != nil {
		logger.Error("Repository: failed to lock drifted posts", err)
		return 0, fmt.Errorf("lock drifted posts: %w", err)
	}
	drifted, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return 0, fmt.Errorf("collect drifted posts: %w", err)
	}
	if len(drifted) == 0 {
		return 0, nil
	}

	tag, err := tx.Exec(ctx,
		`UPDATE progress_reports p
			SET likes = c.actual, updated_at = NOW()
		FROM (
			SELECT r.uuid, COUNT(l.post_id)::int AS actual
			FROM progress_reports r
			LEFT JOIN likes l ON l.post_id = r.uuid
			WHERE r.uuid = ANY($1)
			GROUP BY r.uuid
		) c
		WHERE p.uuid = c.uuid AND p.likes <> c.actual`, drifted)
	if err != nil {
		logger.Error("Repository: failed to recount likes", err)
		return 0, fmt.Errorf("recount likes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit recount likes: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
