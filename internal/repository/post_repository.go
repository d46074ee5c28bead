package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

// postFeedQuery joins every post with its resources and its three most
// frequent reaction types.
const postFeedQuery = `SELECT p.post_id, p.author_erp, s.first_name || ' ' || s.last_name AS author_name,
       p.body, p.visibility, p.created_at,
       (SELECT COUNT(*) FROM post_reactions c WHERE c.post_id = p.post_id) AS reactions_count,
       r.resource_id, r.resource_type, r.resource_url,
       tr.reaction_type_id, tr.reaction_name, tr.reaction_emoji, tr.reaction_count
FROM posts p
JOIN students s ON s.erp = p.author_erp
LEFT JOIN post_resources r ON r.post_id = p.post_id
LEFT JOIN LATERAL (
    SELECT rt.reaction_type_id, rt.name AS reaction_name, rt.emoji AS reaction_emoji, COUNT(*) AS reaction_count
    FROM post_reactions pr
    JOIN reaction_types rt ON rt.reaction_type_id = pr.reaction_type_id
    WHERE pr.post_id = p.post_id
    GROUP BY rt.reaction_type_id, rt.name, rt.emoji
    ORDER BY reaction_count DESC, rt.reaction_type_id
    LIMIT 3
) tr ON TRUE`

const postFeedOrder = ` ORDER BY p.created_at DESC, p.post_id DESC, r.resource_id, tr.reaction_count DESC, tr.reaction_type_id`

// PostRepository reads the joined post feed and writes posts with resources.
type PostRepository struct {
	gw        *database.Gateway
	posts     *Table[models.Post]
	resources *Table[models.PostResource]
}

// NewPostRepository constructs the repository.
func NewPostRepository(gw *database.Gateway) *PostRepository {
	return &PostRepository{
		gw:        gw,
		posts:     NewTable[models.Post](gw, "posts", "post_id"),
		resources: NewTable[models.PostResource](gw, "post_resources", "resource_id"),
	}
}

// Posts exposes the plain posts table for updates and deletes.
func (r *PostRepository) Posts() *Table[models.Post] { return r.posts }

// FeedRows returns the flat join rows for posts matching filters. Filters name
// columns of the posts table.
func (r *PostRepository) FeedRows(ctx context.Context, filters database.Columns) ([]models.PostRow, error) {
	if err := r.posts.Check(filters); err != nil {
		return nil, err
	}
	qualified := make(database.Columns, len(filters))
	for i, f := range filters {
		qualified[i] = database.Column{Name: "p." + f.Name, Value: f.Value}
	}

	var sb strings.Builder
	sb.WriteString(postFeedQuery)
	clause, args := database.Where(qualified, 1)
	if clause != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(clause)
	}
	sb.WriteString(postFeedOrder)

	var rows []models.PostRow
	if err := r.gw.Select(ctx, nil, &rows, sb.String(), args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no posts found")
	}
	return rows, nil
}

// CreateWithResources inserts a post and its attachments in one transaction
// and returns the new post id.
func (r *PostRepository) CreateWithResources(ctx context.Context, post database.Columns, resources []database.Columns) (int64, error) {
	var postID int64
	err := r.gw.WithTx(ctx, func(tx *sqlx.Tx) error {
		created, err := r.posts.Create(ctx, tx, post)
		if err != nil {
			return err
		}
		id, ok := created.GeneratedID.(int64)
		if !ok {
			return appErrors.Clone(appErrors.ErrUnexpected, "post id was not returned")
		}
		for _, res := range resources {
			if _, err := r.resources.Create(ctx, tx, res.With("post_id", id)); err != nil {
				return err
			}
		}
		postID = id
		return nil
	})
	return postID, err
}
