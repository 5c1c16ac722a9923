package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/neuralhub/neuralhub-go/internal/model"
)

const contentColumns = `id, user_id, title, type, source, content, tags, conversation,
	image_url, code_language, is_public, created_at, updated_at`

// ContentRepository is the MySQL implementation of ContentStore. Listings are
// returned in insertion order.
type ContentRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db, now: time.Now}
}

func (r *ContentRepository) Create(ctx context.Context, userID string, f model.ContentFields) (*model.ContentItem, error) {
	item := newContentRecord(uuid.NewString(), userID, f, r.now().UTC())

	tags, conversation, err := marshalContentDocs(item)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO content_items (id, user_id, title, type, source, content, tags,
		conversation, image_url, code_language, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.Title, item.Type, item.Source, item.Content, tags,
		conversation, item.ImageURL, item.CodeLanguage, item.IsPublic, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert content: %w", err)
	}
	return item, nil
}

func (r *ContentRepository) ListByUser(ctx context.Context, userID string) ([]model.ContentItem, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID)
}

func (r *ContentRepository) ListPublic(ctx context.Context) ([]model.ContentItem, error) {
	return r.list(ctx, `WHERE is_public = TRUE`)
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (*model.ContentItem, error) {
	return scanContent(r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM content_items WHERE id = ?`, id))
}

func (r *ContentRepository) Update(ctx context.Context, id string, p model.ContentPatch) (*model.ContentItem, error) {
	var item *model.ContentItem
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		item, err = scanContent(tx.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM content_items WHERE id = ? FOR UPDATE`, id))
		if err != nil {
			return err
		}

		p.Apply(item)
		item.UpdatedAt = r.now().UTC()

		tags, conversation, err := marshalContentDocs(item)
		if err != nil {
			return err
		}

		query := `UPDATE content_items SET title = ?, type = ?, source = ?, content = ?, tags = ?,
			conversation = ?, image_url = ?, code_language = ?, is_public = ?, updated_at = ?
			WHERE id = ?`
		_, err = tx.ExecContext(ctx, query,
			item.Title, item.Type, item.Source, item.Content, tags,
			conversation, item.ImageURL, item.CodeLanguage, item.IsPublic, item.UpdatedAt,
			item.ID,
		)
		if err != nil {
			return fmt.Errorf("update content: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ContentRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete content: %w", err)
	}
	return n > 0, nil
}

func (r *ContentRepository) list(ctx context.Context, where string, args ...any) ([]model.ContentItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contentColumns+` FROM content_items `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	out := make([]model.ContentItem, 0)
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return out, nil
}

func scanContent(row rowScanner) (*model.ContentItem, error) {
	var (
		c                  model.ContentItem
		content, imageURL  sql.NullString
		codeLanguage       sql.NullString
		tags, conversation []byte
	)
	err := row.Scan(
		&c.ID, &c.UserID, &c.Title, &c.Type, &c.Source, &content, &tags, &conversation,
		&imageURL, &codeLanguage, &c.IsPublic, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("scan content: %w", err)
	}

	c.Content = content.String
	c.ImageURL = imageURL.String
	c.CodeLanguage = codeLanguage.String

	if err := json.Unmarshal(tags, &c.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if len(conversation) > 0 {
		if err := json.Unmarshal(conversation, &c.Conversation); err != nil {
			return nil, fmt.Errorf("decode conversation: %w", err)
		}
	}
	return &c, nil
}

func marshalContentDocs(c *model.ContentItem) (tags, conversation []byte, err error) {
	if tags, err = json.Marshal(c.Tags); err != nil {
		return nil, nil, fmt.Errorf("encode tags: %w", err)
	}
	if c.Conversation == nil {
		return tags, nil, nil
	}
	if conversation, err = json.Marshal(c.Conversation); err != nil {
		return nil, nil, fmt.Errorf("encode conversation: %w", err)
	}
	return tags, conversation, nil
}
