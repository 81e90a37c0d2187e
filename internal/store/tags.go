package store

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/logger"
)

// DefaultTagColor is used when a tag is created without a color.
const DefaultTagColor = "#888888"

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Tag labels calculations. Names are unique, ignoring case.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *Tag) normalize() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return errors.InvalidArgumentf("tag name is empty")
	}
	if t.Color == "" {
		t.Color = DefaultTagColor
	}
	if !colorRe.MatchString(t.Color) {
		return errors.WithHint(
			errors.InvalidArgumentf("tag color %q is not #RRGGBB", t.Color),
			"use a hex color such as #3366ff",
		)
	}
	t.Color = strings.ToLower(t.Color)
	return nil
}

// CreateTag inserts t, assigning an ID and creation time.
func (s *Store) CreateTag(ctx context.Context, t *Tag) error {
	if err := t.normalize(); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tags (id, name, color, description, created_at) VALUES (?, ?, ?, ?, ?)",
		t.ID, t.Name, t.Color, t.Description, t.CreatedAt.UTC().Format(timeLayout))
	if isUniqueViolation(err) {
		return errors.Conflictf("tag %q already exists", t.Name)
	}
	if err != nil {
		return errors.Wrap(err, "insert tag")
	}
	s.log.Debugw("Created tag", logger.FieldID, t.ID, "name", t.Name)
	return nil
}

const selectTags = "SELECT id, name, color, description, created_at FROM tags"

// GetTag returns a tag by ID.
func (s *Store) GetTag(ctx context.Context, id string) (*Tag, error) {
	return s.getTag(ctx, "tag "+id, selectTags+" WHERE id = ?", id)
}

// GetTagByName returns a tag by name, ignoring case.
func (s *Store) GetTagByName(ctx context.Context, name string) (*Tag, error) {
	return s.getTag(ctx, "tag "+name, selectTags+" WHERE name = ?", strings.TrimSpace(name))
}

// ResolveTag accepts either a tag ID or a tag name.
func (s *Store) ResolveTag(ctx context.Context, idOrName string) (*Tag, error) {
	t, err := s.GetTag(ctx, idOrName)
	if errors.IsNotFound(err) {
		return s.GetTagByName(ctx, idOrName)
	}
	return t, err
}

func (s *Store) getTag(ctx context.Context, what, query string, arg string) (*Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("%s", what)
	}
	return t, err
}

// ListTags returns every tag sorted by name.
func (s *Store) ListTags(ctx context.Context) ([]*Tag, error) {
	rows, err := s.db.QueryContext(ctx, selectTags+" ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "list tags")
	}
	defer rows.Close()

	var out []*Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, errors.Wrap(rows.Err(), "iterate tags")
}

// UpdateTag replaces name, color and description of an existing tag.
func (s *Store) UpdateTag(ctx context.Context, t *Tag) error {
	if err := t.normalize(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE tags SET name = ?, color = ?, description = ? WHERE id = ?",
		t.Name, t.Color, t.Description, t.ID)
	if isUniqueViolation(err) {
		return errors.Conflictf("tag %q already exists", t.Name)
	}
	if err != nil {
		return errors.Wrap(err, "update tag")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFoundf("tag %s", t.ID)
	}
	return nil
}

// DeleteTag removes a tag and its links. Calculations are kept.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	return s.execOne(ctx, "tag "+id, "DELETE FROM tags WHERE id = ?", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTag(r rowScanner) (*Tag, error) {
	var (
		t       Tag
		created string
	)
	if err := r.Scan(&t.ID, &t.Name, &t.Color, &t.Description, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, errors.Wrap(err, "scan tag")
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, errors.Wrapf(err, "parse created_at of tag %s", t.ID)
	}
	t.CreatedAt = ts
	return &t, nil
}
