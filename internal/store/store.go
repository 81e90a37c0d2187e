package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/logger"
)

// Timestamps are stored fixed-width so TEXT ordering matches time ordering.
// time.Parse with RFC3339Nano reads both this layout and older rows.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CalculationResult is one saved calculation.
type CalculationResult struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Method     string    `json:"method"`
	MethodName string    `json:"method_name,omitempty"`
	Language   string    `json:"language,omitempty"`
	Result     int       `json:"result"`
	Notes      string    `json:"notes,omitempty"`
	Favorite   bool      `json:"favorite"`
	Tags       []string  `json:"tags,omitempty"` // tag IDs
	CreatedAt  time.Time `json:"created_at"`
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Method        string
	Language      string
	TagID         string
	FavoritesOnly bool
	Search        string // substring of text or notes
	Value         *int
	Limit         int
}

// Store is the SQLite-backed history and tag store.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = logger.Named("store")
	}
	db, err := OpenDB(path, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, log); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, log: log, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts c, assigning an ID and creation time when unset. Tags must
// reference existing tags.
func (s *Store) Save(ctx context.Context, c *CalculationResult) error {
	if strings.TrimSpace(c.Text) == "" {
		return errors.InvalidArgumentf("calculation text is empty")
	}
	if c.Method == "" {
		return errors.InvalidArgumentf("calculation method is empty")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin save")
	}
	defer tx.Rollback()

	if err := insertCalculation(ctx, tx, c); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit save")
	}
	s.log.Debugw("Saved calculation", logger.FieldID, c.ID, logger.FieldMethod, c.Method)
	return nil
}

func insertCalculation(ctx context.Context, tx *sql.Tx, c *CalculationResult) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO calculations (id, text, method, method_name, language, result, notes, favorite, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Text, c.Method, c.MethodName, c.Language, c.Result, c.Notes, c.Favorite,
		c.CreatedAt.UTC().Format(timeLayout))
	if isUniqueViolation(err) {
		return errors.Conflictf("calculation %s already exists", c.ID)
	}
	if err != nil {
		return errors.Wrap(err, "insert calculation")
	}
	for _, tagID := range c.Tags {
		if err := linkTag(ctx, tx, c.ID, tagID); err != nil {
			return err
		}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func linkTag(ctx context.Context, db execer, calcID, tagID string) error {
	_, err := db.ExecContext(ctx,
		"INSERT OR IGNORE INTO calculation_tags (calculation_id, tag_id) VALUES (?, ?)", calcID, tagID)
	if isForeignKeyViolation(err) {
		return errors.NotFoundf("tag %s or calculation %s", tagID, calcID)
	}
	if err != nil {
		return errors.Wrap(err, "link tag")
	}
	return nil
}

// Get returns one calculation with its tags.
func (s *Store) Get(ctx context.Context, id string) (*CalculationResult, error) {
	rows, err := s.db.QueryContext(ctx, selectCalculations+" WHERE c.id = ?", id)
	if err != nil {
		return nil, errors.Wrap(err, "query calculation")
	}
	out, err := s.scanCalculations(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.NotFoundf("calculation %s", id)
	}
	return out[0], nil
}

const selectCalculations = `
	SELECT c.id, c.text, c.method, c.method_name, c.language, c.result, c.notes, c.favorite, c.created_at
	FROM calculations c`

// List returns calculations matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]*CalculationResult, error) {
	var (
		where []string
		args  []any
	)
	if f.Method != "" {
		where = append(where, "c.method = ?")
		args = append(args, f.Method)
	}
	if f.Language != "" {
		where = append(where, "c.language = ?")
		args = append(args, f.Language)
	}
	if f.TagID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM calculation_tags ct WHERE ct.calculation_id = c.id AND ct.tag_id = ?)")
		args = append(args, f.TagID)
	}
	if f.FavoritesOnly {
		where = append(where, "c.favorite = 1")
	}
	if f.Search != "" {
		where = append(where, "(c.text LIKE ? ESCAPE '\\' OR c.notes LIKE ? ESCAPE '\\')")
		pattern := "%" + escapeLike(f.Search) + "%"
		args = append(args, pattern, pattern)
	}
	if f.Value != nil {
		where = append(where, "c.result = ?")
		args = append(args, *f.Value)
	}

	query := selectCalculations
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.created_at DESC, c.id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list calculations")
	}
	return s.scanCalculations(ctx, rows)
}

// FindByValue returns every calculation whose result equals value.
func (s *Store) FindByValue(ctx context.Context, value int) ([]*CalculationResult, error) {
	return s.List(ctx, Filter{Value: &value})
}

// Delete removes a calculation. Its tag links go with it; tags stay.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.execOne(ctx, "calculation "+id, "DELETE FROM calculations WHERE id = ?", id)
}

// SetFavorite marks or unmarks a calculation as favorite.
func (s *Store) SetFavorite(ctx context.Context, id string, favorite bool) error {
	return s.execOne(ctx, "calculation "+id, "UPDATE calculations SET favorite = ? WHERE id = ?", favorite, id)
}

// UpdateNotes replaces a calculation's notes.
func (s *Store) UpdateNotes(ctx context.Context, id, notes string) error {
	return s.execOne(ctx, "calculation "+id, "UPDATE calculations SET notes = ? WHERE id = ?", notes, id)
}

// AddTag links a tag to a calculation. Adding it twice is a no-op.
func (s *Store) AddTag(ctx context.Context, calcID, tagID string) error {
	return linkTag(ctx, s.db, calcID, tagID)
}

// RemoveTag unlinks a tag from a calculation.
func (s *Store) RemoveTag(ctx context.Context, calcID, tagID string) error {
	return s.execOne(ctx, "tag "+tagID+" on calculation "+calcID,
		"DELETE FROM calculation_tags WHERE calculation_id = ? AND tag_id = ?", calcID, tagID)
}

func (s *Store) execOne(ctx context.Context, what, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "update %s", what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "update %s", what)
	}
	if n == 0 {
		return errors.NotFoundf("%s", what)
	}
	return nil
}

// scanCalculations drains rows, then loads tag links in a second query.
func (s *Store) scanCalculations(ctx context.Context, rows *sql.Rows) ([]*CalculationResult, error) {
	defer rows.Close()

	var (
		out  []*CalculationResult
		byID = map[string]*CalculationResult{}
	)
	for rows.Next() {
		var (
			c       CalculationResult
			created string
		)
		if err := rows.Scan(&c.ID, &c.Text, &c.Method, &c.MethodName, &c.Language,
			&c.Result, &c.Notes, &c.Favorite, &created); err != nil {
			return nil, errors.Wrap(err, "scan calculation")
		}
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, errors.Wrapf(err, "parse created_at of %s", c.ID)
		}
		c.CreatedAt = t
		out = append(out, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate calculations")
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}

	ids := make([]any, 0, len(out))
	for _, c := range out {
		ids = append(ids, c.ID)
	}
	tagRows, err := s.db.QueryContext(ctx, `
		SELECT ct.calculation_id, ct.tag_id
		FROM calculation_tags ct JOIN tags t ON t.id = ct.tag_id
		WHERE ct.calculation_id IN (`+placeholders(len(ids))+`)
		ORDER BY t.name`, ids...)
	if err != nil {
		return nil, errors.Wrap(err, "query calculation tags")
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var calcID, tagID string
		if err := tagRows.Scan(&calcID, &tagID); err != nil {
			return nil, errors.Wrap(err, "scan calculation tag")
		}
		if c := byID[calcID]; c != nil {
			c.Tags = append(c.Tags, tagID)
		}
	}
	return out, errors.Wrap(tagRows.Err(), "iterate calculation tags")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
