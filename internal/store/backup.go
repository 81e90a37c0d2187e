package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"time"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/logger"
)

// BackupVersion is the format version written by Export.
const BackupVersion = 1

// Backup is the JSON document written by Export and read by Import.
type Backup struct {
	Version      int                  `json:"version"`
	ExportedAt   time.Time            `json:"exported_at"`
	Tags         []*Tag               `json:"tags"`
	Calculations []*CalculationResult `json:"calculations"`
}

// ImportStats counts what Import did.
type ImportStats struct {
	TagsCreated          int
	TagsMerged           int
	CalculationsImported int
	CalculationsSkipped  int
}

// Export writes every tag and calculation as one JSON document.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	tags, err := s.ListTags(ctx)
	if err != nil {
		return err
	}
	calcs, err := s.List(ctx, Filter{})
	if err != nil {
		return err
	}
	b := Backup{
		Version:      BackupVersion,
		ExportedAt:   s.now().UTC(),
		Tags:         tags,
		Calculations: calcs,
	}
	if b.Tags == nil {
		b.Tags = []*Tag{}
	}
	if b.Calculations == nil {
		b.Calculations = []*CalculationResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&b); err != nil {
		return errors.Wrap(err, "encode backup")
	}
	return nil
}

// Import merges a backup into the store in one transaction. Tags whose name
// already exists are merged into the existing tag; calculations whose ID
// already exists are skipped; links to unknown tags are dropped.
func (s *Store) Import(ctx context.Context, r io.Reader) (ImportStats, error) {
	var (
		b     Backup
		stats ImportStats
	)
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return stats, errors.InvalidArgumentf("decode backup: %v", err)
	}
	if b.Version > BackupVersion {
		return stats, errors.InvalidArgumentf("backup version %d is newer than supported version %d", b.Version, BackupVersion)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, errors.Wrap(err, "begin import")
	}
	defer tx.Rollback()

	// Backup tag ID -> local tag ID.
	tagIDs := make(map[string]string, len(b.Tags))
	for _, t := range b.Tags {
		if t == nil {
			continue
		}
		if err := t.normalize(); err != nil {
			return stats, errors.Wrapf(err, "tag %s", t.ID)
		}
		existing, err := scanTag(tx.QueryRowContext(ctx, selectTags+" WHERE id = ? OR name = ?", t.ID, t.Name))
		if err == nil {
			tagIDs[t.ID] = existing.ID
			stats.TagsMerged++
			continue
		}
		if err != sql.ErrNoRows {
			return stats, err
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = s.now().UTC()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tags (id, name, color, description, created_at) VALUES (?, ?, ?, ?, ?)",
			t.ID, t.Name, t.Color, t.Description, t.CreatedAt.UTC().Format(timeLayout)); err != nil {
			return stats, errors.Wrapf(err, "import tag %q", t.Name)
		}
		tagIDs[t.ID] = t.ID
		stats.TagsCreated++
	}

	for _, c := range b.Calculations {
		if c == nil || c.ID == "" {
			stats.CalculationsSkipped++
			continue
		}
		var exists bool
		if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM calculations WHERE id = ?)", c.ID).Scan(&exists); err != nil {
			return stats, errors.Wrap(err, "check calculation")
		}
		if exists || c.Text == "" || c.Method == "" {
			stats.CalculationsSkipped++
			continue
		}
		var tags []string
		for _, id := range c.Tags {
			if local, ok := tagIDs[id]; ok {
				tags = append(tags, local)
			}
		}
		c.Tags = tags
		if c.CreatedAt.IsZero() {
			c.CreatedAt = s.now().UTC()
		}
		if err := insertCalculation(ctx, tx, c); err != nil {
			return stats, err
		}
		stats.CalculationsImported++
	}

	if err := tx.Commit(); err != nil {
		return stats, errors.Wrap(err, "commit import")
	}
	s.log.Infow("Imported backup",
		"tags_created", stats.TagsCreated,
		"tags_merged", stats.TagsMerged,
		logger.FieldCount, stats.CalculationsImported,
		"skipped", stats.CalculationsSkipped)
	return stats, nil
}
