// Package cipher stores user-defined ciphers as one JSON file each.
package cipher

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
	"github.com/f3rmion/gematria/internal/logger"
)

const ext = ".json"

// Repository reads and writes ciphers under a directory.
type Repository struct {
	dir string
	log *zap.SugaredLogger
	now func() time.Time
}

// NewRepository returns a repository rooted at dir. The directory is created
// on the first Save; a missing directory lists as empty.
func NewRepository(dir string, log *zap.SugaredLogger) *Repository {
	if log == nil {
		log = logger.Named("cipher")
	}
	return &Repository{dir: dir, log: log, now: time.Now}
}

// Dir returns the directory the repository reads from.
func (r *Repository) Dir() string {
	return r.dir
}

// Validate checks c before it is stored.
func Validate(c *gematria.CustomCipher) error {
	if c == nil {
		return errors.InvalidArgumentf("cipher is nil")
	}
	return c.Validate()
}

// List returns every readable cipher sorted by name. Files that fail to
// parse or validate are logged and skipped.
func (r *Repository) List() ([]*gematria.CustomCipher, error) {
	entries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading ciphers directory")
	}

	var out []*gematria.CustomCipher
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		path := filepath.Join(r.dir, e.Name())
		c, err := readFile(path)
		if err != nil {
			r.log.Warnw("Skipping unreadable cipher file",
				logger.FieldFile, path,
				logger.FieldError, err)
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	r.log.Debugw("Loaded ciphers", logger.FieldPath, r.dir, logger.FieldCount, len(out))
	return out, nil
}

// Get returns the cipher with the given ID, or the one whose name matches
// case-insensitively.
func (r *Repository) Get(idOrName string) (*gematria.CustomCipher, error) {
	if c, err := readFile(r.path(idOrName)); err == nil {
		return c, nil
	}
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if strings.EqualFold(c.Name, idOrName) {
			return c, nil
		}
	}
	return nil, errors.NotFoundf("cipher %q", idOrName)
}

// Save validates c and writes it, assigning an ID and timestamps as needed.
func (r *Repository) Save(c *gematria.CustomCipher) error {
	if err := Validate(c); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	} else if strings.ContainsAny(c.ID, `/\`) || c.ID == "." || c.ID == ".." {
		return errors.InvalidArgumentf("cipher id %q is not a valid file name", c.ID)
	}
	now := r.now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return errors.Wrap(err, "creating ciphers directory")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling cipher")
	}

	// Write to a temp file first so the watcher never sees a partial file.
	tmp, err := os.CreateTemp(r.dir, ".cipher-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "writing cipher")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "writing cipher")
	}
	if err := os.Rename(tmp.Name(), r.path(c.ID)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "renaming cipher file")
	}

	r.log.Debugw("Saved cipher", logger.FieldID, c.ID, "name", c.Name)
	return nil
}

// Delete removes a cipher by ID or name.
func (r *Repository) Delete(idOrName string) error {
	c, err := r.Get(idOrName)
	if err != nil {
		return err
	}
	if err := os.Remove(r.path(c.ID)); err != nil {
		return errors.Wrap(err, "removing cipher file")
	}
	return nil
}

// Import reads a cipher from rd and saves it under a fresh ID so it never
// overwrites an existing cipher.
func (r *Repository) Import(rd io.Reader) (*gematria.CustomCipher, error) {
	var c gematria.CustomCipher
	if err := json.NewDecoder(rd).Decode(&c); err != nil {
		return nil, errors.WithHint(
			errors.InvalidArgumentf("decoding cipher: %v", err),
			"cipher files are JSON objects with name, language and letter_values",
		)
	}
	c.ID = ""
	c.CreatedAt = time.Time{}
	if err := r.Save(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Export writes the cipher as indented JSON.
func (r *Repository) Export(idOrName string, w io.Writer) error {
	c, err := r.Get(idOrName)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "encoding cipher")
	}
	return nil
}

func (r *Repository) path(id string) string {
	return filepath.Join(r.dir, filepath.Base(id)+ext)
}

func readFile(path string) (*gematria.CustomCipher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c gematria.CustomCipher
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filepath.Base(path))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = strings.TrimSuffix(filepath.Base(path), ext)
	}
	return &c, nil
}
