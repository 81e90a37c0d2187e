package anki

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/f3rmion/gematria/internal/errors"
)

// AddField appends a field to every model that has source but not name.
// It returns the number of models changed.
func (p *Package) AddField(source, name string) int {
	changed := 0
	for _, model := range p.Models {
		hasSource, hasName := false, false
		for _, f := range model.Fields {
			hasSource = hasSource || strings.EqualFold(f.Name, source)
			hasName = hasName || strings.EqualFold(f.Name, name)
		}
		if !hasSource || hasName {
			continue
		}
		model.Fields = append(model.Fields, Field{
			Name: name,
			Ord:  len(model.Fields),
			Font: "Arial",
			Size: 20,
		})
		changed++
	}
	return changed
}

// SetField sets a field of a note by name. The model must have the field.
func (p *Package) SetField(note *Note, name, value string) error {
	model := p.GetModel(note)
	if model == nil {
		return errors.NotFoundf("model for note %d", note.ID)
	}
	idx := -1
	for _, f := range model.Fields {
		if strings.EqualFold(f.Name, name) {
			idx = f.Ord
		}
	}
	if idx < 0 {
		return errors.NotFoundf("field %q on note type %q", name, model.Name)
	}

	for len(note.Fields) < len(model.Fields) {
		note.Fields = append(note.Fields, "")
	}
	note.Fields[idx] = value
	note.RawFlds = strings.Join(note.Fields, "\x1f")
	note.Mod = time.Now().Unix()
	return nil
}

// NoteByID finds a note by ID.
func (p *Package) NoteByID(id int64) *Note {
	for _, note := range p.Notes {
		if note.ID == id {
			return note
		}
	}
	return nil
}

// SaveAs writes the modified package to a new .apkg file.
func (p *Package) SaveAs(outputPath string) error {
	if err := p.updateModels(); err != nil {
		return err
	}
	if err := p.updateNotes(); err != nil {
		return err
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer outFile.Close()

	zw := zip.NewWriter(outFile)
	err = filepath.Walk(p.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		// SQLite side files are not part of the package.
		if strings.HasSuffix(path, "-journal") || strings.HasSuffix(path, "-wal") || strings.HasSuffix(path, "-shm") {
			return nil
		}
		rel, err := filepath.Rel(p.tempDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return errors.Wrap(err, "creating zip")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "finishing zip")
	}
	return nil
}

// updateModels writes model fields back into the col table, keeping every
// key of the original model JSON.
func (p *Package) updateModels() error {
	models := make(map[string]map[string]any, len(p.Models))
	for id, model := range p.Models {
		m := make(map[string]any, len(model.raw)+1)
		for k, v := range model.raw {
			m[k] = v
		}
		m["flds"] = model.Fields
		models[strconv.FormatInt(id, 10)] = m
	}
	data, err := json.Marshal(models)
	if err != nil {
		return errors.Wrap(err, "marshaling models")
	}
	if _, err := p.db.Exec("UPDATE col SET models = ?", string(data)); err != nil {
		return errors.Wrap(err, "updating models")
	}
	return nil
}

// updateNotes writes every note's fields and checksum.
func (p *Package) updateNotes() error {
	tx, err := p.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin note update")
	}
	defer tx.Rollback()

	for _, note := range p.Notes {
		note.CSum = checksum(note.SFLD)
		if _, err := tx.Exec("UPDATE notes SET mod = ?, flds = ?, sfld = ?, csum = ? WHERE id = ?",
			note.Mod, note.RawFlds, note.SFLD, note.CSum, note.ID); err != nil {
			return errors.Wrapf(err, "updating note %d", note.ID)
		}
	}
	return errors.Wrap(tx.Commit(), "commit note update")
}

// checksum is Anki's csum: the first 8 hex digits of the SHA-1 of the
// stripped sort field.
func checksum(sortField string) int64 {
	sum := sha1.Sum([]byte(StripHTML(sortField)))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return v
}
