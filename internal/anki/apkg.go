package anki

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// collectionFilename is the database entry inside an .apkg zip.
const collectionFilename = "collection.anki2"

// Serialize renders a package graph into .apkg bytes. The caller owns
// delivery; nothing is written anywhere visible. Any failure returns an
// error with no partial archive.
func Serialize(pkg *Package) ([]byte, error) {
	if pkg == nil || pkg.NoteCount() == 0 {
		return nil, ErrNoFlashcards
	}

	dbBytes, err := buildCollection(pkg)
	if err != nil {
		return nil, fmt.Errorf("build collection: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(collectionFilename)
	if err != nil {
		return nil, fmt.Errorf("create collection entry: %w", err)
	}
	if _, err := w.Write(dbBytes); err != nil {
		return nil, fmt.Errorf("write collection entry: %w", err)
	}

	// Media files live under bare numeric names; the manifest maps those
	// indices back to the generated filenames referenced from note fields.
	manifest := map[string]string{}
	for i, mf := range pkg.Media {
		idx := strconv.Itoa(i)
		manifest[idx] = mf.Name
		w, err := zw.Create(idx)
		if err != nil {
			return nil, fmt.Errorf("create media entry %s: %w", idx, err)
		}
		if _, err := w.Write(mf.Data); err != nil {
			return nil, fmt.Errorf("write media entry %s: %w", idx, err)
		}
	}

	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("marshal media manifest: %w", err)
	}
	w, err = zw.Create("media")
	if err != nil {
		return nil, fmt.Errorf("create media manifest: %w", err)
	}
	if _, err := w.Write(manifestBytes); err != nil {
		return nil, fmt.Errorf("write media manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// buildCollection writes the Anki collection database and returns its raw
// bytes. SQLite needs a real file to work against, so the database is built
// in a temp file that is removed before returning.
func buildCollection(pkg *Package) ([]byte, error) {
	tmp, err := os.CreateTemp("", "ankiforge-*.anki2")
	if err != nil {
		return nil, err
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := writeCollection(path, pkg); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func writeCollection(path string, pkg *Package) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	now := time.Now()
	nowSecs := now.Unix()
	nowMillis := now.UnixMilli()

	models, err := modelsJSON(pkg.Model, nowSecs, firstDeckID(pkg))
	if err != nil {
		return err
	}
	decks, err := decksJSON(pkg.Decks, nowSecs)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		nowSecs, nowMillis, nowMillis, schemaVersion,
		confJSON(pkg.Model.ID), models, decks, dconfJSON,
	)
	if err != nil {
		return fmt.Errorf("insert col row: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertNote, err := tx.Prepare(
		`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		 VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')`)
	if err != nil {
		return err
	}
	defer insertNote.Close()

	insertCard, err := tx.Prepare(
		`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		 VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer insertCard.Close()

	// Note and card ids are wall-clock seeded and strictly increasing
	// within one serialize call, so they cannot collide with each other or,
	// in practice, with an existing collection on import.
	ids := nowMillis
	nextID := func() int64 { id := ids; ids++; return id }

	due := 0
	for _, deck := range pkg.Decks {
		for _, note := range deck.Notes {
			noteID := nextID()
			tags := " " + strings.Join(note.Tags, " ") + " "
			flds := strings.Join(note.Fields, ankiFieldSep)
			sfld := note.Fields[0]

			if _, err := insertNote.Exec(noteID, newGUID(), pkg.Model.ID, nowSecs, tags, flds, sfld, fieldChecksum(sfld)); err != nil {
				return fmt.Errorf("insert note: %w", err)
			}
			if _, err := insertCard.Exec(nextID(), noteID, deck.ID, nowSecs, due); err != nil {
				return fmt.Errorf("insert card: %w", err)
			}
			due++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notes: %w", err)
	}
	return nil
}

func firstDeckID(pkg *Package) int64 {
	if len(pkg.Decks) > 0 {
		return pkg.Decks[0].ID
	}
	return 1
}
