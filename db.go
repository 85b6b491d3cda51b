package knit

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/ioutil"
	"os"
	"strings"

	knitimage "github.com/davidje13/knit/image"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no pattern has the requested name.
	ErrNotFound = errors.New("knit: pattern not found")
	// ErrUnreadable is returned for files that cannot be decoded as an image.
	ErrUnreadable = errors.New("knit: unreadable image")
)

// Pattern is a stored pattern. Names whose text is identical share the same
// ID.
type Pattern struct {
	ID     int64
	Name   string
	SHA1   string
	Data   string
	Width  int
	Height int
	Colors int
}

type PatternDB struct {
	db *sql.DB
}

func NewPatternDB(file string) (*PatternDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// SQLite only allows a single writer
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"CREATE TABLE IF NOT EXISTS pattern (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, data TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, colors INTEGER NOT NULL)",
		"CREATE TABLE IF NOT EXISTS name (name TEXT PRIMARY KEY NOT NULL, pattern_id INTEGER NOT NULL REFERENCES pattern (id))",
		"CREATE INDEX IF NOT EXISTS name_pattern ON name (pattern_id)",
		// Checksums of imported image files, so unchanged files skip encoding
		"CREATE TABLE IF NOT EXISTS source (sha1 TEXT PRIMARY KEY NOT NULL, pattern_id INTEGER NOT NULL REFERENCES pattern (id) ON DELETE CASCADE)",
	} {
		if _, err = db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &PatternDB{
		db: db,
	}, nil
}

func (db *PatternDB) Close() error {
	return db.db.Close()
}

func checksum(data string) string {
	return fmt.Sprintf("%X", sha1.Sum([]byte(data)))
}

func addPattern(tx *sql.Tx, data string) (int64, error) {
	h, err := knitimage.ReadHeader(data)
	if err != nil {
		return 0, err
	}
	sha := checksum(data)

	var id int64
	switch err := tx.QueryRow("SELECT id FROM pattern WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO pattern (sha1, data, width, height, colors) VALUES (?, ?, ?, ?, ?)", sha, data, h.Width, h.Height, len(h.Palette))
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

func setName(tx *sql.Tx, name string, id int64) error {
	if _, err := tx.Exec("INSERT OR REPLACE INTO name (name, pattern_id) VALUES (?, ?)", name, id); err != nil {
		return err
	}
	return prune(tx)
}

// prune removes pattern text no longer referenced by any name.
func prune(tx *sql.Tx) error {
	_, err := tx.Exec("DELETE FROM pattern WHERE id NOT IN (SELECT pattern_id FROM name)")
	return err
}

func (db *PatternDB) update(f func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Add stores pattern text under name, replacing any existing pattern with
// that name. The text is checked to be a valid pattern header first and is
// stored once however many names refer to it. The returned ID is that of the
// stored text.
func (db *PatternDB) Add(name, data string) (int64, error) {
	var id int64
	err := db.update(func(tx *sql.Tx) (err error) {
		if id, err = addPattern(tx, data); err != nil {
			return fmt.Errorf("knit: %s: %w", name, err)
		}
		return setName(tx, name, id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (db *PatternDB) findSource(sha string) (int64, bool, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT pattern_id FROM source WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		return 0, false, nil
	case nil:
		return id, true, nil
	default:
		return 0, false, err
	}
}

// ImportImage reads an image file in any registered format, converts it to
// a pattern and stores it under name. A file already imported under another
// name reuses the stored pattern rather than being encoded again.
func (db *PatternDB) ImportImage(name, file string) (int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)
	m, _, err := image.Decode(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrUnreadable, file, err)
	}
	// Hash anything trailing the image data too
	if _, err := io.Copy(ioutil.Discard, r); err != nil {
		return 0, err
	}
	sha := fmt.Sprintf("%X", h.Sum(nil))

	id, ok, err := db.findSource(sha)
	if err != nil {
		return 0, err
	}
	if ok {
		if err := db.update(func(tx *sql.Tx) error {
			return setName(tx, name, id)
		}); err != nil {
			return 0, err
		}
		return id, nil
	}

	b := new(bytes.Buffer)
	if err := knitimage.Encode(b, m); err != nil {
		return 0, err
	}

	err = db.update(func(tx *sql.Tx) (err error) {
		if id, err = addPattern(tx, b.String()); err != nil {
			return err
		}
		if err := setName(tx, name, id); err != nil {
			return err
		}
		_, err = tx.Exec("INSERT OR IGNORE INTO source (sha1, pattern_id) VALUES (?, ?)", sha, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

const patternColumns = "pattern.id, name.name, pattern.sha1, pattern.data, pattern.width, pattern.height, pattern.colors"

const patternFrom = " FROM name JOIN pattern ON pattern.id = name.pattern_id"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPattern(s scanner) (*Pattern, error) {
	p := new(Pattern)
	if err := s.Scan(&p.ID, &p.Name, &p.SHA1, &p.Data, &p.Width, &p.Height, &p.Colors); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the pattern stored under name.
func (db *PatternDB) Get(name string) (*Pattern, error) {
	p, err := scanPattern(db.db.QueryRow("SELECT "+patternColumns+patternFrom+" WHERE name.name = ?", name))
	switch err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case nil:
		return p, nil
	default:
		return nil, err
	}
}

// FindBySHA1 returns the names of patterns whose text has the given SHA-1
// checksum.
func (db *PatternDB) FindBySHA1(sha string) ([]string, error) {
	rows, err := db.db.Query("SELECT name.name"+patternFrom+" WHERE pattern.sha1 = ? ORDER BY name.name", strings.ToUpper(sha))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// List returns every stored pattern ordered by name.
func (db *PatternDB) List() ([]Pattern, error) {
	rows, err := db.db.Query("SELECT " + patternColumns + patternFrom + " ORDER BY name.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, *p)
	}
	return patterns, rows.Err()
}

// Delete removes the pattern stored under name. The text itself goes once
// no other name refers to it.
func (db *PatternDB) Delete(name string) error {
	return db.update(func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM name WHERE name = ?", name)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return prune(tx)
	})
}
