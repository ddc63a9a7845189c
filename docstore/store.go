// Package docstore is a small SQLite-backed document store.
// It serves as the resource behind the demo server: documents are plain bytes
// with a content type, addressed by id.
package docstore

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

const memoryDSN = "file::memory:?cache=shared"

type Document struct {
	ID          string    `json:"id"`
	ContentType string    `json:"contentType"`
	Body        []byte    `json:"-"`
	Modified    time.Time `json:"modified"`
}

// Store is safe for concurrent use. Writes are serialized.
type Store struct {
	db         *sql.DB
	writeMutex *sync.Mutex
}

// Open opens the store with the given filename as the db.
// If file name is empty, a shared in-memory db is opened.
func Open(filename string) (*Store, error) {
	if filename == "" {
		filename = memoryDSN
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		content_type TEXT,
		modified INTEGER,
		body BLOB
	)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create table")
	}
	if filename != memoryDSN {
		if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "set journal mode")
		}
	}
	return &Store{
		db:         db,
		writeMutex: &sync.Mutex{},
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(id string) (Document, error) {
	doc := Document{ID: id}
	var modified int64
	err := s.db.QueryRow("SELECT content_type, modified, body FROM documents WHERE id = ?", id).
		Scan(&doc.ContentType, &modified, &doc.Body)
	if err == sql.ErrNoRows {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, errors.Wrapf(err, "get %s", id)
	}
	doc.Modified = time.Unix(modified, 0).UTC()
	return doc, nil
}

// Put creates or replaces the document and reports whether it was created.
// Modified is set to the current time if zero.
func (s *Store) Put(doc Document) (bool, error) {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	if doc.Modified.IsZero() {
		doc.Modified = time.Now()
	}
	var exists int
	err := s.db.QueryRow("SELECT COUNT(*) FROM documents WHERE id = ?", doc.ID).Scan(&exists)
	if err != nil {
		return false, errors.Wrapf(err, "put %s", doc.ID)
	}
	_, err = s.db.Exec("INSERT OR REPLACE INTO documents (id, content_type, modified, body) VALUES (?, ?, ?, ?)",
		doc.ID, doc.ContentType, doc.Modified.Unix(), doc.Body)
	if err != nil {
		return false, errors.Wrapf(err, "put %s", doc.ID)
	}
	return exists == 0, nil
}

func (s *Store) Delete(id string) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	result, err := s.db.Exec("DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "delete %s", id)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "delete %s", id)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all documents without their bodies, ordered by id.
func (s *Store) List() ([]Document, error) {
	docs := make([]Document, 0)
	rows, err := s.db.Query("SELECT id, content_type, modified FROM documents ORDER BY id")
	if err != nil {
		return docs, errors.Wrap(err, "list")
	}
	defer rows.Close()

	for rows.Next() {
		var doc Document
		var modified int64
		if err := rows.Scan(&doc.ID, &doc.ContentType, &modified); err != nil {
			return docs, errors.Wrap(err, "list")
		}
		doc.Modified = time.Unix(modified, 0).UTC()
		docs = append(docs, doc)
	}
	return docs, errors.Wrap(rows.Err(), "list")
}
