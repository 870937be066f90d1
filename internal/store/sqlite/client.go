// Package sqlite is the persisted blob store: an opaque get/set keyed by
// document name, backed by a single-table sqlite database. The storage codec
// owns the blob contents; this package never inspects them.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/paratext/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	blob       BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Client provides access to the document blob store.
type Client struct {
	db     *sql.DB
	dbPath string
}

// NewClient opens (creating if needed) the store at dbPath. Pass ":memory:"
// for an ephemeral store.
func NewClient(dbPath string) (*Client, error) {
	log.Debug(log.CatStore, "Opening document store", "path", dbPath)
	db, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		log.ErrorErr(log.CatStore, "Failed to open document store", err, "path", dbPath)
		return nil, err
	}
	// Verify connection works
	if err := db.Ping(); err != nil {
		log.ErrorErr(log.CatStore, "Failed to ping document store", err, "path", dbPath)
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		log.ErrorErr(log.CatStore, "Failed to initialize document store", err, "path", dbPath)
		return nil, errors.Join(err, db.Close())
	}
	log.Info(log.CatStore, "Connected to document store", "path", dbPath)
	return &Client{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// NotFoundError indicates the store holds no blob for the document.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: no document named %q", e.Name)
}

// Get returns the blob persisted for the document.
func (c *Client) Get(name string) ([]byte, error) {
	var blob []byte
	err := c.db.QueryRow(`SELECT blob FROM documents WHERE name = ?`, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Name: name}
	}
	if err != nil {
		log.ErrorErr(log.CatStore, "Get query failed", err, "name", name)
		return nil, err
	}
	return blob, nil
}

// Put stores the blob for the document, replacing any previous value.
func (c *Client) Put(name string, blob []byte) error {
	_, err := c.db.Exec(`
		INSERT INTO documents (name, blob, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
		name, blob, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		log.ErrorErr(log.CatStore, "Put failed", err, "name", name, "bytes", len(blob))
		return err
	}
	log.Debug(log.CatStore, "Stored document", "name", name, "bytes", len(blob))
	return nil
}

// Delete removes the document's blob. Deleting an absent document is not an
// error.
func (c *Client) Delete(name string) error {
	_, err := c.db.Exec(`DELETE FROM documents WHERE name = ?`, name)
	if err != nil {
		log.ErrorErr(log.CatStore, "Delete failed", err, "name", name)
	}
	return err
}

// List returns the stored document names in lexical order.
func (c *Client) List() ([]string, error) {
	rows, err := c.db.Query(`SELECT name FROM documents ORDER BY name`)
	if err != nil {
		log.ErrorErr(log.CatStore, "List query failed", err)
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
