// Package store persists backend settings in a local SQLite database.
package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/justyntemme/skiff/internal/debug"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrClosed is returned for requests made after Close.
var ErrClosed = errors.New("store: closed")

type EventType int

const (
	FetchSettings EventType = iota
	SaveSetting
)

type Request struct {
	Op    EventType
	Key   string
	Value string
	reply chan Response
}

type Response struct {
	Op       EventType
	Settings map[string]string // Key-value settings
	Err      error
}

// DB serializes all access through the Start loop. Settings and SaveSetting
// are synchronous wrappers so that *DB satisfies backend.SettingsStore.
type DB struct {
	conn        *sql.DB
	RequestChan chan Request

	done      chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}
}

func NewDB() *DB {
	return &DB{
		RequestChan: make(chan Request, 10),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

// Open initializes the database connection and schema
func (d *DB) Open(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// WAL mode allows simultaneous readers and writers
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return err
	}

	settingsQuery := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(settingsQuery); err != nil {
		db.Close()
		return err
	}

	debug.Log(debug.STORE, "opened %s", dbPath)
	d.conn = db
	return nil
}

// Start serves requests until Close.
func (d *DB) Start() {
	defer close(d.stopped)
	for {
		select {
		case <-d.done:
			return
		case req := <-d.RequestChan:
			var resp Response
			switch req.Op {
			case FetchSettings:
				resp = d.handleFetchSettings()
			case SaveSetting:
				resp = d.handleSaveSetting(req.Key, req.Value)
			}
			if req.reply != nil {
				req.reply <- resp
			}
		}
	}
}

func (d *DB) handleFetchSettings() Response {
	rows, err := d.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		return Response{Op: FetchSettings, Err: err}
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err == nil {
			settings[key] = value
		}
	}
	return Response{Op: FetchSettings, Settings: settings, Err: rows.Err()}
}

func (d *DB) handleSaveSetting(key, value string) Response {
	_, err := d.conn.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		debug.Log(debug.STORE, "save %s: %v", key, err)
	}
	return Response{Op: SaveSetting, Err: err}
}

func (d *DB) call(req Request) Response {
	select {
	case <-d.done:
		return Response{Op: req.Op, Err: ErrClosed}
	default:
	}
	req.reply = make(chan Response, 1)
	select {
	case d.RequestChan <- req:
	case <-d.done:
		return Response{Op: req.Op, Err: ErrClosed}
	}
	select {
	case resp := <-req.reply:
		return resp
	case <-d.stopped:
		return Response{Op: req.Op, Err: ErrClosed}
	}
}

// Settings returns every stored key/value pair.
func (d *DB) Settings() (map[string]string, error) {
	resp := d.call(Request{Op: FetchSettings})
	return resp.Settings, resp.Err
}

// SaveSetting upserts one key.
func (d *DB) SaveSetting(key, value string) error {
	return d.call(Request{Op: SaveSetting, Key: key, Value: value}).Err
}

// Close stops the loop and closes the database.
func (d *DB) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.done)
		if d.conn != nil {
			err = d.conn.Close()
		}
	})
	return err
}
