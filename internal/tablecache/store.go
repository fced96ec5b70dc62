package tablecache

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/parse"
	"modernc.org/sqlite"
)

// ErrNotFound is returned by Store.Get when no table is cached under the
// given key.
var ErrNotFound = errors.New("no cached table for this grammar")

// Store is a sqlite-backed cache of compiled parsing tables, keyed by
// HashGrammar. Grounded on github.com/dekarrin/tunaq's
// server/dao/sqlite.GameDatasDB: a single table, a TEXT primary key, and a
// base64-wrapped rezi-encoded blob column.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at file and
// ensures the cache table exists.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS parse_tables (
		hash TEXT NOT NULL PRIMARY KEY,
		algorithm TEXT NOT NULL,
		data TEXT NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up the table cached under key. It returns ErrNotFound (wrapped
// suitably for errors.Is) if nothing is cached yet.
func (s *Store) Get(key Key) (parse.LRParseTable, error) {
	var data string
	row := s.db.QueryRow(`SELECT data FROM parse_tables WHERE hash = ?;`, key.String())
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(err)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode cached table for %s: %w", key, err)
	}

	var snap Snapshot
	n, err := rezi.DecBinary(raw, &snap)
	if err != nil {
		return nil, fmt.Errorf("rezi decode cached table for %s: %w", key, err)
	}
	if n != len(raw) {
		return nil, fmt.Errorf("cached table for %s: rezi decoded %d/%d bytes", key, n, len(raw))
	}

	return snap.Table(), nil
}

// Put stores table (already built for g under the named algorithm) keyed by
// key, overwriting any existing entry for that key.
func (s *Store) Put(key Key, g grammar.Grammar, table parse.LRParseTable, algorithm string) error {
	snap := TakeSnapshot(g, table, algorithm)
	raw := rezi.EncBinary(&snap)
	data := base64.StdEncoding.EncodeToString(raw)

	_, err := s.db.Exec(
		`INSERT INTO parse_tables (hash, algorithm, data) VALUES (?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET algorithm = excluded.algorithm, data = excluded.data;`,
		key.String(), algorithm, data,
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	return err
}
