package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/hailam/chesscore/internal/perft"
)

const keyPrefix = "perft/"

// resultKey is perft/<depth>/<fen>.
func resultKey(fen string, depth int) []byte {
	return []byte(fmt.Sprintf("%s%d/%s", keyPrefix, depth, fen))
}

// Store wraps BadgerDB and implements perft.Cache.
type Store struct {
	db  *badger.DB
	log logr.Logger
}

var _ perft.Cache = (*Store)(nil)

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string, logger logr.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = badgerLogger{log: logger.WithName("badger")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open perft database %q", dir)
	}
	logger.V(1).Info("perft database opened", "dir", dir, "inMemory", dir == "")
	return &Store{db: db, log: logger}, nil
}

// OpenDefault opens the database in DatabaseDir.
func OpenDefault(logger logr.Logger) (*Store, error) {
	dir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dir, logger)
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the stored result for fen at depth.
func (s *Store) Get(fen string, depth int) (perft.Result, bool, error) {
	var (
		res   perft.Result
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resultKey(fen, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &res)
		})
	})
	if err != nil {
		return perft.Result{}, false, errors.Wrapf(err, "load perft %d of %q", depth, fen)
	}
	return res, found, nil
}

// Put stores r, replacing any earlier result for the same FEN and depth.
func (s *Store) Put(r perft.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encode perft result")
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(resultKey(r.FEN, r.Depth), data)
	})
	return errors.Wrapf(err, "store perft %d of %q", r.Depth, r.FEN)
}

// Each calls fn for every stored result in key order, stopping at the first error.
func (s *Store) Each(fn func(perft.Result) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var res perft.Result
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &res)
			})
			if err != nil {
				return errors.Wrapf(err, "decode %s", it.Item().Key())
			}
			if err := fn(res); err != nil {
				return err
			}
		}
		return nil
	})
}

// badgerLogger routes BadgerDB logging into logr.
type badgerLogger struct {
	log logr.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(errors.Errorf(strings.TrimSpace(format), args...), "badger error")
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.V(1).Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.V(2).Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
