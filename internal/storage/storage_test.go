package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/fen"
	"github.com/hailam/chesscore/internal/perft"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", testr.New(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close()) })
	return s
}

func TestStoreGetPut(t *testing.T) {
	s := openMemory(t)

	_, ok, err := s.Get(fen.StartFEN, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	want := perft.Result{
		FEN:        fen.StartFEN,
		Depth:      3,
		Nodes:      8902,
		Elapsed:    12 * time.Millisecond,
		ComputedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, s.Put(want))

	got, ok, err := s.Get(fen.StartFEN, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok, err = s.Get(fen.StartFEN, 4)
	require.NoError(t, err)
	assert.False(t, ok, "depth is part of the key")

	// Overwrite
	want.Nodes = 1
	require.NoError(t, s.Put(want))
	got, _, err = s.Get(fen.StartFEN, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Nodes)
}

func TestStoreEach(t *testing.T) {
	s := openMemory(t)
	for depth := 1; depth <= 3; depth++ {
		require.NoError(t, s.Put(perft.Result{FEN: fen.StartFEN, Depth: depth, Nodes: uint64(depth)}))
	}

	var depths []int
	require.NoError(t, s.Each(func(r perft.Result) error {
		depths = append(depths, r.Depth)
		return nil
	}))
	assert.Equal(t, []int{1, 2, 3}, depths)

	stop := errors.New("stop")
	calls := 0
	err := s.Each(func(perft.Result) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestStorePersists(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, testr.New(t))
	require.NoError(t, err)
	require.NoError(t, s.Put(perft.Result{FEN: fen.StartFEN, Depth: 2, Nodes: 400}))
	require.NoError(t, s.Close())

	s, err = Open(dir, testr.New(t))
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Get(fen.StartFEN, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(400), got.Nodes)
}

func TestStoreAsRunnerCache(t *testing.T) {
	s := openMemory(t)
	r := perft.NewRunner(testr.New(t))
	r.Cache = s

	pos := board.NewPosition()
	first, err := r.Run(context.Background(), pos, 3)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := r.Run(context.Background(), pos, 3)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, uint64(8902), second.Nodes)
	assert.Equal(t, first.ComputedAt.Unix(), second.ComputedAt.Unix())
}

func TestDataDirOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	t.Setenv(DataDirEnv, dir)

	got, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	dbDir, err := DatabaseDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "perft.db"), dbDir)
}

func TestOpenDefault(t *testing.T) {
	t.Setenv(DataDirEnv, t.TempDir())
	s, err := OpenDefault(testr.New(t))
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestBadgerLogger(t *testing.T) {
	l := badgerLogger{log: testr.New(t)}
	l.Errorf("failed %d\n", 1)
	l.Warningf("warn %s\n", "x")
	l.Infof("info\n")
	l.Debugf("debug\n")
}
