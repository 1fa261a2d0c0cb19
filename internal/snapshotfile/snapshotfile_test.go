package snapshotfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/listsync/internal/reconcile"
)

const fruit = `
sections:
  - header: Fruit
    rows:
      - id: apple
        title: Apple
        detail: red
      - id: pear
  - footer: end
    rows: []
`

func TestDecode(t *testing.T) {
	snap, err := Decode(strings.NewReader(fruit))
	require.NoError(t, err)
	require.Equal(t, 2, snap.SectionCount())

	s0 := snap.Sections[0]
	require.NotNil(t, s0.Header)
	assert.Equal(t, "Fruit", *s0.Header)
	assert.Nil(t, s0.Footer)
	assert.Equal(t, []Item{{ID: "apple", Title: "Apple", Detail: "red"}, {ID: "pear", Title: "pear"}}, s0.Rows)

	s1 := snap.Sections[1]
	assert.Nil(t, s1.Header)
	require.NotNil(t, s1.Footer)
	assert.Equal(t, "end", *s1.Footer)
	assert.Empty(t, s1.Rows)
}

func TestDecode_Empty(t *testing.T) {
	snap, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, snap.SectionCount())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"missing id", "sections:\n  - rows:\n      - title: x\n", ErrMissingID},
		{"duplicate id", "sections:\n  - rows:\n      - id: a\n      - id: a\n", ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Decode(strings.NewReader("sections:\n  - rowz: []\n"))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestDecode_SameIDInDifferentSections(t *testing.T) {
	snap, err := Decode(strings.NewReader("sections:\n  - rows:\n      - id: a\n  - rows:\n      - id: a\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, snap.RowCount(0)+snap.RowCount(1))
}

func TestItemEquality(t *testing.T) {
	a := Item{ID: "a", Title: "A"}
	assert.True(t, ItemEquality.FullyEqual(a, a))
	assert.False(t, ItemEquality.FullyEqual(a, Item{ID: "a", Title: "A2"}))
	assert.Equal(t, ItemEquality.Identity(a), ItemEquality.Identity(Item{ID: "a", Detail: "x"}))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fruit), 0o644))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.RowCount(0))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("sections: [\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections:\n  - rows:\n      - id: a\n"), 0o644))

	snaps := make(chan reconcile.Snapshot[Item], 8)
	errs := make(chan error, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := &Watcher{Path: path, Debounce: 10 * time.Millisecond}
	go func() {
		done <- w.Watch(ctx, func(s reconcile.Snapshot[Item]) { snaps <- s }, func(err error) { errs <- err })
	}()

	first := receive(t, snaps)
	assert.Equal(t, 1, first.RowCount(0))

	// Unrelated files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))

	// Replace by rename, the way editors save.
	tmp := filepath.Join(dir, ".list.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("sections:\n  - rows:\n      - id: a\n      - id: b\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	second := receive(t, snaps)
	assert.Equal(t, 2, second.RowCount(0))

	require.NoError(t, os.WriteFile(path, []byte("sections:\n  - rows:\n      - id: a\n      - id: a\n"), 0o644))
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrDuplicateID)
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := &Watcher{Path: filepath.Join(t.TempDir(), "nope", "list.yaml")}
	err := w.Watch(context.Background(), func(reconcile.Snapshot[Item]) {}, func(error) {})
	assert.Error(t, err)
}

func receive(t *testing.T, ch <-chan reconcile.Snapshot[Item]) reconcile.Snapshot[Item] {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot received")
		return reconcile.Snapshot[Item]{}
	}
}
