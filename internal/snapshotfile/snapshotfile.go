// Package snapshotfile reads list snapshots from YAML documents and watches a snapshot file for changes.
//
// Format:
//
//	sections:
//	  - header: Fruit        # optional
//	    footer: 2 items      # optional
//	    rows:
//	      - id: apple        # required, unique within the section
//	        title: Apple     # defaults to id
//	        detail: red      # optional
//	      - id: pear
package snapshotfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/codalotl/listsync/internal/reconcile"
)

// Item is one row of a snapshot file.
type Item struct {
	ID     string
	Title  string
	Detail string
}

// ItemEquality identifies items by ID; content is title and detail.
var ItemEquality = reconcile.Equality[Item, string]{
	Identity: func(i Item) string { return i.ID },
	Content:  func(a, b Item) bool { return a.Title == b.Title && a.Detail == b.Detail },
}

var (
	ErrMissingID   = errors.New("snapshotfile: row without id")
	ErrDuplicateID = errors.New("snapshotfile: duplicate row id")
)

type document struct {
	Sections []sectionDoc `yaml:"sections"`
}

type sectionDoc struct {
	Header *string  `yaml:"header"`
	Footer *string  `yaml:"footer"`
	Rows   []rowDoc `yaml:"rows"`
}

type rowDoc struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Detail string `yaml:"detail"`
}

// Decode reads one YAML snapshot document from r. An empty document is an empty snapshot. Unknown fields are an error, as are rows without an id and ids repeated within
// a section.
func Decode(r io.Reader) (reconcile.Snapshot[Item], error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return reconcile.Snapshot[Item]{}, fmt.Errorf("snapshotfile: decode: %w", err)
	}

	snap := reconcile.Snapshot[Item]{Sections: make([]reconcile.Section[Item], len(doc.Sections))}
	for si, sd := range doc.Sections {
		seen := make(map[string]bool, len(sd.Rows))
		rows := make([]Item, len(sd.Rows))
		for ri, rd := range sd.Rows {
			if rd.ID == "" {
				return reconcile.Snapshot[Item]{}, fmt.Errorf("%w: section %d row %d", ErrMissingID, si, ri)
			}
			if seen[rd.ID] {
				return reconcile.Snapshot[Item]{}, fmt.Errorf("%w: section %d: %q", ErrDuplicateID, si, rd.ID)
			}
			seen[rd.ID] = true
			title := rd.Title
			if title == "" {
				title = rd.ID
			}
			rows[ri] = Item{ID: rd.ID, Title: title, Detail: rd.Detail}
		}
		snap.Sections[si] = reconcile.Section[Item]{Header: sd.Header, Footer: sd.Footer, Rows: rows}
	}
	return snap, nil
}

// Load reads the snapshot file at path.
func Load(path string) (reconcile.Snapshot[Item], error) {
	f, err := os.Open(path)
	if err != nil {
		return reconcile.Snapshot[Item]{}, err
	}
	defer f.Close()

	snap, err := Decode(f)
	if err != nil {
		return reconcile.Snapshot[Item]{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
