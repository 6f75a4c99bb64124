package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"wall-gallery/internal/storage"
)

// StorageKey is the durable blob the layout collection lives under.
const StorageKey = "layouts"

var (
	// ErrNotFound indicates the requested layout id is not in the store,
	// typically because a stale UI row referenced an already-deleted record.
	ErrNotFound = errors.New("layout not found")

	// ErrNotArray indicates an import payload whose top-level JSON value is
	// not an array.
	ErrNotArray = errors.New("import payload is not a JSON array")
)

// Store maintains the ordered collection of saved layouts on top of the
// durable key-value store. Every mutation rewrites the whole blob; a failed
// write rolls the in-memory collection back so store and blob never diverge.
type Store struct {
	mu      sync.Mutex
	kv      storage.Store
	records []Record
}

// NewStore creates a store and loads any previously persisted collection.
func NewStore(kv storage.Store) (*Store, error) {
	s := &Store{kv: kv}

	blob, ok, err := kv.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load layouts: %w", err)
	}
	if ok && blob != "" {
		if err := json.Unmarshal([]byte(blob), &s.records); err != nil {
			// A corrupt blob must not brick startup; start empty and keep
			// the old blob until the next successful save overwrites it.
			log.Printf("layouts blob is corrupt, starting empty: %v", err)
			s.records = nil
		}
	}
	return s, nil
}

// Records returns a copy of the saved layouts in order.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of saved layouts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Save appends the record under the given name and persists the collection.
// An empty name is auto-assigned sequentially ("Gallery {n+1}"). The stored
// record (with id and name filled in) is returned.
func (s *Store) Save(name string, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		name = fmt.Sprintf("Gallery %d", len(s.records)+1)
	}
	rec.Name = name
	rec.ID = s.newID()
	if rec.Created.IsZero() {
		rec.Created = time.Now().UTC()
	}

	s.records = append(s.records, rec)
	if err := s.persistLocked(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return Record{}, err
	}
	return rec, nil
}

// Get returns the layout with the given id.
func (s *Store) Get(id int64) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("layout %d: %w", id, ErrNotFound)
}

// Delete removes the layout with the given id and persists the collection.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			removed := r
			s.records = append(s.records[:i], s.records[i+1:]...)
			if err := s.persistLocked(); err != nil {
				s.records = append(s.records[:i], append([]Record{removed}, s.records[i:]...)...)
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("layout %d: %w", id, ErrNotFound)
}

// ExportAll writes the entire collection as a pretty-printed JSON array.
func (s *Store) ExportAll(w io.Writer) error {
	s.mu.Lock()
	records := s.records
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

// ExportFilename returns the dated export filename for the given time,
// e.g. "wall-art-layouts-2026-08-30.json".
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("wall-art-layouts-%s.json", now.Format("2006-01-02"))
}

// ParseImport parses an export payload. Anything that is not a JSON array of
// layout records fails with ErrNotArray before any state is touched.
func ParseImport(data []byte) ([]Record, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}
	trimmed := firstByte(probe)
	if trimmed != '[' {
		return nil, ErrNotArray
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}
	return records, nil
}

// Merge appends the given records to the collection and persists it. Ids are
// kept as imported (they are not required to be unique across imports).
func (s *Store) Merge(records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := len(s.records)
	s.records = append(s.records, records...)
	if err := s.persistLocked(); err != nil {
		s.records = s.records[:prev]
		return err
	}
	return nil
}

// ImportAndMerge parses the payload and appends its records, returning the
// number added. Malformed input mutates nothing.
func (s *Store) ImportAndMerge(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read import: %w", err)
	}
	records, err := ParseImport(data)
	if err != nil {
		return 0, err
	}
	if err := s.Merge(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// newID returns a timestamp-based id, bumped past the last record's id when
// two saves land on the same millisecond.
func (s *Store) newID() int64 {
	id := time.Now().UnixMilli()
	if n := len(s.records); n > 0 && s.records[n-1].ID >= id {
		id = s.records[n-1].ID + 1
	}
	return id
}

func (s *Store) persistLocked() error {
	records := s.records
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layouts: %w", err)
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist layouts: %w", err)
	}
	return nil
}

// firstByte returns the first non-whitespace byte of raw, or 0.
func firstByte(raw []byte) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
