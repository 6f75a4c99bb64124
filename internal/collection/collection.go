// Package collection provides the durable pool of uploaded source images,
// independent of any wall placement.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"wall-gallery/internal/storage"
)

// StorageKey is the durable blob the collection lives under.
const StorageKey = "collection"

// ErrNotFound indicates the requested item id is not in the collection.
var ErrNotFound = errors.New("collection item not found")

// Item is one uploaded image available for placement.
type Item struct {
	ID        int       `json:"id"`
	ImageRef  string    `json:"image_ref"`
	Name      string    `json:"name"`
	DateAdded time.Time `json:"date_added"`
}

// blob is the persisted shape: the items plus the id counter, so ids stay
// unique across removals and restarts.
type blob struct {
	Items   []Item `json:"items"`
	Counter int    `json:"counter"`
}

// Store maintains the image collection on top of the durable key-value
// store. Every mutation rewrites the whole blob; failed writes roll back.
type Store struct {
	mu      sync.Mutex
	kv      storage.Store
	items   []Item
	counter int
}

// NewStore creates a store and loads any previously persisted collection.
func NewStore(kv storage.Store) (*Store, error) {
	s := &Store{kv: kv}

	raw, ok, err := kv.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	if ok && raw != "" {
		var b blob
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			log.Printf("collection blob is corrupt, starting empty: %v", err)
		} else {
			s.items = b.Items
			s.counter = b.Counter
		}
	}
	return s, nil
}

// Items returns a copy of the collection in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Add registers an uploaded image and persists the collection.
func (s *Store) Add(imageRef, name string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := Item{
		ID:        s.counter + 1,
		ImageRef:  imageRef,
		Name:      name,
		DateAdded: time.Now().UTC(),
	}
	s.counter++
	s.items = append(s.items, item)

	if err := s.persistLocked(); err != nil {
		s.items = s.items[:len(s.items)-1]
		s.counter--
		return Item{}, err
	}
	return item, nil
}

// Get returns the item with the given id.
func (s *Store) Get(id int) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("collection item %d: %w", id, ErrNotFound)
}

// Remove deletes the item with the given id and persists the collection.
// The underlying image file is left alone; placed artworks referencing it
// keep working.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == id {
			removed := it
			s.items = append(s.items[:i], s.items[i+1:]...)
			if err := s.persistLocked(); err != nil {
				s.items = append(s.items[:i], append([]Item{removed}, s.items[i:]...)...)
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("collection item %d: %w", id, ErrNotFound)
}

func (s *Store) persistLocked() error {
	items := s.items
	if items == nil {
		items = []Item{}
	}
	data, err := json.MarshalIndent(blob{Items: items, Counter: s.counter}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist collection: %w", err)
	}
	return nil
}
