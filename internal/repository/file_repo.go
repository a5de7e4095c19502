package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"user_manager/internal/model"
)

// fileRepository keeps every collection in one JSON document on disk,
// the same layout json-server uses for db.json.
type fileRepository struct {
	path string

	mu          sync.RWMutex
	collections map[string][]model.Record
}

// NewFileRepository loads (or lazily creates) the JSON database at path.
func NewFileRepository(path string, collections ...string) (RecordRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database file path is required")
	}

	r := &fileRepository{
		path:        path,
		collections: make(map[string][]model.Record),
	}
	for _, c := range collections {
		r.collections[c] = []model.Record{}
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *fileRepository) FindAll(_ context.Context, collection string) ([]model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.collections[collection]
	out := make([]model.Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (r *fileRepository) FindByID(_ context.Context, collection string, id int64) (model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexLocked(collection, id)
	if idx < 0 {
		return nil, nil
	}
	return r.collections[collection][idx].Clone(), nil
}

func (r *fileRepository) Create(_ context.Context, collection string, rec model.Record) (model.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := rec.Clone()
	stored["id"] = r.nextIDLocked(collection)

	prev := r.collections[collection]
	r.collections[collection] = append(append([]model.Record(nil), prev...), stored)
	if err := r.persistLocked(); err != nil {
		r.collections[collection] = prev
		return nil, err
	}
	return stored.Clone(), nil
}

func (r *fileRepository) Patch(_ context.Context, collection string, id int64, patch model.Record) (model.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(collection, id)
	if idx < 0 {
		return nil, nil
	}

	prev := r.collections[collection][idx]
	updated := prev.Clone()
	updated.Merge(patch)
	r.collections[collection][idx] = updated
	if err := r.persistLocked(); err != nil {
		r.collections[collection][idx] = prev
		return nil, err
	}
	return updated.Clone(), nil
}

func (r *fileRepository) Delete(_ context.Context, collection string, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(collection, id)
	if idx < 0 {
		return false, nil
	}

	prev := r.collections[collection]
	next := make([]model.Record, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	r.collections[collection] = next
	if err := r.persistLocked(); err != nil {
		r.collections[collection] = prev
		return false, err
	}
	return true, nil
}

func (r *fileRepository) indexLocked(collection string, id int64) int {
	for i, rec := range r.collections[collection] {
		if recID, ok := rec.ID(); ok && recID == id {
			return i
		}
	}
	return -1
}

func (r *fileRepository) nextIDLocked(collection string) int64 {
	var maxID int64
	for _, rec := range r.collections[collection] {
		if id, ok := rec.ID(); ok && id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

func (r *fileRepository) load() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read database file: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var decoded map[string][]model.Record
	if err := dec.Decode(&decoded); err != nil {
		return fmt.Errorf("decode database file: %w", err)
	}
	for name, recs := range decoded {
		kept := make([]model.Record, 0, len(recs))
		for _, rec := range recs {
			id, ok := rec.ID()
			if rec == nil || !ok {
				continue
			}
			rec["id"] = id
			kept = append(kept, rec)
		}
		r.collections[name] = kept
	}
	return nil
}

func (r *fileRepository) persistLocked() error {
	b, err := json.MarshalIndent(r.collections, "", "  ")
	if err != nil {
		return fmt.Errorf("encode database file: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir database dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp database file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write database file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close database file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace database file: %w", err)
	}
	return nil
}
