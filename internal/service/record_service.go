package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"user_manager/internal/model"
	"user_manager/internal/repository"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrUnknownCollection = errors.New("unknown collection")
)

// CollectionOptions tunes how a collection's records are written
type CollectionOptions struct {
	// Timestamps stamps createdAt on create and updatedAt on every write
	Timestamps bool
}

// DefaultCollections returns the collections served by the record store
func DefaultCollections() map[string]CollectionOptions {
	return map[string]CollectionOptions{
		model.CollectionCustomers: {Timestamps: true},
		model.CollectionUsers:     {},
	}
}

// RecordService defines operations on record collections
type RecordService interface {
	Collections() []string
	List(ctx context.Context, collection string, filters map[string]string) ([]model.Record, error)
	Get(ctx context.Context, collection string, id int64) (model.Record, error)
	Create(ctx context.Context, collection string, body model.Record) (model.Record, error)
	Update(ctx context.Context, collection string, id int64, patch model.Record) (model.Record, error)
	Delete(ctx context.Context, collection string, id int64) error
}

type recordService struct {
	repo        repository.RecordRepository
	collections map[string]CollectionOptions
	now         func() time.Time
}

// NewRecordService creates a new RecordService
func NewRecordService(repo repository.RecordRepository, collections map[string]CollectionOptions) RecordService {
	return &recordService{repo: repo, collections: collections, now: time.Now}
}

// NewRecordServiceWithClock creates a RecordService stamping records with now.
func NewRecordServiceWithClock(repo repository.RecordRepository, collections map[string]CollectionOptions, now func() time.Time) RecordService {
	return &recordService{repo: repo, collections: collections, now: now}
}

func (s *recordService) Collections() []string {
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *recordService) options(collection string) (CollectionOptions, error) {
	opts, ok := s.collections[collection]
	if !ok {
		return CollectionOptions{}, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return opts, nil
}

func (s *recordService) List(ctx context.Context, collection string, filters map[string]string) ([]model.Record, error) {
	if _, err := s.options(collection); err != nil {
		return nil, err
	}
	recs, err := s.repo.FindAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	if len(filters) == 0 {
		return recs, nil
	}

	out := make([]model.Record, 0, len(recs))
	for _, rec := range recs {
		if rec.Matches(filters) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *recordService) Get(ctx context.Context, collection string, id int64) (model.Record, error) {
	if _, err := s.options(collection); err != nil {
		return nil, err
	}
	rec, err := s.repo.FindByID(ctx, collection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s record by ID: %w", collection, err)
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

func (s *recordService) Create(ctx context.Context, collection string, body model.Record) (model.Record, error) {
	opts, err := s.options(collection)
	if err != nil {
		return nil, err
	}

	rec := body.Clone()
	delete(rec, "id")
	if opts.Timestamps {
		stamp := s.now().UTC().Format(time.RFC3339Nano)
		if v, ok := rec["createdAt"]; !ok || v == nil || v == "" {
			rec["createdAt"] = stamp
		}
		rec["updatedAt"] = stamp
	}

	created, err := s.repo.Create(ctx, collection, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s record in repo: %w", collection, err)
	}
	return created, nil
}

func (s *recordService) Update(ctx context.Context, collection string, id int64, patch model.Record) (model.Record, error) {
	opts, err := s.options(collection)
	if err != nil {
		return nil, err
	}

	changes := patch.Clone()
	delete(changes, "id")
	if opts.Timestamps {
		delete(changes, "createdAt")
		changes["updatedAt"] = s.now().UTC().Format(time.RFC3339Nano)
	}

	updated, err := s.repo.Patch(ctx, collection, id, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s record in repo: %w", collection, err)
	}
	if updated == nil {
		return nil, ErrRecordNotFound
	}
	return updated, nil
}

func (s *recordService) Delete(ctx context.Context, collection string, id int64) error {
	if _, err := s.options(collection); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record from repo: %w", collection, err)
	}
	if !deleted {
		return ErrRecordNotFound
	}
	return nil
}
