// Package store persists agent records as one JSON document per
// generated identifier, over pluggable object storage.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"webagent/pkg/models"
)

// ErrNotFound means no record exists for the identifier.
var ErrNotFound = errors.New("agent not found")

// ErrCorruptRecord means a stored payload could not be parsed into the
// expected shape. Kept distinct from ErrNotFound for diagnostics even
// where callers surface a unified message.
var ErrCorruptRecord = errors.New("corrupt agent record")

// ObjectStore is the durable backend: one opaque document per
// identifier. Implementations: filesystem (FS) and S3/MinIO (S3).
type ObjectStore interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// ContentStore manages agent records. Updates hold a per-identifier
// mutex across the read-modify-write so two concurrent updates to the
// same agent cannot silently drop each other's results.
type ContentStore struct {
	objects ObjectStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a ContentStore over the given backend.
func New(objects ObjectStore) *ContentStore {
	return &ContentStore{
		objects: objects,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lock returns the mutex guarding one identifier.
func (s *ContentStore) lock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// encode serializes a record pretty-printed, UTF-8, with non-ASCII and
// URL characters preserved unescaped.
func encode(record *models.AgentRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decode parses a stored payload, distinguishing corruption from
// absence: a present-but-unreadable document is ErrCorruptRecord.
func decode(data []byte) (*models.AgentRecord, error) {
	var record models.AgentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if record.AgentName == "" && record.URLs == nil {
		return nil, fmt.Errorf("%w: missing required fields", ErrCorruptRecord)
	}
	return &record, nil
}

// Create stores a new record under a fresh identifier and returns it.
// The write either completes fully or fails for the whole request.
func (s *ContentStore) Create(ctx context.Context, agentName string, urls []string, results []models.PageContent, scrapeErrors []models.ScrapeError) (string, error) {
	id := models.NewAgentID()
	record := &models.AgentRecord{
		AgentName: agentName,
		URLs:      urls,
		Results:   results,
		Errors:    scrapeErrors,
	}

	data, err := encode(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	if err := s.objects.Put(ctx, id, data); err != nil {
		return "", fmt.Errorf("failed to store record %s: %w", id, err)
	}

	slog.Info("stored agent record", "id", id, "agent_name", agentName, "urls", len(urls))
	return id, nil
}

// Read loads the record for an identifier.
func (s *ContentStore) Read(ctx context.Context, id string) (*models.AgentRecord, error) {
	data, err := s.objects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// MissingURLs returns the requested URLs not already associated with
// the record, preserving request order. The caller scrapes only these.
func MissingURLs(record *models.AgentRecord, requested []string) []string {
	var missing []string
	for _, u := range requested {
		if !record.HasURL(u) {
			missing = append(missing, u)
		}
	}
	return missing
}

// Update merges new state into an existing record: the URL set becomes
// the union, results and errors are appended. The whole read-modify-
// write runs under the identifier's lock.
func (s *ContentStore) Update(ctx context.Context, id string, newURLs []string, newResults []models.PageContent, newErrors []models.ScrapeError) (*models.AgentRecord, error) {
	l := s.lock(id)
	l.Lock()
	defer l.Unlock()

	record, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	record.URLs = append(record.URLs, MissingURLs(record, newURLs)...)
	record.Results = append(record.Results, newResults...)
	record.Errors = append(record.Errors, newErrors...)

	data, err := encode(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	if err := s.objects.Put(ctx, id, data); err != nil {
		return nil, fmt.Errorf("failed to store record %s: %w", id, err)
	}

	slog.Info("updated agent record", "id", id, "agent_name", record.AgentName, "urls", len(record.URLs))
	return record, nil
}

// Delete removes the record entirely. ErrNotFound if absent.
func (s *ContentStore) Delete(ctx context.Context, id string) error {
	return s.objects.Delete(ctx, id)
}

// List scans all records and returns their summaries. Individually
// corrupt records are skipped and logged rather than failing the
// listing.
func (s *ContentStore) List(ctx context.Context) ([]models.AgentSummary, error) {
	ids, err := s.objects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	summaries := make([]models.AgentSummary, 0, len(ids))
	for _, id := range ids {
		record, err := s.Read(ctx, id)
		if err != nil {
			slog.Warn("skipping unreadable agent record", "id", id, "error", err)
			continue
		}
		summaries = append(summaries, models.AgentSummary{
			ID:        id,
			AgentName: record.AgentName,
			URLs:      record.URLs,
		})
	}
	return summaries, nil
}
