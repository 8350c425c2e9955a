package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"webagent/pkg/models"
)

func newTestStore(t *testing.T) *ContentStore {
	t.Helper()
	backend, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS() error = %v", err)
	}
	return New(backend)
}

func testPage(url, text string) models.PageContent {
	return models.PageContent{
		URL: url,
		Content: []models.ContentUnit{
			{Heading: models.Heading("Section"), Paragraphs: []string{text}},
		},
	}
}

func TestContentStore_CreateRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	urls := []string{"https://example.com/a"}
	results := []models.PageContent{testPage(urls[0], "Some paragraph text.")}
	scrapeErrors := []models.ScrapeError{{URL: "https://example.com/bad", Error: "connection refused"}}

	id, err := s.Create(ctx, "docs", urls, results, scrapeErrors)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned empty identifier")
	}

	record, err := s.Read(ctx, id)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if record.AgentName != "docs" {
		t.Errorf("AgentName = %q, want %q", record.AgentName, "docs")
	}
	if len(record.URLs) != 1 || record.URLs[0] != urls[0] {
		t.Errorf("URLs = %v, want %v", record.URLs, urls)
	}
	if len(record.Results) != 1 || len(record.Errors) != 1 {
		t.Errorf("Results/Errors = %d/%d, want 1/1", len(record.Results), len(record.Errors))
	}
}

func TestContentStore_ReadNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() error = %v, want ErrNotFound", err)
	}
}

func TestContentStore_EncodingShape(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS() error = %v", err)
	}
	s := New(backend)

	url := "https://example.com/search?q=a&b=c"
	id, err := s.Create(ctx, "docs", []string{url}, []models.PageContent{testPage(url, "text")}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, id+".json"))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}

	// Pretty-printed, with URL characters left unescaped.
	if !strings.Contains(string(raw), "    \"agent_name\"") {
		t.Errorf("stored JSON not indented:\n%s", raw)
	}
	if !strings.Contains(string(raw), url) {
		t.Errorf("stored JSON escaped the URL:\n%s", raw)
	}
	if strings.Contains(string(raw), `&`) {
		t.Errorf("stored JSON HTML-escaped ampersand:\n%s", raw)
	}
}

func TestContentStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Create(ctx, "docs", []string{"https://a.example"}, []models.PageContent{testPage("https://a.example", "first")}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	record, err := s.Update(ctx, id,
		[]string{"https://a.example", "https://b.example"},
		[]models.PageContent{testPage("https://b.example", "second")},
		[]models.ScrapeError{{URL: "https://c.example", Error: "timeout"}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// URL set is a union; duplicates are not re-added.
	if len(record.URLs) != 2 {
		t.Errorf("URLs = %v, want union of 2", record.URLs)
	}
	if len(record.Results) != 2 {
		t.Errorf("Results = %d, want 2 (append-only)", len(record.Results))
	}
	if len(record.Errors) != 1 {
		t.Errorf("Errors = %d, want 1", len(record.Errors))
	}
}

func TestContentStore_UpdateNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Update(context.Background(), "no-such-id", []string{"https://a.example"}, nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestContentStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Create(ctx, "docs", nil, nil, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := "https://example.com/" + string(rune('a'+i))
			_, err := s.Update(ctx, id, []string{url}, []models.PageContent{testPage(url, "text")}, nil)
			if err != nil {
				t.Errorf("Update() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	record, err := s.Read(ctx, id)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(record.URLs) != n || len(record.Results) != n {
		t.Errorf("after %d concurrent updates: URLs=%d Results=%d, want %d each", n, len(record.URLs), len(record.Results), n)
	}
}

func TestContentStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Create(ctx, "docs", nil, nil, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Read(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of absent record error = %v, want ErrNotFound", err)
	}
}

func TestContentStore_ListSkipsCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS() error = %v", err)
	}
	s := New(backend)

	goodID, err := s.Create(ctx, "docs", []string{"https://a.example"}, nil, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A record that parses but lacks required fields, and one that
	// isn't JSON at all. Both are skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "empty.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "garbage.json"), []byte(`{{{`), 0o644); err != nil {
		t.Fatal(err)
	}

	summaries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("List() = %d summaries, want 1", len(summaries))
	}
	if summaries[0].ID != goodID || summaries[0].AgentName != "docs" {
		t.Errorf("List()[0] = %+v, want the intact record", summaries[0])
	}
}

func TestContentStore_ReadCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS() error = %v", err)
	}
	s := New(backend)

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`not json`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err = s.Read(ctx, "bad")
	if !errors.Is(err, ErrCorruptRecord) {
		t.Errorf("Read() error = %v, want ErrCorruptRecord", err)
	}
}

func TestMissingURLs(t *testing.T) {
	record := &models.AgentRecord{URLs: []string{"https://a.example", "https://b.example"}}

	tests := []struct {
		name      string
		requested []string
		want      []string
	}{
		{
			name:      "all new",
			requested: []string{"https://c.example", "https://d.example"},
			want:      []string{"https://c.example", "https://d.example"},
		},
		{
			name:      "all present",
			requested: []string{"https://a.example", "https://b.example"},
			want:      nil,
		},
		{
			name:      "mixed keeps request order",
			requested: []string{"https://a.example", "https://c.example"},
			want:      []string{"https://c.example"},
		},
		{
			name:      "empty request",
			requested: nil,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingURLs(record, tt.requested)
			if len(got) != len(tt.want) {
				t.Fatalf("MissingURLs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("MissingURLs()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
