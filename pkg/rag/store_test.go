// Copyright 2026 Can Karabay
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rag

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ckarabay/lectern/pkg/config"
	"github.com/ckarabay/lectern/pkg/vector"
)

// keywordEmbedder maps texts onto axis-aligned vectors by keyword so
// similarity is deterministic in tests.
type keywordEmbedder struct{}

func (keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "mcp"):
		return []float32{1, 0, 0}, nil
	case strings.Contains(lower, "python"):
		return []float32{0, 1, 0}, nil
	default:
		return []float32{0, 0, 1}, nil
	}
}

func (e keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (keywordEmbedder) Dimension() int { return 3 }
func (keywordEmbedder) Model() string  { return "keyword-test" }
func (keywordEmbedder) Close() error   { return nil }

func intPtr(n int) *int { return &n }

func newSeededStore(t *testing.T) *VectorStore {
	t.Helper()

	provider, err := vector.NewChromemProvider(vector.ChromemConfig{})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	store := NewVectorStore(provider, keywordEmbedder{}, &config.StoreConfig{MaxResults: 5})

	ctx := context.Background()
	err = store.AddCourseMetadata(ctx, Course{
		Title:      "Introduction to MCP Servers",
		Link:       "https://example.com/mcp",
		Instructor: "Ada Lovelace",
		Lessons: []Lesson{
			{Number: 0, Title: "Welcome", Link: "https://example.com/mcp/lesson0"},
			{Number: 1, Title: "Getting Started", Link: "https://example.com/mcp/lesson1"},
		},
	})
	if err != nil {
		t.Fatalf("AddCourseMetadata failed: %v", err)
	}

	err = store.AddCourseMetadata(ctx, Course{
		Title:      "Python Basics",
		Link:       "https://example.com/python",
		Instructor: "Grace Hopper",
		Lessons: []Lesson{
			{Number: 1, Title: "Variables", Link: "https://example.com/python/lesson1"},
		},
	})
	if err != nil {
		t.Fatalf("AddCourseMetadata failed: %v", err)
	}

	err = store.AddCourseChunks(ctx, []CourseChunk{
		{Content: "MCP servers expose tools over a protocol", CourseTitle: "Introduction to MCP Servers", LessonNumber: intPtr(1), ChunkIndex: 0},
		{Content: "More MCP details in lesson one", CourseTitle: "Introduction to MCP Servers", LessonNumber: intPtr(1), ChunkIndex: 1},
		{Content: "Python variables hold values", CourseTitle: "Python Basics", LessonNumber: intPtr(1), ChunkIndex: 0},
	})
	if err != nil {
		t.Fatalf("AddCourseChunks failed: %v", err)
	}

	return store
}

func TestSearchNoFilters(t *testing.T) {
	store := newSeededStore(t)

	results, err := store.Search(context.Background(), "what is MCP", "", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results.Documents) == 0 {
		t.Fatal("expected results")
	}
	if len(results.Documents) != len(results.Metadata) {
		t.Fatalf("documents/metadata length mismatch: %d vs %d", len(results.Documents), len(results.Metadata))
	}
	if results.Metadata[0].CourseTitle != "Introduction to MCP Servers" {
		t.Errorf("unexpected best match course: %s", results.Metadata[0].CourseTitle)
	}
}

func TestSearchWithCourseFilterResolvesFuzzyName(t *testing.T) {
	store := newSeededStore(t)

	// Partial name resolves semantically against the catalog
	results, err := store.Search(context.Background(), "tools", "MCP", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for _, m := range results.Metadata {
		if m.CourseTitle != "Introduction to MCP Servers" {
			t.Errorf("course filter leak: %s", m.CourseTitle)
		}
	}
	if len(results.Documents) != 2 {
		t.Errorf("expected 2 chunks for MCP course, got %d", len(results.Documents))
	}
}

func TestSearchWithLessonFilter(t *testing.T) {
	store := newSeededStore(t)

	results, err := store.Search(context.Background(), "mcp tools", "MCP", intPtr(1))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for _, m := range results.Metadata {
		if m.LessonNumber == nil || *m.LessonNumber != 1 {
			t.Errorf("lesson filter leak: %+v", m)
		}
	}
}

func TestSearchCourseNotFound(t *testing.T) {
	provider, err := vector.NewChromemProvider(vector.ChromemConfig{})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	store := NewVectorStore(provider, keywordEmbedder{}, nil)

	_, err = store.Search(context.Background(), "anything", "Nonexistent Course", nil)
	if err == nil {
		t.Fatal("expected error for unknown course")
	}
	if err.Error() != "No course found matching 'Nonexistent Course'" {
		t.Errorf("unexpected error text: %q", err.Error())
	}
}

func TestSearchEmptyContent(t *testing.T) {
	provider, err := vector.NewChromemProvider(vector.ChromemConfig{})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	store := NewVectorStore(provider, keywordEmbedder{}, nil)

	results, err := store.Search(context.Background(), "anything", "", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results.Documents) != 0 {
		t.Fatalf("expected no documents, got %d", len(results.Documents))
	}
}

func TestGetLessonLink(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	if got := store.GetLessonLink(ctx, "Introduction to MCP Servers", 1); got != "https://example.com/mcp/lesson1" {
		t.Errorf("unexpected lesson link: %q", got)
	}
	if got := store.GetLessonLink(ctx, "Introduction to MCP Servers", 99); got != "" {
		t.Errorf("expected empty link for unknown lesson, got %q", got)
	}
}

func TestGetCourseLink(t *testing.T) {
	store := newSeededStore(t)

	if got := store.GetCourseLink(context.Background(), "Introduction to MCP Servers"); got != "https://example.com/mcp" {
		t.Errorf("unexpected course link: %q", got)
	}
}

func TestGetCourseOutline(t *testing.T) {
	store := newSeededStore(t)

	outline, err := store.GetCourseOutline(context.Background(), "MCP")
	if err != nil {
		t.Fatalf("GetCourseOutline failed: %v", err)
	}
	if outline.CourseTitle != "Introduction to MCP Servers" {
		t.Errorf("unexpected title: %s", outline.CourseTitle)
	}
	if outline.CourseLink != "https://example.com/mcp" {
		t.Errorf("unexpected link: %s", outline.CourseLink)
	}
	if outline.Instructor != "Ada Lovelace" {
		t.Errorf("unexpected instructor: %s", outline.Instructor)
	}
	if len(outline.Lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(outline.Lessons))
	}
	if outline.Lessons[1].Number != 1 || outline.Lessons[1].Title != "Getting Started" {
		t.Errorf("unexpected lesson: %+v", outline.Lessons[1])
	}
}

// idRecordingProvider captures every upserted document ID.
type idRecordingProvider struct {
	vector.Provider

	mu  sync.Mutex
	ids []string
}

func (p *idRecordingProvider) Upsert(ctx context.Context, collection, id string, vec []float32, metadata map[string]any) error {
	p.mu.Lock()
	p.ids = append(p.ids, id)
	p.mu.Unlock()
	return p.Provider.Upsert(ctx, collection, id, vec, metadata)
}

func TestDocumentIDsAreDeterministicUUIDs(t *testing.T) {
	inner, err := vector.NewChromemProvider(vector.ChromemConfig{})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	recorder := &idRecordingProvider{Provider: inner}
	store := NewVectorStore(recorder, keywordEmbedder{}, nil)
	ctx := context.Background()

	course := Course{Title: "Introduction to MCP Servers", Link: "https://example.com/mcp"}
	if err := store.AddCourseMetadata(ctx, course); err != nil {
		t.Fatalf("AddCourseMetadata failed: %v", err)
	}
	chunks := []CourseChunk{
		{Content: "MCP servers expose tools", CourseTitle: course.Title, LessonNumber: intPtr(1), ChunkIndex: 0},
		{Content: "More MCP details", CourseTitle: course.Title, LessonNumber: intPtr(1), ChunkIndex: 1},
	}
	if err := store.AddCourseChunks(ctx, chunks); err != nil {
		t.Fatalf("AddCourseChunks failed: %v", err)
	}

	// Qdrant only accepts UUID (or integer) point IDs
	if len(recorder.ids) != 3 {
		t.Fatalf("expected 3 upserts, got %d", len(recorder.ids))
	}
	for _, id := range recorder.ids {
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("document ID %q is not a UUID: %v", id, err)
		}
	}

	// Re-ingesting the same material must produce the same IDs so the
	// write is an upsert, not a duplicate
	firstPass := append([]string(nil), recorder.ids...)
	if err := store.AddCourseMetadata(ctx, course); err != nil {
		t.Fatalf("AddCourseMetadata failed: %v", err)
	}
	if err := store.AddCourseChunks(ctx, chunks); err != nil {
		t.Fatalf("AddCourseChunks failed: %v", err)
	}
	secondPass := recorder.ids[len(firstPass):]
	for i, id := range secondPass {
		if id != firstPass[i] {
			t.Errorf("ID changed across re-ingestion: %q vs %q", id, firstPass[i])
		}
	}

	// Search still resolves through the UUID-keyed documents
	results, err := store.Search(ctx, "what is MCP", "MCP", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results.Documents) != 2 {
		t.Errorf("expected 2 documents, got %d", len(results.Documents))
	}
}

func TestGetCourseOutlineNotFound(t *testing.T) {
	provider, err := vector.NewChromemProvider(vector.ChromemConfig{})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	store := NewVectorStore(provider, keywordEmbedder{}, nil)

	if _, err := store.GetCourseOutline(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}
