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
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/ckarabay/lectern/pkg/config"
	"github.com/ckarabay/lectern/pkg/embedder"
	"github.com/ckarabay/lectern/pkg/vector"
)

// Lesson is one lesson of a course.
type Lesson struct {
	Number int    `json:"lesson_number"`
	Title  string `json:"lesson_title"`
	Link   string `json:"lesson_link,omitempty"`
}

// Course is the catalog entry for one course.
type Course struct {
	Title      string
	Link       string
	Instructor string
	Lessons    []Lesson
}

// CourseChunk is one pre-chunked piece of course content.
type CourseChunk struct {
	Content      string
	CourseTitle  string
	LessonNumber *int
	ChunkIndex   int
}

// ChunkMetadata identifies where a matched chunk came from.
// LessonNumber is nil for chunks not tied to a lesson.
type ChunkMetadata struct {
	CourseTitle  string
	LessonNumber *int
	ChunkIndex   int
}

// SearchResults holds matched chunk texts with parallel metadata.
type SearchResults struct {
	Documents []string
	Metadata  []ChunkMetadata
}

// CourseOutline is the full lesson listing of one course.
type CourseOutline struct {
	CourseTitle string
	CourseLink  string
	Instructor  string
	Lessons     []Lesson
}

// ContentStore is the retrieval collaborator used by the course tools.
type ContentStore interface {
	// Search runs a filtered semantic search over course content.
	// A non-empty courseName is resolved against the catalog first; an
	// unresolvable name yields the error "No course found matching '<name>'".
	Search(ctx context.Context, query, courseName string, lessonNumber *int) (SearchResults, error)

	// GetLessonLink returns the link for a lesson, or "" when unknown.
	GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) string

	// GetCourseLink returns the link for a course, or "" when unknown.
	GetCourseLink(ctx context.Context, courseTitle string) string

	// GetCourseOutline resolves a course name and returns its outline.
	GetCourseOutline(ctx context.Context, courseName string) (*CourseOutline, error)
}

// VectorStore implements ContentStore over a vector provider and an
// embedder. Courses live in two collections: a catalog with one entry per
// course (used for fuzzy name resolution and outlines) and a content
// collection with the chunks.
type VectorStore struct {
	provider vector.Provider
	embedder embedder.Embedder

	catalogCollection string
	contentCollection string
	maxResults        int
}

func NewVectorStore(provider vector.Provider, emb embedder.Embedder, cfg *config.StoreConfig) *VectorStore {
	if cfg == nil {
		cfg = &config.StoreConfig{}
	}
	cfg.SetDefaults()

	return &VectorStore{
		provider:          provider,
		embedder:          emb,
		catalogCollection: cfg.CatalogCollection,
		contentCollection: cfg.ContentCollection,
		maxResults:        cfg.MaxResults,
	}
}

// documentID derives a deterministic UUID from a natural key. Qdrant only
// accepts UUID or integer point IDs, and a stable ID makes re-ingestion an
// upsert instead of a duplicate. The readable key stays in metadata.
func documentID(key string) string {
	hash := md5.Sum([]byte(key))
	return uuid.NewMD5(uuid.Nil, hash[:]).String()
}

// AddCourseMetadata writes one catalog entry. The course title is the
// embedded text and the natural key of the document ID, so catalog search
// doubles as fuzzy course name resolution.
func (s *VectorStore) AddCourseMetadata(ctx context.Context, course Course) error {
	if course.Title == "" {
		return fmt.Errorf("course title is required")
	}

	vec, err := s.embedder.Embed(ctx, course.Title)
	if err != nil {
		return fmt.Errorf("failed to embed course title: %w", err)
	}

	lessonsJSON, err := json.Marshal(course.Lessons)
	if err != nil {
		return fmt.Errorf("failed to marshal lessons: %w", err)
	}

	metadata := map[string]any{
		"content":      course.Title,
		"title":        course.Title,
		"course_link":  course.Link,
		"instructor":   course.Instructor,
		"lessons_json": string(lessonsJSON),
	}

	if err := s.provider.Upsert(ctx, s.catalogCollection, documentID(course.Title), vec, metadata); err != nil {
		return fmt.Errorf("failed to store course metadata: %w", err)
	}

	slog.Debug("Stored course metadata", "course", course.Title, "lessons", len(course.Lessons))
	return nil
}

// AddCourseChunks writes pre-chunked course content. Chunking itself
// happens upstream; this only stores what it is given.
func (s *VectorStore) AddCourseChunks(ctx context.Context, chunks []CourseChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	for i, chunk := range chunks {
		metadata := map[string]any{
			"content":      chunk.Content,
			"course_title": chunk.CourseTitle,
			"chunk_index":  strconv.Itoa(chunk.ChunkIndex),
		}
		if chunk.LessonNumber != nil {
			metadata["lesson_number"] = strconv.Itoa(*chunk.LessonNumber)
		}

		key := fmt.Sprintf("%s_%d", chunk.CourseTitle, chunk.ChunkIndex)
		if err := s.provider.Upsert(ctx, s.contentCollection, documentID(key), vectors[i], metadata); err != nil {
			return fmt.Errorf("failed to store chunk %s: %w", key, err)
		}
	}

	return nil
}

func (s *VectorStore) Search(ctx context.Context, query, courseName string, lessonNumber *int) (SearchResults, error) {
	filter := make(map[string]any)

	if courseName != "" {
		resolved, err := s.resolveCourseName(ctx, courseName)
		if err != nil {
			return SearchResults{}, err
		}
		filter["course_title"] = resolved
	}
	if lessonNumber != nil {
		filter["lesson_number"] = strconv.Itoa(*lessonNumber)
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search error: %v", err)
	}

	results, err := s.provider.SearchWithFilter(ctx, s.contentCollection, vec, s.maxResults, filter)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search error: %v", err)
	}

	out := SearchResults{
		Documents: make([]string, 0, len(results)),
		Metadata:  make([]ChunkMetadata, 0, len(results)),
	}
	for _, r := range results {
		out.Documents = append(out.Documents, r.Content)
		out.Metadata = append(out.Metadata, chunkMetadataFrom(r.Metadata))
	}

	return out, nil
}

func chunkMetadataFrom(metadata map[string]any) ChunkMetadata {
	meta := ChunkMetadata{}
	if title, ok := metadata["course_title"].(string); ok {
		meta.CourseTitle = title
	}
	if raw, ok := metadata["lesson_number"]; ok {
		if n, err := strconv.Atoi(fmt.Sprint(raw)); err == nil {
			meta.LessonNumber = &n
		}
	}
	if raw, ok := metadata["chunk_index"]; ok {
		if n, err := strconv.Atoi(fmt.Sprint(raw)); err == nil {
			meta.ChunkIndex = n
		}
	}
	return meta
}

// resolveCourseName fuzzy-matches a partial course name against the
// catalog via semantic search.
func (s *VectorStore) resolveCourseName(ctx context.Context, courseName string) (string, error) {
	vec, err := s.embedder.Embed(ctx, courseName)
	if err != nil {
		return "", fmt.Errorf("search error: %v", err)
	}

	results, err := s.provider.Search(ctx, s.catalogCollection, vec, 1)
	if err != nil {
		return "", fmt.Errorf("search error: %v", err)
	}

	if len(results) == 0 {
		return "", fmt.Errorf("No course found matching '%s'", courseName)
	}

	if title, ok := results[0].Metadata["title"].(string); ok && title != "" {
		return title, nil
	}
	return results[0].ID, nil
}

// catalogEntry fetches the resolved catalog record for a course name.
func (s *VectorStore) catalogEntry(ctx context.Context, courseName string) (*vector.Result, error) {
	vec, err := s.embedder.Embed(ctx, courseName)
	if err != nil {
		return nil, fmt.Errorf("search error: %v", err)
	}

	results, err := s.provider.Search(ctx, s.catalogCollection, vec, 1)
	if err != nil {
		return nil, fmt.Errorf("search error: %v", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("No course found matching '%s'", courseName)
	}

	return &results[0], nil
}

func (s *VectorStore) GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) string {
	entry, err := s.catalogEntry(ctx, courseTitle)
	if err != nil {
		slog.Debug("Lesson link lookup failed", "course", courseTitle, "error", err)
		return ""
	}

	lessons, err := parseLessons(entry.Metadata)
	if err != nil {
		slog.Debug("Failed to parse lessons", "course", courseTitle, "error", err)
		return ""
	}

	for _, lesson := range lessons {
		if lesson.Number == lessonNumber {
			return lesson.Link
		}
	}
	return ""
}

func (s *VectorStore) GetCourseLink(ctx context.Context, courseTitle string) string {
	entry, err := s.catalogEntry(ctx, courseTitle)
	if err != nil {
		slog.Debug("Course link lookup failed", "course", courseTitle, "error", err)
		return ""
	}

	if link, ok := entry.Metadata["course_link"].(string); ok {
		return link
	}
	return ""
}

func (s *VectorStore) GetCourseOutline(ctx context.Context, courseName string) (*CourseOutline, error) {
	entry, err := s.catalogEntry(ctx, courseName)
	if err != nil {
		return nil, err
	}

	outline := &CourseOutline{}
	if title, ok := entry.Metadata["title"].(string); ok {
		outline.CourseTitle = title
	}
	if outline.CourseTitle == "" {
		outline.CourseTitle = entry.ID
	}
	if link, ok := entry.Metadata["course_link"].(string); ok {
		outline.CourseLink = link
	}
	if instructor, ok := entry.Metadata["instructor"].(string); ok {
		outline.Instructor = instructor
	}

	lessons, err := parseLessons(entry.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lessons for '%s': %w", outline.CourseTitle, err)
	}
	outline.Lessons = lessons

	return outline, nil
}

func parseLessons(metadata map[string]any) ([]Lesson, error) {
	raw, ok := metadata["lessons_json"].(string)
	if !ok || raw == "" {
		return nil, nil
	}

	var lessons []Lesson
	if err := json.Unmarshal([]byte(raw), &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

var _ ContentStore = (*VectorStore)(nil)
