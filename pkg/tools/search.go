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

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/ckarabay/lectern/pkg/rag"
)

// CourseSearchTool performs semantic search over course content with
// optional course and lesson filtering. Store-level failures (unresolvable
// course name, backend errors) are returned as result text, not errors, so
// the model can react to them.
type CourseSearchTool struct {
	store rag.ContentStore
}

func NewCourseSearchTool(store rag.ContentStore) *CourseSearchTool {
	return &CourseSearchTool{store: store}
}

func (t *CourseSearchTool) GetName() string {
	return "search_course_content"
}

func (t *CourseSearchTool) GetDescription() string {
	return "Search course materials with smart course name matching and lesson filtering"
}

func (t *CourseSearchTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        t.GetName(),
		Description: t.GetDescription(),
		Parameters: []ToolParameter{
			{
				Name:        "query",
				Type:        "string",
				Description: "What to search for in the course content",
				Required:    true,
			},
			{
				Name:        "course_name",
				Type:        "string",
				Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
			},
			{
				Name:        "lesson_number",
				Type:        "integer",
				Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
			},
		},
	}
}

func (t *CourseSearchTool) Execute(ctx context.Context, args map[string]interface{}) (Result, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return Result{}, fmt.Errorf("query parameter is required")
	}

	courseName, _ := args["course_name"].(string)

	// Lesson numbers arrive as float64 from JSON decoding. Values are
	// passed through unvalidated; zero and negative numbers simply match
	// nothing.
	var lessonNumber *int
	switch v := args["lesson_number"].(type) {
	case float64:
		n := int(v)
		lessonNumber = &n
	case int:
		n := v
		lessonNumber = &n
	}

	results, err := t.store.Search(ctx, query, courseName, lessonNumber)
	if err != nil {
		return Result{Content: err.Error()}, nil
	}

	if len(results.Documents) == 0 {
		var filterInfo strings.Builder
		if courseName != "" {
			fmt.Fprintf(&filterInfo, " in course '%s'", courseName)
		}
		if lessonNumber != nil {
			fmt.Fprintf(&filterInfo, " in lesson %d", *lessonNumber)
		}
		return Result{Content: fmt.Sprintf("No relevant content found%s.", filterInfo.String())}, nil
	}

	return t.formatResults(ctx, results), nil
}

// formatResults labels each matched chunk with its course and lesson and
// records one source per match, in match order.
func (t *CourseSearchTool) formatResults(ctx context.Context, results rag.SearchResults) Result {
	formatted := make([]string, 0, len(results.Documents))
	sources := make([]Source, 0, len(results.Documents))

	for i, doc := range results.Documents {
		meta := results.Metadata[i]

		title := meta.CourseTitle
		if meta.LessonNumber != nil {
			title = fmt.Sprintf("%s - Lesson %d", meta.CourseTitle, *meta.LessonNumber)
		}

		formatted = append(formatted, fmt.Sprintf("[%s]\n%s", title, doc))

		source := Source{Title: title}
		if meta.LessonNumber != nil {
			source.URL = t.store.GetLessonLink(ctx, meta.CourseTitle, *meta.LessonNumber)
		}
		sources = append(sources, source)
	}

	return Result{
		Content: strings.Join(formatted, "\n\n"),
		Sources: sources,
	}
}

var _ Tool = (*CourseSearchTool)(nil)
