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

// CourseOutlineTool returns a course's full lesson listing. Like the
// search tool, lookup failures become result text rather than errors.
type CourseOutlineTool struct {
	store rag.ContentStore
}

func NewCourseOutlineTool(store rag.ContentStore) *CourseOutlineTool {
	return &CourseOutlineTool{store: store}
}

func (t *CourseOutlineTool) GetName() string {
	return "get_course_outline"
}

func (t *CourseOutlineTool) GetDescription() string {
	return "Get the complete outline of a course including title, link, and all lessons"
}

func (t *CourseOutlineTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        t.GetName(),
		Description: t.GetDescription(),
		Parameters: []ToolParameter{
			{
				Name:        "course_name",
				Type:        "string",
				Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				Required:    true,
			},
		},
	}
}

func (t *CourseOutlineTool) Execute(ctx context.Context, args map[string]interface{}) (Result, error) {
	courseName, ok := args["course_name"].(string)
	if !ok || courseName == "" {
		return Result{}, fmt.Errorf("course_name parameter is required")
	}

	outline, err := t.store.GetCourseOutline(ctx, courseName)
	if err != nil {
		return Result{Content: err.Error()}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Course: %s\n", outline.CourseTitle)
	if outline.CourseLink != "" {
		fmt.Fprintf(&sb, "Link: %s\n", outline.CourseLink)
	}
	if outline.Instructor != "" {
		fmt.Fprintf(&sb, "Instructor: %s\n", outline.Instructor)
	}

	if len(outline.Lessons) == 0 {
		sb.WriteString("No lessons found.")
	} else {
		fmt.Fprintf(&sb, "Lessons (%d):\n", len(outline.Lessons))
		for _, lesson := range outline.Lessons {
			fmt.Fprintf(&sb, "  %d. %s\n", lesson.Number, lesson.Title)
		}
	}

	return Result{
		Content: strings.TrimRight(sb.String(), "\n"),
		Sources: []Source{{Title: outline.CourseTitle, URL: outline.CourseLink}},
	}, nil
}

var _ Tool = (*CourseOutlineTool)(nil)
