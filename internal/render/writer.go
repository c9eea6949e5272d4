// Package render serializes topic summaries into the JavaScript data literal
// loaded by the D3 visualization page.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

// labelEscaper neutralizes characters that would break the literal: embedded
// quotes are escaped, newlines collapse to spaces.
var labelEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", " ",
	"\r", " ",
)

// Writer renders summaries as a `const data = {...}` assignment.
type Writer struct {
	title string
}

// NewWriter creates a writer with the given collection title.
func NewWriter(title string) *Writer {
	return &Writer{title: title}
}

// Render builds the literal, preserving the input order of summaries.
func (w *Writer) Render(summaries []domain.TopicSummary) string {
	var children strings.Builder
	for _, s := range summaries {
		children.WriteString(
			fmt.Sprintf("{name: \"%s\", value: %d},\n    ", labelEscaper.Replace(s.Label), s.Size),
		)
	}

	return fmt.Sprintf(`const data = {
  name: "%s",
  children: [
    %s
  ]
};
`, labelEscaper.Replace(w.title), strings.TrimSpace(children.String()))
}

// Write renders the summaries and replaces any existing file at path.
func (w *Writer) Write(summaries []domain.TopicSummary, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(w.Render(summaries)), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
