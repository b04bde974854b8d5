package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/rogersnm/contractme/internal/model"
	"gopkg.in/yaml.v3"
)

// deadlineFile is the frontmatter of a deadline file. The markdown body
// holds the description.
type deadlineFile struct {
	ID       string `yaml:"id,omitempty"`
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Category string `yaml:"category"`
	Document string `yaml:"document,omitempty"`
}

func readDeadlineFile(r io.Reader) (deadlineFile, string, error) {
	var meta deadlineFile
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, strings.TrimSpace(string(body)), nil
}

func writeDeadlineFile(meta deadlineFile, description string) ([]byte, error) {
	head, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n")
	if description != "" {
		buf.WriteString("\n")
		buf.WriteString(description)
		if !strings.HasSuffix(description, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// ParseDeadline reads a deadline file. Dates are YYYY-MM-DD in loc.
func ParseDeadline(r io.Reader, loc *time.Location) (model.DeadlineInput, error) {
	meta, body, err := readDeadlineFile(r)
	if err != nil {
		return model.DeadlineInput{}, err
	}
	in := model.DeadlineInput{
		Title:       meta.Title,
		Description: body,
		Category:    meta.Category,
		DocumentID:  meta.Document,
	}
	if meta.Date != "" {
		d, err := model.ParseDate(meta.Date, loc)
		if err != nil {
			return model.DeadlineInput{}, err
		}
		in.Date = d
	}
	if err := in.Validate(); err != nil {
		return model.DeadlineInput{}, fmt.Errorf("deadline file: %w", err)
	}
	return in, nil
}

// MarshalDeadline writes d in the format ParseDeadline reads.
func MarshalDeadline(d model.Deadline) ([]byte, error) {
	return writeDeadlineFile(deadlineFile{
		ID:       d.ID,
		Title:    d.Title,
		Date:     d.Date.Format(model.DateLayout),
		Category: d.Category,
		Document: d.DocumentID,
	}, d.Description)
}
