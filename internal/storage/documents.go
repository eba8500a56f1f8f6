package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// draftPrefix marks unpublished edits in a dataset export
const draftPrefix = "drafts."

// IsDraft reports whether id is an unpublished draft document
func IsDraft(id string) bool {
	return strings.HasPrefix(id, draftPrefix)
}

// ParseDocuments reads an NDJSON dataset export (one document per line) into
// documents ready to save. Lines without _id or _type are rejected.
// Draft documents are skipped.
func ParseDocuments(r io.Reader) ([]Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var docs []Document
	line, drafts := 0, 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var header struct {
			ID   string `json:"_id"`
			Type string `json:"_type"`
			Slug struct {
				Current string `json:"current"`
			} `json:"slug"`
		}
		if err := json.Unmarshal([]byte(raw), &header); err != nil {
			return nil, fmt.Errorf("line %d: invalid document: %w", line, err)
		}
		if header.ID == "" || header.Type == "" {
			return nil, fmt.Errorf("line %d: document requires _id and _type", line)
		}
		if IsDraft(header.ID) {
			drafts++
			continue
		}

		docs = append(docs, Document{
			ID:   header.ID,
			Type: header.Type,
			Slug: header.Slug.Current,
			Body: json.RawMessage(raw),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	if drafts > 0 {
		slog.Info("Skipped draft documents", "count", drafts)
	}

	return docs, nil
}
