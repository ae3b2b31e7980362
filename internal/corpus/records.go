// Package corpus loads the publication record list consumed by ingestion.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// PublicationRecord is one row of the corpus list: a publication title and the
// URL of its full-text page.
type PublicationRecord struct {
	Title string
	Link  string
}

// LoadRecords reads a CSV file with Title and Link columns. The header row is
// required; column order is taken from it. An unreadable list is the only
// fatal ingestion input error.
func LoadRecords(path string) ([]PublicationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record list: %w", err)
	}
	defer f.Close()

	return parseRecords(f)
}

func parseRecords(r io.Reader) ([]PublicationRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read record list header: %w", err)
	}

	titleCol, linkCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			titleCol = i
		case "link":
			linkCol = i
		}
	}
	if titleCol < 0 || linkCol < 0 {
		return nil, fmt.Errorf("record list must have Title and Link columns, got %v", header)
	}

	var records []PublicationRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record list: %w", err)
		}
		records = append(records, PublicationRecord{
			Title: strings.TrimSpace(row[titleCol]),
			Link:  strings.TrimSpace(row[linkCol]),
		})
	}

	return records, nil
}
