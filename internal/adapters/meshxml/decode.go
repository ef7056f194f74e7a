// Package meshxml reads the NLM MeSH descriptor file (descYYYY.xml).
package meshxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"studybuddy/internal/domain"
)

type descriptorRecord struct {
	UI          string   `xml:"DescriptorUI"`
	Name        string   `xml:"DescriptorName>String"`
	TreeNumbers []string `xml:"TreeNumberList>TreeNumber"`
}

// Decode streams DescriptorRecord elements from r into subjects, in file
// order. The full descriptor file is several hundred megabytes, so records
// are decoded one at a time.
func Decode(r io.Reader) ([]domain.Subject, error) {
	dec := xml.NewDecoder(r)

	var subjects []domain.Subject
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return subjects, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read descriptor file: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "DescriptorRecord" {
			continue
		}

		var rec descriptorRecord
		if err := dec.DecodeElement(&rec, &start); err != nil {
			return nil, fmt.Errorf("failed to decode descriptor record: %w", err)
		}
		subjects = append(subjects, domain.Subject{
			ID:          strings.TrimSpace(rec.UI),
			Name:        strings.TrimSpace(rec.Name),
			TreeNumbers: trimAll(rec.TreeNumbers),
		})
	}
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
