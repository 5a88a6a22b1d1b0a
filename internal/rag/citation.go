package rag

import (
	"strconv"
	"time"

	"naijalaw-ai/internal/model"
)

// Placeholders used when a chunk's metadata lacks a citation field.
const (
	UnknownCase  = "Unknown Case"
	UnknownYear  = "Unknown Year"
	UnknownCourt = "Unknown Court"
)

// Generic fallback citation emitted when retrieved chunks carry no
// citation metadata at all.
const (
	GenericSourceName  = "Nigerian Legal Database"
	GenericSourceCourt = "Legal Research Database"
)

// Citation is a structured reference to the source backing an answer.
// Derived from chunk metadata per answer, never persisted on its own.
type Citation struct {
	CaseName string `json:"caseName"`
	Year     string `json:"year"`
	Court    string `json:"court"`
	URL      string `json:"url,omitempty"`
}

// ExtractCitations derives a deduplicated citation list from the chunks
// used for synthesis. Field precedence: case_name over title, year over
// date, url over source_url; missing fields get explicit Unknown
// placeholders. Duplicates on (case name, year, court) collapse to the
// first occurrence. A non-empty chunk list that yields nothing produces a
// single generic citation; an empty list produces none.
func ExtractCitations(chunks []model.DocumentChunk) []Citation {
	var citations []Citation
	seen := make(map[[3]string]bool)

	for i := range chunks {
		meta := chunks[i].MetadataMap()
		if len(meta) == 0 {
			continue
		}

		caseName := firstOf(meta, "case_name", "title")
		if caseName == "" {
			caseName = UnknownCase
		}
		year := firstOf(meta, "year", "date")
		if year == "" {
			year = UnknownYear
		}
		court := meta["court"]
		if court == "" {
			court = UnknownCourt
		}
		url := firstOf(meta, "url", "source_url")

		key := [3]string{caseName, year, court}
		if seen[key] {
			continue
		}
		seen[key] = true
		citations = append(citations, Citation{
			CaseName: caseName,
			Year:     year,
			Court:    court,
			URL:      url,
		})
	}

	if len(citations) == 0 && len(chunks) > 0 {
		citations = append(citations, Citation{
			CaseName: GenericSourceName,
			Year:     strconv.Itoa(time.Now().Year()),
			Court:    GenericSourceCourt,
		})
	}
	return citations
}

func firstOf(meta map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := meta[k]; v != "" {
			return v
		}
	}
	return ""
}
