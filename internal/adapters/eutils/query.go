package eutils

import (
	"net/url"
	"strconv"
	"strings"

	"studybuddy/internal/domain"
)

// Open-ended year ranges are closed with these bounds, esearch needs both.
const (
	earliestYear = 1800
	latestYear   = 3000
)

// Term builds the esearch term for a filter. Journals are OR'ed, each MeSH
// group is OR'ed over the descriptor, major topic and subheading fields, and
// everything is AND'ed together.
func Term(f domain.SearchFilter) string {
	var parts []string

	if len(f.Journals) > 0 {
		journals := make([]string, len(f.Journals))
		for i, j := range f.Journals {
			journals[i] = j + "[JOUR]"
		}
		parts = append(parts, "("+strings.Join(journals, " OR ")+")")
	}

	for _, group := range f.MeshTerms {
		var fields []string
		for _, term := range group {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			fields = append(fields, term+"[MESH]", term+"[MAJR]", term+"[SUBH]")
		}
		if len(fields) > 0 {
			parts = append(parts, "("+strings.Join(fields, " OR ")+")")
		}
	}

	return strings.Join(parts, " AND ")
}

// searchParams returns the esearch parameters for one page.
func searchParams(f domain.SearchFilter, retstart int) url.Values {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(pageSize))
	params.Set("retstart", strconv.Itoa(retstart))
	if term := Term(f); term != "" {
		params.Set("term", term)
	}

	if f.StartYear != 0 || f.EndYear != 0 {
		start, end := f.StartYear, f.EndYear
		if start == 0 {
			start = earliestYear
		}
		if end == 0 {
			end = latestYear
		}
		params.Set("datetype", "pdat")
		params.Set("mindate", strconv.Itoa(start))
		params.Set("maxdate", strconv.Itoa(end))
	}
	return params
}
