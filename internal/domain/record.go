package domain

import (
	"fmt"
	"time"
)

// PubMedBaseURL is the public landing page prefix for a PubMed record.
const PubMedBaseURL = "https://pubmed.ncbi.nlm.nih.gov/"

// Author is a single entry of a record's author list.
type Author struct {
	LastName string
	ForeName string
	Initials string
}

// String formats the author as "Last,Fore".
func (a Author) String() string {
	if a.ForeName == "" {
		return a.LastName
	}
	return fmt.Sprintf("%s,%s", a.LastName, a.ForeName)
}

// Publication describes where and when a record was published.
type Publication struct {
	Journal string
	Volume  string
	Issue   string
	Date    time.Time
}

// Record is a bibliographic record (a PubMed article).
type Record struct {
	ID            string // PMID
	Title         string
	Abstract      string
	Authors       []Author
	Publication   Publication
	MajorSubjects []string // subject IDs flagged as major topics
	CitedBy       []string // PMIDs of citing records
	ImpactScore   float64
}

// URL returns the record's PubMed link.
func (r Record) URL() string {
	return PubMedURL(r.ID)
}

// FirstAuthor returns the first listed author, if any.
func (r Record) FirstAuthor() (Author, bool) {
	if len(r.Authors) == 0 {
		return Author{}, false
	}
	return r.Authors[0], true
}

// CitationCount returns the number of records citing this one.
func (r Record) CitationCount() int {
	return len(r.CitedBy)
}

// PubMedURL builds the PubMed link for a PMID.
func PubMedURL(id string) string {
	return PubMedBaseURL + id + "/"
}
