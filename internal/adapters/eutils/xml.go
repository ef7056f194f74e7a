package eutils

import (
	"encoding/xml"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"studybuddy/internal/domain"
)

type articleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID         string        `xml:"PMID"`
	Article      article       `xml:"Article"`
	MeshHeadings []meshHeading `xml:"MeshHeadingList>MeshHeading"`
}

type article struct {
	Journal  journal  `xml:"Journal"`
	Title    markup   `xml:"ArticleTitle"`
	Abstract []markup `xml:"Abstract>AbstractText"`
	Authors  []author `xml:"AuthorList>Author"`
}

type journal struct {
	Title  string  `xml:"Title"`
	Volume string  `xml:"JournalIssue>Volume"`
	Issue  string  `xml:"JournalIssue>Issue"`
	Date   pubDate `xml:"JournalIssue>PubDate"`
}

type pubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

type author struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
	Initials string `xml:"Initials"`
}

type meshHeading struct {
	Descriptor descriptor  `xml:"DescriptorName"`
	Qualifiers []qualifier `xml:"QualifierName"`
}

type descriptor struct {
	UI    string `xml:"UI,attr"`
	Major string `xml:"MajorTopicYN,attr"`
}

type qualifier struct {
	Major string `xml:"MajorTopicYN,attr"`
}

// markup keeps inline formatting (<i>, <sup>) so it can be flattened to text.
type markup struct {
	Label string `xml:"Label,attr"`
	Inner string `xml:",innerxml"`
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

func (m markup) Text() string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(m.Inner, "")))
}

func parseArticles(data []byte) ([]domain.Record, error) {
	var set articleSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(set.Articles))
	for _, a := range set.Articles {
		records = append(records, a.Citation.record())
	}
	return records, nil
}

func (c medlineCitation) record() domain.Record {
	r := domain.Record{
		ID:    strings.TrimSpace(c.PMID),
		Title: c.Article.Title.Text(),
		Publication: domain.Publication{
			Journal: c.Article.Journal.Title,
			Volume:  c.Article.Journal.Volume,
			Issue:   c.Article.Journal.Issue,
			Date:    c.Article.Journal.Date.time(),
		},
	}

	var abstract []string
	for _, part := range c.Article.Abstract {
		text := part.Text()
		if part.Label != "" {
			text = part.Label + ": " + text
		}
		abstract = append(abstract, text)
	}
	r.Abstract = strings.Join(abstract, "\n")

	for _, a := range c.Article.Authors {
		if a.LastName == "" {
			continue
		}
		r.Authors = append(r.Authors, domain.Author{LastName: a.LastName, ForeName: a.ForeName, Initials: a.Initials})
	}

	for _, h := range c.MeshHeadings {
		if h.isMajor() && h.Descriptor.UI != "" {
			r.MajorSubjects = append(r.MajorSubjects, h.Descriptor.UI)
		}
	}
	return r
}

// isMajor reports whether the descriptor or one of its qualifiers is a major topic.
func (h meshHeading) isMajor() bool {
	if h.Descriptor.Major == "Y" {
		return true
	}
	for _, q := range h.Qualifiers {
		if q.Major == "Y" {
			return true
		}
	}
	return false
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// time converts a PubDate. Missing parts default to the first month or day;
// MedlineDate ranges ("2019 Nov-Dec") keep only the year.
func (d pubDate) time() time.Time {
	yearText := d.Year
	if yearText == "" && len(d.MedlineDate) >= 4 {
		yearText = d.MedlineDate[:4]
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return time.Time{}
	}

	month := time.January
	if m, ok := months[strings.ToLower(firstN(d.Month, 3))]; ok {
		month = m
	} else if n, err := strconv.Atoi(d.Month); err == nil && n >= 1 && n <= 12 {
		month = time.Month(n)
	}

	day := 1
	if n, err := strconv.Atoi(d.Day); err == nil && n >= 1 && n <= 31 {
		day = n
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
