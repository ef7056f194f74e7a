// Package clustering groups records into non-overlapping topic clusters using
// the subject taxonomy: lineages are counted, each record is assigned its
// best-fit nodes, and records claimed by several subjects are deduplicated.
package clustering

import (
	"slices"

	"github.com/rs/zerolog"

	"studybuddy/internal/domain"
)

// Engine runs the clustering pipeline. It holds only configuration; every
// call to Run builds its own counts and buckets.
type Engine struct {
	opts     Options
	excluded BranchSet
	log      zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-record anomaly events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an Engine after validating opts.
func New(opts Options, options ...Option) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	opts.ExcludedBranches = slices.Clone(opts.ExcludedBranches)
	e := &Engine{
		opts:     opts,
		excluded: NewBranchSet(opts.ExcludedBranches),
		log:      zerolog.Nop(),
	}
	for _, o := range options {
		o(e)
	}
	return e, nil
}

// Options returns a copy of the engine's configuration.
func (e *Engine) Options() Options {
	opts := e.opts
	opts.ExcludedBranches = slices.Clone(e.opts.ExcludedBranches)
	return opts
}

// Result is the outcome of a run.
type Result struct {
	Clusters []domain.Cluster
	Report   Report
}

// Run clusters records against vocab. Empty input yields an empty result.
func (e *Engine) Run(vocab *domain.Vocabulary, records []domain.Record) Result {
	report := Report{MalformedTreeNumbers: countMalformed(vocab)}

	entries := e.extract(vocab, records, &report)
	counts := CountTaxonomy(entries)

	w := Build(entries, NewSelector(e.opts, counts), vocab, &report)
	Deduplicate(w, vocab, &report)
	clusters := Emit(w, vocab)

	report.Unclustered = unclustered(entries, clusters)

	for _, id := range report.Fallbacks {
		e.log.Debug().Str("record", id).Msg("no node qualified, using full lineage")
	}
	for _, u := range report.Unresolved {
		e.log.Debug().Str("record", u.RecordID).Str("node", u.Node).Msg("node has no owning subject")
	}

	return Result{Clusters: clusters, Report: report}
}

// Lineage returns the lineage of a single record as the engine would compute it.
func (e *Engine) Lineage(vocab *domain.Vocabulary, r domain.Record) []string {
	subjects, _ := vocab.Resolve(r.MajorSubjects)
	return LineageOf(subjects, e.excluded)
}

// extract drops repeated record IDs (first wins), resolves major subjects and
// computes lineages.
func (e *Engine) extract(vocab *domain.Vocabulary, records []domain.Record, report *Report) []Entry {
	seen := make(map[string]struct{}, len(records))
	entries := make([]Entry, 0, len(records))

	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			report.DuplicateRecords = append(report.DuplicateRecords, r.ID)
			continue
		}
		seen[r.ID] = struct{}{}

		subjects, missing := vocab.Resolve(r.MajorSubjects)
		for _, id := range missing {
			report.UnknownSubjects = append(report.UnknownSubjects, SubjectRef{RecordID: r.ID, SubjectID: id})
		}
		entries = append(entries, Entry{Record: r, Lineage: LineageOf(subjects, e.excluded)})
	}

	report.Records = len(entries)
	return entries
}

func unclustered(entries []Entry, clusters []domain.Cluster) []string {
	clustered := make(map[string]struct{})
	for _, c := range clusters {
		for _, r := range c.Records {
			clustered[r.ID] = struct{}{}
		}
	}

	var out []string
	for _, e := range entries {
		if _, ok := clustered[e.Record.ID]; !ok {
			out = append(out, e.Record.ID)
		}
	}
	return out
}
