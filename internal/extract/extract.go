// Package extract runs the section parsers over a loaded manual and checks
// the resulting model.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/layout"
	"github.com/dgallion1/xapidoc/internal/parser"
)

// DefaultSections returns the chapter bookmarks of the reference guide.
// The status chapter is followed by an overview chapter with no bookmark,
// which trailingPages removes.
func DefaultSections(trailingPages int) map[apitree.Kind]layout.Section {
	return map[apitree.Kind]layout.Section{
		apitree.KindConfiguration: {
			Name:       string(apitree.KindConfiguration),
			StartTitle: "xConfiguration commands",
			EndTitle:   "xCommand commands",
		},
		apitree.KindCommand: {
			Name:       string(apitree.KindCommand),
			StartTitle: "xCommand commands",
			EndTitle:   "xStatus commands",
		},
		apitree.KindStatus: {
			Name:         string(apitree.KindStatus),
			StartTitle:   "xStatus commands",
			EndTitle:     "Appendices",
			TrimTrailing: trailingPages,
		},
	}
}

// Extractor parses the three API sections of a document.
type Extractor struct {
	Sections map[apitree.Kind]layout.Section
	Columns  layout.ColumnLayout
	Parser   *parser.Parser
	Stats    *ParseStats
	Log      *slog.Logger
}

// New returns an extractor with the default sections and column layout.
func New(p *parser.Parser, log *slog.Logger) *Extractor {
	if p == nil {
		p = parser.New(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{
		Sections: DefaultSections(2),
		Columns:  layout.DefaultColumnLayout(),
		Parser:   p,
		Log:      log,
	}
}

// SectionResult describes the run of one section.
type SectionResult struct {
	Kind      apitree.Kind  `json:"kind"`
	FirstPage int           `json:"first_page"`
	LastPage  int           `json:"last_page"`
	Words     int           `json:"words"`
	Entities  int           `json:"entities"`
	Duration  time.Duration `json:"duration_ns"`
	Error     string        `json:"error,omitempty"`
}

// Report is the outcome of Run.
type Report struct {
	Sections []SectionResult `json:"sections"`
}

type sectionOutcome struct {
	result SectionResult
	api    *apitree.API
	err    error
}

// Run parses every configured section of doc on its own goroutine and
// merges the results in section order. Each section writes its own model,
// so no state is shared between them. The first error in section order is
// returned; the model then holds what the other sections produced.
func (e *Extractor) Run(ctx context.Context, doc *layout.Document) (*apitree.API, Report, error) {
	outcomes := make([]sectionOutcome, len(apitree.Kinds))
	var wg sync.WaitGroup
	for i, kind := range apitree.Kinds {
		sec, ok := e.Sections[kind]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(i int, kind apitree.Kind, sec layout.Section) {
			defer wg.Done()
			outcomes[i] = e.runSection(ctx, doc, kind, sec)
		}(i, kind, sec)
	}
	wg.Wait()

	api := &apitree.API{Title: doc.Title}
	var report Report
	var firstErr error
	for i, kind := range apitree.Kinds {
		if _, ok := e.Sections[kind]; !ok {
			continue
		}
		out := outcomes[i]
		report.Sections = append(report.Sections, out.result)
		if out.api != nil {
			api.Merge(out.api)
		}
		if out.err != nil && firstErr == nil {
			firstErr = out.err
		}
	}
	return api, report, firstErr
}

func (e *Extractor) runSection(ctx context.Context, doc *layout.Document, kind apitree.Kind, sec layout.Section) sectionOutcome {
	log := e.Log.With("section", sec.Name)
	res := SectionResult{Kind: kind}

	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return sectionOutcome{result: res, err: err}
	}

	pages, err := sec.Pages(doc)
	if err != nil {
		res.Error = err.Error()
		return sectionOutcome{result: res, err: err}
	}
	if len(pages) > 0 {
		res.FirstPage = pages[0].Number
		res.LastPage = pages[len(pages)-1].Number
	}

	start := time.Now()
	dst := &apitree.API{}
	r, err := e.Parser.ParseSection(kind, e.Columns.Words(pages), dst)
	res.Duration = time.Since(start)
	res.Words = r.Words
	res.Entities = r.Entities
	if e.Stats != nil {
		e.Stats.Record(kind, res.Duration, r.Words)
	}

	if err != nil {
		res.Error = err.Error()
		log.Error("section parse failed", "error", err, "words", r.Words, "entities", r.Entities)
		return sectionOutcome{result: res, api: dst, err: fmt.Errorf("parse %s section: %w", sec.Name, err)}
	}
	log.Info("section parsed",
		"pages", len(pages),
		"words", r.Words,
		"entities", r.Entities,
		"duration_ms", res.Duration.Milliseconds())
	return sectionOutcome{result: res, api: dst}
}
