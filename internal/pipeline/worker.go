package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/extract"
	"github.com/dgallion1/xapidoc/internal/layout"
	"github.com/dgallion1/xapidoc/internal/pathstore"
)

const hashIndexPrefix = "apis/_by_hash"

// HashIndexKey is the dedup index node recording that docID was published
// with content hash.
func HashIndexKey(hash, docID string) string {
	return hashIndexPrefix + "/" + hash + "/" + docID
}

// Worker processes a single document job.
type Worker struct {
	extractor *extract.Extractor
	pathstore *pathstore.Client
	log       *slog.Logger
	backoff   func(int) time.Duration

	maxConcurrentStore int
}

// NewWorker returns a worker. A nil pathstore client disables publishing.
func NewWorker(ex *extract.Extractor, ps *pathstore.Client, log *slog.Logger, maxStore int) *Worker {
	if maxStore <= 0 {
		maxStore = 1
	}
	return &Worker{
		extractor:          ex,
		pathstore:          ps,
		log:                log,
		backoff:            Backoff,
		maxConcurrentStore: maxStore,
	}
}

// Process runs the full extraction pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Load
	job.SetStatus(StatusLoading, "loading")
	loader, err := layout.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "loading")
		return
	}
	doc, err := loader.Load(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("load failed", "error", err)
		job.AddError(fmt.Sprintf("load: %s", err))
		job.SetStatus(StatusFailed, "loading")
		return
	}
	job.releaseFileData()
	if job.Title != "" {
		doc.Title = job.Title
	}
	docID := documentID(doc.Title, job.Filename)
	job.SetContent(docID, doc.Title, ContentHashHex([]byte(flattenWords(doc))))
	job.SetDocument(len(doc.Pages), doc.WordCount())
	log = log.With("doc_id", docID)
	log.Info("document loaded", "pages", len(doc.Pages), "words", doc.WordCount(), "bookmarks", len(doc.Bookmarks))
	if doc.MissingColour() {
		log.Warn("document has no glyph colour, colour-dependent style rules cannot match",
			"hint", "upload a word dump for colour-accurate input")
	}

	// Phase 1.5: Dedup check
	if w.pathstore != nil && !job.Force {
		exists, existingDocID, err := w.checkDuplicate(ctx, job.Snapshot().ContentHash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if exists {
			log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	api, report, parseErr := w.extractor.Run(ctx, doc)
	issues := extract.Validate(api)
	job.SetModel(api, report, issues)
	hadErrors := false
	if parseErr != nil {
		log.Error("parse failed", "error", parseErr)
		job.AddError(parseErr.Error())
		hadErrors = true
	}
	log.Info("parse complete",
		"configurations", len(api.Configurations),
		"commands", len(api.Commands),
		"statuses", len(api.Statuses),
		"issues", len(issues))

	if api.Len() == 0 {
		if !hadErrors {
			job.AddError("no entities found")
		}
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	if w.pathstore == nil {
		w.finish(job, hadErrors, true)
		return
	}

	// Phase 3: Publish to pathstore.
	job.SetStatus(StatusPublishing, "publishing")
	stored, storeErrors := w.publish(ctx, log, job, docID, api)
	log.Info("publish complete", "stored", stored, "total", api.Len(), "errors", storeErrors)
	w.finish(job, hadErrors || storeErrors > 0, stored > 0)
}

func (w *Worker) finish(job *Job, hadErrors, produced bool) {
	switch {
	case hadErrors && produced:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "publishing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// publish replaces the stored tree of the document with api and returns the
// number of entities written and failed.
func (w *Worker) publish(ctx context.Context, log *slog.Logger, job *Job, docID string, api *apitree.API) (int, int) {
	docPrefix := "apis/" + docID
	source := "xapidoc:" + job.ID

	// Entries dropped from the guide must not survive a re-extraction.
	err := retry(ctx, log, w.backoff, "delete", func() error {
		return w.pathstore.DeleteNode(ctx, docPrefix, true)
	})
	if err != nil {
		log.Warn("stale tree delete failed", "error", err)
	}

	type storeResult struct {
		path string
		err  error
	}
	entities := api.Entities()
	results := make(chan storeResult, len(entities))
	sem := make(chan struct{}, w.maxConcurrentStore)

	for _, e := range entities {
		sem <- struct{}{}
		go func(e apitree.Entity) {
			defer func() { <-sem }()
			path := extract.EntityPath(docID, e)
			err := retry(ctx, log, w.backoff, "put "+path, func() error {
				return w.pathstore.PutNode(ctx, path, pathstore.NodeRequest{Value: e, Source: source})
			})
			if err == nil {
				linkErr := w.pathstore.PutLink(ctx, pathstore.LinkRequest{
					From:    path,
					To:      docPrefix + "/meta",
					Weight:  1,
					Summary: "documented in " + job.Filename,
				})
				if linkErr != nil {
					log.Warn("document link failed", "path", path, "error", linkErr)
				}
			}
			results <- storeResult{path: path, err: err}
		}(e)
	}

	stored, failed := 0, 0
	for range entities {
		r := <-results
		if r.err != nil {
			log.Error("store failed", "path", r.path, "error", r.err)
			job.AddError(fmt.Sprintf("store %s: %s", r.path, r.err))
			failed++
			continue
		}
		stored++
		job.IncrPublished()
	}

	w.linkRelated(ctx, log, docID, api)

	snap := job.Snapshot()
	metaErr := retry(ctx, log, w.backoff, "meta", func() error {
		return w.pathstore.PutNode(ctx, docPrefix+"/meta", pathstore.NodeRequest{
			Value: map[string]any{
				"filename":       job.Filename,
				"title":          api.Title,
				"content_hash":   snap.ContentHash,
				"configurations": len(api.Configurations),
				"commands":       len(api.Commands),
				"statuses":       len(api.Statuses),
				"stored":         stored,
				"issues":         snap.Progress.Issues,
				"created_at":     job.CreatedAt.Format(time.RFC3339),
			},
			Source: source,
		})
	})
	if metaErr != nil {
		log.Error("meta write failed", "error", metaErr)
		job.AddError(fmt.Sprintf("meta: %s", metaErr))
		failed++
	}

	// Write hash index for dedup.
	hashErr := w.pathstore.PutNode(ctx, HashIndexKey(snap.ContentHash, docID), pathstore.NodeRequest{
		Value: map[string]any{
			"filename":   job.Filename,
			"created_at": job.CreatedAt.Format(time.RFC3339),
		},
		Source: source,
	})
	if hashErr != nil {
		log.Error("hash index write failed", "error", hashErr)
	}
	return stored, failed
}

// linkRelated connects each status to the configuration that sets the same
// path, e.g. xConfiguration Audio DefaultVolume and xStatus Audio
// DefaultVolume.
func (w *Worker) linkRelated(ctx context.Context, log *slog.Logger, docID string, api *apitree.API) {
	configs := make(map[string]string, len(api.Configurations))
	for _, c := range api.Configurations {
		if key := c.DedupKey(); key != "" {
			configs[key] = extract.EntityPath(docID, c)
		}
	}
	for _, s := range api.Statuses {
		cfgPath, ok := configs[s.DedupKey()]
		if !ok {
			continue
		}
		err := w.pathstore.PutLink(ctx, pathstore.LinkRequest{
			From:          extract.EntityPath(docID, s),
			To:            cfgPath,
			Weight:        0.5,
			Summary:       "reports the value of",
			Bidirectional: true,
		})
		if err != nil {
			log.Warn("related link failed", "status", s.Name(), "error", err)
		}
	}
}

// checkDuplicate checks if this content hash was already published.
func (w *Worker) checkDuplicate(ctx context.Context, hash string) (bool, string, error) {
	children, err := w.pathstore.ListChildren(ctx, hashIndexPrefix+"/"+hash, 1)
	if err != nil {
		return false, "", err
	}
	if len(children) > 0 {
		parts := strings.FieldsFunc(children[0].Key, func(r rune) bool { return r == '/' || r == '.' })
		if len(parts) == 0 {
			return true, "", nil
		}
		return true, parts[len(parts)-1], nil
	}
	return false, "", nil
}

// documentID derives the storage slug of a document.
func documentID(title, filename string) string {
	if id := extract.Slugify(title); id != "" {
		return id
	}
	if id := extract.Slugify(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))); id != "" {
		return id
	}
	return "document"
}

// flattenWords joins the text of every word for hashing. Page breaks are
// kept so that repaginated content hashes differently.
func flattenWords(doc *layout.Document) string {
	var sb strings.Builder
	for _, p := range doc.Pages {
		fmt.Fprintf(&sb, "\f%d\n", p.Number)
		for i, wd := range p.Words {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(wd.Text)
		}
	}
	return sb.String()
}
