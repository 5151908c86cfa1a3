package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/extract"
	"github.com/dgallion1/xapidoc/internal/layout"
	"github.com/dgallion1/xapidoc/internal/layout/layouttest"
	"github.com/dgallion1/xapidoc/internal/pathstore"
	"github.com/dgallion1/xapidoc/internal/pathstore/pathstoretest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testExtractor(trailing int) *extract.Extractor {
	ex := extract.New(nil, discardLogger())
	ex.Sections = extract.DefaultSections(trailing)
	ex.Stats = extract.NewParseStats(time.Hour)
	return ex
}

func testWorker(ps *pathstore.Client, trailing int) *Worker {
	w := NewWorker(testExtractor(trailing), ps, discardLogger(), 4)
	w.backoff = func(int) time.Duration { return 0 }
	return w
}

func guideJob(doc *layout.Document) *Job {
	job := NewJob("guide.json", "")
	job.SetFileData(layouttest.Dump(doc))
	return job
}

const entityKey = "apis/room-kit-api-reference/configuration/xconfiguration/audio/defaultvolume"

func TestWorker_PublishesModel(t *testing.T) {
	srv := pathstoretest.NewServer("k")
	defer srv.Close()

	job := guideJob(layouttest.Guide())
	testWorker(srv.Client(), 1).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (errors %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.DocID != "room-kit-api-reference" {
		t.Errorf("expected doc id from title, got %q", snap.DocID)
	}
	if snap.Progress.Pages != 6 || snap.Progress.Published != 3 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
	if job.FileData() != nil {
		t.Error("expected upload released after loading")
	}

	raw, ok := srv.Node(entityKey)
	if !ok {
		t.Fatalf("expected %s stored, have %v", entityKey, srv.Keys())
	}
	var cfg apitree.Configuration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("decode stored entity: %v", err)
	}
	if cfg.Name() != "xConfiguration Audio DefaultVolume" || len(cfg.Parameters) != 1 {
		t.Errorf("unexpected stored entity %+v", cfg)
	}
	if _, ok := srv.Node("apis/room-kit-api-reference/meta"); !ok {
		t.Error("expected document meta node")
	}
	if _, ok := srv.Node(hashIndexPrefix + "/" + snap.ContentHash + "/room-kit-api-reference"); !ok {
		t.Error("expected hash index node")
	}

	related := 0
	for _, l := range srv.Links() {
		if l.Bidirectional {
			related++
			if !strings.HasSuffix(l.To, "configuration/xconfiguration/audio/defaultvolume") {
				t.Errorf("unexpected related link %+v", l)
			}
		}
	}
	if len(srv.Links()) != 4 || related != 1 {
		t.Errorf("expected 3 document links and 1 related link, got %+v", srv.Links())
	}
}

func TestWorker_DuplicateSkipped(t *testing.T) {
	srv := pathstoretest.NewServer("k")
	defer srv.Close()
	w := testWorker(srv.Client(), 1)

	w.Process(context.Background(), guideJob(layouttest.Guide()))

	dup := guideJob(layouttest.Guide())
	w.Process(context.Background(), dup)
	if s := dup.Snapshot().Status; s != StatusDupSkipped {
		t.Fatalf("expected duplicate_skipped, got %s", s)
	}

	forced := guideJob(layouttest.Guide())
	forced.Force = true
	w.Process(context.Background(), forced)
	if s := forced.Snapshot().Status; s != StatusCompleted {
		t.Fatalf("expected forced job completed, got %s", s)
	}
}

func TestWorker_RepublishReplacesStaleEntities(t *testing.T) {
	srv := pathstoretest.NewServer("k")
	defer srv.Close()
	stale := "apis/room-kit-api-reference/command/xcommand/removed"
	if err := srv.Client().PutNode(context.Background(), stale, pathstore.NodeRequest{Value: 1}); err != nil {
		t.Fatal(err)
	}

	testWorker(srv.Client(), 1).Process(context.Background(), guideJob(layouttest.Guide()))
	if _, ok := srv.Node(stale); ok {
		t.Error("expected stale entity removed")
	}
}

func TestWorker_RetriesTransientFailures(t *testing.T) {
	srv := pathstoretest.NewServer("k")
	defer srv.Close()
	srv.FailPuts(2)

	job := guideJob(layouttest.Guide())
	testWorker(srv.Client(), 1).Process(context.Background(), job)
	if snap := job.Snapshot(); snap.Status != StatusCompleted || snap.Progress.Published != 3 {
		t.Fatalf("expected completed after retries, got %s with %d published", snap.Status, snap.Progress.Published)
	}
}

func TestWorker_WithoutPathstore(t *testing.T) {
	job := guideJob(layouttest.Guide())
	testWorker(nil, 1).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (%v)", snap.Status, snap.Progress.Errors)
	}
	if job.Model().Len() != 3 {
		t.Errorf("expected 3 entities, got %d", job.Model().Len())
	}
	if snap.Progress.Entities[apitree.KindStatus] != 1 {
		t.Errorf("unexpected entity counts %v", snap.Progress.Entities)
	}
}

func TestWorker_ParseErrorIsPartial(t *testing.T) {
	job := guideJob(layouttest.Guide())
	testWorker(nil, 0).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("expected partial, got %s", snap.Status)
	}
	if len(snap.Progress.Errors) != 1 || !strings.Contains(snap.Progress.Errors[0], "status") {
		t.Errorf("expected the status section error, got %v", snap.Progress.Errors)
	}
}

func TestWorker_Failures(t *testing.T) {
	noBookmarks := layouttest.Guide()
	noBookmarks.Bookmarks = nil

	tests := []struct {
		name  string
		job   *Job
		phase string
	}{
		{"unsupported format", func() *Job {
			j := NewJob("guide.docx", "")
			j.SetFileData([]byte("x"))
			return j
		}(), "loading"},
		{"corrupt dump", func() *Job {
			j := NewJob("guide.json", "")
			j.SetFileData([]byte("{not json"))
			return j
		}(), "loading"},
		{"no sections", guideJob(noBookmarks), "parsing"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			testWorker(nil, 1).Process(context.Background(), tc.job)
			snap := tc.job.Snapshot()
			if snap.Status != StatusFailed || snap.Phase != tc.phase {
				t.Errorf("expected failed in %s, got %s in %s", tc.phase, snap.Status, snap.Phase)
			}
			if len(snap.Progress.Errors) == 0 {
				t.Error("expected an error message")
			}
		})
	}
}

func TestDocumentID(t *testing.T) {
	tests := []struct {
		title, filename, want string
	}{
		{"Room Kit API Reference", "x.pdf", "room-kit-api-reference"},
		{"", "/tmp/Desk Pro RoomOS 11.pdf", "desk-pro-roomos-11"},
		{"", "!!!.pdf", "document"},
	}
	for _, tc := range tests {
		if got := documentID(tc.title, tc.filename); got != tc.want {
			t.Errorf("documentID(%q, %q): expected %q, got %q", tc.title, tc.filename, tc.want, got)
		}
	}
}
