package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/xapidoc/internal/pathstore"
	"github.com/dgallion1/xapidoc/internal/pipeline"
)

const documentsPrefix = "apis"

// publisher returns the pathstore client, writing 503 when publishing is
// disabled.
func (s *Server) publisher(w http.ResponseWriter) (*pathstore.Client, bool) {
	ps := s.orchestrator.PathstoreClient()
	if ps == nil {
		jsonError(w, "publishing is disabled", http.StatusServiceUnavailable)
		return nil, false
	}
	return ps, true
}

// handleListDocuments lists the meta node of every published document.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ps, ok := s.publisher(w)
	if !ok {
		return
	}
	children, err := ps.ListChildren(r.Context(), documentsPrefix, 10000)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusBadGateway)
		return
	}

	docs := []map[string]any{}
	for _, child := range children {
		docID, ok := metaDocID(child.Key)
		if !ok {
			continue
		}
		docs = append(docs, map[string]any{
			"doc_id": docID,
			"meta":   child.Value,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleGetDocument returns the meta node of one document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	ps, ok := s.publisher(w)
	if !ok {
		return
	}
	docID := chi.URLParam(r, "docID")
	meta, err := ps.GetNode(r.Context(), documentsPrefix+"/"+docID+"/meta")
	if err != nil {
		jsonError(w, "failed to read document: "+err.Error(), http.StatusBadGateway)
		return
	}
	if meta == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": docID,
		"meta":   meta.Value,
		"source": meta.Source,
	})
}

// handleDeleteDocument deletes a document tree and its hash index entry.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ps, ok := s.publisher(w)
	if !ok {
		return
	}
	ctx := r.Context()
	docID := chi.URLParam(r, "docID")
	docPrefix := documentsPrefix + "/" + docID

	meta, err := ps.GetNode(ctx, docPrefix+"/meta")
	if err != nil {
		jsonError(w, "failed to read document: "+err.Error(), http.StatusBadGateway)
		return
	}
	if meta == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	children, err := ps.ListChildren(ctx, docPrefix, 10000)
	if err != nil {
		jsonError(w, "failed to list document: "+err.Error(), http.StatusBadGateway)
		return
	}
	if err := ps.DeleteNode(ctx, docPrefix, true); err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusBadGateway)
		return
	}
	hashDeleted := deleteHashIndex(ctx, ps, docID, meta.Value)
	s.log.Info("document deleted", "doc_id", docID, "nodes", len(children))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":        docID,
		"nodes_deleted": len(children),
		"hash_deleted":  hashDeleted,
	})
}

// metaDocID reports the document of a key of the form apis/{doc}/meta.
func metaDocID(key string) (string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != documentsPrefix || parts[2] != "meta" || strings.HasPrefix(parts[1], "_") {
		return "", false
	}
	return parts[1], true
}

func deleteHashIndex(ctx context.Context, ps *pathstore.Client, docID string, meta json.RawMessage) bool {
	var m struct {
		ContentHash string `json:"content_hash"`
	}
	if err := json.Unmarshal(meta, &m); err != nil || m.ContentHash == "" {
		return false
	}
	return ps.DeleteNode(ctx, pipeline.HashIndexKey(m.ContentHash, docID), false) == nil
}
