// Package pathstoretest provides an in-memory pathstore server for tests.
package pathstoretest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dgallion1/xapidoc/internal/pathstore"
)

// Server records nodes and links written through the pathstore API.
type Server struct {
	*httptest.Server
	APIKey string

	mu      sync.Mutex
	nodes   map[string]json.RawMessage
	sources map[string]string
	links   []pathstore.LinkRequest
	// failPuts makes the next n node writes answer 503.
	failPuts int
}

// NewServer starts a server that requires apiKey as bearer token.
func NewServer(apiKey string) *Server {
	s := &Server{
		APIKey:  apiKey,
		nodes:   make(map[string]json.RawMessage),
		sources: make(map[string]string),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Client returns a pathstore client for the server.
func (s *Server) Client() *pathstore.Client {
	return pathstore.NewClient(s.URL, s.APIKey)
}

// FailPuts makes the next n node writes fail with 503.
func (s *Server) FailPuts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPuts = n
}

// Node returns the stored value at key.
func (s *Server) Node(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.nodes[key]
	return v, ok
}

// Keys returns every stored key in order.
func (s *Server) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.nodes))
	for k := range s.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Links returns the recorded links.
func (s *Server) Links() []pathstore.LinkRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pathstore.LinkRequest(nil), s.links...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+s.APIKey {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.URL.Path == "/links" && r.Method == http.MethodPut {
		var req pathstore.LinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.links = append(s.links, req)
		s.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		return
	}
	key, ok := strings.CutPrefix(r.URL.Path, "/kv/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		if s.failPuts > 0 {
			s.failPuts--
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		var req struct {
			Value  json.RawMessage `json:"value"`
			Source string          `json:"source"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.nodes[key] = req.Value
		s.sources[key] = req.Source
		w.WriteHeader(http.StatusOK)

	case http.MethodGet:
		if prefix, ok := strings.CutSuffix(key, "/*"); ok {
			s.list(w, r, prefix)
			return
		}
		v, ok := s.nodes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, pathstore.NodeResponse{Key: key, Value: v, Source: s.sources[key]})

	case http.MethodDelete:
		delete(s.nodes, key)
		if r.URL.Query().Get("children") == "true" {
			for k := range s.nodes {
				if strings.HasPrefix(k, key+"/") {
					delete(s.nodes, k)
				}
			}
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, prefix string) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	var keys []string
	for k := range s.nodes {
		if strings.HasPrefix(k, prefix+"/") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	nodes := make([]pathstore.ListChildrenResponse, 0, len(keys))
	for _, k := range keys {
		nodes = append(nodes, pathstore.ListChildrenResponse{Key: k, Value: s.nodes[k]})
	}
	writeJSON(w, map[string]any{"nodes": nodes})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
