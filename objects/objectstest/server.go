// Package objectstest provides an in-memory stand-in for the remote objects
// API, served over httptest. It implements the same CRUD surface the real
// collection exposes (server-assigned ids, epoch-millisecond timestamps,
// full-replace PUT semantics) plus failure injection for exercising retry
// behavior.
package objectstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JohnPlummer/jp-go-restcheck/objects"
)

type record struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Data      objects.Attributes `json:"data"`
	CreatedAt *float64           `json:"createdAt"`
	UpdatedAt *float64           `json:"updatedAt"`
}

type writeRequest struct {
	Name *string            `json:"name"`
	Data objects.Attributes `json:"data"`
}

// Server is a fake objects API. All methods are safe for concurrent use.
type Server struct {
	httpServer *httptest.Server
	collection string

	mu        sync.Mutex
	records   map[string]*record
	order     []string
	failures  []int
	callCount int
}

// NewServer starts a fake API serving the "objects" collection.
// Callers must Close it when done.
func NewServer() *Server {
	return NewServerForCollection("objects")
}

// NewServerForCollection starts a fake API under a custom collection path.
func NewServerForCollection(collection string) *Server {
	s := &Server{
		collection: collection,
		records:    make(map[string]*record),
	}
	s.httpServer = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

// URL returns the base origin of the fake API.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// FailNext queues n responses with the given status before normal handling
// resumes. Used to script transient failures.
func (s *Server) FailNext(n, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.failures = append(s.failures, status)
	}
}

// CallCount returns the number of requests received so far.
func (s *Server) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}

// Count returns the number of stored objects.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Server) serveHTTP(w http.ResponseWriter, req *http.Request) {
	s.mu.Lock()
	s.callCount++
	if len(s.failures) > 0 {
		status := s.failures[0]
		s.failures = s.failures[1:]
		s.mu.Unlock()
		writeJSON(w, status, map[string]string{"error": "injected failure"})
		return
	}
	s.mu.Unlock()

	// Route on the escaped path so an encoded slash inside an identifier
	// stays one opaque segment.
	path := req.URL.EscapedPath()

	prefix := "/" + s.collection
	if path == prefix {
		switch req.Method {
		case http.MethodGet:
			s.handleList(w)
		case http.MethodPost:
			s.handleCreate(w, req)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		}
		return
	}

	if strings.HasPrefix(path, prefix+"/") {
		escaped := strings.TrimPrefix(path, prefix+"/")
		id, err := url.PathUnescape(escaped)
		if err != nil || strings.Contains(id, "/") {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		switch req.Method {
		case http.MethodGet:
			s.handleGet(w, id)
		case http.MethodPut:
			s.handleUpdate(w, req, id)
		case http.MethodDelete:
			s.handleDelete(w, id)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		}
		return
	}

	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (s *Server) handleList(w http.ResponseWriter) {
	s.mu.Lock()
	out := make([]record, 0, len(s.order))
	for _, id := range s.order {
		if r, ok := s.records[id]; ok {
			out = append(out, *r)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, req *http.Request) {
	var body writeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	now := nowMillis()
	r := &record{
		ID:        uuid.NewString(),
		Data:      body.Data,
		CreatedAt: &now,
	}
	if body.Name != nil {
		r.Name = *body.Name
	}

	s.mu.Lock()
	s.records[r.ID] = r
	s.order = append(s.order, r.ID)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, r)
}

func (s *Server) handleGet(w http.ResponseWriter, id string) {
	s.mu.Lock()
	r, ok := s.records[id]
	var copied record
	if ok {
		copied = *r
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "object with id " + id + " was not found"})
		return
	}
	writeJSON(w, http.StatusOK, copied)
}

// handleUpdate is a full replace: the stored attribute map is discarded and
// replaced by the request's, never merged.
func (s *Server) handleUpdate(w http.ResponseWriter, req *http.Request, id string) {
	var body writeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	s.mu.Lock()
	r, ok := s.records[id]
	var copied record
	if ok {
		if body.Name != nil {
			r.Name = *body.Name
		} else {
			r.Name = ""
		}
		r.Data = body.Data
		now := nowMillis()
		r.UpdatedAt = &now
		copied = *r
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "object with id " + id + " was not found"})
		return
	}
	writeJSON(w, http.StatusOK, copied)
}

func (s *Server) handleDelete(w http.ResponseWriter, id string) {
	s.mu.Lock()
	_, ok := s.records[id]
	if ok {
		delete(s.records, id)
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "object with id " + id + " was not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "object with id " + id + " has been deleted"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func nowMillis() float64 {
	return float64(time.Now().UnixMilli())
}
