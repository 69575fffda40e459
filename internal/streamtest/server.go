package streamtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/calcoloergosum/vocagen/item"
)

// Server is an httptest server speaking the content server protocol under /api.
type Server struct {
	*httptest.Server
	Content Content

	mu       sync.Mutex
	failures int
	status   int
	requests []*url.URL
	reports  []map[string]any
	cookies  []string
}

// NewServer starts a server for content. Close it when done.
func NewServer(content Content) *Server {
	s := &Server{Content: content}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/item-stream/{l1}/{l2}/{order}", s.sentence)
	mux.HandleFunc("GET /api/word-stream/{l1}/{l2}", s.word)
	mux.HandleFunc("POST /api/report", s.report)
	mux.HandleFunc("GET /api/getSupportedLanguagePairs", s.pairs)
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// Base is the API base URL to hand to a client.
func (s *Server) Base() string {
	return s.URL + "/api"
}

// FailNext makes the next n requests answer with status.
func (s *Server) FailNext(n, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures, s.status = n, status
}

// Requests returns the URLs received so far.
func (s *Server) Requests() []*url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*url.URL(nil), s.requests...)
}

// Reports returns the decoded report bodies received so far.
func (s *Server) Reports() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.reports...)
}

// Cookies returns the session cookie values sent with each request, empty when absent.
func (s *Server) Cookies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cookies...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL)
		if c, err := r.Cookie("session"); err == nil {
			s.cookies = append(s.cookies, c.Value)
		} else {
			s.cookies = append(s.cookies, "")
		}
		fail := s.failures > 0
		if fail {
			s.failures--
		}
		status := s.status
		s.mu.Unlock()

		if fail {
			http.Error(w, http.StatusText(status), status)
			return
		}

		http.SetCookie(w, &http.Cookie{Name: "session", Value: "listener", Path: "/"})
		next.ServeHTTP(w, r)
	})
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	seed, err := s.Content.Seed(r.URL.Query().Get("seed"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return seed, true
}

func (s *Server) sentence(w http.ResponseWriter, r *http.Request) {
	seed, ok := s.state(w, r)
	if !ok {
		return
	}

	action := r.URL.Query().Get("action")

	var v uint64
	switch r.PathValue("order") {
	case "random":
		v = s.Content.Step(seed, action)
	case "length":
		v = s.Content.StepLength(seed, action)
	default:
		http.NotFound(w, r)
		return
	}

	writeJSON(w, map[string]any{
		"item":  s.Content.Sentence(v),
		"state": Hex(v),
	})
}

func (s *Server) word(w http.ResponseWriter, r *http.Request) {
	seed, ok := s.state(w, r)
	if !ok {
		return
	}

	v := s.Content.Step(seed, r.URL.Query().Get("action"))
	word, sentences := s.Content.Word(v)

	writeJSON(w, map[string]any{
		"word":      word,
		"sentences": sentences,
		"state":     Hex(v),
	})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, ok := body["reason"]; !ok {
		http.Error(w, "missing reason", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.reports = append(s.reports, body)
	s.mu.Unlock()

	_, _ = w.Write([]byte("Done"))
}

func (s *Server) pairs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"pairs": []item.Pair{s.Content.Pair, {L1: "ja", L2: "en"}},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
