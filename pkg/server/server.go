package server

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/panama/pkg/canon"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	DefaultLimit    = 10
	DefaultMaxLimit = 256
	maxQueryLength  = 256
)

// Dictionary is the read-only lookup surface the server needs.
type Dictionary interface {
	TrueName(word string) (string, bool)
	StartsWith(prefix string, limit int) []string
	EndsWith(suffix string, limit int) []string
	CountPrefix(prefix string, max int) int
	Stats() map[string]int
}

// Server handles msgpack IPC for dictionary lookups.
type Server struct {
	dict     Dictionary
	decoder  *msgpack.Decoder
	encoder  *msgpack.Encoder
	maxLimit int
	requests int
}

// NewServer creates a server reading requests from r and writing responses
// to w, usually stdin and stdout.
func NewServer(dict Dictionary, r io.Reader, w io.Writer, maxLimit int) *Server {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	return &Server{
		dict:     dict,
		decoder:  msgpack.NewDecoder(r),
		encoder:  msgpack.NewEncoder(w),
		maxLimit: maxLimit,
	}
}

// Start sends the ready status and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	if err := s.encoder.Encode(StatusResponse{Status: "ready"}); err != nil {
		return fmt.Errorf("failed to send ready status: %w", err)
	}

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.requests++
		s.handleRequest(req)
	}
}

// Requests returns how many requests were served.
func (s *Server) Requests() int {
	return s.requests
}

func (s *Server) handleRequest(req Request) {
	switch req.Action {
	case "starts", "ends":
		s.handleLookup(req)
	case "name":
		s.handleName(req)
	case "count":
		s.handleCount(req)
	case "check":
		s.sendResponse(CheckResponse{
			ID:        req.ID,
			Canonical: canon.Canonical(req.Query),
			Panama:    canon.IsPanama(req.Query, req.Terminal),
		})
	case "stats":
		s.sendResponse(StatsResponse{ID: req.ID, Stats: s.dict.Stats()})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

// query validates and canonicalizes the request query. An empty canonical
// query is allowed for lookups and means the whole dictionary.
func (s *Server) query(req Request) (string, bool) {
	if len(req.Query) > maxQueryLength {
		s.sendError(req.ID, fmt.Sprintf("query exceeds maximum length of %d characters", maxQueryLength), 400)
		return "", false
	}
	return canon.Canonical(req.Query), true
}

func (s *Server) limit(req Request) int {
	switch {
	case req.Limit < 1:
		return DefaultLimit
	case req.Limit > s.maxLimit:
		return s.maxLimit
	}
	return req.Limit
}

func (s *Server) handleLookup(req Request) {
	q, ok := s.query(req)
	if !ok {
		return
	}

	start := time.Now()
	var words []string
	if req.Action == "starts" {
		words = s.dict.StartsWith(q, s.limit(req))
	} else {
		words = s.dict.EndsWith(q, s.limit(req))
	}
	elapsed := time.Since(start)

	s.sendResponse(LookupResponse{
		ID:        req.ID,
		Entries:   s.entries(words),
		Count:     len(words),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleName(req Request) {
	q, ok := s.query(req)
	if !ok {
		return
	}
	start := time.Now()
	name, found := s.dict.TrueName(q)
	if !found {
		s.sendError(req.ID, fmt.Sprintf("no such word: %s", q), 404)
		return
	}
	s.sendResponse(LookupResponse{
		ID:        req.ID,
		Entries:   []Entry{{Word: q, TrueName: name}},
		Count:     1,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleCount(req Request) {
	q, ok := s.query(req)
	if !ok {
		return
	}
	start := time.Now()
	// without k every match is counted
	n := s.dict.CountPrefix(q, max(req.Limit, 0))
	s.sendResponse(LookupResponse{
		ID:        req.ID,
		Entries:   []Entry{},
		Count:     n,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) entries(words []string) []Entry {
	out := make([]Entry, len(words))
	for i, w := range words {
		name, _ := s.dict.TrueName(w)
		out[i] = Entry{Word: w, TrueName: name}
	}
	return out
}

func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	log.Debugf("Request %s failed: %s", id, message)
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}
