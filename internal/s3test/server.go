// Package s3test runs an in-process stand-in for the handful of S3 calls the
// uploader and the HTTP cache make: HeadBucket, ListObjectsV2 and
// Put/Get/DeleteObject with path-style addressing.
package s3test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

type Object struct {
	Body            []byte
	ContentType     string
	ContentEncoding string
}

type Server struct {
	*httptest.Server
	Bucket string

	mu      sync.Mutex
	objects map[string]Object
}

// NewServer starts a fake endpoint serving one bucket. Close it when done.
func NewServer(bucket string) *Server {
	s := &Server{Bucket: bucket, objects: make(map[string]Object)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Object returns a stored object by key (without the bucket prefix).
func (s *Server) Object(key string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[strings.TrimPrefix(key, "/")]
	return o, ok
}

// Len returns the number of stored objects.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	key = strings.TrimLeft(key, "/")
	if bucket != s.Bucket {
		writeError(w, http.StatusNotFound, "NoSuchBucket")
		return
	}

	if key == "" {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			s.list(w)
		default:
			writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed")
		}
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "IncompleteBody")
			return
		}
		s.mu.Lock()
		s.objects[key] = Object{
			Body:            body,
			ContentType:     r.Header.Get("Content-Type"),
			ContentEncoding: r.Header.Get("Content-Encoding"),
		}
		s.mu.Unlock()
		w.Header().Set("ETag", fmt.Sprintf("%q", fmt.Sprintf("etag-%d", len(body))))
		w.WriteHeader(http.StatusOK)

	case http.MethodGet:
		s.mu.Lock()
		o, ok := s.objects[key]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		if o.ContentType != "" {
			w.Header().Set("Content-Type", o.ContentType)
		}
		w.WriteHeader(http.StatusOK)
		w.Write(o.Body)

	case http.MethodDelete:
		s.mu.Lock()
		delete(s.objects, key)
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed")
	}
}

func (s *Server) list(w http.ResponseWriter) {
	s.mu.Lock()
	count := len(s.objects)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Name>%s</Name><KeyCount>%d</KeyCount><MaxKeys>1</MaxKeys><IsTruncated>false</IsTruncated></ListBucketResult>`,
		s.Bucket, min(count, 1))
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>%s</Code><Message>%s</Message></Error>`, code, code)
}
