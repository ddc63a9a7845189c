package docstore

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-http-utils/headers"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/hlog"
)

// MaxBodySize limits the size of stored documents.
const MaxBodySize = 1 << 20

// Routes returns the HTTP interface of the store:
//
//	GET    /      list of documents (JSON)
//	GET    /{id}  document body
//	HEAD   /{id}  document header
//	PUT    /{id}  create or replace, responds with the stored body
//	DELETE /{id}  remove
func (s *Store) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.list)
	r.Get("/{id}", s.get)
	r.Head("/{id}", s.get)
	r.Put("/{id}", s.put)
	r.Delete("/{id}", s.delete)
	return r
}

func (s *Store) list(w http.ResponseWriter, r *http.Request) {
	docs, err := s.List()
	if err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set(headers.ContentType, "application/json")
	if err := json.NewEncoder(w).Encode(docs); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Could not write document list")
	}
}

func (s *Store) get(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Get(chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeDocument(w, doc, http.StatusOK)
}

func (s *Store) put(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		http.Error(w, "could not read body", http.StatusRequestEntityTooLarge)
		return
	}
	doc := Document{
		ID:          chi.URLParam(r, "id"),
		ContentType: r.Header.Get(headers.ContentType),
		Body:        body,
	}
	if doc.ContentType == "" {
		doc.ContentType = "application/octet-stream"
	}
	created, err := s.Put(doc)
	if err != nil {
		internalError(w, r, err)
		return
	}
	hlog.FromRequest(r).Debug().Str("id", doc.ID).Bool("created", created).Msg("Stored document")
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeDocument(w, doc, status)
}

func (s *Store) delete(w http.ResponseWriter, r *http.Request) {
	err := s.Delete(chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeDocument(w http.ResponseWriter, doc Document, status int) {
	w.Header().Set(headers.ContentType, doc.ContentType)
	w.WriteHeader(status)
	w.Write(doc.Body)
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Msg("Document store failure")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
