package fakeapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/urfave/negroni"
)

const (
	collectionPath = "/spaces/{space}/widgets"
	itemPath       = "/spaces/{space}/widgets/{id}"
)

func (s *Server) setupRoutes() {
	// mux skips Use middleware for these, so they get the outer chain themselves.
	unmatched := s.logMiddleware(s.metrics.middleware(http.HandlerFunc(emptyNotFound)))
	s.router.NotFoundHandler = unmatched
	s.router.MethodNotAllowedHandler = unmatched

	s.router.HandleFunc(collectionPath, s.handleCreateWidget()).Methods(http.MethodPost)
	s.router.HandleFunc(collectionPath, s.handleListWidgets()).Methods(http.MethodGet)
	s.router.Handle(itemPath, s.intercept(s.handleUpsertWidget())).Methods(http.MethodPut)
	s.router.Handle(itemPath, s.intercept(s.handleGetWidget())).Methods(http.MethodGet)
	s.router.Handle(itemPath, s.intercept(s.handleDeleteWidget())).Methods(http.MethodDelete)
	// Sentinel ids answer on any method, everything else on the item path is unknown.
	s.router.Handle(itemPath, s.intercept(http.HandlerFunc(emptyNotFound)))

	s.router.Use(s.logMiddleware, s.metrics.middleware, s.authMiddleware, s.serialize)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)

		ww := negroni.NewResponseWriter(w)
		next.ServeHTTP(ww, r)
		s.logger.Debug("handled",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", ww.Status(),
			"duration", time.Since(start),
			"requestID", reqID)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// a repeated token is a list, never equal to the token
		tokens := r.URL.Query()["access_token"]
		if len(tokens) != 1 || tokens[0] != s.token {
			emptyNotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// intercept answers sentinel ids before the item handlers see them.
func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if s.faults.NotFound.Has(id) {
			s.writeNotFound(w)
			return
		}
		if s.faults.ServerError.Has(id) {
			s.writeServerError(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func emptyNotFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("could not write response", "status", code, "err", err)
	}
}

func (s *Server) handleCreateWidget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			s.writeBodyError(w, err)
			return
		}

		if s.faults.rejectFieldType(body.firstFieldType()) {
			s.writeValidationError(w, s.faults.InvalidFieldTypeDetail)
			return
		}

		// Created widgets are handed back but not stored, only PUT stores.
		widget := newWidget(mux.Vars(r)["space"], s.newID(), body.fields)
		s.writeJSON(w, http.StatusCreated, widget)
	}
}

func (s *Server) handleUpsertWidget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id := vars["id"]

		body, err := readBody(w, r)
		if err != nil {
			s.writeBodyError(w, err)
			return
		}

		current, exists := s.store.Get(id)
		if !exists {
			if detail, rejected := s.faults.rejectCreate(id); rejected {
				s.writeValidationError(w, detail)
				return
			}

			widget := newWidget(vars["space"], id, body.fields)
			s.store.Put(widget)
			s.writeJSON(w, http.StatusCreated, widget)
			return
		}

		if s.faults.UpdateFailures.Has(id) {
			s.writeServerError(w)
			return
		}

		version, ok := parseVersion(r)
		if !ok || version != current.Sys.Version {
			w.WriteHeader(http.StatusConflict)
			return
		}

		updated := Widget{Sys: current.Sys, Fields: body.fields}
		updated.Sys.Version++
		s.store.Put(updated)
		s.writeJSON(w, http.StatusOK, updated)
	}
}

type collection struct {
	Sys   collectionSys `json:"sys"`
	Total int           `json:"total"`
	Items []Widget      `json:"items"`
}

type collectionSys struct {
	Type string `json:"type"`
}

func (s *Server) handleListWidgets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		space := mux.Vars(r)["space"]
		widgets := s.store.BySpace(space)

		if s.faults.ListFailures.Has(space) {
			s.writeServerError(w)
			return
		}

		s.writeJSON(w, http.StatusOK, collection{
			Sys:   collectionSys{Type: "Array"},
			Total: len(widgets),
			Items: widgets,
		})
	}
}

func (s *Server) handleGetWidget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widget, ok := s.store.Get(mux.Vars(r)["id"])
		if !ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			return
		}
		s.writeJSON(w, http.StatusOK, widget)
	}
}

func (s *Server) handleDeleteWidget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if s.faults.DeleteFailures.Has(id) {
			s.writeServerError(w)
			return
		}

		current, exists := s.store.Get(id)
		if !exists {
			s.logger.Warn("delete of unknown widget", "id", id)
			s.writeServerError(w)
			return
		}

		version, ok := parseVersion(r)
		if !ok || version != current.Sys.Version {
			w.WriteHeader(http.StatusConflict)
			return
		}

		s.store.Delete(id)
		w.WriteHeader(http.StatusNoContent)
	}
}
