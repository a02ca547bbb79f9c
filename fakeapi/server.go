// Package fakeapi is an in-memory stand-in for the widget endpoints of the
// content management API. Client library tests run it with httptest or Start
// it on a port, drive it over HTTP, and force error responses with sentinel ids.
package fakeapi

import (
	"errors"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultAddr        = ":3000"
	DefaultAccessToken = "lol-token"
)

type Server struct {
	router  *mux.Router
	store   *Store
	faults  Faults
	token   string
	newID   func() string
	logger  *slog.Logger
	metrics *metrics

	// mu serializes request handling so every handler sees the store as its own.
	mu sync.Mutex

	httpMu  sync.Mutex
	httpSrv *http.Server
}

type serverArgs struct {
	token  string
	faults *Faults
	logger *slog.Logger
	newID  func() string
	reg    prometheus.Registerer
}

type Option func(*serverArgs)

func WithAccessToken(token string) Option {
	return func(args *serverArgs) {
		args.token = token
	}
}

func WithFaults(f Faults) Option {
	return func(args *serverArgs) {
		args.faults = &f
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(args *serverArgs) {
		args.logger = l
	}
}

// WithIDGenerator replaces the random id given to widgets created by POST.
func WithIDGenerator(f func() string) Option {
	return func(args *serverArgs) {
		args.newID = f
	}
}

// WithRegisterer registers the request metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(args *serverArgs) {
		args.reg = reg
	}
}

func New(opts ...Option) *Server {
	var args serverArgs
	for _, opt := range opts {
		opt(&args)
	}
	if args.token == "" {
		args.token = DefaultAccessToken
	}
	if args.faults == nil {
		f := DefaultFaults()
		args.faults = &f
	}
	if args.logger == nil {
		args.logger = slog.Default()
	}
	if args.newID == nil {
		args.newID = randomID
	}

	s := &Server{
		router:  mux.NewRouter(),
		store:   NewStore(),
		faults:  *args.faults,
		token:   args.token,
		newID:   args.newID,
		logger:  args.logger,
		metrics: newMetrics(args.reg),
	}
	s.setupRoutes()
	return s
}

func randomID() string {
	return strconv.Itoa(rand.Intn(1000))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p := normalizePath(r.URL.Path); p != r.URL.Path {
		r = r.Clone(r.Context())
		r.URL.Path = p
		r.URL.RawPath = ""
	}
	s.router.ServeHTTP(w, r)
}

// normalizePath drops a single trailing slash and lowercases the fixed
// "spaces" and "widgets" segments. Space and widget ids keep their case.
func normalizePath(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	segs := strings.Split(p, "/")
	for i, lit := range []string{1: "spaces", 3: "widgets"} {
		if lit != "" && i < len(segs) && strings.EqualFold(segs[i], lit) {
			segs[i] = lit
		}
	}
	return strings.Join(segs, "/")
}

func (s *Server) Store() *Store {
	return s.store
}

// Start listens on addr and serves in the background. It returns the bound
// address, which is useful when addr asks for port 0.
func (s *Server) Start(addr string) (string, error) {
	if addr == "" {
		addr = DefaultAddr
	}

	s.httpMu.Lock()
	defer s.httpMu.Unlock()
	if s.httpSrv != nil {
		return "", errors.New("fakeapi: server already started")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}

	srv := &http.Server{Handler: s}
	s.httpSrv = srv

	go func() {
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", "addr", ln.Addr().String(), "err", err)
		}
	}()

	s.logger.Info("listening", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Stop empties the store and closes the listener along with any open
// connections. In-flight requests are not drained.
func (s *Server) Stop() error {
	s.mu.Lock()
	s.store.Clear()
	s.mu.Unlock()

	s.httpMu.Lock()
	defer s.httpMu.Unlock()
	if s.httpSrv == nil {
		return nil
	}
	err := s.httpSrv.Close()
	s.httpSrv = nil
	return err
}
