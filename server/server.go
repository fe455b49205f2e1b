/*
Package server implements the connection multiplexer: it accepts TCP
connections, frames and parses requests off each one using package
protocol, dispatches parsed commands to a cache.Store through a
pool.Pool, and writes replies back.

REACTOR REALIZATION

A level-triggered readiness multiplexer would normally iterate
read-ready descriptors by hand. Go's runtime network poller already
performs that multiplexing under the covers of a blocking
net.Conn.Read: one goroutine per connection, each blocked in Read, is
woken exactly when its descriptor becomes readable. The accept loop
below is the single reactor goroutine in this rendition; per-connection
goroutines are the readiness-driven workers.

REPLY ORDERING

Each connection's read loop submits one parsed frame to the pool and
blocks until that frame's handler finishes before reading the next
frame off the wire. This guarantees replies are written in the same
order requests arrived on a given connection, without needing to hash
connections to dedicated workers — the fixed pool still parallelizes
across distinct connections.
*/
package server

import (
	"context"
	"net"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/krishna8167/linecache/cache"
	"github.com/krishna8167/linecache/internal/metrics"
	"github.com/krishna8167/linecache/pool"
)

// Server accepts memcached-ASCII connections on a single TCP listener
// and dispatches parsed requests onto a worker pool against a shared
// cache.Store.
type Server struct {
	store   *cache.Store
	workers *pool.Pool
	logger  *zap.Logger
	metrics *metrics.Registry

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closing  bool
}

// New builds a Server. workers must already have been constructed
// with pool.New; Server calls Init on it during Serve.
func New(store *cache.Store, workers *pool.Pool, logger *zap.Logger, reg *metrics.Registry) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:   store,
		workers: workers,
		logger:  logger,
		metrics: reg,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Serve binds addr and accepts connections until ctx is cancelled or
// the listener fails. It blocks until the accept loop returns.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.workers.Init(ctx)
	s.logger.Info("listening", zap.String("addr", ln.Addr().String()))

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-gctx.Done()
		return s.closeListener()
	})

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closing := s.closing
			s.mu.Unlock()
			if closing {
				break
			}
			return err
		}
		s.trackConn(conn, true)
		connID := uuid.NewString()
		group.Go(func() error {
			s.handleConnection(conn, connID)
			return nil
		})
	}

	return group.Wait()
}

// Shutdown stops accepting new connections, closes all live
// connections, and drains the worker pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.closeListener(); err != nil {
		return err
	}

	s.mu.Lock()
	conns := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}

	return s.workers.Shutdown(ctx)
}

func (s *Server) closeListener() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return nil
	}
	s.closing = true
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) trackConn(c net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
	if s.metrics != nil {
		s.metrics.ConnectionsActive.Set(float64(len(s.conns)))
	}
}
