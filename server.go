package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const shutdownGrace = 5 * time.Second

// Server accepts connections and hands each one to its own Worker.
type Server struct {
	addr   string
	router *Router
	opts   WorkerOptions
	grace  time.Duration

	ln      net.Listener
	mu      sync.Mutex
	workers map[*Worker]struct{}
	wg      sync.WaitGroup
}

func NewServer(addr string, router *Router, opts WorkerOptions) *Server {
	return &Server{
		addr:    addr,
		router:  router,
		opts:    opts,
		grace:   shutdownGrace,
		workers: make(map[*Worker]struct{}),
	}
}

// Start listens on the configured address and serves until ctx is done or
// SIGINT/SIGTERM arrives.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.ln = ln
	log.Printf("I listening on %s", ln.Addr())

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		log.Println("I context cancelled")
	case sig := <-sigCh:
		log.Printf("I received signal: %v", sig)
	case err := <-acceptErr:
		s.Shutdown()
		return err
	}
	return s.Shutdown()
}

func (s *Server) acceptLoop() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				log.Printf("W accept error: %v", err)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		w := NewWorker(s.router, s.opts)
		s.track(w, true)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.track(w, false)
			w.Start(conn)
		}()
	}
}

func (s *Server) track(w *Worker, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.workers[w] = struct{}{}
	} else {
		delete(s.workers, w)
	}
}

// Addr returns the listening address, nil before Serve.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops accepting and waits for in-flight workers. Workers still
// running after the grace period are cancelled, which closes their
// connections, and are given one more grace period to return.
func (s *Server) Shutdown() error {
	log.Println("I shutting down")
	if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("failed to close listener: %w", err)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.grace):
		s.mu.Lock()
		log.Printf("W cancelling %d workers", len(s.workers))
		for w := range s.workers {
			w.Cancel()
		}
		s.mu.Unlock()
		select {
		case <-done:
		case <-time.After(s.grace):
			return fmt.Errorf("workers did not stop within %v", 2*s.grace)
		}
	}
	log.Println("I server stopped")
	return nil
}
