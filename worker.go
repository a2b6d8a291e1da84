package main

import (
	"errors"
	"log"
	"net"
	"sync"
	"time"
)

type WorkerOptions struct {
	ReadTimeout  time.Duration // 0 means no deadline
	WriteTimeout time.Duration
	MaxBodySize  int
}

// Worker handles the single request of one connection and closes it
type Worker struct {
	id     string
	conn   net.Conn
	router *Router
	opts   WorkerOptions
	req    *Request
	res    *Response
	kind   routeKind
	cancel chan struct{}
	once   sync.Once

	mu     sync.Mutex // guards conn and closed
	closed bool
}

type stateFunc func(*Worker) stateFunc

func NewWorker(router *Router, opts WorkerOptions) *Worker {
	return &Worker{
		id:     newConnID(),
		router: router,
		opts:   opts,
		cancel: make(chan struct{}),
	}
}

// Start runs the worker to completion. The worker takes ownership of conn.
func (w *Worker) Start(conn net.Conn) {
	w.mu.Lock()
	w.conn = conn
	closed := w.closed
	w.mu.Unlock()
	if closed {
		conn.Close()
		return
	}
	log.Printf("I %s connected from %s", w.id, w.remote())

	for state := waitForRequest; state != nil; {
		state = state(w)
	}
}

// Cancel abandons the worker in whatever state it is in. Closing the
// connection unblocks a pending read or write. Safe to call more than once
// and after the worker has finished.
func (w *Worker) Cancel() {
	w.once.Do(func() { close(w.cancel) })
	w.closeConn()
}

func (w *Worker) closeConn() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.conn == nil {
		return
	}
	if err := w.conn.Close(); err != nil {
		log.Printf("W %s close: %v", w.id, err)
	}
}

func (w *Worker) remote() string {
	if addr := w.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "-"
}

func (w *Worker) setDeadline(set func(time.Time) error, d time.Duration) {
	if d <= 0 {
		return
	}
	if err := set(time.Now().Add(d)); err != nil {
		log.Printf("W %s failed to set deadline: %v", w.id, err)
	}
}

// state funcs

func waitForRequest(w *Worker) stateFunc {
	w.setDeadline(w.conn.SetReadDeadline, w.opts.ReadTimeout)
	r := NewRequestReader(w.conn, w.opts.MaxBodySize)
	r.Start()
	select {
	case req := <-r.RequestReceived():
		w.req = req
		return dispatchRequest
	case err := <-r.ErrorOccurred():
		if errors.Is(err, ErrMalformedRequest) {
			log.Printf("W %s dropping connection: %v", w.id, err)
		} else {
			log.Printf("E %s %v", w.id, err)
		}
		return finishWorker
	case <-w.cancel:
		log.Printf("W %s cancelled while waiting for request", w.id)
		return finishWorker
	}
}

func dispatchRequest(w *Worker) stateFunc {
	res, kind, err := w.router.Dispatch(w.req)
	w.kind = kind
	switch {
	case err == nil:
		w.res = res
	case errors.Is(err, ErrNotFound):
		log.Printf("W %s %v", w.id, err)
		w.res = ResponseNotFound
	default:
		log.Printf("E %s %s route failed: %v", w.id, kind, err)
		w.res = ResponseInternalError
	}
	return sendResponse
}

func sendResponse(w *Worker) stateFunc {
	w.setDeadline(w.conn.SetWriteDeadline, w.opts.WriteTimeout)
	if err := WriteResponse(w.conn, w.res); err != nil {
		log.Printf("E %s %v", w.id, err)
		return finishWorker
	}
	logAccess(w.id, w.remote(), w.req, w.kind, w.res)
	return finishWorker
}

func finishWorker(w *Worker) stateFunc {
	w.Cancel()
	log.Printf("I %s worker finished", w.id)
	return nil
}
