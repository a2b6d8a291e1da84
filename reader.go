package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type baseReader struct {
	r     *bufio.Reader
	errCh chan error
}

func newBufioReader(r io.Reader) *bufio.Reader {
	if casted, ok := r.(*bufio.Reader); ok {
		return casted
	}
	return bufio.NewReader(r)
}

func (r *baseReader) ErrorOccurred() <-chan error {
	return r.errCh
}

// similar to readLineSlice() in net/textproto/reader.go
// ReadLine strips both "\r\n" and a bare "\n".
func (r *baseReader) readLine() (string, error) {
	var line []byte
	for {
		l, more, err := r.r.ReadLine()
		if err != nil {
			return "", err
		}
		if line == nil && !more {
			return string(l), nil
		}
		line = append(line, l...)
		if !more {
			break
		}
	}
	return string(line), nil
}

// readHeaders reads header lines up to the blank line. Names are kept as
// written and a repeated name overwrites the earlier value. Lines without
// ": " are consumed and dropped.
func (r *baseReader) readHeaders() (HTTPHeader, error) {
	headers := make(HTTPHeader)
	for {
		line, err := r.readLine()
		if err != nil {
			return nil, fmt.Errorf("failed to read headers: %w", err)
		}
		if len(line) == 0 {
			break
		}
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		headers[name] = value
	}
	return headers, nil
}

func (r *baseReader) readBody(n int) ([]byte, error) {
	if n <= 0 {
		return []byte{}, nil
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r.r, body); err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

func parseContentLength(s string) (int, error) {
	cl, err := strconv.Atoi(s)
	if err != nil || cl < 0 {
		return 0, fmt.Errorf("%w: invalid Content-Length %q", ErrMalformedRequest, s)
	}
	return cl, nil
}

// RequestReader reads one HTTP/1.1 request including its body
type RequestReader struct {
	baseReader
	req         *Request
	reqCh       chan *Request
	maxBodySize int // 0 means unlimited
}

func NewRequestReader(r io.Reader, maxBodySize int) *RequestReader {
	return &RequestReader{
		baseReader:  baseReader{newBufioReader(r), make(chan error, 1)},
		req:         &Request{Version: "HTTP/1.1"},
		reqCh:       make(chan *Request, 1),
		maxBodySize: maxBodySize,
	}
}

func (r *RequestReader) Start() {
	go func() {
		req, err := r.Read()
		if err != nil {
			r.errCh <- err
			return
		}
		r.reqCh <- req
	}()
}

// Read parses the request synchronously.
func (r *RequestReader) Read() (*Request, error) {
	if err := r.readRequestLine(); err != nil {
		return nil, err
	}
	if err := r.readRequestHeaders(); err != nil {
		return nil, err
	}
	if err := r.readRequestBody(); err != nil {
		return nil, err
	}
	return r.req, nil
}

func (r *RequestReader) readRequestLine() error {
	rl, err := r.readLine()
	if err != nil {
		return fmt.Errorf("failed to read request line: %w", err)
	}
	fields := strings.Split(rl, " ")
	if len(fields) < 2 || !strings.HasPrefix(fields[1], "/") {
		return fmt.Errorf("%w: invalid request line %q", ErrMalformedRequest, rl)
	}
	r.req.Method = fields[0]
	r.req.Path = fields[1]
	if len(fields) > 2 && fields[2] != "" {
		r.req.Version = fields[2]
	}
	return nil
}

func (r *RequestReader) readRequestHeaders() error {
	headers, err := r.readHeaders()
	if err != nil {
		return err
	}
	r.req.Headers = headers
	if cls, ok := headers["Content-Length"]; ok {
		cl, err := parseContentLength(cls)
		if err != nil {
			return err
		}
		r.req.ContentLength = cl
	}
	r.req.Cookie = headers["Cookie"]
	return nil
}

func (r *RequestReader) readRequestBody() error {
	if r.maxBodySize > 0 && r.req.ContentLength > r.maxBodySize {
		return fmt.Errorf("%w: body of %d bytes exceeds limit %d",
			ErrMalformedRequest, r.req.ContentLength, r.maxBodySize)
	}
	body, err := r.readBody(r.req.ContentLength)
	if err != nil {
		return err
	}
	r.req.Body = body
	return nil
}

func (r *RequestReader) RequestReceived() <-chan *Request {
	return r.reqCh
}
