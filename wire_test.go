package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Client-side counterparts of the server code, used to drive and inspect
// the wire in tests.

// WriteRequest serializes req, body included. Header order is unspecified.
func WriteRequest(w io.Writer, req *Request) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %s %s\r\n", req.Method, req.Path, req.Version)
	for k, v := range req.Headers {
		fmt.Fprintf(bw, "%s: %s\r\n", k, v)
	}
	fmt.Fprintf(bw, "\r\n")
	bw.Write(req.Body)
	return bw.Flush()
}

func (m *MemoryUserRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// ResponseReader reads an HTTP response written by this server.
type ResponseReader struct {
	baseReader
	res *Response
}

func NewResponseReader(r io.Reader) *ResponseReader {
	return &ResponseReader{
		baseReader{newBufioReader(r), make(chan error, 1)},
		&Response{},
	}
}

func (r *ResponseReader) Read() (*Response, error) {
	if err := r.readStatusLine(); err != nil {
		return nil, err
	}
	headers, err := r.readHeaders()
	if err != nil {
		return nil, err
	}
	cl := 0
	for name, value := range headers {
		r.res.AddHeader(name, value)
		if name == "Content-Length" {
			if cl, err = parseContentLength(value); err != nil {
				return nil, err
			}
		}
	}
	if r.res.Body, err = r.readBody(cl); err != nil {
		return nil, err
	}
	return r.res, nil
}

func parseStatusCode(ss string) (int, error) {
	status, err := strconv.Atoi(ss)
	first := status / 100
	if err != nil || (first < 1 || first > 5) {
		return 0, fmt.Errorf("invalid status code: %s", ss)
	}
	return status, nil
}

func (r *ResponseReader) readStatusLine() error {
	sl, err := r.readLine()
	if err != nil {
		return fmt.Errorf("failed to read status line: %w", err)
	}
	fields := strings.Split(sl, " ")
	if len(fields) < 3 {
		return fmt.Errorf("invalid status line: %s", sl)
	}
	r.res.Version = fields[0]
	r.res.Status, err = parseStatusCode(fields[1])
	if err != nil {
		return err
	}
	r.res.Phrase = strings.Join(fields[2:], " ")
	return nil
}
