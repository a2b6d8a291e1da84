package main

import (
	"errors"
	"strconv"
)

var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrNotFound         = errors.New("not found")
)

// Not map[string][]string, unlike http.Header. Names are kept as received.
type HTTPHeader map[string]string

type Request struct {
	Method        string
	Path          string
	Version       string
	Headers       HTTPHeader
	ContentLength int
	Cookie        string
	Body          []byte
}

// HeaderField is a single response header. Responses keep them in a slice
// so they are written in the order they were added.
type HeaderField struct {
	Name  string
	Value string
}

type Response struct {
	Version string
	Status  int
	Phrase  string
	Headers []HeaderField
	Body    []byte
}

const (
	contentTypeHTML = "text/html"
	contentTypeCSS  = "text/css"

	loginCookie = "logined=true"
)

func (r *Response) AddHeader(name, value string) {
	r.Headers = append(r.Headers, HeaderField{name, value})
}

// Header returns the first value of name, or "".
func (r *Response) Header(name string) string {
	for _, f := range r.Headers {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func NewOKResponse(contentType string, body []byte) *Response {
	return newBodyResponse(200, "OK", contentType, body)
}

// NewRedirectResponse builds a bodyless 302. setCookie is omitted when empty.
func NewRedirectResponse(location, setCookie string) *Response {
	res := &Response{Version: "HTTP/1.1", Status: 302, Phrase: "Redirect"}
	res.AddHeader("Location", location)
	if setCookie != "" {
		res.AddHeader("Set-Cookie", setCookie)
	}
	return res
}

func newBodyResponse(status int, phrase, contentType string, body []byte) *Response {
	res := &Response{Version: "HTTP/1.1", Status: status, Phrase: phrase, Body: body}
	res.AddHeader("Content-Type", contentType+";charset=utf-8")
	res.AddHeader("Content-Length", strconv.Itoa(len(body)))
	return res
}

var ResponseNotFound = newBodyResponse(404, "Not Found", contentTypeHTML,
	[]byte("<h1>404 Not Found</h1>"))

var ResponseInternalError = newBodyResponse(500, "Internal Server Error", contentTypeHTML,
	[]byte("<h1>500 Internal Server Error</h1>"))
