package main

import (
	"log"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var (
	status2xx = color.New(color.FgGreen)
	status3xx = color.New(color.FgCyan)
	status4xx = color.New(color.FgYellow)
	status5xx = color.New(color.FgRed, color.Bold)
)

// SetLogColor turns colored status codes on or off. Color is already off
// when stderr is not a terminal.
func SetLogColor(enabled bool) {
	if !enabled {
		color.NoColor = true
	}
}

func newConnID() string {
	return uuid.New().String()[:8]
}

func statusColor(status int) *color.Color {
	switch {
	case status >= 500:
		return status5xx
	case status >= 400:
		return status4xx
	case status >= 300:
		return status3xx
	default:
		return status2xx
	}
}

func logAccess(id, remote string, req *Request, kind routeKind, res *Response) {
	log.Printf("I %s %s \"%s %s\" %s %d %s",
		id, remote, req.Method, req.Path,
		statusColor(res.Status).Sprint(res.Status), len(res.Body), kind)
}
