package main

import (
	"bufio"
	"fmt"
	"io"
)

// WriteResponse writes the status line, the headers in order, a blank line
// and the body bytes verbatim, then flushes.
func WriteResponse(w io.Writer, res *Response) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d %s\r\n", res.Version, res.Status, res.Phrase)
	for _, h := range res.Headers {
		fmt.Fprintf(bw, "%s: %s\r\n", h.Name, h.Value)
	}
	fmt.Fprintf(bw, "\r\n")
	if len(res.Body) > 0 {
		bw.Write(res.Body)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
