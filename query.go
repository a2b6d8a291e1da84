package main

import "strings"

// ParseQuery splits "k1=v1&k2=v2" into a map. Pairs without '=' are
// skipped and a repeated key keeps its last value. Nothing is unescaped.
func ParseQuery(s string) map[string]string {
	params := make(map[string]string)
	if s == "" {
		return params
	}
	for _, pair := range strings.Split(s, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		params[k] = v
	}
	return params
}
