package fakeapi

import (
	"net/http"
	"strconv"
	"strings"
)

const versionHeader = "X-Contentful-Version"

// parseVersion reads the leading integer of the version header the way
// clients of the real API expect it to be read: "3", " 3", "3abc" are all 3.
func parseVersion(r *http.Request) (int, bool) {
	v := strings.TrimLeft(r.Header.Get(versionHeader), " \t\n\r\v\f")

	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	digits := end
	for end < len(v) && '0' <= v[end] && v[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
