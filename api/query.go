package api

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query renders a query string from (key, value) pairs in the order they were
// added. Unlike url.Values it keeps insertion order and repeats keys verbatim.
type Query struct {
	pairs [][2]string
}

// Add appends key=value.
func (q *Query) Add(key, value string) *Query {
	q.pairs = append(q.pairs, [2]string{key, value})
	return q
}

// AddString appends key=*value when value is non-nil.
func (q *Query) AddString(key string, value *string) *Query {
	if value != nil {
		q.Add(key, *value)
	}
	return q
}

// AddInt appends key=*value when value is non-nil.
func (q *Query) AddInt(key string, value *int) *Query {
	if value != nil {
		q.Add(key, strconv.Itoa(*value))
	}
	return q
}

// AddTime appends key=*value in RFC 3339 when value is non-nil.
func (q *Query) AddTime(key string, value *time.Time) *Query {
	if value != nil {
		q.Add(key, value.UTC().Format(time.RFC3339))
	}
	return q
}

// AddAll appends one pair per value.
func (q *Query) AddAll(key string, values ...string) *Query {
	for _, v := range values {
		q.Add(key, v)
	}
	return q
}

// Len returns the number of pairs.
func (q *Query) Len() int { return len(q.pairs) }

// Encode returns "?k=v&k2=v2", or "" when no pair was added.
func (q *Query) Encode() string {
	if q == nil || len(q.pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, pair := range q.pairs {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(escape(pair[0]))
		b.WriteByte('=')
		b.WriteString(escape(pair[1]))
	}
	return b.String()
}

func (q *Query) String() string { return q.Encode() }

// escape percent-encodes everything outside the unreserved set, spaces included.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
