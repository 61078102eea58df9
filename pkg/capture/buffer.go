// Package capture collects a child process's output into a bounded buffer
// while optionally mirroring it to local streams.
package capture

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// DefaultCapacity is the number of output bytes kept for the report body.
const DefaultCapacity = 40_000

// Buffer is a fixed-capacity byte sink shared by the capture loops of one run.
// Bytes beyond capacity are counted but not stored.
type Buffer struct {
	mu        sync.Mutex
	data      []byte
	capacity  int
	total     int64
	truncated bool
}

// NewBuffer returns an empty buffer holding at most capacity bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{
		data:     make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// Write appends as much of p as still fits. It never fails and always
// reports len(p) so callers treat the whole chunk as consumed.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(p)
	b.total += int64(n)
	if room := b.capacity - len(b.data); room > 0 {
		if len(p) > room {
			p = p[:room]
		}
		b.data = append(b.data, p...)
	}
	if len(b.data) >= b.capacity {
		b.truncated = true
	}
	return n, nil
}

// Bytes returns a copy of the stored bytes.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// String returns the stored bytes as a string.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}

// Len returns the number of stored bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Cap returns the buffer's fixed capacity.
func (b *Buffer) Cap() int {
	return b.capacity
}

// Total returns the number of bytes written, including discarded ones.
func (b *Buffer) Total() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Truncated reports whether the buffer has reached its capacity.
func (b *Buffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}

// TrimTrailing strips trailing newline, carriage return and space
// characters from the end of s. Interior whitespace is kept.
func TrimTrailing(s string) string {
	return strings.TrimRight(s, "\n\r ")
}

// TrimPartialRune drops an incomplete UTF-8 sequence left at the end of s
// when the capacity cut landed inside a multi-byte character. Invalid bytes
// that are not a cut-off prefix are kept.
func TrimPartialRune(s string) string {
	for i := len(s) - 1; i >= 0 && i >= len(s)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(s[i]) {
			continue
		}
		if !utf8.FullRuneInString(s[i:]) {
			return s[:i]
		}
		break
	}
	return s
}
