package capture

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Write(t *testing.T) {
	tests := []struct {
		name          string
		capacity      int
		writes        []string
		wantData      string
		wantTotal     int64
		wantTruncated bool
	}{
		{"empty", 10, nil, "", 0, false},
		{"under capacity", 10, []string{"abc", "def"}, "abcdef", 6, false},
		{"exactly capacity", 6, []string{"abc", "def"}, "abcdef", 6, true},
		{"split chunk at capacity", 5, []string{"abc", "def"}, "abcde", 6, true},
		{"writes after full are counted", 3, []string{"abc", "def", "ghi"}, "abc", 9, true},
		{"zero capacity", 0, []string{"abc"}, "", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.capacity)
			for _, w := range tt.writes {
				n, err := b.Write([]byte(w))
				require.NoError(t, err)
				assert.Equal(t, len(w), n)
			}
			assert.Equal(t, tt.wantData, b.String())
			assert.Equal(t, tt.wantTotal, b.Total())
			assert.Equal(t, tt.wantTruncated, b.Truncated())
			assert.LessOrEqual(t, b.Len(), b.Cap())
		})
	}
}

func TestBuffer_LargeInputTruncates(t *testing.T) {
	b := NewBuffer(DefaultCapacity)
	input := bytes.Repeat([]byte("x"), 100_000)

	_, err := b.Write(input)
	require.NoError(t, err)

	assert.Equal(t, DefaultCapacity, b.Len())
	assert.Equal(t, int64(100_000), b.Total())
	assert.True(t, b.Truncated())
}

func TestBuffer_BytesIsCopy(t *testing.T) {
	b := NewBuffer(10)
	_, _ = b.Write([]byte("abc"))

	got := b.Bytes()
	got[0] = 'z'

	assert.Equal(t, "abc", b.String())
}

func TestBuffer_ConcurrentWriters(t *testing.T) {
	b := NewBuffer(DefaultCapacity)
	chunk := bytes.Repeat([]byte("y"), 1000)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_, _ = b.Write(chunk)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100_000), b.Total())
	assert.Equal(t, DefaultCapacity, b.Len())
	assert.True(t, b.Truncated())
}

func TestTrimTrailing(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ok\r\n", "ok"},
		{"a\nb\n", "a\nb"},
		{"  lead and trail  \n \r", "  lead and trail"},
		{"no trailing", "no trailing"},
		{"tab kept\t", "tab kept\t"},
		{"\n\r \n", ""},
		{"", ""},
	}

	for _, tt := range tests {
		got := TrimTrailing(tt.input)
		assert.Equal(t, tt.want, got, "TrimTrailing(%q)", tt.input)
	}
}

func TestTrimPartialRune(t *testing.T) {
	euro := "\u20ac" // 3 bytes: e2 82 ac
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii", "plain", "plain"},
		{"complete rune", "price " + euro, "price " + euro},
		{"one of three bytes", "price " + euro[:1], "price "},
		{"two of three bytes", "price " + euro[:2], "price "},
		{"two byte rune cut", "caf" + "\u00e9"[:1], "caf"},
		{"lone continuation byte kept", "x\x82", "x\x82"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimPartialRune(tt.input))
		})
	}
}

func TestBuffer_CutInsideRune(t *testing.T) {
	b := NewBuffer(4)
	_, _ = b.Write([]byte("ab\u20ac"))

	require.True(t, b.Truncated())
	assert.Equal(t, "ab\xe2\x82", b.String())
	assert.Equal(t, "ab", TrimPartialRune(b.String()))
}
