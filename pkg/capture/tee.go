package capture

import (
	"fmt"
	"io"
)

// ChunkSize is the read size used by Tee.
const ChunkSize = 32 * 1024

// Tee copies one output stream into a shared Buffer and, when Passthrough
// is set, mirrors every chunk to it unchanged.
type Tee struct {
	Name        string    // stream name used in errors, e.g. "stdout"
	Source      io.Reader // child output stream
	Passthrough io.Writer // local mirror; nil disables tee
	Buffer      *Buffer
}

// Run copies until EOF or the first read or write error.
// Passthrough keeps receiving data after the buffer is full.
func (t *Tee) Run() error {
	chunk := make([]byte, ChunkSize)
	for {
		n, err := t.Source.Read(chunk)
		if n > 0 {
			_, _ = t.Buffer.Write(chunk[:n])
			if t.Passthrough != nil {
				if _, werr := t.Passthrough.Write(chunk[:n]); werr != nil {
					return fmt.Errorf("%s: write: %w", t.Name, werr)
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: read: %w", t.Name, err)
		}
	}
}
