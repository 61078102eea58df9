package supervisor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"spawn", &SpawnError{Command: "backup.sh", Err: cause}, `failed to spawn process "backup.sh": boom`},
		{"stream", &IOError{Stream: "stderr", Err: cause}, "error reading child output: boom"},
		{"process", &IOError{Stream: "process", Err: cause}, "failed waiting for process: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}
