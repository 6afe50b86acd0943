package pkg

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestCombinedWriter_Write(t *testing.T) {
	stdout := &strings.Builder{}
	stdout.WriteString("boot;")
	logFile := &strings.Builder{}

	cw := NewCombinedWriter(stdout, nil, logFile)
	require.Len(t, cw.Writers, 2)

	line1 := "level=info msg=\"reps logged\"\n"
	line2 := "level=warn msg=\"entry skipped\"\n"
	n, err := cw.Write([]byte(line1))
	require.NoError(t, err)
	assert.Equal(t, 2*len(line1), n)
	n, err = cw.Write([]byte(line2))
	require.NoError(t, err)
	assert.Equal(t, 2*len(line2), n)

	assert.Equal(t, "boot;"+line1+line2, stdout.String())
	assert.Equal(t, line1+line2, logFile.String())
}

func TestCombinedWriter_Write_WithErrors(t *testing.T) {
	sb := &strings.Builder{}
	cw := NewCombinedWriter(&brokenWriter{msg: "disk full"}, sb, &brokenWriter{msg: "pipe closed"})

	line := "a log line"
	n, err := cw.Write([]byte(line))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "pipe closed")

	// written only to the string builder
	assert.Equal(t, len(line), n)
	assert.Equal(t, line, sb.String())
}

type brokenWriter struct {
	msg string
}

func (bw *brokenWriter) Write(_ []byte) (int, error) {
	return 0, errors.New(bw.msg)
}
