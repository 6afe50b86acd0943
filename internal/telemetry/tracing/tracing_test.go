package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndSpanWithErrCheck(t *testing.T) {
	// with no SDK configured the global tracer is a no-op, both paths must not panic
	_, span := GlobalTracer.Start(context.Background(), "test.ok")
	EndSpanWithErrCheck(span, nil)
	assert.False(t, span.IsRecording())

	_, span = GlobalTracer.Start(context.Background(), "test.err")
	EndSpanWithErrCheck(span, errors.New("boom"))

	assert.NotNil(t, SpanFromContext(context.Background()))
}
