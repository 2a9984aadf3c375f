package tracer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"kycdid/internal/platform/tracer"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := tracer.NewNoop().Start(ctx, tracer.SpanKYCStage, tracer.String(tracer.AttrStage, "consents"))
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.AddEvent(tracer.EventAuditEmitted)
	span.End(errors.New("ignored"))
}

func TestRecorder(t *testing.T) {
	rec := tracer.NewRecorder()
	_, span := rec.Start(context.Background(), tracer.SpanLedgerPublish, tracer.String(tracer.AttrDIDMethod, "ethr"))
	span.SetAttributes(tracer.String(tracer.AttrEngineResult, "tesSUCCESS"))
	failure := errors.New("tefPAST_SEQ")
	span.End(failure)

	spans := rec.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, tracer.SpanLedgerPublish, spans[0].Name)
	assert.Equal(t, "tesSUCCESS", spans[0].Attrs[tracer.AttrEngineResult])
	assert.ErrorIs(t, spans[0].Err, failure)
}

func TestOTelTracerWithInjectedProvider(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))
	_, span := tr.Start(context.Background(), tracer.SpanKeyDerivation,
		tracer.Int64("n", 1), tracer.Float64("f", 0.5), tracer.Bool("b", true))
	span.End(nil)
}

func TestHash(t *testing.T) {
	assert.Empty(t, tracer.Hash(""))
	assert.Len(t, tracer.Hash("DL123456789"), 16)
	assert.Equal(t, tracer.Hash("DL123456789"), tracer.Hash("DL123456789"))
	assert.NotEqual(t, tracer.Hash("DL123456789"), tracer.Hash("DL123456780"))
}
