package context

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	assert.Equal(t, "req-1", GetRequestIDFromContext(ctx))
	assert.Empty(t, GetRequestIDFromContext(context.Background()))
}

func TestGetRequestID_GeneratesWhenMissing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NotEmpty(t, GetRequestID(c))

	SetRequestID(c, "fixed")
	assert.Equal(t, "fixed", GetRequestID(c))
}

func TestGetLoggerOrDefault(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	scoped := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))
	assert.Same(t, scoped, GetLoggerOrDefault(WithLogger(context.Background(), scoped), fallback))
	assert.Nil(t, GetLogger(context.Background()))
}

func TestResolveRequestID(t *testing.T) {
	tests := []struct {
		name     string
		clientID string
		wantSame bool
	}{
		{name: "kept", clientID: "req-42_a.b", wantSame: true},
		{name: "max length kept", clientID: strings.Repeat("a", MaxRequestIDLength), wantSame: true},
		{name: "empty", clientID: ""},
		{name: "too long", clientID: strings.Repeat("a", MaxRequestIDLength+1)},
		{name: "newline", clientID: "req\nforged=1"},
		{name: "space", clientID: "req 1"},
		{name: "non-ascii", clientID: "réq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRequestID(tt.clientID)

			if tt.wantSame {
				assert.Equal(t, tt.clientID, got)
			} else {
				assert.NotEqual(t, tt.clientID, got)
				assert.Len(t, got, 36)
			}
		})
	}
}

func TestWithRequestScope(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithRequestScope(context.Background(), base, "req-7")

	assert.Equal(t, "req-7", GetRequestIDFromContext(ctx))
	GetLoggerOrDefault(ctx, nil).Info("hello")
	assert.Contains(t, buf.String(), "request_id=req-7")
}
