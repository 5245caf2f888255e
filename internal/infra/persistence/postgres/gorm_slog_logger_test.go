package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"userauth/config"
	deliverycontext "userauth/internal/delivery/context"
	"userauth/internal/errors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sampleHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func newTestGormLogger(buf *bytes.Buffer, debug bool) logger.Interface {
	cfg := &config.Config{}
	cfg.Env.Debug = debug

	return newGormSlogLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), cfg)
}

func TestRedactSQL(t *testing.T) {
	sql := `UPDATE "accounts" SET "password_hash"='` + sampleHash + `' WHERE id = 1`

	redacted := redactSQL(sql)
	assert.NotContains(t, redacted, sampleHash)
	assert.Contains(t, redacted, redactedHash)
	assert.Equal(t, "SELECT 1", redactSQL("SELECT 1"))
}

func TestGormSlogLogger_Trace(t *testing.T) {
	sqlFn := func() (string, int64) {
		return `INSERT INTO "accounts" ("password_hash") VALUES ('` + sampleHash + `')`, 1
	}

	t.Run("failed query is logged redacted", func(t *testing.T) {
		var buf bytes.Buffer
		l := newTestGormLogger(&buf, false)

		l.Trace(context.Background(), time.Now(), sqlFn, errors.New("duplicate key"))

		out := buf.String()
		assert.Contains(t, out, "GORM query failed")
		assert.Contains(t, out, "duplicate key")
		assert.NotContains(t, out, sampleHash)
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		var buf bytes.Buffer
		l := newTestGormLogger(&buf, false)

		l.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)

		assert.Empty(t, buf.String())
	})

	t.Run("debug logs every query", func(t *testing.T) {
		var buf bytes.Buffer
		l := newTestGormLogger(&buf, true)

		l.Trace(context.Background(), time.Now(), sqlFn, nil)

		assert.Contains(t, buf.String(), "GORM query")
	})

	t.Run("silent", func(t *testing.T) {
		var buf bytes.Buffer
		l := newTestGormLogger(&buf, true).LogMode(logger.Silent)

		l.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))

		assert.Empty(t, buf.String())
	})
}

func TestGormSlogLogger_UsesRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	l := newTestGormLogger(&base, false)
	ctx := deliverycontext.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&scoped, nil)))

	l.Warn(ctx, "pool %s", "exhausted")

	assert.Empty(t, base.String())
	assert.True(t, strings.Contains(scoped.String(), "pool exhausted"))
}
