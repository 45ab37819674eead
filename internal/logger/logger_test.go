package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New(Options{}).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, New(Options{Level: "DEBUG"}).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, New(Options{Level: "warn"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New(Options{Level: "chatty"}).GetLevel())
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Format: "json", Out: &buf})
	log.Info().Str("file", "ProfitAndLoss.csv").Msg("ingested")

	assert.Contains(t, buf.String(), `"file":"ProfitAndLoss.csv"`)
	assert.Contains(t, buf.String(), `"message":"ingested"`)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Format: "console", Out: &buf})
	log.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), New(Options{Format: "json", Out: &buf}))

	log := FromContext(ctx)
	log.Info().Msg("test")
	assert.NotZero(t, buf.Len())
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}
