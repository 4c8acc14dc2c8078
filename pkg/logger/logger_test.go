//go:build unit || !integration

package logger

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestConfigureLogging(t *testing.T) {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger

	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
	})

	var logging strings.Builder
	configureLogging(func(w *zerolog.ConsoleWriter) {
		w.Out = &logging
		w.NoColor = true
	})

	log.Error().Err(errors.New("rpc node unreachable")).Msg("submission failed")

	actual := logging.String()
	t.Log(actual)

	assert.Contains(t, actual, "submission failed", "Log statement doesn't contain the log message")
	assert.Contains(t, actual, `error="rpc node unreachable"`, "Log statement doesn't contain the logged error")
	assert.Contains(t, actual, "logger/logger_test.go", "Log statement doesn't name the calling package and file")
	assert.Contains(t, actual, `stack:[{"func":"TestConfigureLogging"`, "Log statement didn't include the error's stacktrace")
}

func TestParseAndSetLevel(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(oldLevel) })

	assert.NoError(t, ParseAndSetLevel("WARN"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	assert.Error(t, ParseAndSetLevel("shouting"))
}
