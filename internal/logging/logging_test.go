package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_VerboseLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Verbose: true, Out: &buf})

	logger.WithField("endpoint", "/ats/score").Debug("request sent")

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "request sent")
	assert.Contains(t, buf.String(), "endpoint=/ats/score")
}

func TestNew_QuietDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Out: &buf})

	logger.Debug("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_JSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{JSON: true, Out: &buf})

	logger.Warn("json line")

	assert.Contains(t, buf.String(), `"msg":"json line"`)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() { logger.Error("dropped") })
}
