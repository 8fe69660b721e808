package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/brogergvhs/dmzjdl/internal/runner"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHuman(t *testing.T) {
	cases := map[int64]string{
		0:             "0 B",
		1023:          "1023 B",
		1024:          "1.00 KB",
		3 << 19:       "1.50 MB",
		5 * (1 << 30): "5.00 GB",
	}
	for in, want := range cases {
		assert.Equal(t, want, Human(in))
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, false)

	log.Debugf("hidden %d", 1)
	log.Infof("chapter %s", "Ch1")
	log.Errorf("boom")

	assert.Equal(t, "[INFO] chapter Ch1\n[ERROR] boom\n", buf.String())
}

func TestLogger_DebugGate(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	NewLoggerWithCore(core, false).Debugf("x")
	assert.Equal(t, 0, logs.Len())

	NewLoggerWithCore(core, true).Debugf("y %d", 2)
	assert.Equal(t, 1, logs.FilterMessage("y 2").Len())
}

func TestMessagesFor(t *testing.T) {
	assert.Equal(t, "是", MessagesFor("zh").Yes)
	assert.Equal(t, "Yes", MessagesFor("en").Yes)
	assert.Equal(t, MessagesFor(DefaultLang), MessagesFor("fr"))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, runner.Summary{Chapters: 2, Skipped: 1, Pages: 4, Bytes: 2048, Elapsed: 3 * time.Second})

	out := buf.String()
	assert.Contains(t, out, "Chapters: 2")
	assert.Contains(t, out, "Skipped:  1")
	assert.Contains(t, out, "Data:     2.00 KB")
	assert.NotContains(t, out, "Failed:")
}

func TestFixedExtra(t *testing.T) {
	ok, err := FixedExtra(true)(t.Context(), 3)
	assert.NoError(t, err)
	assert.True(t, ok)
}
