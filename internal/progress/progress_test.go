package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zeebo/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestText(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		var buf bytes.Buffer
		text := NewText(&buf)
		text.Update(0)
		text.Update(40)
		text.Update(40)
		text.Update(81)
		text.Update(100)
		text.Break()

		assert.Equal(t, buf.String(), "Percent loaded =   0\b\b\b 40\b\b\b 81\b\b\b100\n")
	})

	t.Run("Immediate", func(t *testing.T) {
		var buf bytes.Buffer
		text := NewText(&buf)
		text.Update(100)

		assert.Equal(t, buf.String(), "Percent loaded = 100\n")
	})

	t.Run("Interrupted", func(t *testing.T) {
		var buf bytes.Buffer
		text := NewText(&buf)
		text.Update(0)
		text.Update(18)
		text.Break()
		text.Break()

		assert.Equal(t, buf.String(), "Percent loaded =   0\b\b\b 18\n")
	})
}

func TestBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf, "image.bin")
	for _, pct := range []int{0, 33, 66, 100} {
		bar.Update(pct)
	}
	bar.Break()

	assert.That(t, strings.Contains(buf.String(), "image.bin"))
	assert.That(t, strings.Contains(buf.String(), "100%"))
}

func TestLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLog(zap.New(core))

	for _, pct := range []int{0, 3, 9, 10, 15, 42, 99, 100} {
		l.Update(pct)
	}

	var got []int64
	for _, entry := range logs.All() {
		got = append(got, entry.ContextMap()["percent"].(int64))
	}
	assert.DeepEqual(t, got, []int64{0, 10, 42, 99, 100})
}

func TestMulti(t *testing.T) {
	var buf bytes.Buffer
	core, logs := observer.New(zapcore.InfoLevel)

	m := Multi{NewText(&buf), NewLog(zap.New(core)), None{}}
	m.Update(0)
	m.Update(25)
	m.Break()
	m.Break()

	assert.Equal(t, buf.String(), "Percent loaded =   0\b\b\b 25\n")
	assert.Equal(t, logs.Len(), 2)
}

func TestMultiEmpty(t *testing.T) {
	var m Multi
	m.Update(100)
	m.Break()
}
