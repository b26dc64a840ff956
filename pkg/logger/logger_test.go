package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsCarryComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "posting")

	l.Infof("submitted %s", "p1")
	l.Warnf("slow")
	l.Errorf("boom: %d", 42)

	out := buf.String()
	assert.Contains(t, out, "[posting] INFO: submitted p1")
	assert.Contains(t, out, "[posting] WARN: slow")
	assert.Contains(t, out, "[posting] ERROR: boom: 42")
}
