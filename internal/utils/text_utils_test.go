package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "short", tp.TruncateText("short", 100))
	assert.Equal(t, "abcde...", tp.TruncateText("abcdefghij", 5))
	assert.Equal(t, "unbounded", tp.TruncateText("unbounded", 0))
}

func TestTruncateText_DoesNotSplitRunes(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	// Cut point lands inside the second multi-byte rune
	text := "héllo wörld"
	truncated := tp.TruncateText(text, 2)
	assert.True(t, utf8.ValidString(truncated))
	assert.Equal(t, "h...", truncated)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "clean text", tp.SanitizeUTF8("clean text"))

	dirty := "bad" + string([]byte{0xff, 0xfe}) + "bytes"
	clean := tp.SanitizeUTF8(dirty)
	assert.True(t, utf8.ValidString(clean))
	assert.Equal(t, "badbytes", clean)
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	long := strings.Repeat("a", 50) + string([]byte{0xff})
	processed := tp.ProcessText(long, 10)
	assert.True(t, utf8.ValidString(processed))
	assert.Equal(t, "aaaaaaaaaa...", processed)
}
