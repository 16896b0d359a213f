package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLogger_Format(t *testing.T) {
	l := NewStdLogger("[test]")
	out := l.format("hello", String("key", "value"), Int("n", 42))
	assert.Equal(t, "[test] hello key=value n=42", out)
}

func TestStdLogger_WithFields(t *testing.T) {
	l := NewStdLogger("[test]").WithFields(String("component", "core"))
	std, ok := l.(*StdLogger)
	assert.True(t, ok)
	out := std.format("msg")
	assert.Contains(t, out, "component=core")

	// 派生Logger不影响原Logger
	base := NewStdLogger("[test]")
	_ = base.WithFields(String("a", "b"))
	assert.Empty(t, base.fields)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "plain", formatValue("plain"))
	assert.Equal(t, "boom", formatValue(errors.New("boom")))
	assert.Equal(t, "7", formatValue(7))
}

func TestGlobalLogger(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	l := NewStdLogger("[custom]")
	SetLogger(l)
	assert.Equal(t, ILogger(l), GetLogger())

	// nil 设置被忽略
	SetLogger(nil)
	assert.Equal(t, ILogger(l), GetLogger())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, InfoLevel, ParseLevel("info"))
	assert.Equal(t, WarnLevel, ParseLevel("warn"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("unknown"))
}

func TestNopLogger(t *testing.T) {
	var l ILogger = NopLogger{}
	// 仅验证不 panic
	l.Debug(context.Background(), "msg")
	l.Info(context.Background(), "msg")
	l.Warn(context.Background(), "msg")
	l.Error(context.Background(), "msg")
	assert.NotNil(t, l.WithFields(String("k", "v")))
}
