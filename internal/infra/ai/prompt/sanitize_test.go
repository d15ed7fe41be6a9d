package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	t.Run("go fence", func(t *testing.T) {
		in := "```go\ntable := datachat.Table{}\n```"
		assert.Equal(t, "table := datachat.Table{}", StripFences(in))
	})

	t.Run("bare fence", func(t *testing.T) {
		in := "```\nx := 1\n```"
		assert.Equal(t, "x := 1", StripFences(in))
	})

	t.Run("prose before the fence is dropped", func(t *testing.T) {
		in := "Here is the code:\n```go\nx := 1\n```\nHope that helps!"
		assert.Equal(t, "x := 1", StripFences(in))
	})

	t.Run("no fence passes through trimmed", func(t *testing.T) {
		assert.Equal(t, "x := 1", StripFences("  x := 1\n"))
	})

	t.Run("package clause is removed", func(t *testing.T) {
		in := "package main\n\nx := 1"
		assert.Equal(t, "x := 1", StripFences(in))
	})

	t.Run("stray language tag line is removed", func(t *testing.T) {
		in := "go\nx := 1"
		assert.Equal(t, "x := 1", StripFences(in))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", StripFences("   \n"))
	})
}

func TestGetSystemPrompt(t *testing.T) {
	p := GetSystemPrompt(`{"x":"number"}`, `[{"x":1}]`)

	assert.Contains(t, p, `{"x":"number"}`)
	assert.Contains(t, p, `[{"x":1}]`)
	assert.Contains(t, p, "`table`")
	assert.Contains(t, p, "`chart`")
	assert.Contains(t, p, "NO markdown")
}

func TestGetUserPrompt(t *testing.T) {
	assert.Equal(t, "top 5 regions", GetUserPrompt("top 5 regions"))
}
