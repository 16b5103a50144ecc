package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnippet(t *testing.T) {
	text := "one\ntwo\nthree\nfour\nfive\n"

	t.Run("slices window around line", func(t *testing.T) {
		s := Snippet(text, 3, 1)
		lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "two")
		assert.Contains(t, lines[1], "three")
		assert.Contains(t, lines[2], "four")
	})

	t.Run("marks the error line", func(t *testing.T) {
		s := Snippet(text, 3, 1)
		for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
			if strings.Contains(line, "three") {
				assert.True(t, strings.HasPrefix(line, ">"))
			} else {
				assert.True(t, strings.HasPrefix(line, " "))
			}
		}
	})

	t.Run("clips at document start", func(t *testing.T) {
		s := Snippet(text, 1, 3)
		lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
		require.Len(t, lines, 4) // lines 1..4
		assert.Contains(t, lines[0], "one")
	})

	t.Run("clips at document end", func(t *testing.T) {
		s := Snippet(text, 5, 3)
		lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
		require.Len(t, lines, 4) // lines 2..5
		assert.Contains(t, lines[3], "five")
	})

	t.Run("empty for out of range line", func(t *testing.T) {
		assert.Empty(t, Snippet(text, 99, 2))
		assert.Empty(t, Snippet(text, 0, 2))
		assert.Empty(t, Snippet(text, -1, 2))
	})

	t.Run("empty for empty text", func(t *testing.T) {
		assert.Empty(t, Snippet("", 1, 2))
	})
}

func TestCapturedErrorKey(t *testing.T) {
	e := &CapturedError{File: "App.tsx", Line: 10, Message: "x is not defined"}
	assert.Equal(t, "App.tsx:10:x is not defined", e.Key())
}

func TestCapturedErrorDegraded(t *testing.T) {
	assert.True(t, (&CapturedError{File: DegradedFile}).Degraded())
	assert.False(t, (&CapturedError{File: "main.go"}).Degraded())
}
