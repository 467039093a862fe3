package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerEmptyInput(t *testing.T) {
	c := NewChunker()

	chunks, err := c.Chunk("")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = c.Chunk("   \n\t  ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkerShortInputSingleChunk(t *testing.T) {
	c := NewChunker()
	chunks, err := c.Chunk("Course: Algorithms. Grade: A.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "Algorithms")
}

func TestChunkerLongInput(t *testing.T) {
	sentence := "The student completed the advanced coursework with a strong grade. "
	text := strings.Repeat(sentence, 120) // ~8000 chars
	c := NewChunker()

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 5)
	for i, chunk := range chunks {
		assert.LessOrEqualf(t, len(chunk), chunkSize, "chunk %d exceeds target size", i)
		assert.NotEmpty(t, chunk)
	}
}

func TestChunkerDeterministic(t *testing.T) {
	text := strings.Repeat("Semester one covered calculus, physics and writing.\n\n", 60)
	c := NewChunker()

	first, err := c.Chunk(text)
	require.NoError(t, err)
	second, err := c.Chunk(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChunkerConsecutiveOverlap(t *testing.T) {
	word := "transcript "
	text := strings.Repeat(word, 400) // ~4400 chars of uniform words
	c := NewChunker()

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	// With uniform content every chunk opens with material repeated from
	// the previous chunk's tail.
	for i := 1; i < len(chunks); i++ {
		head := chunks[i]
		if len(head) > 50 {
			head = head[:50]
		}
		assert.Containsf(t, chunks[i-1], strings.TrimSpace(head)[:20], "chunk %d does not overlap its predecessor", i)
	}
}
