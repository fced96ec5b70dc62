package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadStreamDocument(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	doc := strings.NewReader(`
tokens:
  - type: id
    value: a
    line: 1
    pos: 1
  - type: plus
    value: "+"
    line: 1
    pos: 3
  - type: id
    value: b
    line: 1
    pos: 5
`)

	stream, err := LoadStreamDocument(doc)
	require.NoError(err)

	first := stream.Next()
	assert.Equal("id", first.Class().ID())
	assert.Equal("a", first.Lexeme())

	second := stream.Next()
	assert.Equal("plus", second.Class().ID())

	third := stream.Next()
	assert.Equal("b", third.Lexeme())

	end := stream.Next()
	assert.True(end.Class().Equal(End))
}

func Test_LoadStreamDocument_rejects_missing_type(t *testing.T) {
	require := require.New(t)

	doc := strings.NewReader(`
tokens:
  - value: a
`)

	_, err := LoadStreamDocument(doc)
	require.Error(err)
	require.ErrorIs(err, ErrInvalidTokenStream)
}
