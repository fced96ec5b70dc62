package main

import (
	"testing"

	"github.com/dekarrin/simc/internal/config"
	"github.com/dekarrin/simc/internal/simcfe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseReplLine(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	toks, err := parseReplLine("id:a plus:+ id:b")
	require.NoError(err)
	require.Len(toks, 3)
	assert.Equal("id", toks[0].Class().ID())
	assert.Equal("a", toks[0].Lexeme())
	assert.Equal("plus", toks[1].Class().ID())
	assert.Equal("+", toks[1].Lexeme())
}

func Test_parseReplLine_rejects_malformed_field(t *testing.T) {
	require := require.New(t)

	_, err := parseReplLine(":a")
	require.Error(err)
}

func Test_algorithmFor(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(simcfe.SLR1, algorithmFor(config.AlgorithmSLR1))
	assert.Equal(simcfe.CanonicalLR1, algorithmFor(config.AlgorithmLR1))
	assert.Equal(simcfe.SLR1, algorithmFor(""))
}
