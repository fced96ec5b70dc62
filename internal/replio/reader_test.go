package replio

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DirectReader_ReadLine_skips_blanks(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	r := NewDirectReader(strings.NewReader("\n  \nid:a\nplus:+\n"))

	line, err := r.ReadLine()
	require.NoError(err)
	assert.Equal("id:a", line)

	line, err = r.ReadLine()
	require.NoError(err)
	assert.Equal("plus:+", line)

	_, err = r.ReadLine()
	assert.ErrorIs(err, io.EOF)
}
