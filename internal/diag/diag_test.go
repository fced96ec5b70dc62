package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New_and_Public(t *testing.T) {
	assert := assert.New(t)

	err := New("undeclared variable x", "sema: undeclared use of x at line 4")
	assert.Equal("sema: undeclared use of x at line 4", err.Error())
	assert.Equal("undeclared variable x", Public(err))
}

func Test_Wrap_unwraps(t *testing.T) {
	assert := assert.New(t)

	inner := errors.New("boom")
	err := Wrap(inner, "something went wrong", "")
	assert.True(errors.Is(err, inner))
	assert.Equal("something went wrong", Public(err))
}

func Test_Public_passes_through_plain_errors(t *testing.T) {
	assert := assert.New(t)

	err := errors.New("plain failure")
	assert.Equal("plain failure", Public(err))
}
