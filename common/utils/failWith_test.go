package utils

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorChain(t *testing.T) {
	root := errors.New("range must be positive")
	err := errors.Wrap(errors.Wrap(root, "invalid configuration"), "cannot start run")

	assert.Equal(t, []string{
		"cannot start run",
		"invalid configuration",
		"range must be positive",
	}, ErrorChain(err))

	assert.Equal(t, []string{"plain"}, ErrorChain(errors.New("plain")))
	assert.Nil(t, ErrorChain(nil))
}

func TestPrintChain(t *testing.T) {
	err := errors.Wrap(errors.New("no such file"), "cannot load config")

	var buf bytes.Buffer
	printChain(&buf, err)

	assert.Equal(t, "└─ cannot load config\n   └─ no such file\n", buf.String())
}
