package main

import (
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
)

func TestRunRequiresDepth(t *testing.T) {
	defer func(d int, l bool) { *depth, *list = d, l }(*depth, *list)
	*list = false

	for _, d := range []int{0, -3} {
		*depth = d
		err := run(testr.New(t))
		assert.ErrorIs(t, err, errUsage)
		assert.Contains(t, err.Error(), "-depth must be > 0")
	}
}
