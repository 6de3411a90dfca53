package set_test

import (
	"testing"

	"deedles.dev/wlkbd/internal/set"
	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := set.New(1, 2, 3)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has(2))

	s.Delete(2)
	assert.False(t, s.Has(2))
	assert.Equal(t, 2, s.Len())

	s.Add(1)
	assert.Equal(t, 2, s.Len())
}
