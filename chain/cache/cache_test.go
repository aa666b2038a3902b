package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_ZeroValuesForUnknownKeys(t *testing.T) {
	c := New()
	assert.Equal(t, int64(0), c.Erg("nobody"))
	assert.Equal(t, uint64(0), c.Token("nobody", "notoken"))
}

func TestCache_SetTokenCreatesNestedMapLazily(t *testing.T) {
	c := New()
	c.SetToken("addr1", "tok1", 42)
	assert.Equal(t, uint64(42), c.Token("addr1", "tok1"))
	assert.Equal(t, uint64(0), c.Token("addr1", "tok2"))
}
