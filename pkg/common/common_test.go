package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		assert.Positive(t, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSha256HashWithSalt(t *testing.T) {
	h1 := Sha256HashWithSalt("petshop", "salt-a")
	h2 := Sha256HashWithSalt("petshop", "salt-a")
	h3 := Sha256HashWithSalt("petshop", "salt-b")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestIfEmptyStr(t *testing.T) {
	assert.Equal(t, "fallback", IfEmptyStr("", "fallback"))
	assert.Equal(t, "value", IfEmptyStr("value", "fallback"))
}
