package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAllowlistPolicy(t *testing.T) {
	policy := NewAllowlistPolicy([]string{"Root@Example.com", " ops@example.com ", ""})

	assert.True(t, policy("root@example.com"))
	assert.True(t, policy("OPS@example.com"))
	assert.False(t, policy("student@example.com"))
	assert.False(t, policy(""))
}

func TestNewAllowlistPolicy_Empty(t *testing.T) {
	assert.False(t, NewAllowlistPolicy(nil)("root@example.com"))
}
