package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionSetAllows(t *testing.T) {
	set := PermissionSet{"content": {"read", "update"}}

	assert.True(t, set.Allows("content", "read"))
	assert.False(t, set.Allows("content", "delete"))
	assert.False(t, set.Allows("users", "read"))

	var empty PermissionSet
	assert.False(t, empty.Allows("content", "read"))
}

func TestPermissionSetUnion(t *testing.T) {
	base := PermissionSet{"content": {"read"}}
	other := PermissionSet{"content": {"read", "update"}, "posts": {"create"}}

	merged := base.Union(other)
	assert.True(t, merged.Allows("content", "read"))
	assert.True(t, merged.Allows("content", "update"))
	assert.True(t, merged.Allows("posts", "create"))
	assert.Len(t, merged["content"], 2)

	// Originals stay untouched.
	assert.False(t, base.Allows("content", "update"))
	assert.Len(t, base["content"], 1)
}
