package validation_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hobbyhub-client/internal/validation"
)

func TestTagSet_TrimLowerDedup(t *testing.T) {
	var tags validation.TagSet

	added, err := tags.Add("Rust ")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = tags.Add("rust")
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, []string{"rust"}, tags.Tags())
}

func TestTagSet_IgnoresBlank(t *testing.T) {
	tags := validation.NewTagSet()
	added, err := tags.Add("   ")
	assert.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 0, tags.Len())
}

func TestTagSet_CapsAtTen(t *testing.T) {
	tags := validation.NewTagSet()
	for i := 0; i < validation.MaxTags; i++ {
		added, err := tags.Add(fmt.Sprintf("tag%d", i))
		require.NoError(t, err)
		require.True(t, added)
	}

	added, err := tags.Add("eleven")
	assert.ErrorIs(t, err, validation.ErrTooManyTags)
	assert.False(t, added)

	// A duplicate on a full set is not an error.
	added, err = tags.Add("TAG3")
	assert.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, validation.MaxTags, tags.Len())
}

func TestTagSet_Remove(t *testing.T) {
	tags := validation.NewTagSet("3d-printing", "Arduino")
	assert.True(t, tags.Contains("ARDUINO"))
	assert.True(t, tags.Remove(" arduino"))
	assert.False(t, tags.Remove("arduino"))
	assert.Equal(t, []string{"3d-printing"}, tags.Tags())
}

func TestNewTagSet_TruncatesOverflow(t *testing.T) {
	raw := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		raw = append(raw, fmt.Sprintf("t%d", i))
	}
	assert.Equal(t, validation.MaxTags, validation.NewTagSet(raw...).Len())
}

func TestTagsCopyIsDetached(t *testing.T) {
	tags := validation.NewTagSet("wood")
	out := tags.Tags()
	out[0] = "metal"
	assert.Equal(t, []string{"wood"}, tags.Tags())
}
