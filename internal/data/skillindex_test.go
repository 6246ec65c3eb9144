package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillIndexOfBounds(t *testing.T) {
	assert.EqualValues(t, -1, SkillIndexOf(-1))
	assert.EqualValues(t, -1, SkillIndexOf(200))
	assert.EqualValues(t, -1, SkillIndexOf(0), "skill id 0 is a gap")
}

func TestSkillIndexInverse(t *testing.T) {
	for idx, skillID := range SkillIByIdx {
		assert.EqualValues(t, idx, SkillIndexOf(skillID),
			"skill id %d must map back to index %d", skillID, idx)
	}
}

func TestAbilityForIndex(t *testing.T) {
	assert.EqualValues(t, -1, AbilityForIndex(-1))
	assert.EqualValues(t, -1, AbilityForIndex(int32(SkillCount())))

	// Sprint sits at dense index 68.
	assert.EqualValues(t, 68, SkillIndexOf(165))
	assert.EqualValues(t, 401, AbilityForIndex(68))

	// Index 0 is a passive skill.
	assert.EqualValues(t, -1, AbilityForIndex(0))
}
