package data

// Skill id translation tables. The client addresses skills three ways: by
// sparse skill id, by dense skill index, and by the ability id a learned
// skill unlocks. These tables are fixed by the client build and are not
// loaded from disk.

// SkillIByIdx maps dense skill index to sparse skill id.
var SkillIByIdx = [73]int32{
	1, 8, 14, 19, 20, 21, 22, 23, 24, 25,
	26, 28, 30, 31, 32, 34, 35, 36, 37, 39,
	40, 43, 47, 48, 49, 50, 54, 55, 57, 58,
	63, 66, 67, 68, 72, 73, 77, 79, 80, 82,
	89, 92, 102, 110, 111, 113, 114, 121, 135, 136,
	147, 148, 149, 150, 151, 152, 153, 154, 155, 156,
	157, 158, 159, 160, 161, 162, 163, 164, 165, 166,
	172, 173, 174,
}

// skillId2Idx maps sparse skill id to dense skill index, -1 for gaps.
var skillId2Idx = [200]int32{
	-1, 0, -1, -1, -1, -1, -1, -1, 1, -1, -1, -1, -1, -1, 2, -1, -1, -1, -1, 3,
	4, 5, 6, 7, 8, 9, 10, -1, 11, -1, 12, 13, 14, -1, 15, 16, 17, 18, -1, 19,
	20, -1, -1, 21, -1, -1, -1, 22, 23, 24, 25, -1, -1, -1, 26, 27, -1, 28, 29, -1,
	-1, -1, -1, 30, -1, -1, 31, 32, 33, -1, -1, -1, 34, 35, -1, -1, -1, 36, -1, 37,
	38, -1, 39, -1, -1, -1, -1, -1, -1, 40, -1, -1, 41, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, 42, -1, -1, -1, -1, -1, -1, -1, 43, 44, -1, 45, 46, -1, -1, -1, -1, -1,
	-1, 47, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, 48, 49, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62,
	63, 64, 65, 66, 67, 68, 69, -1, -1, -1, -1, -1, 70, 71, 72, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
}

// skillIdx2AbilityID maps dense skill index to the ability id it unlocks,
// -1 for passive skills with no usable ability.
var skillIdx2AbilityID = [73]int32{
	-1, -1, -1, -1, 137, -1, -1, -1, -1, 178,
	177, 158, -1, -1, 197, 186, 188, 162, 187, -1,
	-1, 233, 234, -1, 194, -1, -1, -1, -1, -1,
	301, -1, -1, 185, 251, 240, 302, 232, 229, -1,
	231, 305, 392, 252, 282, 381, 267, 298, 246, 253,
	307, 393, 281, 390, 295, 304, 386, 193, 385, 176,
	260, 384, 383, 303, 388, 389, 387, 380, 401, 430,
	262, 421, 446,
}

// SkillIndexOf returns the dense index for a sparse skill id, or -1 when the
// id is out of range or maps to no skill.
func SkillIndexOf(skillID int32) int32 {
	if skillID < 0 || skillID >= int32(len(skillId2Idx)) {
		return -1
	}
	return skillId2Idx[skillID]
}

// AbilityForIndex returns the ability id unlocked by the skill at the given
// dense index, or -1 for passive skills and out-of-range indexes.
func AbilityForIndex(idx int32) int32 {
	if idx < 0 || idx >= int32(len(skillIdx2AbilityID)) {
		return -1
	}
	return skillIdx2AbilityID[idx]
}

// SkillCount returns the number of dense skill indexes.
func SkillCount() int {
	return len(SkillIByIdx)
}
