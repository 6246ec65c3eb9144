package handler

import (
	"testing"

	"github.com/novarift/server/internal/core/entity"
	"github.com/novarift/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSkillTestPlayer(t *testing.T, level int32) *world.PlayerData {
	t.Helper()
	p := world.NewPlayerData(1, world.NewActor(entity.NewID(1, 0), 100))
	p.Level = level
	return p
}

func TestValidateSkillRequestsAccepts(t *testing.T) {
	p := newSkillTestPlayer(t, 3) // 9 points available
	reqs := []skillRequest{
		{SkillID: 1, NewLevel: 2}, // costs 3
		{SkillID: 8, NewLevel: 2}, // costs 3
	}
	assert.NoError(t, validateSkillRequests(p, reqs))
}

func TestValidateSkillRequestsChargesOnlyTheDelta(t *testing.T) {
	p := newSkillTestPlayer(t, 4) // 11 points available
	p.Skills[1] = &world.SkillEntry{SkillID: 1, SkillLevel: 2}

	// 2 -> 4 costs 10-3=7, not the full 10.
	reqs := []skillRequest{{SkillID: 1, NewLevel: 4}}
	assert.NoError(t, validateSkillRequests(p, reqs))
}

func TestValidateSkillRequestsUnknownSkill(t *testing.T) {
	p := newSkillTestPlayer(t, 10)
	err := validateSkillRequests(p, []skillRequest{{SkillID: 2, NewLevel: 1}})
	require.ErrorIs(t, err, ErrInvalidSkill)
}

func TestValidateSkillRequestsRegression(t *testing.T) {
	p := newSkillTestPlayer(t, 10)
	p.Skills[1] = &world.SkillEntry{SkillID: 1, SkillLevel: 3}

	err := validateSkillRequests(p, []skillRequest{{SkillID: 1, NewLevel: 2}})
	require.ErrorIs(t, err, ErrSkillRegression)
}

func TestValidateSkillRequestsCap(t *testing.T) {
	p := newSkillTestPlayer(t, 50)
	err := validateSkillRequests(p, []skillRequest{{SkillID: 1, NewLevel: 6}})
	require.ErrorIs(t, err, ErrSkillCapExceeded)
}

func TestValidateSkillRequestsInsufficientPoints(t *testing.T) {
	p := newSkillTestPlayer(t, 1) // 5 points available
	err := validateSkillRequests(p, []skillRequest{{SkillID: 1, NewLevel: 3}}) // costs 6
	require.ErrorIs(t, err, ErrInsufficientPoints)
}

// The batch is charged as a whole: two requests that each fit alone can
// still overrun together.
func TestValidateSkillRequestsBatchBudget(t *testing.T) {
	p := newSkillTestPlayer(t, 2) // 7 points available
	reqs := []skillRequest{
		{SkillID: 1, NewLevel: 2}, // 3
		{SkillID: 8, NewLevel: 3}, // 6
	}
	err := validateSkillRequests(p, reqs)
	require.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestValidateSkillRequestsDoesNotMutate(t *testing.T) {
	p := newSkillTestPlayer(t, 10)
	p.Skills[1] = &world.SkillEntry{SkillID: 1, SkillLevel: 3}

	_ = validateSkillRequests(p, []skillRequest{
		{SkillID: 8, NewLevel: 2},
		{SkillID: 2, NewLevel: 1}, // rejected
	})

	assert.Len(t, p.Skills, 1)
	assert.EqualValues(t, 3, p.Skills[1].SkillLevel)
}
