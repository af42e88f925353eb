package brackets

import (
	"testing"

	"github.com/khelodev/khelo-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedMatch(id, seq, order int, p1, p2 models.ParticipantRef, winnerID *int) models.Match {
	return models.Match{
		ID:           id,
		RoundSeq:     seq,
		Round:        "Semifinal",
		OrderInRound: order,
		Status:       models.MatchCompleted,
		P1:           p1,
		P2:           p2,
		WinnerID:     winnerID,
	}
}

func TestCurrentRoundIncomplete(t *testing.T) {
	ps := refs(4)
	w := ps[0].ID
	matches := []models.Match{
		completedMatch(1, 1, 1, ps[0], ps[1], &w),
		{ID: 2, RoundSeq: 1, OrderInRound: 2, Status: models.MatchScheduled, P1: ps[2], P2: ps[3]},
	}

	state, ok := CurrentRound(matches)
	require.True(t, ok)
	assert.False(t, state.Complete)
	assert.Empty(t, state.Unresolved)
}

func TestCurrentRoundBlocksOnUnresolvedTies(t *testing.T) {
	ps := refs(4)
	w := ps[0].ID
	matches := []models.Match{
		completedMatch(1, 1, 1, ps[0], ps[1], &w),
		completedMatch(2, 1, 2, ps[2], ps[3], nil), // tied, no winner
	}

	state, ok := CurrentRound(matches)
	require.True(t, ok)
	assert.True(t, state.Complete)
	require.Len(t, state.Unresolved, 1)
	assert.Equal(t, 2, state.Unresolved[0].ID)
}

func TestCurrentRoundPicksLatestSequence(t *testing.T) {
	ps := refs(4)
	w1, w2 := ps[0].ID, ps[2].ID
	matches := []models.Match{
		completedMatch(1, 1, 1, ps[0], ps[1], &w1),
		completedMatch(2, 1, 2, ps[2], ps[3], &w2),
		{ID: 3, RoundSeq: 2, OrderInRound: 1, Status: models.MatchScheduled, P1: ps[0], P2: ps[2]},
	}

	state, ok := CurrentRound(matches)
	require.True(t, ok)
	assert.Equal(t, 2, state.Seq)
	assert.Len(t, state.Matches, 1)
}

func TestCurrentRoundNoMatches(t *testing.T) {
	_, ok := CurrentRound(nil)
	assert.False(t, ok)
}

func TestAdvancementPoolWinnersThenByeCarriers(t *testing.T) {
	ps := refs(5)
	registered := models.ParticipantRefList(ps)
	// Seeds 1-4 played, seed 5 had a bye.
	w1, w2 := ps[1].ID, ps[2].ID
	matches := []models.Match{
		completedMatch(1, 1, 1, ps[0], ps[1], &w1),
		completedMatch(2, 1, 2, ps[2], ps[3], &w2),
	}

	state, ok := CurrentRound(matches)
	require.True(t, ok)
	require.True(t, state.Complete)

	pool := AdvancementPool(registered, matches, state)
	require.Len(t, pool, 3)
	assert.Equal(t, []int{ps[1].ID, ps[2].ID, ps[4].ID}, []int{pool[0].ID, pool[1].ID, pool[2].ID})
}

func TestPlanNextRoundPairsSequentially(t *testing.T) {
	pool := refs(4)
	plan := PlanNextRound(pool, 1)
	require.Nil(t, plan.Champion)
	require.Len(t, plan.Pairings, 2)
	assert.Equal(t, 2, plan.RoundSeq)
	assert.Equal(t, "Semifinal", plan.Name)
	assert.Equal(t, pool[0], plan.Pairings[0].P1)
	assert.Equal(t, pool[1], plan.Pairings[0].P2)
	assert.Equal(t, pool[2], plan.Pairings[1].P1)
	assert.Equal(t, pool[3], plan.Pairings[1].P2)
}

func TestPlanNextRoundOddPoolCarriesBye(t *testing.T) {
	pool := refs(3)
	plan := PlanNextRound(pool, 1)
	require.Nil(t, plan.Champion)
	require.Len(t, plan.Pairings, 1)
	// pool[2] sits the round out and rejoins via AdvancementPool next time.
}

func TestPlanNextRoundSingleEntrantIsChampion(t *testing.T) {
	pool := refs(1)
	plan := PlanNextRound(pool, 3)
	require.NotNil(t, plan.Champion)
	assert.Equal(t, pool[0], *plan.Champion)
	assert.Empty(t, plan.Pairings)
}

func TestPlanNextRoundTwoEntrantsIsFinal(t *testing.T) {
	plan := PlanNextRound(refs(2), 2)
	require.Len(t, plan.Pairings, 1)
	assert.Equal(t, "Final", plan.Name)
}
