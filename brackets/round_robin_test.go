package brackets

import (
	"fmt"
	"testing"

	"github.com/khelodev/khelo-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refs(n int) []models.ParticipantRef {
	out := make([]models.ParticipantRef, n)
	for i := range out {
		out[i] = models.ParticipantRef{ID: i + 1, Name: fmt.Sprintf("P%d", i+1)}
	}
	return out
}

func TestRoundRobinCompleteness(t *testing.T) {
	g := NewRoundRobinGenerator()

	for n := 2; n <= 8; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			pairings, err := g.Generate(refs(n))
			require.NoError(t, err)
			assert.Len(t, pairings, n*(n-1)/2)

			seen := make(map[[2]int]int)
			for _, p := range pairings {
				a, b := p.P1.ID, p.P2.ID
				require.NotEqual(t, a, b)
				if a > b {
					a, b = b, a
				}
				seen[[2]int{a, b}]++
			}
			for i := 1; i <= n; i++ {
				for j := i + 1; j <= n; j++ {
					assert.Equal(t, 1, seen[[2]int{i, j}], "pair %d-%d should meet exactly once", i, j)
				}
			}
		})
	}
}

func TestRoundRobinRoundCount(t *testing.T) {
	g := NewRoundRobinGenerator()

	cases := []struct {
		n      int
		rounds int
	}{
		{2, 1},
		{3, 3}, // odd field plays bye rounds
		{4, 3},
		{5, 5},
		{6, 5},
	}
	for _, tc := range cases {
		pairings, err := g.Generate(refs(tc.n))
		require.NoError(t, err)

		maxRound := 0
		for _, p := range pairings {
			if p.Round > maxRound {
				maxRound = p.Round
			}
		}
		assert.Equal(t, tc.rounds, maxRound, "n=%d", tc.n)
	}
}

func TestRoundRobinFourTeamsThreeRoundsOfTwo(t *testing.T) {
	g := NewRoundRobinGenerator()
	pairings, err := g.Generate(refs(4))
	require.NoError(t, err)
	require.Len(t, pairings, 6)

	perRound := make(map[int]int)
	for _, p := range pairings {
		perRound[p.Round]++
	}
	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 2}, perRound)
}

func TestRoundRobinDeterministic(t *testing.T) {
	g := NewRoundRobinGenerator()
	first, err := g.Generate(refs(7))
	require.NoError(t, err)
	second, err := g.Generate(refs(7))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRoundRobinNotEnoughParticipants(t *testing.T) {
	g := NewRoundRobinGenerator()
	_, err := g.Generate(refs(1))
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)
}
