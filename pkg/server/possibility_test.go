package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cardroom/pkg/game"
)

func TestMatches(t *testing.T) {
	pactions := []game.Paction{
		game.NextPaction{},
		game.SelectCardPaction{CardIDs: []int{4, 5}},
		game.SelectCollectionPaction{CollectionIDs: []int{-1, -2}},
		game.AgainstCardPaction{SelectCardID: 4, AgainstCardIDs: []int{7, 8}},
		game.WildCardPaction{CardID: 9, TypeIDs: []int{1, 2}},
	}

	tests := []struct {
		name string
		act  game.Action
		want bool
	}{
		{"next", game.NextAction{}, true},
		{"listed card", game.SelectCardAction{CardID: 5}, true},
		{"unlisted card", game.SelectCardAction{CardID: 6}, false},
		{"listed collection", game.SelectCollectionAction{CollectionID: -2}, true},
		{"unlisted collection", game.SelectCollectionAction{CollectionID: 3}, false},
		{"against listed", game.AgainstCardAction{SelectCardID: 4, AgainstCardID: 8}, true},
		{"against wrong subject", game.AgainstCardAction{SelectCardID: 5, AgainstCardID: 8}, false},
		{"against unlisted target", game.AgainstCardAction{SelectCardID: 4, AgainstCardID: 9}, false},
		{"wild listed", game.WildCardAction{CardID: 9, TypeID: 2}, true},
		{"wild wrong card", game.WildCardAction{CardID: 8, TypeID: 2}, false},
		{"wild unlisted type", game.WildCardAction{CardID: 9, TypeID: 3}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(pactions, tc.act))
		})
	}
}

func TestMatchesEmptySet(t *testing.T) {
	assert.False(t, Matches(nil, game.NextAction{}))
	assert.False(t, Matches([]game.Paction{}, game.SelectCardAction{CardID: 1}))
}

// The first paction of a kind wins; a later one with the same card does not
// widen the match.
func TestMatchesFirstMatchWins(t *testing.T) {
	pactions := []game.Paction{
		game.WildCardPaction{CardID: 3, TypeIDs: []int{1}},
		game.WildCardPaction{CardID: 3, TypeIDs: []int{2}},
	}
	assert.True(t, Matches(pactions, game.WildCardAction{CardID: 3, TypeID: 1}))
	assert.True(t, Matches(pactions, game.WildCardAction{CardID: 3, TypeID: 2}))
	assert.False(t, Matches(pactions, game.WildCardAction{CardID: 3, TypeID: 3}))
}
