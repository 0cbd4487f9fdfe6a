package rummy

import (
	"math/rand"
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom/pkg/game"
)

func newTestModule() *Module {
	return newWithRand(slog.Disabled, rand.New(rand.NewSource(1)))
}

func TestDeckShape(t *testing.T) {
	require.Len(t, cardTypes, 53)
	require.Len(t, deckIDs, 52)

	assert.Equal(t, unknownTypeID, cardTypes[0].ID)
	assert.Equal(t, "Unknown", cardTypes[0].Name)

	// Suit in the hundreds digit, rank plus one below.
	assert.Contains(t, deckIDs, 1)   // Ace of Clubs
	assert.Contains(t, deckIDs, 313) // King of Spades
	assert.NotContains(t, deckIDs, 0)
}

func TestJoinModes(t *testing.T) {
	m := newTestModule()

	init, ok := m.Process(game.InitEngMsg{}).(game.ChangeStateModMsg)
	require.True(t, ok)
	assert.True(t, init.Join.IsOpen())
	assert.False(t, init.Start.IsOpen())

	assert.Equal(t, game.EmptyModMsg{},
		m.Process(game.PlayerJoinEngMsg{PlayerID: 0, Name: "alice"}))

	two, ok := m.Process(game.PlayerJoinEngMsg{PlayerID: 1, Name: "bob"}).(game.ChangeStateModMsg)
	require.True(t, ok)
	assert.True(t, two.Join.IsOpen())
	assert.True(t, two.Start.IsOpen())

	assert.Equal(t, game.EmptyModMsg{},
		m.Process(game.PlayerJoinEngMsg{PlayerID: 2, Name: "carol"}))

	four, ok := m.Process(game.PlayerJoinEngMsg{PlayerID: 3, Name: "dave"}).(game.ChangeStateModMsg)
	require.True(t, ok)
	assert.False(t, four.Join.IsOpen())
	assert.True(t, four.Start.IsOpen())
}

func TestLeaveEndsGame(t *testing.T) {
	m := newTestModule()
	m.Process(game.InitEngMsg{})
	m.Process(game.PlayerJoinEngMsg{PlayerID: 0, Name: "alice"})
	m.Process(game.PlayerJoinEngMsg{PlayerID: 1, Name: "bob"})

	end, ok := m.Process(game.PlayerLeaveEngMsg{PlayerID: 1}).(game.EndGameModMsg)
	require.True(t, ok)
	assert.Equal(t, "bob left the game", end.Reason)
}

// view replays a gract list the way a client would and fails the test on any
// reference to a type, collection or card that was never shown.
type view struct {
	t     *testing.T
	types map[int]bool
	colls map[int]bool
	cards map[int]bool
}

func newView(t *testing.T) *view {
	return &view{
		t:     t,
		types: make(map[int]bool),
		colls: make(map[int]bool),
		cards: make(map[int]bool),
	}
}

func (v *view) replay(gracts []game.Gract) {
	v.t.Helper()
	for _, g := range gracts {
		switch g := g.(type) {
		case game.ShowTypeGract:
			v.types[g.TypeID] = true
		case game.ShowCollectionGract:
			v.colls[g.CollectionID] = true
		case game.HideCollectionGract:
			require.True(v.t, v.colls[g.CollectionID])
			delete(v.colls, g.CollectionID)
		case game.ShowCardGract:
			require.True(v.t, v.types[g.TypeID], "card %d shown with unseen type %d", g.CardID, g.TypeID)
			require.True(v.t, v.colls[g.CollectionID], "card %d shown in unseen collection %d", g.CardID, g.CollectionID)
			v.cards[g.CardID] = true
		case game.HideCardGract:
			require.True(v.t, v.cards[g.CardID])
			delete(v.cards, g.CardID)
		case game.MoveCardGract:
			require.True(v.t, v.cards[g.CardID], "moved card %d never shown", g.CardID)
			require.True(v.t, v.colls[g.CollectionID], "card %d moved to unseen collection %d", g.CardID, g.CollectionID)
		case game.RevealCardGract:
			require.True(v.t, v.cards[g.OldCardID], "revealed card %d never shown", g.OldCardID)
			require.True(v.t, v.types[g.NewTypeID], "card revealed as unseen type %d", g.NewTypeID)
			delete(v.cards, g.OldCardID)
			v.cards[g.NewCardID] = true
		case game.ConcealCardGract:
			require.True(v.t, v.cards[g.OldCardID])
			require.True(v.t, v.types[g.NewTypeID])
			delete(v.cards, g.OldCardID)
			v.cards[g.NewCardID] = true
		case game.PossibleActionsGract:
			// Nothing to track.
		default:
			v.t.Fatalf("unknown gract %T", g)
		}
	}
}

func startTwoPlayerRound(t *testing.T, m *Module) map[int][]game.Gract {
	t.Helper()
	m.Process(game.InitEngMsg{})
	m.Process(game.PlayerJoinEngMsg{PlayerID: 0, Name: "alice"})
	m.Process(game.PlayerJoinEngMsg{PlayerID: 1, Name: "bob"})

	reply, ok := m.Process(game.StartRoundEngMsg{}).(game.GractModMsg)
	require.True(t, ok)
	lists := make(map[int][]game.Gract)
	reply.Lists.Each(func(playerID int, gracts []game.Gract) {
		lists[playerID] = gracts
	})
	return lists
}

func TestStartRoundDeal(t *testing.T) {
	m := newTestModule()
	lists := startTwoPlayerRound(t, m)
	require.Len(t, lists, 2)

	for playerID, gracts := range lists {
		v := newView(t)
		v.replay(gracts)

		// Full type catalogue, two stacks and two hands.
		assert.Len(t, v.types, 53)
		assert.Len(t, v.colls, 4)

		// Seven cards per hand plus both stack tops.
		assert.Len(t, v.cards, 16)

		ownFaceUp, othersFaceDown := 0, 0
		for _, g := range gracts {
			show, ok := g.(game.ShowCardGract)
			if !ok || show.CollectionID < 0 {
				continue
			}
			if show.CollectionID == playerID {
				assert.Equal(t, show.CardID, show.TypeID)
				ownFaceUp++
			} else {
				assert.Equal(t, unknownTypeID, show.TypeID)
				othersFaceDown++
			}
		}
		assert.Equal(t, handSize, ownFaceUp)
		assert.Equal(t, handSize, othersFaceDown)
	}

	// Only the first player in the order gets an opening move.
	var offers []game.PossibleActionsGract
	for _, g := range lists[0] {
		if pa, ok := g.(game.PossibleActionsGract); ok {
			offers = append(offers, pa)
		}
	}
	require.Len(t, offers, 1)
	assert.Equal(t, []game.Paction{
		game.SelectCollectionPaction{CollectionIDs: []int{drawStackID, discardStackID}},
	}, offers[0].Pactions)

	for _, g := range lists[1] {
		_, ok := g.(game.PossibleActionsGract)
		assert.False(t, ok, "player 1 must not be offered actions")
	}
}

func TestStartRoundStackTops(t *testing.T) {
	m := newTestModule()
	lists := startTwoPlayerRound(t, m)

	var drawTop, discardTop *game.ShowCardGract
	for _, g := range lists[0] {
		show, ok := g.(game.ShowCardGract)
		if !ok {
			continue
		}
		switch show.CollectionID {
		case drawStackID:
			s := show
			drawTop = &s
		case discardStackID:
			s := show
			discardTop = &s
		}
	}
	require.NotNil(t, drawTop)
	require.NotNil(t, discardTop)

	assert.Equal(t, unknownTypeID, drawTop.TypeID)
	assert.Equal(t, discardTop.CardID, discardTop.TypeID)
}

// setRoundState installs a deterministic round so turn mechanics can be
// asserted without depending on the shuffle.
func setRoundState(m *Module, hand0, hand1, draw, discard []int) {
	m.roundActive = true
	m.order = []int{0, 1}
	m.turn = 0
	m.stage = stageDraw
	m.seats[0].hand = hand0
	m.seats[1].hand = hand1
	m.drawStack = draw
	m.discardStack = discard
}

func TestTurnFlow(t *testing.T) {
	m := newTestModule()
	m.Process(game.InitEngMsg{})
	m.Process(game.PlayerJoinEngMsg{PlayerID: 0, Name: "alice"})
	m.Process(game.PlayerJoinEngMsg{PlayerID: 1, Name: "bob"})
	setRoundState(m,
		[]int{1, 2, 3, 101, 102, 205, 300},
		[]int{7, 107, 207, 301, 302, 303},
		[]int{50, 51},
		[]int{10},
	)

	// Player 0 draws from the face-down stack: the top card moves to their
	// hand, is revealed to them alone, and a discard choice follows.
	reply, ok := m.Process(game.PlayerActionEngMsg{
		PlayerID: 0,
		Action:   game.SelectCollectionAction{CollectionID: drawStackID},
	}).(game.GractModMsg)
	require.True(t, ok)

	lists := make(map[int][]game.Gract)
	reply.Lists.Each(func(playerID int, gracts []game.Gract) {
		lists[playerID] = gracts
	})
	assert.Contains(t, lists[0], game.MoveCardGract{CardID: 51, CollectionID: 0})
	assert.Contains(t, lists[1], game.MoveCardGract{CardID: 51, CollectionID: 0})
	assert.Contains(t, lists[0], game.RevealCardGract{OldCardID: 51, NewCardID: 51, NewTypeID: 51})
	assert.NotContains(t, lists[1], game.RevealCardGract{OldCardID: 51, NewCardID: 51, NewTypeID: 51})
	// The uncovered stack top is announced face-down to everyone.
	assert.Contains(t, lists[1], game.ShowCardGract{CardID: 50, TypeID: unknownTypeID, CollectionID: drawStackID})

	var offered game.SelectCardPaction
	for _, g := range lists[0] {
		if pa, ok := g.(game.PossibleActionsGract); ok {
			offered = pa.Pactions[0].(game.SelectCardPaction)
		}
	}
	assert.ElementsMatch(t, []int{1, 2, 3, 101, 102, 205, 300, 51}, offered.CardIDs)

	// Player 0 discards the drawn card; the turn passes to player 1 with a
	// fresh draw choice.
	reply, ok = m.Process(game.PlayerActionEngMsg{
		PlayerID: 0,
		Action:   game.SelectCardAction{CardID: 51},
	}).(game.GractModMsg)
	require.True(t, ok)

	lists = make(map[int][]game.Gract)
	reply.Lists.Each(func(playerID int, gracts []game.Gract) {
		lists[playerID] = gracts
	})
	assert.Contains(t, lists[1], game.MoveCardGract{CardID: 51, CollectionID: discardStackID})
	assert.Contains(t, lists[1], game.RevealCardGract{OldCardID: 51, NewCardID: 51, NewTypeID: 51})
	assert.Contains(t, lists[1], game.PossibleActionsGract{Pactions: []game.Paction{
		game.SelectCollectionPaction{CollectionIDs: []int{drawStackID, discardStackID}},
	}})

	// Player 1 picks up the discard and goes out: rank set 7/107/207 plus
	// run 301/302/303.
	reply, ok = m.Process(game.PlayerActionEngMsg{
		PlayerID: 1,
		Action:   game.SelectCollectionAction{CollectionID: discardStackID},
	}).(game.GractModMsg)
	require.True(t, ok)

	end, isEnd := m.Process(game.PlayerActionEngMsg{
		PlayerID: 1,
		Action:   game.SelectCardAction{CardID: 51},
	}).(game.EndRoundModMsg)
	require.True(t, isEnd)
	assert.Equal(t, "bob won the round", end.Reason)
	assert.False(t, m.roundActive)
}

func TestDrawChoicesWithExhaustedStack(t *testing.T) {
	m := newTestModule()
	m.drawStack = nil
	assert.Equal(t, game.PossibleActionsGract{Pactions: []game.Paction{
		game.SelectCollectionPaction{CollectionIDs: []int{discardStackID}},
	}}, m.drawChoices())

	m.drawStack = []int{5}
	assert.Equal(t, game.PossibleActionsGract{Pactions: []game.Paction{
		game.SelectCollectionPaction{CollectionIDs: []int{drawStackID, discardStackID}},
	}}, m.drawChoices())
}

func TestExternalEndRoundClearsState(t *testing.T) {
	m := newTestModule()
	startTwoPlayerRound(t, m)
	require.True(t, m.roundActive)

	end, ok := m.Process(game.EndRoundEngMsg{}).(game.EndRoundModMsg)
	require.True(t, ok)
	assert.Equal(t, "round aborted", end.Reason)
	assert.False(t, m.roundActive)
	assert.Nil(t, m.drawStack)

	// Another round can start afterwards.
	reply, ok := m.Process(game.StartRoundEngMsg{}).(game.GractModMsg)
	require.True(t, ok)
	require.NotNil(t, reply.Lists)
}

func TestHandComplete(t *testing.T) {
	tests := []struct {
		name string
		hand []int
		want bool
	}{
		{"empty", nil, true},
		{"rank set and run of three", []int{5, 105, 205, 101, 102, 103}, true},
		{"rank set and run of four", []int{7, 107, 207, 301, 302, 303, 304}, true},
		{"broken run", []int{7, 107, 207, 301, 302, 303, 305}, false},
		{"run too short", []int{101, 102, 5, 105, 205}, false},
		{"pair is not a set", []int{9, 109, 301, 302, 303}, false},
		{"leftover card", []int{5, 105, 205, 101, 102, 103, 300}, false},
		{"four of a kind", []int{12, 112, 212, 312, 201, 202, 203}, true},
		{"two runs", []int{101, 102, 103, 208, 209, 210}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, handComplete(tc.hand))
		})
	}
}
