// Package rummy implements a simplified seven-card rummy rule set. Two to
// four players draw from a face-down stack or the discard pile and discard
// one card per turn; the first player whose hand decomposes into rank sets
// and runs wins the round.
package rummy

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/decred/slog"

	"cardroom/pkg/game"
)

const (
	// unknownTypeID is the face-down card type shown to players who may
	// not see a card's face.
	unknownTypeID = 0

	drawStackID    = -1
	discardStackID = -2

	minPlayers = 2
	maxPlayers = 4
	handSize   = 7
)

// Card identifiers double as type identifiers: suit in the hundreds digit,
// rank plus one in the low digits. The identity makes reveals trivial and
// keeps the deck a plain []int.
var (
	cardTypes = buildTypes()
	deckIDs   = buildDeck()
)

var (
	suitNames = []string{"Clubs", "Diamonds", "Hearts", "Spades"}
	rankNames = []string{
		"Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
		"Eight", "Nine", "Ten", "Jack", "Queen", "King",
	}
)

func buildTypes() []game.CardType {
	types := []game.CardType{{
		ID:   unknownTypeID,
		Name: "Unknown",
		Desc: "A face-down card",
		URL:  "/playing-cards/0.svg",
	}}
	for s, suit := range suitNames {
		for r, rank := range rankNames {
			id := s*100 + r + 1
			types = append(types, game.CardType{
				ID:   id,
				Name: fmt.Sprintf("%s of %s", rank, suit),
				Desc: fmt.Sprintf("The %s of %s", rank, suit),
				URL:  fmt.Sprintf("/playing-cards/%d.svg", id),
			})
		}
	}
	return types
}

func buildDeck() []int {
	ids := make([]int, 0, len(suitNames)*len(rankNames))
	for s := range suitNames {
		for r := range rankNames {
			ids = append(ids, s*100+r+1)
		}
	}
	return ids
}

type turnStage int

const (
	// stageDraw: the current player picks the stack to draw from.
	stageDraw turnStage = iota
	// stageDiscard: the current player picks the card to discard.
	stageDiscard
)

type seat struct {
	id   int
	name string
	hand []int
}

// Module holds the rule state for one game. It is driven by a single engine
// goroutine and needs no locking.
type Module struct {
	log slog.Logger
	rng *rand.Rand

	seats map[int]*seat

	// Round state, valid while roundActive.
	roundActive  bool
	order        []int
	turn         int
	stage        turnStage
	drawStack    []int
	discardStack []int
}

// New returns a fresh rummy module for one game.
func New(log slog.Logger) *Module {
	return newWithRand(log, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newWithRand(log slog.Logger, rng *rand.Rand) *Module {
	return &Module{
		log:   log,
		rng:   rng,
		seats: make(map[int]*seat),
	}
}

// Process implements game.Module.
func (m *Module) Process(msg game.EngMsg) game.ModMsg {
	switch msg := msg.(type) {
	case game.InitEngMsg:
		return game.ChangeStateModMsg{
			Join:  game.Open(),
			Start: game.Closed(fmt.Sprintf("at least %d players required", minPlayers)),
		}

	case game.PlayerJoinEngMsg:
		return m.playerJoin(msg.PlayerID, msg.Name)

	case game.PlayerLeaveEngMsg:
		// Hands cannot be rebalanced mid-game; any departure folds the
		// table.
		seatName := "a player"
		if s, ok := m.seats[msg.PlayerID]; ok {
			seatName = s.name
		}
		return game.EndGameModMsg{Reason: fmt.Sprintf("%s left the game", seatName)}

	case game.StartRoundEngMsg:
		return m.startRound()

	case game.EndRoundEngMsg:
		m.clearRound()
		return game.EndRoundModMsg{Reason: "round aborted"}

	case game.PlayerActionEngMsg:
		return m.playerAction(msg.PlayerID, msg.Action)
	}

	m.log.Errorf("rummy: unhandled engine message %T", msg)
	return game.EmptyModMsg{}
}

func (m *Module) playerJoin(playerID int, name string) game.ModMsg {
	m.seats[playerID] = &seat{id: playerID, name: name}
	switch len(m.seats) {
	case minPlayers:
		return game.ChangeStateModMsg{Join: game.Open(), Start: game.Open()}
	case maxPlayers:
		return game.ChangeStateModMsg{
			Join:  game.Closed(fmt.Sprintf("no more than %d players", maxPlayers)),
			Start: game.Open(),
		}
	}
	return game.EmptyModMsg{}
}

// startRound shuffles, deals and shows the initial table to every player.
func (m *Module) startRound() game.ModMsg {
	m.clearRound()
	m.roundActive = true
	for id := range m.seats {
		m.order = append(m.order, id)
	}
	sort.Ints(m.order)

	deck := append([]int(nil), deckIDs...)
	m.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	for _, id := range m.order {
		s := m.seats[id]
		s.hand = append([]int(nil), deck[:handSize]...)
		deck = deck[handSize:]
	}
	m.discardStack = []int{deck[0]}
	m.drawStack = append([]int(nil), deck[1:]...)
	m.log.Debugf("rummy: dealt %d hands, %d cards in draw stack",
		len(m.order), len(m.drawStack))

	lists := game.NewGractLists(m.order...)
	for _, t := range cardTypes {
		lists.Broadcast(t.Show())
	}
	lists.Broadcast(
		game.Shared(drawStackID, game.DisplayStack).Show(),
		game.Shared(discardStackID, game.DisplayStack).Show(),
	)
	for _, id := range m.order {
		lists.Broadcast(game.AnchoredTo(id, id, game.DisplayHand).Show())
	}

	// Stack tops: the draw stack face-down, the discard face-up.
	lists.Broadcast(game.ShowCardGract{
		CardID:       m.drawStack[len(m.drawStack)-1],
		TypeID:       unknownTypeID,
		CollectionID: drawStackID,
	})
	discardTop := m.discardStack[0]
	lists.Broadcast(game.ShowCardGract{
		CardID:       discardTop,
		TypeID:       discardTop,
		CollectionID: discardStackID,
	})

	// Hands: face-up for the owner, face-down for everyone else.
	for _, id := range m.order {
		for _, cardID := range m.seats[id].hand {
			lists.Send(id, game.ShowCardGract{
				CardID: cardID, TypeID: cardID, CollectionID: id,
			})
			lists.BroadcastExcept(id, game.ShowCardGract{
				CardID: cardID, TypeID: unknownTypeID, CollectionID: id,
			})
		}
	}

	m.turn = 0
	m.stage = stageDraw
	lists.Send(m.order[m.turn], m.drawChoices())
	return game.GractModMsg{Lists: lists}
}

func (m *Module) playerAction(playerID int, act game.Action) game.ModMsg {
	if !m.roundActive || playerID != m.order[m.turn] {
		// The engine only forwards advertised actions, so reaching this
		// means the module's own bookkeeping is broken.
		m.log.Errorf("rummy: action from player %d out of turn", playerID)
		return game.EndGameModMsg{Reason: "internal rules error"}
	}

	switch act := act.(type) {
	case game.SelectCollectionAction:
		if m.stage != stageDraw {
			break
		}
		return m.draw(playerID, act.CollectionID)
	case game.SelectCardAction:
		if m.stage != stageDiscard {
			break
		}
		return m.discard(playerID, act.CardID)
	}
	m.log.Errorf("rummy: unexpected action %T in stage %d", act, m.stage)
	return game.EndGameModMsg{Reason: "internal rules error"}
}

// draw moves the top card of the chosen stack into the player's hand and
// reveals it to the player only.
func (m *Module) draw(playerID, collectionID int) game.ModMsg {
	s := m.seats[playerID]
	lists := game.NewGractLists(m.order...)

	var cardID int
	switch collectionID {
	case drawStackID:
		cardID = m.drawStack[len(m.drawStack)-1]
		m.drawStack = m.drawStack[:len(m.drawStack)-1]
		if len(m.drawStack) > 0 {
			lists.Broadcast(game.ShowCardGract{
				CardID:       m.drawStack[len(m.drawStack)-1],
				TypeID:       unknownTypeID,
				CollectionID: drawStackID,
			})
		}
	case discardStackID:
		cardID = m.discardStack[len(m.discardStack)-1]
		m.discardStack = m.discardStack[:len(m.discardStack)-1]
	}

	s.hand = append(s.hand, cardID)
	lists.Broadcast(game.MoveCardGract{CardID: cardID, CollectionID: playerID})
	lists.Send(playerID, game.RevealCardGract{
		OldCardID: cardID, NewCardID: cardID, NewTypeID: cardID,
	})

	m.stage = stageDiscard
	lists.Send(playerID, game.PossibleActionsGract{Pactions: []game.Paction{
		game.SelectCardPaction{CardIDs: append([]int(nil), s.hand...)},
	}})
	return game.GractModMsg{Lists: lists}
}

// discard moves the chosen card onto the discard pile face-up, ends the
// round if the remaining hand is complete, and otherwise passes the turn.
func (m *Module) discard(playerID, cardID int) game.ModMsg {
	s := m.seats[playerID]
	for i, id := range s.hand {
		if id == cardID {
			s.hand = append(s.hand[:i], s.hand[i+1:]...)
			break
		}
	}

	if handComplete(s.hand) {
		m.log.Debugf("rummy: player %d completed their hand", playerID)
		m.clearRound()
		return game.EndRoundModMsg{Reason: fmt.Sprintf("%s won the round", s.name)}
	}

	m.discardStack = append(m.discardStack, cardID)
	lists := game.NewGractLists(m.order...)
	lists.Broadcast(game.MoveCardGract{CardID: cardID, CollectionID: discardStackID})
	lists.Broadcast(game.RevealCardGract{
		OldCardID: cardID, NewCardID: cardID, NewTypeID: cardID,
	})

	m.turn = (m.turn + 1) % len(m.order)
	m.stage = stageDraw
	lists.Send(m.order[m.turn], m.drawChoices())
	return game.GractModMsg{Lists: lists}
}

// drawChoices offers the stacks the current player may draw from. The draw
// stack drops out of the offer once exhausted; the discard pile always has a
// card at the start of a turn.
func (m *Module) drawChoices() game.PossibleActionsGract {
	collIDs := []int{discardStackID}
	if len(m.drawStack) > 0 {
		collIDs = []int{drawStackID, discardStackID}
	}
	return game.PossibleActionsGract{Pactions: []game.Paction{
		game.SelectCollectionPaction{CollectionIDs: collIDs},
	}}
}

func (m *Module) clearRound() {
	m.roundActive = false
	m.order = nil
	m.turn = 0
	m.stage = stageDraw
	m.drawStack = nil
	m.discardStack = nil
	for _, s := range m.seats {
		s.hand = nil
	}
}

// handComplete reports whether a hand decomposes fully into rank sets of
// three or more and runs of consecutive identifiers. Runs are consumed four
// cards at a time, so a lone leftover after a long run does not count.
func handComplete(hand []int) bool {
	cards := append([]int(nil), hand...)
	sort.Ints(cards)
	removed := make([]bool, len(cards))

	// Rank sets: same rank across suits, id modulo 100.
	for i := 0; i < 5 && i < len(cards); i++ {
		if removed[i] {
			continue
		}
		rank := cards[i] % 100
		count := 0
		for j := i; j < len(cards); j++ {
			if !removed[j] && cards[j]%100 == rank {
				count++
			}
		}
		if count < 3 {
			continue
		}
		for j := i; j < len(cards); j++ {
			if !removed[j] && cards[j]%100 == rank {
				removed[j] = true
			}
		}
	}

	// Runs over whatever remains.
	startIdx, endIdx := -1, -1
	prev := 0
	for i := 0; i < len(cards); i++ {
		if removed[i] {
			continue
		}
		endIdx = i
		if startIdx == -1 {
			startIdx = i
		} else if cards[i] != prev+1 || i-startIdx == 4 {
			if i-startIdx < 3 {
				return false
			}
			for j := startIdx; j < i; j++ {
				removed[j] = true
			}
			startIdx = i
		}
		prev = cards[i]
	}
	if startIdx != -1 {
		if endIdx-startIdx+1 < 3 {
			return false
		}
		for j := startIdx; j <= endIdx; j++ {
			removed[j] = true
		}
	}

	for i := range removed {
		if !removed[i] {
			return false
		}
	}
	return true
}
