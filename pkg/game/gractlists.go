package game

// GractLists accumulates an ordered gract list per player. Modules build one
// per reply; the engine fans each non-empty list out to its player as a
// single atomic frame.
type GractLists struct {
	order []int
	lists map[int][]Gract
}

// NewGractLists returns lists for the given players. Iteration order follows
// the order given here.
func NewGractLists(playerIDs ...int) *GractLists {
	g := &GractLists{lists: make(map[int][]Gract, len(playerIDs))}
	for _, id := range playerIDs {
		if _, ok := g.lists[id]; ok {
			continue
		}
		g.order = append(g.order, id)
		g.lists[id] = nil
	}
	return g
}

// Send appends gracts to one player's list. Unknown players are added at the
// end of the iteration order.
func (g *GractLists) Send(playerID int, gracts ...Gract) {
	if _, ok := g.lists[playerID]; !ok {
		g.order = append(g.order, playerID)
	}
	g.lists[playerID] = append(g.lists[playerID], gracts...)
}

// Broadcast appends gracts to every player's list.
func (g *GractLists) Broadcast(gracts ...Gract) {
	for _, id := range g.order {
		g.lists[id] = append(g.lists[id], gracts...)
	}
}

// BroadcastExcept appends gracts to every list but one.
func (g *GractLists) BroadcastExcept(exceptID int, gracts ...Gract) {
	for _, id := range g.order {
		if id == exceptID {
			continue
		}
		g.lists[id] = append(g.lists[id], gracts...)
	}
}

// Each calls fn for every player with a non-empty list, in order.
func (g *GractLists) Each(fn func(playerID int, gracts []Gract)) {
	for _, id := range g.order {
		if len(g.lists[id]) == 0 {
			continue
		}
		fn(id, g.lists[id])
	}
}
