package game

// CollectionDisplay is the hint a client uses to lay out a collection.
type CollectionDisplay int

const (
	// DisplayHand renders the collection as a hand of cards. At most one
	// hand collection should be shown per player.
	DisplayHand CollectionDisplay = iota
	// DisplaySpread renders the collection as a spread of cards.
	DisplaySpread
	// DisplayStack renders the collection as a single stack, e.g. a deck.
	DisplayStack
)

// String returns the wire spelling of the display hint.
func (d CollectionDisplay) String() string {
	switch d {
	case DisplayHand:
		return "hand"
	case DisplaySpread:
		return "spread"
	case DisplayStack:
		return "stack"
	}
	return "unknown"
}

// Gract is a graphical action: a declarative instruction a client must carry
// out, such as showing a card or offering the player a set of possible
// actions. Gracts are emitted by modules, routed per player by the engine and
// delivered as ordered lists.
type Gract interface {
	isGract()
}

// ShowTypeGract reveals a card type to the player. Types cannot be hidden
// once revealed, except by ending the round.
type ShowTypeGract struct {
	TypeID int
	Name   string
	Desc   string
	URL    string
}

// ShowCollectionGract shows a collection to the player. AnchorPlayerID is nil
// for collections not tied to a player (e.g. a central stack).
type ShowCollectionGract struct {
	CollectionID   int
	AnchorPlayerID *int
	Display        CollectionDisplay
}

// HideCollectionGract hides a previously shown collection. All cards in the
// collection should be hidden or moved first.
type HideCollectionGract struct {
	CollectionID int
}

// ShowCardGract shows a card to the player. Both the type and the collection
// must already have been shown to the same player.
type ShowCardGract struct {
	CardID       int
	TypeID       int
	CollectionID int
}

// HideCardGract hides a previously shown card.
type HideCardGract struct {
	CardID int
}

// MoveCardGract moves a shown card into another shown collection.
type MoveCardGract struct {
	CardID       int
	CollectionID int
}

// RevealCardGract turns a card face-up, possibly under a new identifier. The
// identifier rewrite exists to defeat card tracking: reassigning ids when
// cards are flipped prevents a client from following a card it should have
// lost sight of. The new ids may equal the old ones.
type RevealCardGract struct {
	OldCardID int
	NewCardID int
	NewTypeID int
}

// ConcealCardGract turns a card face-down. Mechanically identical to
// RevealCardGract; only the semantics differ.
type ConcealCardGract struct {
	OldCardID int
	NewCardID int
	NewTypeID int
}

// PossibleActionsGract replaces the player's current possibility set
// wholesale. The pactions should not overlap: they are treated as mutually
// exclusive choices.
type PossibleActionsGract struct {
	Pactions []Paction
}

func (ShowTypeGract) isGract()        {}
func (ShowCollectionGract) isGract()  {}
func (HideCollectionGract) isGract()  {}
func (ShowCardGract) isGract()        {}
func (HideCardGract) isGract()        {}
func (MoveCardGract) isGract()        {}
func (RevealCardGract) isGract()      {}
func (ConcealCardGract) isGract()     {}
func (PossibleActionsGract) isGract() {}
