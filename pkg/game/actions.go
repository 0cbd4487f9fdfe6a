package game

// Action is something a player has done. The engine validates every action
// against the player's advertised possibilities before it reaches a module,
// so modules may assume any action they see was previously offered.
type Action interface {
	isAction()
}

// NextAction is a generic acknowledgement used to advance the round.
type NextAction struct{}

// SelectCardAction selects a single card.
type SelectCardAction struct {
	CardID int
}

// SelectCollectionAction selects a single collection.
type SelectCollectionAction struct {
	CollectionID int
}

// AgainstCardAction plays one card against another.
type AgainstCardAction struct {
	SelectCardID  int
	AgainstCardID int
}

// WildCardAction transforms a card into another type.
type WildCardAction struct {
	CardID int
	TypeID int
}

func (NextAction) isAction()             {}
func (SelectCardAction) isAction()       {}
func (SelectCollectionAction) isAction() {}
func (AgainstCardAction) isAction()      {}
func (WildCardAction) isAction()         {}

// Paction is a possible action advertised to a player. Pactions are assumed
// mutually exclusive: once the player exercises any of them, the whole set is
// discarded until the module advertises a new one.
type Paction interface {
	isPaction()
}

// NextPaction offers the generic advance button.
type NextPaction struct{}

// SelectCardPaction offers selecting any one of the listed cards.
type SelectCardPaction struct {
	CardIDs []int
}

// SelectCollectionPaction offers selecting any one of the listed collections.
type SelectCollectionPaction struct {
	CollectionIDs []int
}

// AgainstCardPaction offers playing the given card against any of the listed
// cards.
type AgainstCardPaction struct {
	SelectCardID   int
	AgainstCardIDs []int
}

// WildCardPaction offers transforming the given card into any of the listed
// types.
type WildCardPaction struct {
	CardID  int
	TypeIDs []int
}

func (NextPaction) isPaction()             {}
func (SelectCardPaction) isPaction()       {}
func (SelectCollectionPaction) isPaction() {}
func (AgainstCardPaction) isPaction()      {}
func (WildCardPaction) isPaction()         {}
