package game

// CardType is an immutable descriptor for a kind of card. Identifiers are
// chosen by the module and only need to be unique within one game; nothing
// stops a module from packing structure into them (e.g. suit in the hundreds
// digit, rank in the low digits).
type CardType struct {
	ID   int
	Name string
	Desc string
	URL  string
}

// Show returns the gract revealing this type to a player.
func (t CardType) Show() ShowTypeGract {
	return ShowTypeGract{TypeID: t.ID, Name: t.Name, Desc: t.Desc, URL: t.URL}
}

// Collection is a container of cards with a display hint. Anchor is nil for
// shared collections; otherwise it names the player the collection belongs to
// visually (e.g. their hand).
type Collection struct {
	ID      int
	Anchor  *int
	Display CollectionDisplay
}

// AnchoredTo returns a collection anchored to the given player.
func AnchoredTo(id, playerID int, display CollectionDisplay) Collection {
	anchor := playerID
	return Collection{ID: id, Anchor: &anchor, Display: display}
}

// Shared returns a collection with no player anchor.
func Shared(id int, display CollectionDisplay) Collection {
	return Collection{ID: id, Display: display}
}

// Show returns the gract showing this collection to a player.
func (c Collection) Show() ShowCollectionGract {
	return ShowCollectionGract{CollectionID: c.ID, AnchorPlayerID: c.Anchor, Display: c.Display}
}

// Hide returns the gract hiding this collection.
func (c Collection) Hide() HideCollectionGract {
	return HideCollectionGract{CollectionID: c.ID}
}

// Card is an instance of a type residing in a collection.
type Card struct {
	ID           int
	TypeID       int
	CollectionID int
}

// Show returns the gract showing this card. The shown type need not be the
// card's true type: passing a face-down type here is how concealed cards are
// presented.
func (c Card) Show(asType int) ShowCardGract {
	return ShowCardGract{CardID: c.ID, TypeID: asType, CollectionID: c.CollectionID}
}
