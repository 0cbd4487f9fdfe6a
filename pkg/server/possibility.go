package server

import (
	"slices"

	"cardroom/pkg/game"
)

// Matches reports whether an action is covered by the player's advertised
// possibilities. The scan is linear and the first matching paction wins;
// earlier pactions shadow later duplicates. Lists are short enough that no
// index is worth building.
func Matches(pactions []game.Paction, act game.Action) bool {
	for _, p := range pactions {
		if covers(p, act) {
			return true
		}
	}
	return false
}

func covers(p game.Paction, act game.Action) bool {
	switch act := act.(type) {
	case game.NextAction:
		_, ok := p.(game.NextPaction)
		return ok

	case game.SelectCardAction:
		sel, ok := p.(game.SelectCardPaction)
		return ok && slices.Contains(sel.CardIDs, act.CardID)

	case game.SelectCollectionAction:
		sel, ok := p.(game.SelectCollectionPaction)
		return ok && slices.Contains(sel.CollectionIDs, act.CollectionID)

	case game.AgainstCardAction:
		against, ok := p.(game.AgainstCardPaction)
		return ok && against.SelectCardID == act.SelectCardID &&
			slices.Contains(against.AgainstCardIDs, act.AgainstCardID)

	case game.WildCardAction:
		wild, ok := p.(game.WildCardPaction)
		return ok && wild.CardID == act.CardID &&
			slices.Contains(wild.TypeIDs, act.TypeID)
	}
	return false
}
