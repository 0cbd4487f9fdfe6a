package wire

import (
	"encoding/json"
	"fmt"

	"cardroom/pkg/game"
)

func displayString(d game.CollectionDisplay) (string, error) {
	switch d {
	case game.DisplayHand, game.DisplaySpread, game.DisplayStack:
		return d.String(), nil
	}
	return "", fmt.Errorf("unknown collection display %d", d)
}

func displayFromString(s string) (game.CollectionDisplay, error) {
	switch s {
	case "hand":
		return game.DisplayHand, nil
	case "spread":
		return game.DisplaySpread, nil
	case "stack":
		return game.DisplayStack, nil
	}
	return 0, fmt.Errorf("unknown collection display %q", s)
}

func marshalGract(g game.Gract) (json.RawMessage, error) {
	switch g := g.(type) {
	case game.ShowTypeGract:
		return json.Marshal(struct {
			Type     string `json:"type"`
			TypeID   int    `json:"type-id"`
			TypeName string `json:"type-name"`
			TypeDesc string `json:"type-desc"`
			TypeURL  string `json:"type-url"`
		}{"show-type", g.TypeID, g.Name, g.Desc, g.URL})

	case game.ShowCollectionGract:
		display, err := displayString(g.Display)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Type        string `json:"type"`
			CollID      int    `json:"coll-id"`
			PlayerID    *int   `json:"player-id"`
			CollDisplay string `json:"coll-display"`
		}{"show-coll", g.CollectionID, g.AnchorPlayerID, display})

	case game.HideCollectionGract:
		return json.Marshal(struct {
			Type   string `json:"type"`
			CollID int    `json:"coll-id"`
		}{"hide-coll", g.CollectionID})

	case game.ShowCardGract:
		return json.Marshal(struct {
			Type   string `json:"type"`
			CardID int    `json:"card-id"`
			TypeID int    `json:"type-id"`
			CollID int    `json:"coll-id"`
		}{"show-card", g.CardID, g.TypeID, g.CollectionID})

	case game.HideCardGract:
		return json.Marshal(struct {
			Type   string `json:"type"`
			CardID int    `json:"card-id"`
		}{"hide-card", g.CardID})

	case game.MoveCardGract:
		return json.Marshal(struct {
			Type   string `json:"type"`
			CardID int    `json:"card-id"`
			CollID int    `json:"coll-id"`
		}{"move-card", g.CardID, g.CollectionID})

	case game.RevealCardGract:
		return marshalFlip("reveal-card", g.OldCardID, g.NewCardID, g.NewTypeID)

	case game.ConcealCardGract:
		return marshalFlip("conceal-card", g.OldCardID, g.NewCardID, g.NewTypeID)

	case game.PossibleActionsGract:
		raw := make([]json.RawMessage, 0, len(g.Pactions))
		for _, p := range g.Pactions {
			enc, err := marshalPaction(p)
			if err != nil {
				return nil, err
			}
			raw = append(raw, enc)
		}
		return json.Marshal(struct {
			Type            string            `json:"type"`
			PossibleActions []json.RawMessage `json:"possible-actions"`
		}{"possible-actions", raw})
	}
	return nil, fmt.Errorf("unknown gract %T", g)
}

func marshalFlip(gractType string, oldCardID, newCardID, newTypeID int) (json.RawMessage, error) {
	return json.Marshal(struct {
		Type      string `json:"type"`
		OldCardID int    `json:"old-card-id"`
		NewCardID int    `json:"new-card-id"`
		NewTypeID int    `json:"new-type-id"`
	}{gractType, oldCardID, newCardID, newTypeID})
}

type gractEnvelope struct {
	Type            *string           `json:"type"`
	TypeID          *int              `json:"type-id,omitempty"`
	TypeName        *string           `json:"type-name,omitempty"`
	TypeDesc        *string           `json:"type-desc,omitempty"`
	TypeURL         *string           `json:"type-url,omitempty"`
	CollID          *int              `json:"coll-id,omitempty"`
	PlayerID        *int              `json:"player-id,omitempty"`
	CollDisplay     *string           `json:"coll-display,omitempty"`
	CardID          *int              `json:"card-id,omitempty"`
	OldCardID       *int              `json:"old-card-id,omitempty"`
	NewCardID       *int              `json:"new-card-id,omitempty"`
	NewTypeID       *int              `json:"new-type-id,omitempty"`
	PossibleActions []json.RawMessage `json:"possible-actions,omitempty"`
}

func unmarshalGract(data json.RawMessage) (game.Gract, error) {
	var env gractEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed gract: %w", err)
	}
	if env.Type == nil {
		return nil, fmt.Errorf("gract missing type")
	}

	switch *env.Type {
	case "show-type":
		if env.TypeID == nil || env.TypeName == nil || env.TypeDesc == nil || env.TypeURL == nil {
			return nil, fmt.Errorf("show-type gract missing fields")
		}
		return game.ShowTypeGract{
			TypeID: *env.TypeID,
			Name:   *env.TypeName,
			Desc:   *env.TypeDesc,
			URL:    *env.TypeURL,
		}, nil

	case "show-coll":
		if env.CollID == nil || env.CollDisplay == nil {
			return nil, fmt.Errorf("show-coll gract missing fields")
		}
		display, err := displayFromString(*env.CollDisplay)
		if err != nil {
			return nil, err
		}
		return game.ShowCollectionGract{
			CollectionID:   *env.CollID,
			AnchorPlayerID: env.PlayerID,
			Display:        display,
		}, nil

	case "hide-coll":
		if env.CollID == nil {
			return nil, fmt.Errorf("hide-coll gract missing coll-id")
		}
		return game.HideCollectionGract{CollectionID: *env.CollID}, nil

	case "show-card":
		if env.CardID == nil || env.TypeID == nil || env.CollID == nil {
			return nil, fmt.Errorf("show-card gract missing fields")
		}
		return game.ShowCardGract{
			CardID:       *env.CardID,
			TypeID:       *env.TypeID,
			CollectionID: *env.CollID,
		}, nil

	case "hide-card":
		if env.CardID == nil {
			return nil, fmt.Errorf("hide-card gract missing card-id")
		}
		return game.HideCardGract{CardID: *env.CardID}, nil

	case "move-card":
		if env.CardID == nil || env.CollID == nil {
			return nil, fmt.Errorf("move-card gract missing fields")
		}
		return game.MoveCardGract{CardID: *env.CardID, CollectionID: *env.CollID}, nil

	case "reveal-card", "conceal-card":
		if env.OldCardID == nil || env.NewCardID == nil || env.NewTypeID == nil {
			return nil, fmt.Errorf("%s gract missing fields", *env.Type)
		}
		if *env.Type == "reveal-card" {
			return game.RevealCardGract{
				OldCardID: *env.OldCardID,
				NewCardID: *env.NewCardID,
				NewTypeID: *env.NewTypeID,
			}, nil
		}
		return game.ConcealCardGract{
			OldCardID: *env.OldCardID,
			NewCardID: *env.NewCardID,
			NewTypeID: *env.NewTypeID,
		}, nil

	case "possible-actions":
		if env.PossibleActions == nil {
			return nil, fmt.Errorf("possible-actions gract missing possible-actions")
		}
		pactions := make([]game.Paction, 0, len(env.PossibleActions))
		for _, raw := range env.PossibleActions {
			p, err := unmarshalPaction(raw)
			if err != nil {
				return nil, err
			}
			pactions = append(pactions, p)
		}
		return game.PossibleActionsGract{Pactions: pactions}, nil
	}
	return nil, fmt.Errorf("unknown gract type %q", *env.Type)
}

func marshalPaction(p game.Paction) (json.RawMessage, error) {
	switch p := p.(type) {
	case game.NextPaction:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{"next"})

	case game.SelectCardPaction:
		return json.Marshal(struct {
			Type    string `json:"type"`
			CardIDs []int  `json:"card-ids"`
		}{"select", p.CardIDs})

	case game.SelectCollectionPaction:
		return json.Marshal(struct {
			Type    string `json:"type"`
			CollIDs []int  `json:"coll-ids"`
		}{"select-coll", p.CollectionIDs})

	case game.AgainstCardPaction:
		return json.Marshal(struct {
			Type           string `json:"type"`
			SelectCardID   int    `json:"select-card-id"`
			AgainstCardIDs []int  `json:"against-card-ids"`
		}{"against", p.SelectCardID, p.AgainstCardIDs})

	case game.WildCardPaction:
		return json.Marshal(struct {
			Type    string `json:"type"`
			CardID  int    `json:"card-id"`
			TypeIDs []int  `json:"type-ids"`
		}{"wild", p.CardID, p.TypeIDs})
	}
	return nil, fmt.Errorf("unknown paction %T", p)
}

type pactionEnvelope struct {
	Type           *string `json:"type"`
	CardIDs        []int   `json:"card-ids,omitempty"`
	CollIDs        []int   `json:"coll-ids,omitempty"`
	SelectCardID   *int    `json:"select-card-id,omitempty"`
	AgainstCardIDs []int   `json:"against-card-ids,omitempty"`
	CardID         *int    `json:"card-id,omitempty"`
	TypeIDs        []int   `json:"type-ids,omitempty"`
}

func unmarshalPaction(data json.RawMessage) (game.Paction, error) {
	var env pactionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed paction: %w", err)
	}
	if env.Type == nil {
		return nil, fmt.Errorf("paction missing type")
	}

	switch *env.Type {
	case "next":
		return game.NextPaction{}, nil

	case "select":
		if env.CardIDs == nil {
			return nil, fmt.Errorf("select paction missing card-ids")
		}
		return game.SelectCardPaction{CardIDs: env.CardIDs}, nil

	case "select-coll":
		if env.CollIDs == nil {
			return nil, fmt.Errorf("select-coll paction missing coll-ids")
		}
		return game.SelectCollectionPaction{CollectionIDs: env.CollIDs}, nil

	case "against":
		if env.SelectCardID == nil || env.AgainstCardIDs == nil {
			return nil, fmt.Errorf("against paction missing fields")
		}
		return game.AgainstCardPaction{
			SelectCardID:   *env.SelectCardID,
			AgainstCardIDs: env.AgainstCardIDs,
		}, nil

	case "wild":
		if env.CardID == nil || env.TypeIDs == nil {
			return nil, fmt.Errorf("wild paction missing fields")
		}
		return game.WildCardPaction{CardID: *env.CardID, TypeIDs: env.TypeIDs}, nil
	}
	return nil, fmt.Errorf("unknown paction type %q", *env.Type)
}
