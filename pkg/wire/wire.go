// Package wire implements the stateless codec between protocol frames and
// their UTF-8 JSON representation. Field names on the wire are
// hyphen-delimited lowercase. Decoding is strict: an unknown frame type, a
// missing required field or a field of the wrong JSON type is an error, and
// callers are expected to close the offending connection.
package wire

import (
	"encoding/json"
	"fmt"

	"cardroom/pkg/game"
)

// ClientFrame is a frame sent by a client to the server.
type ClientFrame interface {
	isClientFrame()
}

// Intro introduces a client. It must be the first frame on every connection.
type Intro struct {
	PlayerName string
}

// StartRound asks the server to start a round.
type StartRound struct{}

// Action carries a player action.
type Action struct {
	Action game.Action
}

func (Intro) isClientFrame()      {}
func (StartRound) isClientFrame() {}
func (Action) isClientFrame()     {}

// ServerFrame is a frame sent by the server to a client.
type ServerFrame interface {
	isServerFrame()
}

// ServerIntro acknowledges an admitted player with its identifiers.
type ServerIntro struct {
	GameID   int
	PlayerID int
}

// GractList is an ordered gract sequence delivered as one atomic frame.
type GractList struct {
	Gracts []game.Gract
}

// EndRound announces the end of the current round.
type EndRound struct {
	Reason string
}

// EndGame announces the end of the game.
type EndGame struct {
	Reason string
}

// ErrorFrame reports a refusal to the offending client only.
type ErrorFrame struct {
	Reason string
}

func (ServerIntro) isServerFrame() {}
func (GractList) isServerFrame()  {}
func (EndRound) isServerFrame()   {}
func (EndGame) isServerFrame()    {}
func (ErrorFrame) isServerFrame() {}

type clientEnvelope struct {
	Type          *string `json:"type"`
	PlayerName    *string `json:"player-name,omitempty"`
	ActionType    *string `json:"action-type,omitempty"`
	CardID        *int    `json:"card-id,omitempty"`
	CollID        *int    `json:"coll-id,omitempty"`
	SelectCardID  *int    `json:"select-card-id,omitempty"`
	AgainstCardID *int    `json:"against-card-id,omitempty"`
	TypeID        *int    `json:"type-id,omitempty"`
}

// UnmarshalClient decodes a client frame.
func UnmarshalClient(data []byte) (ClientFrame, error) {
	var env clientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	if env.Type == nil {
		return nil, fmt.Errorf("frame missing type")
	}

	switch *env.Type {
	case "intro":
		if env.PlayerName == nil {
			return nil, fmt.Errorf("intro frame missing player-name")
		}
		return Intro{PlayerName: *env.PlayerName}, nil

	case "start-round":
		return StartRound{}, nil

	case "action":
		if env.ActionType == nil {
			return nil, fmt.Errorf("action frame missing action-type")
		}
		act, err := env.action()
		if err != nil {
			return nil, err
		}
		return Action{Action: act}, nil
	}
	return nil, fmt.Errorf("unknown frame type %q", *env.Type)
}

func (env *clientEnvelope) action() (game.Action, error) {
	switch *env.ActionType {
	case "next":
		return game.NextAction{}, nil

	case "select":
		if env.CardID == nil {
			return nil, fmt.Errorf("select action missing card-id")
		}
		return game.SelectCardAction{CardID: *env.CardID}, nil

	case "select-coll":
		if env.CollID == nil {
			return nil, fmt.Errorf("select-coll action missing coll-id")
		}
		return game.SelectCollectionAction{CollectionID: *env.CollID}, nil

	case "against":
		if env.SelectCardID == nil || env.AgainstCardID == nil {
			return nil, fmt.Errorf("against action missing card ids")
		}
		return game.AgainstCardAction{
			SelectCardID:  *env.SelectCardID,
			AgainstCardID: *env.AgainstCardID,
		}, nil

	case "wild":
		if env.CardID == nil || env.TypeID == nil {
			return nil, fmt.Errorf("wild action missing card-id or type-id")
		}
		return game.WildCardAction{CardID: *env.CardID, TypeID: *env.TypeID}, nil
	}
	return nil, fmt.Errorf("unknown action-type %q", *env.ActionType)
}

// MarshalClient encodes a client frame.
func MarshalClient(f ClientFrame) ([]byte, error) {
	switch f := f.(type) {
	case Intro:
		return json.Marshal(struct {
			Type       string `json:"type"`
			PlayerName string `json:"player-name"`
		}{"intro", f.PlayerName})

	case StartRound:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{"start-round"})

	case Action:
		return marshalAction(f.Action)
	}
	return nil, fmt.Errorf("unknown client frame %T", f)
}

func marshalAction(act game.Action) ([]byte, error) {
	switch act := act.(type) {
	case game.NextAction:
		return json.Marshal(struct {
			Type       string `json:"type"`
			ActionType string `json:"action-type"`
		}{"action", "next"})

	case game.SelectCardAction:
		return json.Marshal(struct {
			Type       string `json:"type"`
			ActionType string `json:"action-type"`
			CardID     int    `json:"card-id"`
		}{"action", "select", act.CardID})

	case game.SelectCollectionAction:
		return json.Marshal(struct {
			Type       string `json:"type"`
			ActionType string `json:"action-type"`
			CollID     int    `json:"coll-id"`
		}{"action", "select-coll", act.CollectionID})

	case game.AgainstCardAction:
		return json.Marshal(struct {
			Type          string `json:"type"`
			ActionType    string `json:"action-type"`
			SelectCardID  int    `json:"select-card-id"`
			AgainstCardID int    `json:"against-card-id"`
		}{"action", "against", act.SelectCardID, act.AgainstCardID})

	case game.WildCardAction:
		return json.Marshal(struct {
			Type       string `json:"type"`
			ActionType string `json:"action-type"`
			CardID     int    `json:"card-id"`
			TypeID     int    `json:"type-id"`
		}{"action", "wild", act.CardID, act.TypeID})
	}
	return nil, fmt.Errorf("unknown action %T", act)
}

type serverEnvelope struct {
	Type      *string           `json:"type"`
	GameID    *int              `json:"game-id,omitempty"`
	PlayerID  *int              `json:"player-id,omitempty"`
	GractList []json.RawMessage `json:"gract-list,omitempty"`
	Reason    *string           `json:"reason,omitempty"`
}

// MarshalServer encodes a server frame.
func MarshalServer(f ServerFrame) ([]byte, error) {
	switch f := f.(type) {
	case ServerIntro:
		return json.Marshal(struct {
			Type     string `json:"type"`
			GameID   int    `json:"game-id"`
			PlayerID int    `json:"player-id"`
		}{"intro", f.GameID, f.PlayerID})

	case GractList:
		raw := make([]json.RawMessage, 0, len(f.Gracts))
		for _, g := range f.Gracts {
			enc, err := marshalGract(g)
			if err != nil {
				return nil, err
			}
			raw = append(raw, enc)
		}
		return json.Marshal(struct {
			Type      string            `json:"type"`
			GractList []json.RawMessage `json:"gract-list"`
		}{"gract-list", raw})

	case EndRound:
		return marshalReason("end-round", f.Reason)
	case EndGame:
		return marshalReason("end-game", f.Reason)
	case ErrorFrame:
		return marshalReason("error", f.Reason)
	}
	return nil, fmt.Errorf("unknown server frame %T", f)
}

func marshalReason(frameType, reason string) ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}{frameType, reason})
}

// UnmarshalServer decodes a server frame.
func UnmarshalServer(data []byte) (ServerFrame, error) {
	var env serverEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	if env.Type == nil {
		return nil, fmt.Errorf("frame missing type")
	}

	switch *env.Type {
	case "intro":
		if env.GameID == nil || env.PlayerID == nil {
			return nil, fmt.Errorf("intro frame missing game-id or player-id")
		}
		return ServerIntro{GameID: *env.GameID, PlayerID: *env.PlayerID}, nil

	case "gract-list":
		if env.GractList == nil {
			return nil, fmt.Errorf("gract-list frame missing gract-list")
		}
		gracts := make([]game.Gract, 0, len(env.GractList))
		for _, raw := range env.GractList {
			g, err := unmarshalGract(raw)
			if err != nil {
				return nil, err
			}
			gracts = append(gracts, g)
		}
		return GractList{Gracts: gracts}, nil

	case "end-round":
		if env.Reason == nil {
			return nil, fmt.Errorf("end-round frame missing reason")
		}
		return EndRound{Reason: *env.Reason}, nil

	case "end-game":
		if env.Reason == nil {
			return nil, fmt.Errorf("end-game frame missing reason")
		}
		return EndGame{Reason: *env.Reason}, nil

	case "error":
		if env.Reason == nil {
			return nil, fmt.Errorf("error frame missing reason")
		}
		return ErrorFrame{Reason: *env.Reason}, nil
	}
	return nil, fmt.Errorf("unknown frame type %q", *env.Type)
}
