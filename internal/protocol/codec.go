package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wire shapes for requests that carry required fields. Pointers distinguish
// an absent field from a zero value, so a frame that omits one is rejected
// instead of acting on a default.
type joinWire struct {
	Type string  `json:"type"`
	Name *string `json:"name"`
}

type cardIndexWire struct {
	Type      string `json:"type"`
	CardIndex *int   `json:"card_index"`
}

type drawHandWire struct {
	Type     string `json:"type"`
	HandSize *int   `json:"hand_size"`
}

// DecodeRequest parses one frame into its concrete request struct. It reads
// the "type" discriminator first, then strict-parses the full frame:
// unknown fields and missing required fields are both rejected rather than
// silently defaulted. The caller logs and drops frames that fail here; a
// bad frame never costs the connection.
func DecodeRequest(frame []byte) (any, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(frame, &probe); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch probe.Type {
	case MsgJoin:
		w, err := strict[joinWire](frame)
		if err != nil {
			return nil, err
		}
		if w.Name == nil {
			return nil, missingField(probe.Type, "name")
		}
		return &JoinRequest{Type: w.Type, Name: *w.Name}, nil
	case MsgPlayCard:
		w, err := strict[cardIndexWire](frame)
		if err != nil {
			return nil, err
		}
		if w.CardIndex == nil {
			return nil, missingField(probe.Type, "card_index")
		}
		return &PlayCardRequest{Type: w.Type, CardIndex: *w.CardIndex}, nil
	case MsgBuyCard:
		w, err := strict[cardIndexWire](frame)
		if err != nil {
			return nil, err
		}
		if w.CardIndex == nil {
			return nil, missingField(probe.Type, "card_index")
		}
		return &BuyCardRequest{Type: w.Type, CardIndex: *w.CardIndex}, nil
	case MsgFinishTurn:
		return strict[FinishTurnRequest](frame)
	case MsgDrawHand:
		w, err := strict[drawHandWire](frame)
		if err != nil {
			return nil, err
		}
		if w.HandSize == nil {
			return nil, missingField(probe.Type, "hand_size")
		}
		return &DrawHandRequest{Type: w.Type, HandSize: *w.HandSize}, nil
	case MsgGetStatus:
		return strict[GetStatusRequest](frame)
	case "":
		return nil, fmt.Errorf("frame has no type field")
	default:
		return nil, fmt.Errorf("unknown message type %q", probe.Type)
	}
}

func missingField(msgType, field string) error {
	return fmt.Errorf("%s frame missing required field %q", msgType, field)
}

func strict[T any](frame []byte) (*T, error) {
	dec := json.NewDecoder(bytes.NewReader(frame))
	dec.DisallowUnknownFields()

	var req T
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decoding %T: %w", req, err)
	}
	return &req, nil
}

// Encode marshals a server message into a single frame payload.
func Encode(msg any) ([]byte, error) {
	return json.Marshal(msg)
}
