package gesture

import (
	"encoding/json"
	"fmt"
)

// ============================================================================
// JSON wire format
// ============================================================================
// Inputs and events travel as envelopes with a type discriminator:
//   {"type": "press", "data": {"x": 10, "y": 20, "at": "...", "button": 0}}
//   {"type": "smoothMove", "data": {"vector": {"x": 1.5, "y": 0, "time": 16}}}
// ============================================================================

// Envelope is the JSON envelope for inputs and events.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MarshalInput serializes an Input into an envelope keyed by its kind.
func MarshalInput(in Input) ([]byte, error) {
	if !validInputKind(in.Kind) {
		return nil, fmt.Errorf("unsupported input kind: %q", in.Kind)
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", in.Kind, err)
	}
	return json.Marshal(Envelope{Type: string(in.Kind), Data: data})
}

// UnmarshalInput parses an envelope produced by MarshalInput.
func UnmarshalInput(b []byte) (Input, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Input{}, fmt.Errorf("unmarshal envelope: %w", err)
	}

	kind := InputKind(env.Type)
	if !validInputKind(kind) {
		return Input{}, fmt.Errorf("unknown input type: %q", env.Type)
	}

	var in Input
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &in); err != nil {
			return Input{}, fmt.Errorf("unmarshal %s: %w", kind, err)
		}
	}
	in.Kind = kind
	return in, nil
}

func validInputKind(k InputKind) bool {
	switch k {
	case InputPress, InputMove, InputRelease, InputWheel,
		InputTouchStart, InputTouchMove, InputTouchEnd:
		return true
	}
	return false
}

// MarshalEvent serializes an Event into an envelope keyed by its kind.
func MarshalEvent(ev Event) ([]byte, error) {
	env := Envelope{}
	switch ev := ev.(type) {
	case Move, SmoothMove, Scale, SmoothScale, Rotate:
		data, err := json.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", ev.Kind(), err)
		}
		env.Type = string(ev.Kind())
		env.Data = data

	case ChangeEnd:
		env.Type = string(KindChangeEnd)

	default:
		return nil, fmt.Errorf("unsupported event type: %T", ev)
	}
	return json.Marshal(env)
}

// UnmarshalEvent parses an envelope produced by MarshalEvent.
func UnmarshalEvent(b []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	switch Kind(env.Type) {
	case KindMove:
		var e Move
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("unmarshal Move: %w", err)
		}
		return e, nil

	case KindSmoothMove:
		var e SmoothMove
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("unmarshal SmoothMove: %w", err)
		}
		return e, nil

	case KindScale:
		var e Scale
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("unmarshal Scale: %w", err)
		}
		return e, nil

	case KindSmoothScale:
		var e SmoothScale
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("unmarshal SmoothScale: %w", err)
		}
		return e, nil

	case KindRotate:
		var e Rotate
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("unmarshal Rotate: %w", err)
		}
		return e, nil

	case KindChangeEnd:
		return ChangeEnd{}, nil

	default:
		return nil, fmt.Errorf("unknown event type: %q", env.Type)
	}
}
