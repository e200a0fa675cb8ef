// Package protocol is the websocket wire format: every message is an
// envelope {"t": type, "p": payload}.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MsgFrame = "frame" // server -> client: render.Frame
	MsgKey   = "key"   // client -> server: Key
	MsgError = "error" // server -> client: Error
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// Key is a raw KeyboardEvent.key value from the browser.
type Key struct {
	Key string `json:"key"`
}

type Error struct {
	Error string `json:"error"`
}

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errors.New("protocol: empty envelope type")
	}
	if payload == nil {
		return nil, errors.New("protocol: nil payload")
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errors.New("protocol: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// DecodePayload unmarshals env.P into a T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("protocol: empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
