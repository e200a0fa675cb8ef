package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeyMessage(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"t":"key","p":{"key":"ArrowLeft"}}`))
	require.NoError(t, err)
	assert.Equal(t, MsgKey, env.T)

	k, err := DecodePayload[Key](env)
	require.NoError(t, err)
	assert.Equal(t, "ArrowLeft", k.Key)
}

func TestEncodeRejects(t *testing.T) {
	_, err := Encode("", Key{})
	assert.Error(t, err)
	_, err = Encode(MsgKey, nil)
	assert.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeEnvelope(nil)
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`{`))
	assert.Error(t, err)

	_, err = DecodePayload[Key](Envelope{T: MsgKey})
	assert.Error(t, err)
}

func TestEncodeShape(t *testing.T) {
	b, err := Encode(MsgError, Error{Error: "not_found"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"error","p":{"error":"not_found"}}`, string(b))
}
