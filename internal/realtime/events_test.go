package realtime

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecity/backend/internal/modules/chat"
)

func TestErrorEventCarriesDomainCode(t *testing.T) {
	frame := errorEvent(chat.ErrChatClosed)

	var env envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, eventError, env.Event)

	var data errorData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ErrChatClosed", data.Code)
	assert.Equal(t, "chat is closed", data.Message)
}

func TestErrorEventHidesUnknownErrors(t *testing.T) {
	frame := errorEvent(errors.New("pgx: connection refused"))

	var env envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	var data errorData
	require.NoError(t, json.Unmarshal(env.Data, &data))

	assert.Equal(t, "ErrInternal", data.Code)
	assert.NotContains(t, data.Message, "pgx")
}

func TestEncodeEventEnvelope(t *testing.T) {
	frame, err := encodeEvent(eventEmergencyUpdate, EmergencyData{Title: "flood", Body: "avoid downtown"})
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, eventEmergencyUpdate, env.Event)

	var data EmergencyData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "flood", data.Title)
}
