package realtime

import (
	"encoding/json"
	"errors"

	"github.com/safecity/backend/internal/httpx"
)

// Client→server event names.
const (
	eventJoinChat    = "joinChat"
	eventSendMessage = "sendMessage"
)

// Server→client event names.
const (
	eventMessageHistory  = "messageHistory"
	eventNewMessage      = "newMessage"
	eventError           = "error"
	eventEmergencyUpdate = "emergencyUpdate"
)

// envelope is the wire frame for every gateway event in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// joinChatData is the payload of a joinChat event. Only the chat id is read;
// the sender's identity comes from the authenticated connection.
type joinChatData struct {
	ChatID string `json:"chatId"`
}

// sendMessageData is the payload of a sendMessage event.
type sendMessageData struct {
	ChatID string `json:"chatId"`
	Text   string `json:"text"`
}

// errorData is the structured payload of an error event.
type errorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EmergencyData is the payload broadcast to every connection on an emergency.
type EmergencyData struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// encodeEvent marshals an outgoing event frame.
func encodeEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: event, Data: raw})
}

// badEvent builds an error frame for a frame the gateway could not parse.
func badEvent(message string) []byte {
	frame, _ := encodeEvent(eventError, errorData{Code: "ErrBadEvent", Message: message})
	return frame
}

// errorEvent builds a structured error frame from any error, reusing the
// domain error's stable code when one is present.
func errorEvent(err error) []byte {
	data := errorData{Code: "ErrInternal", Message: "something went wrong"}
	var de *httpx.DomainError
	if errors.As(err, &de) {
		data.Code = de.Code
		data.Message = de.Message
	}
	frame, _ := encodeEvent(eventError, data)
	return frame
}
