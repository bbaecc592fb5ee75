package websocket

import "encoding/json"

// Envelope is the push-channel wire format: a UTF-8 JSON text frame
// {"type": "<event_name>", "data": <json value>}.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
