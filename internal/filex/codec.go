package filex

import "encoding/json"

// Codec turns one record into one line and back. Encoded records must not
// contain '\n'.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSONCodec stores each record as a single JSON object (JSON Lines).
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }
