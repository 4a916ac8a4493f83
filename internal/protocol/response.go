package protocol

import "encoding/json"

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Response is the server's reply. Replies are not MAC-protected: a known
// limitation of the protocol, kept as is rather than silently strengthened.
type Response struct {
	Status  string         `json:"status"`
	Mensaje string         `json:"mensaje"`
	Datos   map[string]any `json:"datos,omitempty"`
}

// OkResponse builds a success reply.
func OkResponse(mensaje string, datos map[string]any) *Response {
	return &Response{Status: StatusOK, Mensaje: mensaje, Datos: datos}
}

// ErrorResponse builds an error reply with a human-readable reason.
func ErrorResponse(mensaje string) *Response {
	return &Response{Status: StatusError, Mensaje: mensaje}
}

// Encode serializes the response for the wire.
func (r *Response) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeResponse parses a reply received by the client.
func DecodeResponse(raw []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// IsOK reports whether the reply carries a success status.
func (r *Response) IsOK() bool {
	return r.Status == StatusOK
}
