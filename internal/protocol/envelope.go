// Package protocol implements the wire format shared by client and server:
// the outer envelope carrying (payload, mac, nonce) and the inner message
// with its typed payloads. The codec only guarantees structural
// well-formedness; MAC and replay decisions belong to the caller.
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/asanchezr/bancoseguro/internal/common"
)

// Envelope is the decoded form of one request on the wire. It is transient
// and never persisted.
type Envelope struct {
	Payload []byte
	MAC     []byte
	Nonce   []byte
}

// wireEnvelope is the JSON layer: binary fields travel base64-encoded under
// the field names fixed by the protocol.
type wireEnvelope struct {
	Mensaje string `json:"mensaje"`
	MAC     string `json:"mac"`
	Nonce   string `json:"nonce"`
}

// EncodeEnvelope packs (payload, mac, nonce) into the JSON wire container.
// It never fails for well-formed inputs.
func EncodeEnvelope(payload, mac, nonce []byte) ([]byte, error) {
	b64 := base64.StdEncoding
	w := wireEnvelope{
		Mensaje: b64.EncodeToString(payload),
		MAC:     b64.EncodeToString(mac),
		Nonce:   b64.EncodeToString(nonce),
	}
	return json.Marshal(w)
}

// DecodeEnvelope parses raw into an Envelope. Any structural problem, a
// missing field, or a violated length constraint yields an error matching
// common.ErrMalformedEnvelope.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	var w wireEnvelope
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedEnvelope, err)
	}
	if w.Mensaje == "" || w.MAC == "" || w.Nonce == "" {
		return nil, fmt.Errorf("%w: missing field", common.ErrMalformedEnvelope)
	}

	b64 := base64.StdEncoding
	payload, err := b64.DecodeString(w.Mensaje)
	if err != nil {
		return nil, fmt.Errorf("%w: bad payload encoding", common.ErrMalformedEnvelope)
	}
	mac, err := b64.DecodeString(w.MAC)
	if err != nil {
		return nil, fmt.Errorf("%w: bad mac encoding", common.ErrMalformedEnvelope)
	}
	nonce, err := b64.DecodeString(w.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: bad nonce encoding", common.ErrMalformedEnvelope)
	}

	if len(mac) != common.MACSize {
		return nil, fmt.Errorf("%w: mac must be %d bytes, got %d", common.ErrMalformedEnvelope, common.MACSize, len(mac))
	}
	if len(nonce) != common.NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", common.ErrMalformedEnvelope, common.NonceSize, len(nonce))
	}

	return &Envelope{Payload: payload, MAC: mac, Nonce: nonce}, nil
}
