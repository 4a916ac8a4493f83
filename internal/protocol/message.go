package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/asanchezr/bancoseguro/internal/common"
)

// Message kinds. The wire names are fixed by the protocol and deliberately
// kept as the original Spanish identifiers.
const (
	KindRegister = "registro"
	KindLogin    = "login"
	KindTransfer = "transaccion"
	KindLogout   = "logout"
	KindHistory  = "historial"
)

// Message is the decoded form of an envelope payload: a kind plus its
// kind-specific fields, still raw until one of the typed accessors runs.
type Message struct {
	Tipo  string          `json:"tipo"`
	Datos json.RawMessage `json:"datos"`
}

// RegisterData carries the fields of a registro or login message.
type RegisterData struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TransferData carries the fields of a transaccion message. Token is
// optional: it resumes an authenticated session on a fresh connection.
type TransferData struct {
	CuentaOrigen  string  `json:"cuenta_origen"`
	CuentaDestino string  `json:"cuenta_destino"`
	Cantidad      float64 `json:"cantidad"`
	Token         string  `json:"token,omitempty"`
}

// HistoryData carries the fields of a historial message.
type HistoryData struct {
	Token string `json:"token,omitempty"`
}

// LogoutData carries the fields of a logout message. Token lets a fresh
// connection end the session it identifies.
type LogoutData struct {
	Token string `json:"token,omitempty"`
}

// NewMessage marshals datos under the given kind.
func NewMessage(tipo string, datos any) (*Message, error) {
	raw, err := json.Marshal(datos)
	if err != nil {
		return nil, err
	}
	return &Message{Tipo: tipo, Datos: raw}, nil
}

// Encode serializes the message to its JSON payload form.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses an envelope payload into a Message. A payload that is
// not valid JSON or lacks a kind yields an error matching
// common.ErrValidation; an unknown kind is the dispatcher's call, not ours.
func DecodeMessage(payload []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if m.Tipo == "" {
		return nil, fmt.Errorf("%w: missing tipo", common.ErrValidation)
	}
	return &m, nil
}

// Register decodes and validates the datos of a registro/login message.
// Validation reasons are client-facing and therefore worded in Spanish like
// the rest of the protocol surface.
func (m *Message) Register() (RegisterData, error) {
	var d RegisterData
	if err := json.Unmarshal(m.Datos, &d); err != nil {
		return d, fmt.Errorf("%w: datos invalidos", common.ErrValidation)
	}
	if d.Username == "" || d.Password == "" {
		return d, fmt.Errorf("%w: faltan usuario o contraseña", common.ErrValidation)
	}
	return d, nil
}

// Transfer decodes and validates the datos of a transaccion message.
// Amount validity beyond presence is the ledger's concern.
func (m *Message) Transfer() (TransferData, error) {
	var d TransferData
	if err := json.Unmarshal(m.Datos, &d); err != nil {
		return d, fmt.Errorf("%w: datos invalidos", common.ErrValidation)
	}
	if d.CuentaOrigen == "" || d.CuentaDestino == "" {
		return d, fmt.Errorf("%w: falta la cuenta de origen o destino", common.ErrValidation)
	}
	if d.Cantidad == 0 {
		return d, fmt.Errorf("%w: falta la cantidad", common.ErrValidation)
	}
	return d, nil
}

// Logout decodes the datos of a logout message.
func (m *Message) Logout() (LogoutData, error) {
	var d LogoutData
	if len(m.Datos) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(m.Datos, &d); err != nil {
		return d, fmt.Errorf("%w: datos invalidos", common.ErrValidation)
	}
	return d, nil
}

// History decodes the datos of a historial message.
func (m *Message) History() (HistoryData, error) {
	var d HistoryData
	if len(m.Datos) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(m.Datos, &d); err != nil {
		return d, fmt.Errorf("%w: datos invalidos", common.ErrValidation)
	}
	return d, nil
}
