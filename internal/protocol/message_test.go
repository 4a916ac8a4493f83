package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanchezr/bancoseguro/internal/common"
)

func TestMessage_RoundTrip(t *testing.T) {
	m, err := NewMessage(KindTransfer, TransferData{
		CuentaOrigen:  "ES1111",
		CuentaDestino: "ES2222",
		Cantidad:      500.00,
	})
	require.NoError(t, err)

	payload, err := m.Encode()
	require.NoError(t, err)

	decoded, err := DecodeMessage(payload)
	require.NoError(t, err)
	require.Equal(t, KindTransfer, decoded.Tipo)

	d, err := decoded.Transfer()
	require.NoError(t, err)
	assert.Equal(t, "ES1111", d.CuentaOrigen)
	assert.Equal(t, "ES2222", d.CuentaDestino)
	assert.Equal(t, 500.00, d.Cantidad)
}

func TestDecodeMessage_Invalid(t *testing.T) {
	_, err := DecodeMessage([]byte("{{"))
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = DecodeMessage([]byte(`{"datos":{}}`))
	assert.True(t, errors.Is(err, common.ErrValidation), "missing tipo")
}

func TestMessage_RegisterValidation(t *testing.T) {
	m, err := NewMessage(KindRegister, RegisterData{Username: "juan"})
	require.NoError(t, err)

	_, err = m.Register()
	assert.True(t, errors.Is(err, common.ErrValidation), "missing password")

	m, err = NewMessage(KindRegister, RegisterData{Username: "juan", Password: "Secret123!abc"})
	require.NoError(t, err)
	d, err := m.Register()
	require.NoError(t, err)
	assert.Equal(t, "juan", d.Username)
}

func TestMessage_TransferValidation(t *testing.T) {
	m, err := NewMessage(KindTransfer, TransferData{CuentaOrigen: "ES1111"})
	require.NoError(t, err)
	_, err = m.Transfer()
	assert.True(t, errors.Is(err, common.ErrValidation), "missing destination")

	m, err = NewMessage(KindTransfer, TransferData{CuentaOrigen: "ES1111", CuentaDestino: "ES2222"})
	require.NoError(t, err)
	_, err = m.Transfer()
	assert.True(t, errors.Is(err, common.ErrValidation), "missing cantidad")
}

func TestMessage_ValidationReasonsAreSpanish(t *testing.T) {
	m, err := NewMessage(KindRegister, RegisterData{Username: "juan"})
	require.NoError(t, err)
	_, err = m.Register()
	assert.EqualError(t, err, common.ErrValidation.Error()+": faltan usuario o contraseña")

	m, err = NewMessage(KindTransfer, TransferData{CuentaOrigen: "ES1111"})
	require.NoError(t, err)
	_, err = m.Transfer()
	assert.EqualError(t, err, common.ErrValidation.Error()+": falta la cuenta de origen o destino")

	m, err = NewMessage(KindTransfer, TransferData{CuentaOrigen: "ES1111", CuentaDestino: "ES2222"})
	require.NoError(t, err)
	_, err = m.Transfer()
	assert.EqualError(t, err, common.ErrValidation.Error()+": falta la cantidad")

	m = &Message{Tipo: KindTransfer, Datos: []byte(`"not an object"`)}
	_, err = m.Transfer()
	assert.EqualError(t, err, common.ErrValidation.Error()+": datos invalidos")
}

func TestMessage_HistoryEmptyDatos(t *testing.T) {
	decoded, err := DecodeMessage([]byte(`{"tipo":"historial"}`))
	require.NoError(t, err)

	d, err := decoded.History()
	require.NoError(t, err)
	assert.Empty(t, d.Token)
}

func TestResponse_RoundTrip(t *testing.T) {
	r := OkResponse("Transferencia completada", map[string]any{"id": float64(7)})
	raw, err := r.Encode()
	require.NoError(t, err)

	decoded, err := DecodeResponse(raw)
	require.NoError(t, err)
	assert.True(t, decoded.IsOK())
	assert.Equal(t, "Transferencia completada", decoded.Mensaje)
	assert.Equal(t, float64(7), decoded.Datos["id"])

	e := ErrorResponse("Credenciales incorrectas")
	assert.False(t, e.IsOK())
}
