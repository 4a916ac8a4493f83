package client

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanchezr/bancoseguro/internal/common"
	"github.com/asanchezr/bancoseguro/internal/cryptox"
	"github.com/asanchezr/bancoseguro/internal/protocol"
)

func testKey() []byte {
	key := make([]byte, common.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

// fakeServer accepts one connection, validates the sealed request and
// replies with the canned response. It reports the decoded message.
func fakeServer(t *testing.T, key []byte, reply *protocol.Response) (addr string, got chan *protocol.Message) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	mac, err := cryptox.NewMACEngine(key)
	require.NoError(t, err)

	got = make(chan *protocol.Message, 1)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		line, err := bufio.NewReader(conn).ReadBytes('\n')
		if err != nil {
			return
		}

		env, err := protocol.DecodeEnvelope(line)
		if err != nil || !mac.Verify(env.Payload, env.Nonce, env.MAC) {
			return
		}

		msg, err := protocol.DecodeMessage(env.Payload)
		if err != nil {
			return
		}
		got <- msg

		raw, _ := reply.Encode()
		_, _ = conn.Write(append(raw, '\n'))
	}()

	return ln.Addr().String(), got
}

func TestLogin_SealsRequestAndReturnsToken(t *testing.T) {
	key := testKey()
	addr, got := fakeServer(t, key, protocol.OkResponse("Login exitoso", map[string]any{"token": "tok-123"}))

	c, err := New(addr, key, 5*time.Second)
	require.NoError(t, err)

	token, err := c.Login(context.Background(), "alice", "Str0ng!Password")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	msg := <-got
	assert.Equal(t, protocol.KindLogin, msg.Tipo)
	data, err := msg.Register()
	require.NoError(t, err)
	assert.Equal(t, "alice", data.Username)
}

func TestTransfer_ServerErrorSurfacesMessage(t *testing.T) {
	key := testKey()
	addr, _ := fakeServer(t, key, protocol.ErrorResponse("Cantidad invalida"))

	c, err := New(addr, key, 5*time.Second)
	require.NoError(t, err)

	_, err = c.Transfer(context.Background(), "tok", "ES1111", "ES2222", -5)
	require.Error(t, err)
	assert.EqualError(t, err, "Cantidad invalida")
}

func TestHistory_DecodesRecords(t *testing.T) {
	key := testKey()
	addr, _ := fakeServer(t, key, protocol.OkResponse("1 transacciones", map[string]any{
		"transacciones": []any{
			map[string]any{
				"id":             float64(7),
				"cuenta_origen":  "ES1111",
				"cuenta_destino": "ES2222",
				"cantidad":       500.0,
				"timestamp":      "2026-01-02T15:04:05Z",
				"mac_verificado": true,
			},
		},
	}))

	c, err := New(addr, key, 5*time.Second)
	require.NoError(t, err)

	rows, err := c.History(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].ID)
	assert.Equal(t, "ES1111", rows[0].CuentaOrigen)
	assert.Equal(t, 500.0, rows[0].Cantidad)
	assert.True(t, rows[0].Verificado)
}

func TestNew_RejectsShortKey(t *testing.T) {
	_, err := New("127.0.0.1:1", []byte("short"), time.Second)
	assert.Error(t, err)
}

func TestDo_DialFailure(t *testing.T) {
	c, err := New("127.0.0.1:1", testKey(), 200*time.Millisecond)
	require.NoError(t, err)

	_, err = c.Register(context.Background(), "bob", "Str0ng!Password")
	assert.Error(t, err)
}
