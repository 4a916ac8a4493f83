// Package client implements the wire protocol from the calling side: it
// seals each request payload with a fresh nonce and an HMAC tag, sends it
// over TCP and decodes the server's reply.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/asanchezr/bancoseguro/internal/cryptox"
	"github.com/asanchezr/bancoseguro/internal/protocol"
)

// Client talks to one bancoseguro server. Each request opens its own
// connection; authenticated operations carry a session token instead of
// relying on connection identity.
type Client struct {
	addr    string
	mac     *cryptox.MACEngine
	timeout time.Duration
}

func New(addr string, key []byte, timeout time.Duration) (*Client, error) {
	mac, err := cryptox.NewMACEngine(key)
	if err != nil {
		return nil, err
	}
	return &Client{addr: addr, mac: mac, timeout: timeout}, nil
}

// do seals one message and performs a request/response round trip.
func (c *Client) do(ctx context.Context, msg *protocol.Message) (*protocol.Response, error) {

	payload, err := msg.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode error: %w", err)
	}

	nonce := cryptox.NewNonce()
	tag := c.mac.Compute(payload, nonce)

	env, err := protocol.EncodeEnvelope(payload, tag, nonce)
	if err != nil {
		return nil, fmt.Errorf("encode error: %w", err)
	}

	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("dial error: %w", err)
	}
	defer conn.Close()

	if c.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(c.timeout))
	}

	if _, err := conn.Write(append(env, '\n')); err != nil {
		return nil, fmt.Errorf("write error: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, fmt.Errorf("read error: %w", err)
	}

	resp, err := protocol.DecodeResponse(line)
	if err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	return resp, nil
}

// doOK runs do and converts an error-status reply into a Go error carrying
// the server's message.
func (c *Client) doOK(ctx context.Context, msg *protocol.Message) (*protocol.Response, error) {
	resp, err := c.do(ctx, msg)
	if err != nil {
		return nil, err
	}
	if !resp.IsOK() {
		return nil, errors.New(resp.Mensaje)
	}
	return resp, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	msg, err := protocol.NewMessage(protocol.KindRegister,
		protocol.RegisterData{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	resp, err := c.doOK(ctx, msg)
	if err != nil {
		return "", err
	}
	return resp.Mensaje, nil
}

// Login authenticates and returns the session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	msg, err := protocol.NewMessage(protocol.KindLogin,
		protocol.RegisterData{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	resp, err := c.doOK(ctx, msg)
	if err != nil {
		return "", err
	}
	token, ok := resp.Datos["token"].(string)
	if !ok || token == "" {
		return "", errors.New("respuesta sin token")
	}
	return token, nil
}

// Transfer records a transfer under the session the token identifies.
func (c *Client) Transfer(ctx context.Context, token, origen, destino string, cantidad float64) (string, error) {
	msg, err := protocol.NewMessage(protocol.KindTransfer, protocol.TransferData{
		CuentaOrigen:  origen,
		CuentaDestino: destino,
		Cantidad:      cantidad,
		Token:         token,
	})
	if err != nil {
		return "", err
	}
	resp, err := c.doOK(ctx, msg)
	if err != nil {
		return "", err
	}
	return resp.Mensaje, nil
}

// TransferRecord is one history entry as reported by the server.
type TransferRecord struct {
	ID            int64
	CuentaOrigen  string
	CuentaDestino string
	Cantidad      float64
	Timestamp     string
	Verificado    bool
}

// History lists the session user's recorded transfers, newest first.
func (c *Client) History(ctx context.Context, token string) ([]TransferRecord, error) {
	msg, err := protocol.NewMessage(protocol.KindHistory, protocol.HistoryData{Token: token})
	if err != nil {
		return nil, err
	}
	resp, err := c.doOK(ctx, msg)
	if err != nil {
		return nil, err
	}

	rows, _ := resp.Datos["transacciones"].([]any)
	list := make([]TransferRecord, 0, len(rows))
	for _, r := range rows {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		rec := TransferRecord{}
		if v, ok := m["id"].(float64); ok {
			rec.ID = int64(v)
		}
		rec.CuentaOrigen, _ = m["cuenta_origen"].(string)
		rec.CuentaDestino, _ = m["cuenta_destino"].(string)
		rec.Cantidad, _ = m["cantidad"].(float64)
		rec.Timestamp, _ = m["timestamp"].(string)
		rec.Verificado, _ = m["mac_verificado"].(bool)
		list = append(list, rec)
	}
	return list, nil
}

// Logout ends the session the token identifies.
func (c *Client) Logout(ctx context.Context, token string) error {
	msg, err := protocol.NewMessage(protocol.KindLogout, protocol.LogoutData{Token: token})
	if err != nil {
		return err
	}
	_, err = c.doOK(ctx, msg)
	return err
}
