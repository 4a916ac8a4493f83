// Package dispatcher orchestrates the per-request validation pipeline and
// the session state machine. Check order is load-bearing: envelope structure,
// then MAC, then nonce claim, then payload decoding, then state routing. A
// payload that fails MAC verification must not consume a nonce slot, or an
// attacker could fill the ledger with garbage for free.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asanchezr/bancoseguro/internal/common"
	"github.com/asanchezr/bancoseguro/internal/cryptox"
	"github.com/asanchezr/bancoseguro/internal/logging"
	"github.com/asanchezr/bancoseguro/internal/protocol"
	"github.com/asanchezr/bancoseguro/internal/server/auth"
	"github.com/asanchezr/bancoseguro/internal/server/ledger"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/nonces"
	"github.com/asanchezr/bancoseguro/internal/server/sessions"
)

// State is the position of a connection in the session state machine.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	StateClosed
)

// Conn is the dispatcher's view of one client connection.
type Conn struct {
	RemoteAddr string
	State      State
	Session    *sessions.Session
}

type Dispatcher struct {
	mac      *cryptox.MACEngine
	nonces   nonces.Repository
	auth     *auth.Service
	tokens   *auth.TokenIssuer
	ledger   *ledger.Service
	sessions *sessions.Manager
	nonceTTL time.Duration
	logger   logging.Logger
	seclog   *logging.SecurityLog
}

func New(mac *cryptox.MACEngine, nonceRepo nonces.Repository, authSvc *auth.Service,
	tokens *auth.TokenIssuer, ledgerSvc *ledger.Service, sessionMgr *sessions.Manager,
	nonceTTL time.Duration, logger logging.Logger, seclog *logging.SecurityLog) *Dispatcher {

	return &Dispatcher{
		mac:      mac,
		nonces:   nonceRepo,
		auth:     authSvc,
		tokens:   tokens,
		ledger:   ledgerSvc,
		sessions: sessionMgr,
		nonceTTL: nonceTTL,
		logger:   logger.With("module", "dispatcher"),
		seclog:   seclog,
	}
}

// Handle runs the pipeline for one raw request and returns the encoded
// response plus whether the connection must close afterwards.
func (d *Dispatcher) Handle(ctx context.Context, conn *Conn, raw []byte) ([]byte, bool) {
	resp, closeConn := d.handle(ctx, conn, raw)

	out, err := resp.Encode()
	if err != nil {
		d.logger.Error(ctx, "response encoding failed", "error", err)
		out = []byte(`{"status":"error","mensaje":"Error interno"}`)
	}
	return out, closeConn
}

func (d *Dispatcher) handle(ctx context.Context, conn *Conn, raw []byte) (*protocol.Response, bool) {

	// 1. structural decode
	env, err := protocol.DecodeEnvelope(raw)
	if err != nil {
		d.logger.Warn(ctx, "malformed envelope", "remote_addr", conn.RemoteAddr, "error", err)
		return protocol.ErrorResponse("Mensaje malformado"), false
	}

	// 2. integrity, before the nonce is touched
	if !d.mac.Verify(env.Payload, env.Nonce, env.MAC) {
		d.seclog.IntegrityFailure(ctx, conn.RemoteAddr, logging.Digest(env.MAC), logging.Digest(env.Nonce))
		return protocol.ErrorResponse("Fallo de integridad del mensaje"), false
	}

	// 3. anti-replay claim
	claimed, err := d.nonces.Claim(ctx, env.Nonce, d.nonceTTL)
	if err != nil {
		d.logger.Error(ctx, "nonce claim failed", "remote_addr", conn.RemoteAddr, "error", err)
		return protocol.ErrorResponse("Error interno"), true
	}
	if !claimed {
		d.seclog.ReplayDetected(ctx, conn.RemoteAddr, logging.Digest(env.Nonce))
		return protocol.ErrorResponse("Mensaje repetido: posible ataque de replay"), false
	}

	// 4. payload decode
	msg, err := protocol.DecodeMessage(env.Payload)
	if err != nil {
		return protocol.ErrorResponse("Mensaje invalido"), false
	}

	// 5-6. route by kind and state
	if conn.State == StateClosed {
		return protocol.ErrorResponse("Sesion cerrada"), true
	}

	switch msg.Tipo {
	case protocol.KindRegister:
		return d.handleRegister(ctx, conn, msg)
	case protocol.KindLogin:
		return d.handleLogin(ctx, conn, msg)
	case protocol.KindTransfer:
		return d.handleTransfer(ctx, conn, msg)
	case protocol.KindHistory:
		return d.handleHistory(ctx, conn, msg)
	case protocol.KindLogout:
		return d.handleLogout(ctx, conn, msg)
	default:
		d.logger.Warn(ctx, "unknown message kind", "tipo", msg.Tipo, "remote_addr", conn.RemoteAddr)
		return protocol.ErrorResponse("Tipo de mensaje no soportado"), false
	}
}

func (d *Dispatcher) handleRegister(ctx context.Context, conn *Conn, msg *protocol.Message) (*protocol.Response, bool) {
	if conn.State != StateAnonymous {
		return d.errorResponse(ctx, common.ErrIllegalState)
	}

	data, err := msg.Register()
	if err != nil {
		return d.errorResponse(ctx, err)
	}

	if _, err := d.auth.Register(ctx, data.Username, data.Password); err != nil {
		return d.errorResponse(ctx, err)
	}

	d.logger.Info(ctx, "user registered", "username", data.Username)
	return protocol.OkResponse("Usuario registrado exitosamente", nil), false
}

func (d *Dispatcher) handleLogin(ctx context.Context, conn *Conn, msg *protocol.Message) (*protocol.Response, bool) {
	if conn.State != StateAnonymous {
		return d.errorResponse(ctx, common.ErrIllegalState)
	}

	data, err := msg.Register()
	if err != nil {
		return d.errorResponse(ctx, err)
	}

	user, locked, err := d.auth.Login(ctx, data.Username, data.Password)
	if err != nil {
		if errors.Is(err, common.ErrBadCredentials) {
			if locked {
				d.seclog.LoginLockout(ctx, conn.RemoteAddr, data.Username)
				return protocol.ErrorResponse("Credenciales incorrectas. Usuario bloqueado temporalmente"), false
			}
			d.seclog.LoginFailure(ctx, conn.RemoteAddr, data.Username)
			return protocol.ErrorResponse(fmt.Sprintf("Credenciales incorrectas. Intentos restantes: %d",
				d.auth.AttemptsRemaining(data.Username))), false
		}
		if errors.Is(err, common.ErrTooManyLogins) {
			d.seclog.LoginLockout(ctx, conn.RemoteAddr, data.Username)
		}
		return d.errorResponse(ctx, err)
	}

	sess := d.sessions.Create(user.Username)
	token, err := d.tokens.Issue(user.Username, sess.ID)
	if err != nil {
		d.sessions.Delete(sess.ID)
		return d.errorResponse(ctx, fmt.Errorf("%w: token issue: %v", common.ErrorInternal, err))
	}

	conn.State = StateAuthenticated
	conn.Session = sess

	d.logger.Info(ctx, "login ok", "username", user.Username)
	return protocol.OkResponse("Login exitoso", map[string]any{"token": token}), false
}

func (d *Dispatcher) handleTransfer(ctx context.Context, conn *Conn, msg *protocol.Message) (*protocol.Response, bool) {
	data, err := msg.Transfer()
	if err != nil {
		return d.errorResponse(ctx, err)
	}

	if err := d.ensureAuthenticated(ctx, conn, data.Token); err != nil {
		return d.errorResponse(ctx, err)
	}

	// steps 2-3 vouched for this request, recorded for audit visibility
	tx, err := d.ledger.Transfer(ctx, conn.Session.Username, data.CuentaOrigen, data.CuentaDestino, data.Cantidad, true)
	if err != nil {
		return d.errorResponse(ctx, err)
	}

	d.logger.Info(ctx, "transfer recorded",
		"id", tx.ID, "username", tx.Username,
		"cuenta_origen", tx.CuentaOrigen, "cuenta_destino", tx.CuentaDestino,
		"cantidad", tx.Cantidad)
	return protocol.OkResponse(fmt.Sprintf("Transferencia completada (ID: %d)", tx.ID),
		map[string]any{"id": tx.ID}), false
}

func (d *Dispatcher) handleHistory(ctx context.Context, conn *Conn, msg *protocol.Message) (*protocol.Response, bool) {
	data, err := msg.History()
	if err != nil {
		return d.errorResponse(ctx, err)
	}

	if err := d.ensureAuthenticated(ctx, conn, data.Token); err != nil {
		return d.errorResponse(ctx, err)
	}

	rows, err := d.ledger.History(ctx, conn.Session.Username)
	if err != nil {
		return d.errorResponse(ctx, err)
	}

	list := make([]map[string]any, 0, len(rows))
	for _, tx := range rows {
		list = append(list, map[string]any{
			"id":             tx.ID,
			"cuenta_origen":  tx.CuentaOrigen,
			"cuenta_destino": tx.CuentaDestino,
			"cantidad":       tx.Cantidad,
			"timestamp":      tx.RecordedAt,
			"mac_verificado": tx.IntegrityVerified,
		})
	}
	return protocol.OkResponse(fmt.Sprintf("%d transacciones", len(list)),
		map[string]any{"transacciones": list}), false
}

func (d *Dispatcher) handleLogout(ctx context.Context, conn *Conn, msg *protocol.Message) (*protocol.Response, bool) {
	if conn.Session == nil {
		// a token lets a fresh connection end the session it names
		if data, err := msg.Logout(); err == nil && data.Token != "" {
			if username, sessionID, err := d.tokens.Parse(data.Token); err == nil {
				if sess, ok := d.sessions.Get(sessionID); ok && sess.Username == username {
					conn.Session = sess
				}
			}
		}
	}
	if conn.Session != nil {
		d.sessions.Delete(conn.Session.ID)
		d.logger.Info(ctx, "logout", "username", conn.Session.Username)
	}
	conn.State = StateClosed
	conn.Session = nil
	return protocol.OkResponse("Sesion cerrada", nil), true
}

// CloseConn ends a connection's session on idle timeout or transport
// failure. A plain peer disconnect does not come through here: its session
// stays resumable by token until the idle timeout evicts it.
func (d *Dispatcher) CloseConn(ctx context.Context, conn *Conn) {
	if conn.Session != nil {
		d.sessions.Delete(conn.Session.ID)
		d.logger.Info(ctx, "session discarded", "username", conn.Session.Username)
	}
	conn.State = StateClosed
	conn.Session = nil
}

// ensureAuthenticated admits the request when the connection is already in
// Authenticated state with a live session, or when a valid session token
// resumes one. Everything else is an illegal-state failure; the caller's
// state is reset so a dead session is not retried forever.
func (d *Dispatcher) ensureAuthenticated(ctx context.Context, conn *Conn, token string) error {
	if conn.State == StateAuthenticated && conn.Session != nil {
		if _, ok := d.sessions.Get(conn.Session.ID); ok {
			return nil
		}
		// idle timeout evicted the session behind our back
		conn.State = StateAnonymous
		conn.Session = nil
		return common.ErrIllegalState
	}

	if token == "" {
		return common.ErrIllegalState
	}

	username, sessionID, err := d.tokens.Parse(token)
	if err != nil {
		return common.ErrIllegalState
	}
	sess, ok := d.sessions.Get(sessionID)
	if !ok || sess.Username != username {
		return common.ErrIllegalState
	}

	conn.State = StateAuthenticated
	conn.Session = sess
	return nil
}

// errorResponse maps a handler error to the client-facing reply. Persistence
// failures additionally close the connection: once the store misbehaves, no
// further write on this connection can be trusted.
func (d *Dispatcher) errorResponse(ctx context.Context, err error) (*protocol.Response, bool) {
	switch {
	case errors.Is(err, common.ErrDuplicateUser):
		return protocol.ErrorResponse("El usuario ya existe"), false
	case errors.Is(err, common.ErrBadCredentials):
		return protocol.ErrorResponse("Credenciales incorrectas"), false
	case errors.Is(err, common.ErrTooManyLogins):
		return protocol.ErrorResponse("Demasiados intentos de login. Usuario bloqueado temporalmente"), false
	case errors.Is(err, common.ErrInvalidAmount):
		return protocol.ErrorResponse("Cantidad invalida"), false
	case errors.Is(err, common.ErrIllegalState):
		return protocol.ErrorResponse("Operacion no permitida en el estado actual"), false
	case errors.Is(err, common.ErrValidation):
		return protocol.ErrorResponse(validationReason(err)), false
	case errors.Is(err, common.ErrPersistence):
		d.logger.Error(ctx, "persistence failure", "error", err)
		return protocol.ErrorResponse("Error interno"), true
	default:
		d.logger.Error(ctx, "handler failure", "error", err)
		return protocol.ErrorResponse("Error interno"), false
	}
}

// validationReason strips the sentinel prefix so the client sees only the
// human-readable part.
func validationReason(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return "Datos invalidos"
}
