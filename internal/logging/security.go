package logging

import (
	"context"
	"encoding/hex"
)

// SecurityLog is the audit sink for security-relevant events: integrity
// failures, replay detections, brute-force lockouts. It is kept separate from
// the ordinary activity log so the two streams can go to different files and
// be retained on different schedules.
//
// Digest values passed here must be hashes or truncations, never plaintext
// payload fields.
type SecurityLog struct {
	l Logger
}

func NewSecurityLog(l Logger) *SecurityLog {
	return &SecurityLog{l: l.With("log", "security")}
}

// Digest renders the first eight bytes of b as hex, enough to correlate an
// event with a captured packet without reproducing the full value.
func Digest(b []byte) string {
	if len(b) > 8 {
		b = b[:8]
	}
	return hex.EncodeToString(b)
}

// IntegrityFailure records a MAC mismatch on an inbound envelope.
func (s *SecurityLog) IntegrityFailure(ctx context.Context, remoteAddr string, macDigest, nonceDigest string) {
	s.l.Warn(ctx, "mac verification failed",
		"event", "integrity_failure", "remote_addr", remoteAddr,
		"mac", macDigest, "nonce", nonceDigest)
}

// ReplayDetected records a nonce reuse attempt.
func (s *SecurityLog) ReplayDetected(ctx context.Context, remoteAddr string, nonceDigest string) {
	s.l.Warn(ctx, "nonce already used",
		"event", "replay_detected", "remote_addr", remoteAddr,
		"nonce", nonceDigest)
}

// LoginFailure records a failed authentication attempt. The username is
// logged; the password never is.
func (s *SecurityLog) LoginFailure(ctx context.Context, remoteAddr, username string) {
	s.l.Warn(ctx, "login failed",
		"event", "login_failure", "remote_addr", remoteAddr,
		"username", username)
}

// LoginLockout records a per-user brute-force lockout.
func (s *SecurityLog) LoginLockout(ctx context.Context, remoteAddr, username string) {
	s.l.Warn(ctx, "login locked out",
		"event", "login_lockout", "remote_addr", remoteAddr,
		"username", username)
}
