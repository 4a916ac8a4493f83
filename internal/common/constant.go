package common

// Fixed sizes of the wire protocol, in bytes.
const (
	// KeySize is the length of the pre-shared MAC secret (256 bits).
	KeySize = 32
	// MACSize is the length of an HMAC-SHA256 digest.
	MACSize = 32
	// NonceSize is the length of an anti-replay nonce (256 bits).
	NonceSize = 32
)
