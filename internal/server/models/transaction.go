package models

import "time"

// Transaction is a row of the transacciones table. Rows are append-only and
// immutable once written. IntegrityVerified records the MAC-verification
// outcome that admitted the request; it is set by the dispatcher, never
// recomputed by the ledger.
type Transaction struct {
	ID                int64
	Username          string
	CuentaOrigen      string
	CuentaDestino     string
	Cantidad          float64
	RecordedAt        time.Time
	IntegrityVerified bool
}
