package types

import (
	"encoding/hex"
	"time"
)

// AddressHexLen is the length of an address body in hex characters
const AddressHexLen = 40

// KeyPair is a private key and the address derived from it
type KeyPair struct {
	PrivateKey [32]byte
	Address    string // 40 lowercase hex chars, no 0x
}

// PrivateKeyHex returns the private key as 64 lowercase hex characters
func (k KeyPair) PrivateKeyHex() string {
	return hex.EncodeToString(k.PrivateKey[:])
}

// AddressHex returns the address with its 0x prefix
func (k KeyPair) AddressHex() string {
	return "0x" + k.Address
}

// Criteria is the vanity pattern a derived address must satisfy.
// Empty fields are treated as absent.
type Criteria struct {
	Prefix string
	Suffix string
}

// IsEmpty reports whether every address satisfies the criteria
func (c Criteria) IsEmpty() bool {
	return c.Prefix == "" && c.Suffix == ""
}

// Snapshot is a point-in-time copy of search progress
type Snapshot struct {
	Attempts uint64
	Found    int
	Target   int
	Elapsed  time.Duration
}

// Rate returns keys per second, or 0 before any time has elapsed
func (s Snapshot) Rate() float64 {
	if s.Elapsed.Seconds() <= 0 {
		return 0
	}
	return float64(s.Attempts) / s.Elapsed.Seconds()
}

// Result represents a finished search
type Result struct {
	KeyPairs []KeyPair
	Attempts uint64
	Duration time.Duration
}

// Rate returns average keys per second over the whole search
func (r *Result) Rate() float64 {
	if r.Duration.Seconds() <= 0 {
		return 0
	}
	return float64(r.Attempts) / r.Duration.Seconds()
}
