package crypto

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/screa/vanity-miner/pkg/types"
)

const (
	// PrivateKeyLen is the size of a secp256k1 secret scalar
	PrivateKeyLen = 32

	AddressLen = 20
)

// secp256k1 group order, scalars must be in [1, N)
var curveOrder = uint256.MustFromBig(secp256k1.S256().N)

// Deriver turns entropy into keypairs. A Deriver keeps its hasher and
// buffers between calls so it must not be shared between goroutines.
type Deriver struct {
	rand   io.Reader
	hasher hash.Hash

	keyBuf  [PrivateKeyLen]byte
	hashBuf [32]byte
	addrBuf [AddressLen * 2]byte
}

// NewDeriver creates a Deriver reading entropy from r
func NewDeriver(r io.Reader) *Deriver {
	return &Deriver{
		rand:   r,
		hasher: sha3.NewLegacyKeccak256(),
	}
}

// Derive generates a random private key and its address.
// Out-of-range scalars are discarded and redrawn; the only error is a
// failure of the entropy source.
func (d *Deriver) Derive() (types.KeyPair, error) {
	for {
		if _, err := io.ReadFull(d.rand, d.keyBuf[:]); err != nil {
			return types.KeyPair{}, fmt.Errorf("read entropy: %w", err)
		}
		if ValidScalar(d.keyBuf) {
			break
		}
	}

	var k secp256k1.ModNScalar
	k.SetBytes(&d.keyBuf)
	priv := secp256k1.NewPrivateKey(&k)
	pub := priv.PubKey().SerializeUncompressed()

	kp := types.KeyPair{PrivateKey: d.keyBuf}
	kp.Address = d.addressInto(pub)
	return kp, nil
}

// addressInto hashes the public key body (format byte excluded) with the
// reused hasher and hex encodes the low 20 bytes.
func (d *Deriver) addressInto(pub []byte) string {
	d.hasher.Reset()
	d.hasher.Write(pub[1:])
	sum := d.hasher.Sum(d.hashBuf[:0])
	hex.Encode(d.addrBuf[:], sum[12:32])
	return string(d.addrBuf[:])
}

// ValidScalar reports whether b is a usable secp256k1 private key
func ValidScalar(b [PrivateKeyLen]byte) bool {
	v := new(uint256.Int).SetBytes32(b[:])
	return !v.IsZero() && v.Lt(curveOrder)
}

// ChecksumAddress converts a hex address (with or without 0x) to its
// EIP-55 mixed-case form.
func ChecksumAddress(addr string) string {
	return common.HexToAddress(addr).Hex()
}

// StripHexPrefix removes surrounding space and a leading 0x or 0X
func StripHexPrefix(s string) string {
	h := strings.TrimSpace(s)
	if len(h) >= 2 && (h[0:2] == "0x" || h[0:2] == "0X") {
		h = h[2:]
	}
	return h
}

// IsHex reports whether s consists only of hex digits (either case)
func IsHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
