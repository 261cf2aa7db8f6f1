package eventsource

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// chainDigest folds an event into a stream's running digest:
//
//	digest_n = MiMC(digest_{n-1} || leaf(event_n))
//
// The leaf is the event's SHA-256 reduced into the BN254 scalar field, so
// every block written to MiMC is a canonical field element. A nil prev
// starts a new chain.
func chainDigest(prev []byte, e *Event) []byte {
	leaf := sha256.Sum256(encodeEvent(e))
	var x fr.Element
	x.SetBytes(leaf[:])
	xb := x.Bytes()

	h := mimc.NewMiMC()
	if len(prev) > 0 {
		h.Write(prev)
	}
	h.Write(xb[:])
	return h.Sum(nil)
}

// encodeEvent produces the deterministic byte form hashed into the chain.
func encodeEvent(e *Event) []byte {
	buf := make([]byte, 0, 64+len(e.StreamID)+len(e.Type)+len(e.Data))
	buf = append(buf, e.ID[:]...)
	buf = append(buf, e.StreamID...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(e.Version))
	buf = append(buf, e.Type...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(e.Time.UnixNano()))
	buf = append(buf, e.Data...)
	return buf
}

// VerifyChain recomputes the digest chain over events and reports whether it
// ends at want. Events must be a stream's full history in version order.
func VerifyChain(events []*Event, want []byte) bool {
	var digest []byte
	for _, e := range events {
		digest = chainDigest(digest, e)
	}
	if len(digest) != len(want) {
		return false
	}
	for i := range digest {
		if digest[i] != want[i] {
			return false
		}
	}
	return true
}
