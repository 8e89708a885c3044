package replica

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/spacemeshos/go-scale"

	"github.com/tempomesh/go-tempomesh/codec"
	"github.com/tempomesh/go-tempomesh/hash"
	"github.com/tempomesh/go-tempomesh/timeline"
)

// Envelope carries a timeline state between replicas, tagged with the replica
// that wrote it and its Lamport timestamp.
type Envelope struct {
	Origin  uuid.UUID
	Lamport uint64
	State   timeline.State
}

// ID returns the digest of the encoded envelope.
func (e *Envelope) ID() hash.Digest {
	return hash.Sum(codec.MustEncode(e))
}

// Newer reports whether e wins over other in last-writer-wins order: higher
// Lamport timestamp first, then the larger origin.
func (e *Envelope) Newer(other *Envelope) bool {
	if other == nil {
		return true
	}
	if e.Lamport != other.Lamport {
		return e.Lamport > other.Lamport
	}
	return bytes.Compare(e.Origin[:], other.Origin[:]) > 0
}

// EncodeScale implements scale codec interface.
func (e *Envelope) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteArray(enc, e.Origin[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, e.Lamport)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := e.State.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (e *Envelope) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := scale.DecodeByteArray(dec, e.Origin[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		e.Lamport = field
	}
	{
		n, err := e.State.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
