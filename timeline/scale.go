package timeline

import (
	"fmt"
	"math"

	"github.com/spacemeshos/go-scale"
)

const (
	noReference  byte = 0
	hasReference byte = 1
)

// EncodeScale implements scale codec interface.
func (s *State) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		// not compact, presence marker and playing flag are full bytes
		marker := noReference
		if s.ReferenceInstant != nil {
			marker = hasReference
		}
		n, err := scale.EncodeByte(enc, marker)
		if err != nil {
			return total, err
		}
		total += n
	}
	if s.ReferenceInstant != nil {
		n, err := scale.EncodeCompact64(enc, uint64(*s.ReferenceInstant))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, math.Float64bits(s.Tempo))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		var playing byte
		if s.IsPlaying {
			playing = 1
		}
		n, err := scale.EncodeByte(enc, playing)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, math.Float64bits(s.PausedPosition))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (s *State) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		marker, n, err := scale.DecodeByte(dec)
		if err != nil {
			return total, err
		}
		total += n
		switch marker {
		case noReference:
			s.ReferenceInstant = nil
		case hasReference:
			field, n, err := scale.DecodeCompact64(dec)
			if err != nil {
				return total, err
			}
			total += n
			ref := int64(field)
			s.ReferenceInstant = &ref
		default:
			return total, fmt.Errorf("invalid reference marker %d", marker)
		}
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		s.Tempo = math.Float64frombits(field)
	}
	{
		field, n, err := scale.DecodeByte(dec)
		if err != nil {
			return total, err
		}
		total += n
		s.IsPlaying = field == 1
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		s.PausedPosition = math.Float64frombits(field)
	}
	return total, nil
}
