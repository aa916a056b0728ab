package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// encodeEmbedding packs the values as little-endian float32.
func encodeEmbedding(e domain.Embedding) []byte {
	buf := make([]byte, 4*len(e))
	for i, f := range e {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// decodeEmbedding reverses encodeEmbedding and checks the blob holds
// exactly dim values.
func decodeEmbedding(data []byte, dim int) (domain.Embedding, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("embedding blob of %d bytes is not a float32 array", len(data))
	}
	if n := len(data) / 4; n != dim {
		return nil, &domain.DimensionMismatchError{Expected: dim, Got: n}
	}
	e := make(domain.Embedding, dim)
	for i := range e {
		e[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return e, nil
}
