// internal/domain/groups/accesscode.go
package groups

import (
	crand "crypto/rand"
	"math/big"
	"strings"
)

// codeAlphabet is the alphanumeric alphabet access codes are drawn from.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultCodeLength is the length of generated access codes.
const DefaultCodeLength = 6

// MaxCodeAttempts bounds how many times group creation regenerates a
// colliding code before giving up with ErrCodeGenerationExhausted.
const MaxCodeAttempts = 5

// CodeGenerator produces the short access codes that gate private groups.
//
// Uniqueness is not the generator's job: the store's sparse unique index
// on access_code rejects collisions, and the caller regenerates. The
// randomness source is injectable so tests can be deterministic.
type CodeGenerator struct {
	length int
	intn   func(n int) int
}

// NewCodeGenerator returns a crypto/rand-backed generator.
func NewCodeGenerator(length int) *CodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &CodeGenerator{length: length, intn: cryptoIntn}
}

// NewCodeGeneratorWithRand returns a generator driven by intn, which must
// return a value in [0, n). Used by tests that need fixed codes.
func NewCodeGeneratorWithRand(length int, intn func(n int) int) *CodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &CodeGenerator{length: length, intn: intn}
}

// Code returns a fresh access code.
func (cg *CodeGenerator) Code() string {
	var b strings.Builder
	b.Grow(cg.length)
	for i := 0; i < cg.length; i++ {
		b.WriteByte(codeAlphabet[cg.intn(len(codeAlphabet))])
	}
	return b.String()
}

func cryptoIntn(n int) int {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform's entropy source is
		// broken; there is no reasonable recovery at this level.
		panic(err)
	}
	return int(v.Int64())
}
