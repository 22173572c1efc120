package poker

import (
	"encoding/binary"
	"errors"
	"strings"

	crypto_rand "crypto/rand"
	math_rand "math/rand"

	"github.com/rivo/uniseg"
)

func Assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

func PanicRetToError(err interface{}) error {
	var typedErr error

	switch errType := err.(type) {
	case string:
		typedErr = errors.New(errType)
	case error:
		typedErr = errType
	default:
		typedErr = errors.New("unknown panic")
	}

	return typedErr
}

// CryptoSeed returns a seed read from crypto/rand.
func CryptoSeed() int64 {
	var b [8]byte

	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("CryptoSeed(): problem with crypto/rand")
	}

	return int64(binary.LittleEndian.Uint64(b[:]))
}

// NewRand returns a source for shuffling. A zero seed means a crypto seed;
// any other value gives a reproducible sequence.
func NewRand(seed int64) *math_rand.Rand {
	if seed == 0 {
		seed = CryptoSeed()
	}

	return math_rand.New(math_rand.NewSource(seed))
}

// FillLeft return string filled in left by spaces in w cells
//
// taken from github.com/go-runewidth
func FillLeft(s string, w int) string {
	count := w - uniseg.StringWidth(s)

	if count > 0 {
		return strings.Repeat(" ", count) + s
	}

	return s
}

// FillRight return string filled in right by spaces in w cells
//
// taken from github.com/go-runewidth
func FillRight(s string, w int) string {
	count := w - uniseg.StringWidth(s)

	if count > 0 {
		return s + strings.Repeat(" ", count)
	}

	return s
}
