// Package hashing provides the hash primitives RingCT signing and
// verification build on: SHA3-256 for byte-string digests, and a
// rejection-sampling hash-to-scalar used to derive Fiat-Shamir challenges
// and ring-closure coefficients.
package hashing

import (
	"errors"
	"math/big"

	"github.com/drand/kyber"
	"golang.org/x/crypto/sha3"

	"github.com/bochaco/sn-ringct/curve"
)

// DigestLen is the size in bytes of a SHA3-256 digest.
const DigestLen = 32

// maxScalarAttempts bounds the hash-to-scalar rejection loop. The scalar
// field order is about 0.45 * 2^256, so a single attempt succeeds a little
// under half the time and all attempts fail with probability about
// 0.55^128, below 2^-100; this bound exists to turn a theoretical
// non-termination into a typed error instead of an infinite loop.
const maxScalarAttempts = 128

// ErrScalarSamplingExhausted is returned by ToScalar when no canonical
// scalar was found within maxScalarAttempts rehashes. Under a
// cryptographically sound hash function this should never happen.
var ErrScalarSamplingExhausted = errors.New("hashing: exhausted rejection-sampling attempts without a canonical scalar")

// scalarOrder is the order r of the BLS12-381 scalar field, used to decide
// whether a 256-bit digest is a canonical member of F_r before handing it
// to the curve library, since kyber's mod.Int silently reduces out-of-range
// values instead of rejecting them.
var scalarOrder, _ = new(big.Int).SetString("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

// Sum256 returns the SHA3-256 digest of the concatenation of data.
func Sum256(data ...[]byte) []byte {
	h := sha3.New256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// ToScalar hashes the concatenation of data into a scalar in F_r. It hashes
// with SHA3-256, interprets the digest as a little-endian integer, and
// rejects (then rehashes the digest itself) until the result is strictly
// less than the field order, so that the distribution over F_r is uniform
// rather than biased by modular wraparound.
func ToScalar(data ...[]byte) (kyber.Scalar, error) {
	digest := Sum256(data...)

	for attempt := 0; attempt < maxScalarAttempts; attempt++ {
		if canonical(digest) {
			return curve.ScalarFromCanonicalBytes(digest), nil
		}
		digest = Sum256(digest)
	}
	return nil, ErrScalarSamplingExhausted
}

// canonical reports whether le, read as a little-endian integer, is
// strictly less than the scalar field order.
func canonical(le []byte) bool {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	v := new(big.Int).SetBytes(be)
	return v.Cmp(scalarOrder) < 0
}

// ChallengeHash is the Fiat-Shamir challenge function c_hash: it binds a
// message to an ordered sequence of curve points, producing the per-ring
// challenge scalar MLSAG advances around the ring. The message and each
// point's compressed encoding are hashed as distinct, length-implicit
// segments via SHA3-256's incremental Write, then reduced with the same
// rejection sampling as ToScalar.
func ChallengeHash(message []byte, points ...kyber.Point) (kyber.Scalar, error) {
	segments := make([][]byte, 0, len(points)+1)
	segments = append(segments, message)
	for _, p := range points {
		segments = append(segments, curve.PointToBytes(p))
	}
	return ToScalar(segments...)
}
