// Package curve is the single place in this module that knows about the
// concrete elliptic curve in use. Everywhere else operates on kyber.Point
// and kyber.Scalar, the group-agnostic types from the external curve
// library; swapping the pairing-friendly curve (or the library backing it)
// only touches this package.
//
// The group in use is G1 of the BLS12-381 pairing, via the same
// github.com/drand/kyber-bls12381 suite drand uses for its beacon keys.
package curve

import (
	"crypto/cipher"
	"io"

	"github.com/drand/kyber"
	bls "github.com/drand/kyber-bls12381"
)

// Domain separators for the two independent hash-to-curve oracles this
// module needs. They must never collide: one anchors the general-purpose
// point hash (the Pedersen H generator, among others), the other anchors
// the MLSAG key-image hash Hp used inside the ring-closure loop.
const (
	DomainHashToCurve          = "blst-ringct-hash-to-curve"
	DomainSignatureHashToCurve = "blst-ringct-signature-hash-to-curve"
)

// PointLen is the size in bytes of a compressed G1 point.
const PointLen = 48

// ScalarLen is the size in bytes of a canonical scalar in F_r.
const ScalarLen = 32

var (
	genericSuite   = bls.NewBLS12381SuiteWithDST([]byte(DomainHashToCurve), []byte(DomainHashToCurve))
	signatureSuite = bls.NewBLS12381SuiteWithDST([]byte(DomainSignatureHashToCurve), []byte(DomainSignatureHashToCurve))
)

// Group returns G1, the group every scalar and point in this module lives
// in: the generator G, point arithmetic, and scalar-field sampling.
func Group() kyber.Group {
	return genericSuite.G1()
}

// Generator returns the fixed base point G.
func Generator() kyber.Point {
	return Group().Point().Base()
}

// NewScalar allocates a zero scalar in F_r.
func NewScalar() kyber.Scalar {
	return Group().Scalar().Zero()
}

// NewPoint allocates the identity element of G1.
func NewPoint() kyber.Point {
	return Group().Point().Null()
}

// streamFromReader adapts a caller-supplied io.Reader into the
// cipher.Stream that kyber's Pick-style sampling expects. Like kyber's own
// util/random streams it never actually XORs: it fills dst with bytes read
// straight from the source and ignores src.
type streamFromReader struct {
	r io.Reader
}

func (s streamFromReader) XORKeyStream(dst, _ []byte) {
	if _, err := io.ReadFull(s.r, dst); err != nil {
		panic("curve: randomness source exhausted or broken: " + err.Error())
	}
}

// Stream adapts rand into the cipher.Stream interface kyber requires.
func Stream(rand io.Reader) cipher.Stream {
	return streamFromReader{r: rand}
}

// RandomScalar samples a uniformly random element of F_r from rand.
func RandomScalar(rand io.Reader) kyber.Scalar {
	return Group().Scalar().Pick(Stream(rand))
}

// HashToPoint maps p onto a second, independent point on the curve using
// the generic domain separator. This is the Hp referenced outside of MLSAG
// signing itself (e.g. deriving the Pedersen H generator).
func HashToPoint(p kyber.Point) kyber.Point {
	return hashPoint(genericSuite, p)
}

// HashToPointForSignature is the MLSAG-internal variant of HashToPoint,
// used to derive Hp(P) during key-image computation and ring closure. It
// uses a distinct domain separator from HashToPoint so the two oracles are
// independent, as required for Fiat-Shamir soundness.
func HashToPointForSignature(p kyber.Point) kyber.Point {
	return hashPoint(signatureSuite, p)
}

func hashPoint(suite pairingSuite, p kyber.Point) kyber.Point {
	compressed, err := p.MarshalBinary()
	if err != nil {
		// p is always a well-formed group element produced by this
		// package; a marshal failure here means the curve library itself
		// is broken.
		panic("curve: failed to marshal point for hashing: " + err.Error())
	}

	hashable, ok := suite.G1().Point().(kyber.HashablePoint)
	if !ok {
		panic("curve: G1 point implementation does not support hash-to-curve")
	}
	return hashable.Hash(compressed)
}

// pairingSuite is the subset of the kyber-bls12381 Suite this package
// relies on; defined locally so hashPoint does not need to know the
// concrete *bls.Suite type.
type pairingSuite interface {
	G1() kyber.Group
}

// PointToBytes returns the 48-byte compressed encoding of p.
func PointToBytes(p kyber.Point) []byte {
	b, err := p.MarshalBinary()
	if err != nil {
		panic("curve: failed to marshal point: " + err.Error())
	}
	return b
}

// PointFromBytes decompresses a 48-byte encoding into a point, delegating
// subgroup/encoding validation to the underlying curve library.
func PointFromBytes(b []byte) (kyber.Point, error) {
	p := Group().Point()
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return p, nil
}

// ScalarToBytes returns the 32-byte little-endian canonical encoding of s.
func ScalarToBytes(s kyber.Scalar) []byte {
	be, err := s.MarshalBinary()
	if err != nil {
		panic("curve: failed to marshal scalar: " + err.Error())
	}
	return reversed(be)
}

// ScalarFromCanonicalBytes builds a scalar from a 32-byte little-endian
// encoding that the caller has already checked is below the field order.
func ScalarFromCanonicalBytes(le []byte) kyber.Scalar {
	s := NewScalar()
	if err := s.UnmarshalBinary(reversed(le)); err != nil {
		panic("curve: failed to unmarshal canonical scalar: " + err.Error())
	}
	return s
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
