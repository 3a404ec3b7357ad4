// Package pedersen implements Pedersen commitments over G1: binding,
// additively homomorphic commitments to a value that hide it behind a
// random blinding factor, used throughout RingCT to commit to input and
// output amounts without revealing them.
package pedersen

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/drand/kyber"

	"github.com/bochaco/sn-ringct/curve"
)

// ErrCommitmentMismatch is returned when a commitment does not open to the
// claimed value and blinding factor.
var ErrCommitmentMismatch = errors.New("pedersen: commitment does not match revealed value and blinding factor")

// RevealedCommitment is the opening of a commitment: the plaintext amount
// and the blinding factor that hides it. Never transmitted as part of a
// signature; it is the signer's private material.
type RevealedCommitment struct {
	Value    uint64
	Blinding kyber.Scalar
}

// Committer holds the two independent generators G and H a Pedersen
// commitment is built from. H is derived from G via hash-to-curve rather
// than chosen freely, so nobody — including the committer — can know a
// scalar k with H = k*G; without that guarantee a holder of such k could
// forge a commitment to an arbitrary value.
type Committer struct {
	G kyber.Point
	H kyber.Point
}

// DefaultCommitter returns the Committer every RingCT component should use
// unless a test needs to substitute its own generators.
func DefaultCommitter() Committer {
	g := curve.Generator()
	return Committer{
		G: g,
		H: curve.HashToPoint(g),
	}
}

// Commit computes C = value*G + blinding*H. value is encoded as an 8-byte
// big-endian integer rather than passed through SetInt64, since SetInt64
// takes a signed int64 and would reinterpret the top bit of any value at
// or above 2^63, silently committing to the wrong field element.
func (c Committer) Commit(value uint64, blinding kyber.Scalar) kyber.Point {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], value)
	v := curve.NewScalar().SetBytes(buf[:])
	return curve.NewPoint().Add(
		curve.NewPoint().Mul(v, c.G),
		curve.NewPoint().Mul(blinding, c.H),
	)
}

// FromReveal computes the commitment corresponding to an opening.
func (c Committer) FromReveal(r RevealedCommitment) kyber.Point {
	return c.Commit(r.Value, r.Blinding)
}

// Open verifies that commitment opens to r under c's generators.
func (c Committer) Open(commitment kyber.Point, r RevealedCommitment) error {
	if !c.FromReveal(r).Equal(commitment) {
		return ErrCommitmentMismatch
	}
	return nil
}

// Add returns the commitment to the sum of the two committed values, using
// the additive homomorphism C(v1,r1) + C(v2,r2) = C(v1+v2, r1+r2).
func Add(a, b kyber.Point) kyber.Point {
	return curve.NewPoint().Add(a, b)
}

// Sub returns the commitment to the difference of the two committed
// values, using C(v1,r1) - C(v2,r2) = C(v1-v2, r1-r2).
func Sub(a, b kyber.Point) kyber.Point {
	return curve.NewPoint().Sub(a, b)
}

// RandomBlinding samples a uniformly random blinding factor from rand.
func RandomBlinding(rand io.Reader) kyber.Scalar {
	return curve.RandomScalar(rand)
}
