// Package mlsag implements a two-column Multilayered Linkable Spontaneous
// Anonymous Group signature: given a ring of candidate (public key,
// commitment-difference) pairs, it proves knowledge of the secret keys
// behind one ring position without revealing which, and produces a key
// image that lets two signatures from the same true key be linked without
// identifying the key itself.
//
// This is the inner signing primitive RingCT's orchestrator calls once per
// input; it has no notion of amounts, balance, or transaction structure.
package mlsag

import (
	"errors"
	"fmt"
	"io"

	"github.com/drand/kyber"

	"github.com/bochaco/sn-ringct/curve"
	"github.com/bochaco/sn-ringct/hashing"
)

// ErrEmptyRing is returned when a ring has no positions.
var ErrEmptyRing = errors.New("mlsag: ring must contain at least one position")

// ErrSignerIndexOutOfRange is returned when the claimed true-signer
// position does not address a ring position.
var ErrSignerIndexOutOfRange = errors.New("mlsag: signer index out of range for ring")

// ErrRingSizeMismatch is returned by Verify when a signature's response
// vector does not have one entry per ring position.
var ErrRingSizeMismatch = errors.New("mlsag: response vector length does not match ring size")

// ErrInvalidSignature is returned by Verify when the reconstructed
// challenge chain does not close back on the committed c0.
var ErrInvalidSignature = errors.New("mlsag: challenge chain does not close")

// ErrKeyImageInvalid is returned by Verify when the signature's key image
// is not a valid, canonically-encoded point in the correct subgroup.
var ErrKeyImageInvalid = errors.New("mlsag: key image is not a valid curve point")

// Position is a single ring entry: a spend public key and the
// corresponding commitment-difference public key (commitment minus the
// pseudo-commitment for this input, already collapsed into a second
// "key" column by the caller). MLSAG is agnostic to what the columns
// mean; it only needs each to behave like a Schnorr public key with a
// known discrete log at the true-signer position.
type Position struct {
	Key           kyber.Point
	CommitmentKey kyber.Point
}

// Secrets holds the true signer's two discrete logs, one per column of
// Position, known only for the ring's true-signer index.
type Secrets struct {
	Key           kyber.Scalar
	CommitmentKey kyber.Scalar
}

// Signature is a two-column MLSAG signature: a single starting challenge,
// one response pair per ring position, and the key image that binds the
// signature to its true signing key for double-spend linkage.
type Signature struct {
	C0       kyber.Scalar
	R        []Response
	KeyImage kyber.Point
}

// Response is the pair of response scalars for one ring position.
type Response struct {
	Key           kyber.Scalar
	CommitmentKey kyber.Scalar
}

// KeyImage computes I = x * Hp(X), the key image for a spend key pair
// (x, X=xG). Two signatures sharing a key image were produced by the same
// secret key, regardless of which ring position each used.
func KeyImage(secretKey kyber.Scalar, publicKey kyber.Point) kyber.Point {
	hp := curve.HashToPointForSignature(publicKey)
	return curve.NewPoint().Mul(secretKey, hp)
}

// Sign produces an MLSAG signature over msg for the ring, proving
// knowledge of secrets at position signerIndex without revealing it.
// rand supplies all randomness (the nonces alpha and the non-signer
// response scalars); callers wanting deterministic tests can substitute a
// fixed stream.
func Sign(msg []byte, ring []Position, signerIndex int, secrets Secrets, rand io.Reader) (*Signature, error) {
	n := len(ring)
	if n == 0 {
		return nil, ErrEmptyRing
	}
	if signerIndex < 0 || signerIndex >= n {
		return nil, ErrSignerIndexOutOfRange
	}

	keyImage := KeyImage(secrets.Key, ring[signerIndex].Key)

	alphaKey := curve.RandomScalar(rand)
	alphaCommitment := curve.RandomScalar(rand)

	r := make([]Response, n)
	for i := range r {
		r[i] = Response{
			Key:           curve.RandomScalar(rand),
			CommitmentKey: curve.RandomScalar(rand),
		}
	}

	c := make([]kyber.Scalar, n)
	for i := range c {
		c[i] = curve.NewScalar()
	}

	g := curve.Generator()

	next, err := challenge(msg,
		curve.NewPoint().Mul(alphaKey, g),
		curve.NewPoint().Mul(alphaCommitment, g),
		curve.NewPoint().Mul(alphaKey, curve.HashToPointForSignature(ring[signerIndex].Key)),
	)
	if err != nil {
		return nil, err
	}
	c[(signerIndex+1)%n] = next

	for offset := 1; offset < n; offset++ {
		i := (signerIndex + offset) % n
		l1 := pointAddMul(g, r[i].Key, ring[i].Key, c[i])
		l2 := pointAddMul(g, r[i].CommitmentKey, ring[i].CommitmentKey, c[i])
		hp := curve.HashToPointForSignature(ring[i].Key)
		l3 := pointAddMul(hp, r[i].Key, keyImage, c[i])

		next, err := challenge(msg, l1, l2, l3)
		if err != nil {
			return nil, err
		}
		c[(i+1)%n] = next
	}

	r[signerIndex] = Response{
		Key:           curve.NewScalar().Sub(alphaKey, curve.NewScalar().Mul(c[signerIndex], secrets.Key)),
		CommitmentKey: curve.NewScalar().Sub(alphaCommitment, curve.NewScalar().Mul(c[signerIndex], secrets.CommitmentKey)),
	}

	return &Signature{
		C0:       c[0],
		R:        r,
		KeyImage: keyImage,
	}, nil
}

// Verify reports whether sig is a valid MLSAG signature over msg for ring,
// i.e. whether re-deriving the challenge chain from sig.C0 around the
// entire ring arrives back at sig.C0.
func Verify(msg []byte, ring []Position, sig *Signature) error {
	n := len(ring)
	if n == 0 {
		return ErrEmptyRing
	}
	if len(sig.R) != n {
		return ErrRingSizeMismatch
	}
	if _, err := curve.PointFromBytes(curve.PointToBytes(sig.KeyImage)); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyImageInvalid, err)
	}

	g := curve.Generator()
	cPrime := make([]kyber.Scalar, n)
	cPrime[0] = sig.C0

	for i, pos := range ring {
		l1 := pointAddMul(g, sig.R[i].Key, pos.Key, cPrime[i])
		l2 := pointAddMul(g, sig.R[i].CommitmentKey, pos.CommitmentKey, cPrime[i])
		hp := curve.HashToPointForSignature(pos.Key)
		l3 := pointAddMul(hp, sig.R[i].Key, sig.KeyImage, cPrime[i])

		next, err := challenge(msg, l1, l2, l3)
		if err != nil {
			return err
		}

		j := (i + 1) % n
		if j == 0 {
			if !next.Equal(sig.C0) {
				return fmt.Errorf("%w", ErrInvalidSignature)
			}
		} else {
			cPrime[j] = next
		}
	}

	return nil
}

// pointAddMul returns base*scalar + point*coeff, the "g*r + P*c" shape that
// recurs throughout the challenge chain.
func pointAddMul(base kyber.Point, scalar kyber.Scalar, point kyber.Point, coeff kyber.Scalar) kyber.Point {
	return curve.NewPoint().Add(
		curve.NewPoint().Mul(scalar, base),
		curve.NewPoint().Mul(coeff, point),
	)
}

// challenge is the Fiat-Shamir step binding the message to the three
// commitments produced at a ring position, closing the challenge chain
// around the ring one link at a time.
func challenge(msg []byte, l1, l2, l3 kyber.Point) (kyber.Scalar, error) {
	return hashing.ChallengeHash(msg, l1, l2, l3)
}
