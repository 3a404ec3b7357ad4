// Package ringct is the orchestrator: it assembles the ring matrices for a
// confidential transaction from true inputs, decoy inputs and outputs,
// rebalances blinding factors so input and output commitments close, and
// drives one mlsag signature per true input.
package ringct

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/drand/kyber"

	"github.com/bochaco/sn-ringct/curve"
	"github.com/bochaco/sn-ringct/mlsag"
	"github.com/bochaco/sn-ringct/pedersen"
)

// ErrRaggedDecoyMatrix is returned when a row of the decoy input matrix
// does not have exactly one decoy per true input. The decoy matrix is
// indexed [ring position][input index]; every ring position must offer a
// full row of alternatives or the ring can't be assembled column-by-column.
var ErrRaggedDecoyMatrix = errors.New("ringct: every decoy row must have one entry per true input")

// ErrNoOutputs is returned when a transaction has no outputs at all; the
// blinding-factor rebalancing has nowhere to put the correction term.
var ErrNoOutputs = errors.New("ringct: at least one output is required")

// ErrBalanceMismatch is returned when the pseudo-commitments and the output
// commitments do not sum to the same point. The blinding-factor rebalancing
// makes the blinding factors cancel, so this happens when the true inputs'
// values do not sum to the outputs' amounts, or if this package's own
// arithmetic is wrong.
var ErrBalanceMismatch = errors.New("ringct: pseudo-commitment sum does not match output commitment sum")

// ErrKeyImageCountMismatch is returned by Verify when a signature does not
// carry exactly one key image per supplied ring.
var ErrKeyImageCountMismatch = errors.New("ringct: number of key images does not match number of rings")

// TrueInput is a genuine spend: the spender's secret key and the
// revealed (value, blinding) opening of the commitment it is spending.
type TrueInput struct {
	SecretKey          kyber.Scalar
	RevealedCommitment pedersen.RevealedCommitment
}

// PublicKey returns the spend public key X = x*G.
func (t TrueInput) PublicKey() kyber.Point {
	return curve.NewPoint().Mul(t.SecretKey, curve.Generator())
}

// DecoyInput is a candidate ring member that is not actually being spent:
// only its public key and commitment are known, never an opening.
type DecoyInput struct {
	PublicKey  kyber.Point
	Commitment kyber.Point
}

// Output is a transaction output: a recipient public key and the amount
// paid to it, still in the clear at this layer (commitment happens during
// Sign).
type Output struct {
	PublicKey kyber.Point
	Amount    uint64
}

// Material is the unsigned transaction material: one or more genuine
// inputs, a matrix of decoys (one row per extra ring position, one column
// per true input), and the outputs being paid.
type Material struct {
	TrueInputs  []TrueInput
	DecoyInputs [][]DecoyInput
	Outputs     []Output
}

// Signature is the aggregate RingCT signature: one MLSAG sub-signature per
// true input, each carrying its own starting challenge, response vector
// and key image.
type Signature struct {
	C0        []kyber.Scalar
	R         [][]mlsag.Response
	KeyImages []kyber.Point
}

// validate checks the structural preconditions that must hold before any
// cryptographic work begins, so malformed input fails fast and cheaply.
func (m Material) validate() error {
	for _, row := range m.DecoyInputs {
		if len(row) != len(m.TrueInputs) {
			return ErrRaggedDecoyMatrix
		}
	}
	if len(m.Outputs) == 0 {
		return ErrNoOutputs
	}
	return nil
}

// randomRingIndex picks a uniformly distributed position in [0, size) for
// the true inputs to occupy among the ring alternatives, reading entropy
// from rand.
func randomRingIndex(rand io.Reader, size int) (int, error) {
	limit := (uint64(1) << 32) / uint64(size) * uint64(size)
	var b [4]byte
	for {
		if _, err := io.ReadFull(rand, b[:]); err != nil {
			return 0, fmt.Errorf("ringct: reading randomness for ring index: %w", err)
		}
		v := uint64(binary.BigEndian.Uint32(b[:]))
		if v < limit {
			return int(v % uint64(size)), nil
		}
	}
}

// Sign builds the full ring matrices for m, rebalances blinding factors so
// the pseudo-commitments sum to the output commitments, and produces one
// MLSAG signature per true input. It returns the aggregate signature along
// with the per-input rings, which the caller must retain and supply to
// Verify unchanged.
func Sign(msg []byte, m Material, rand io.Reader) (*Signature, [][]mlsag.Position, error) {
	if err := m.validate(); err != nil {
		return nil, nil, err
	}

	committer := pedersen.DefaultCommitter()
	ringSize := len(m.DecoyInputs) + 1
	numInputs := len(m.TrueInputs)

	pi, err := randomRingIndex(rand, ringSize)
	if err != nil {
		return nil, nil, err
	}

	publicKeys := make([][]kyber.Point, ringSize)
	commitments := make([][]kyber.Point, ringSize)
	decoyRow := 0
	for n := 0; n < ringSize; n++ {
		if n == pi {
			row := make([]kyber.Point, numInputs)
			crow := make([]kyber.Point, numInputs)
			for i, in := range m.TrueInputs {
				row[i] = in.PublicKey()
				crow[i] = committer.FromReveal(in.RevealedCommitment)
			}
			publicKeys[n] = row
			commitments[n] = crow
			continue
		}
		row := make([]kyber.Point, numInputs)
		crow := make([]kyber.Point, numInputs)
		for i, d := range m.DecoyInputs[decoyRow] {
			row[i] = d.PublicKey
			crow[i] = d.Commitment
		}
		publicKeys[n] = row
		commitments[n] = crow
		decoyRow++
	}

	revealedPseudoCommitments := make([]pedersen.RevealedCommitment, numInputs)
	for i, in := range m.TrueInputs {
		revealedPseudoCommitments[i] = pedersen.RevealedCommitment{
			Value:    in.RevealedCommitment.Value,
			Blinding: pedersen.RandomBlinding(rand),
		}
	}

	revealedOutputCommitments, err := rebalanceOutputs(m.Outputs, revealedPseudoCommitments, rand)
	if err != nil {
		return nil, nil, err
	}

	if err := checkBalance(committer, revealedPseudoCommitments, revealedOutputCommitments); err != nil {
		return nil, nil, err
	}

	pseudoCommitments := make([]kyber.Point, numInputs)
	for i, r := range revealedPseudoCommitments {
		pseudoCommitments[i] = committer.FromReveal(r)
	}

	c0s := make([]kyber.Scalar, numInputs)
	rs := make([][]mlsag.Response, numInputs)
	keyImages := make([]kyber.Point, numInputs)
	rings := make([][]mlsag.Position, numInputs)

	for i, in := range m.TrueInputs {
		ring := make([]mlsag.Position, ringSize)
		for n := 0; n < ringSize; n++ {
			ring[n] = mlsag.Position{
				Key:           publicKeys[n][i],
				CommitmentKey: pedersen.Sub(commitments[n][i], pseudoCommitments[i]),
			}
		}

		secrets := mlsag.Secrets{
			Key:           in.SecretKey,
			CommitmentKey: curve.NewScalar().Sub(in.RevealedCommitment.Blinding, revealedPseudoCommitments[i].Blinding),
		}

		sig, err := mlsag.Sign(msg, ring, pi, secrets, rand)
		if err != nil {
			return nil, nil, fmt.Errorf("ringct: signing input %d: %w", i, err)
		}

		c0s[i] = sig.C0
		rs[i] = sig.R
		keyImages[i] = sig.KeyImage
		rings[i] = ring
	}

	return &Signature{C0: c0s, R: rs, KeyImages: keyImages}, rings, nil
}

// rebalanceOutputs assigns each output a revealed commitment: every output
// but the last gets a fresh random blinding factor, and the last absorbs
// whatever correction is needed so the total output blinding equals the
// total pseudo-commitment blinding, which is what makes the commitments
// balance without revealing any amount.
func rebalanceOutputs(outputs []Output, pseudoCommitments []pedersen.RevealedCommitment, rand io.Reader) ([]pedersen.RevealedCommitment, error) {
	if len(outputs) == 0 {
		return nil, ErrNoOutputs
	}

	revealed := make([]pedersen.RevealedCommitment, len(outputs))
	for i := 0; i < len(outputs)-1; i++ {
		revealed[i] = pedersen.RevealedCommitment{
			Value:    outputs[i].Amount,
			Blinding: pedersen.RandomBlinding(rand),
		}
	}

	pseudoSum := curve.NewScalar().Zero()
	for _, r := range pseudoCommitments {
		pseudoSum = curve.NewScalar().Add(pseudoSum, r.Blinding)
	}
	outputSum := curve.NewScalar().Zero()
	for i := 0; i < len(outputs)-1; i++ {
		outputSum = curve.NewScalar().Add(outputSum, revealed[i].Blinding)
	}

	correction := curve.NewScalar().Sub(pseudoSum, outputSum)
	last := len(outputs) - 1
	revealed[last] = pedersen.RevealedCommitment{
		Value:    outputs[last].Amount,
		Blinding: correction,
	}

	return revealed, nil
}

// checkBalance checks that the pseudo-commitments and the output
// commitments sum to the same point. rebalanceOutputs makes the blinding
// factors cancel, so it fails when the input values and the output amounts
// have different sums, or if this package's own arithmetic is wrong.
func checkBalance(committer pedersen.Committer, pseudo, outputs []pedersen.RevealedCommitment) error {
	pseudoSum := curve.NewPoint().Null()
	for _, r := range pseudo {
		pseudoSum = pedersen.Add(pseudoSum, committer.FromReveal(r))
	}
	outputSum := curve.NewPoint().Null()
	for _, r := range outputs {
		outputSum = pedersen.Add(outputSum, committer.FromReveal(r))
	}
	if !pseudoSum.Equal(outputSum) {
		return ErrBalanceMismatch
	}
	return nil
}

// Verify checks that every per-input MLSAG signature closes its challenge
// chain over its ring. It does not check commitment conservation between
// pseudo-commitments and output commitments: the Material that produced
// rings is discarded after signing, so a verifier only ever sees key
// images and rings, and this layer has no independent way to recompute the
// output side of the balance equation. Closing that gap needs either a
// transcript that includes the output commitments or a separate range/sum
// proof, neither of which this package currently carries.
func Verify(msg []byte, sig *Signature, rings [][]mlsag.Position) error {
	if len(sig.KeyImages) != len(rings) {
		return fmt.Errorf("%w: %d key images for %d rings", ErrKeyImageCountMismatch, len(sig.KeyImages), len(rings))
	}

	for i, ring := range rings {
		mlsagSig := &mlsag.Signature{
			C0:       sig.C0[i],
			R:        sig.R[i],
			KeyImage: sig.KeyImages[i],
		}
		if err := mlsag.Verify(msg, ring, mlsagSig); err != nil {
			return fmt.Errorf("ringct: input %d: %w", i, err)
		}
	}

	return nil
}
