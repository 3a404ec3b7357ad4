package pedersen

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bochaco/sn-ringct/curve"
)

func TestCommitOpensToItsReveal(t *testing.T) {
	c := DefaultCommitter()
	reveal := RevealedCommitment{Value: 42, Blinding: curve.RandomScalar(rand.Reader)}
	commitment := c.FromReveal(reveal)
	require.NoError(t, c.Open(commitment, reveal))
}

func TestOpenRejectsWrongValue(t *testing.T) {
	c := DefaultCommitter()
	reveal := RevealedCommitment{Value: 42, Blinding: curve.RandomScalar(rand.Reader)}
	commitment := c.FromReveal(reveal)

	wrong := RevealedCommitment{Value: 43, Blinding: reveal.Blinding}
	require.ErrorIs(t, c.Open(commitment, wrong), ErrCommitmentMismatch)
}

func TestHomomorphicAdd(t *testing.T) {
	c := DefaultCommitter()
	a := RevealedCommitment{Value: 10, Blinding: curve.RandomScalar(rand.Reader)}
	b := RevealedCommitment{Value: 5, Blinding: curve.RandomScalar(rand.Reader)}

	sum := Add(c.FromReveal(a), c.FromReveal(b))
	expected := RevealedCommitment{
		Value:    15,
		Blinding: curve.NewScalar().Add(a.Blinding, b.Blinding),
	}
	require.True(t, sum.Equal(c.FromReveal(expected)))
}

func TestHomomorphicSub(t *testing.T) {
	c := DefaultCommitter()
	a := RevealedCommitment{Value: 10, Blinding: curve.RandomScalar(rand.Reader)}
	b := RevealedCommitment{Value: 5, Blinding: curve.RandomScalar(rand.Reader)}

	diff := Sub(c.FromReveal(a), c.FromReveal(b))
	expected := RevealedCommitment{
		Value:    5,
		Blinding: curve.NewScalar().Sub(a.Blinding, b.Blinding),
	}
	require.True(t, diff.Equal(c.FromReveal(expected)))
}

func TestGeneratorsAreIndependent(t *testing.T) {
	c := DefaultCommitter()
	require.False(t, c.G.Equal(c.H), "G and H must be distinct generators")
}
