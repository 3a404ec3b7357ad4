package curve

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bochaco/sn-ringct/internal/testutils"
)

func TestRandomScalarIsNonZero(t *testing.T) {
	s := RandomScalar(rand.Reader)
	require.False(t, s.Equal(NewScalar()))
}

func TestPointRoundTrip(t *testing.T) {
	p := Generator()
	encoded := PointToBytes(p)
	require.Len(t, encoded, PointLen)

	decoded, err := PointFromBytes(encoded)
	require.NoError(t, err)
	testutils.AssertPointsEqual(t, "point round-tripped through compressed encoding", p, decoded)
}

func TestScalarRoundTrip(t *testing.T) {
	s := RandomScalar(rand.Reader)
	decoded := ScalarFromCanonicalBytes(ScalarToBytes(s))
	testutils.AssertScalarsEqual(t, "scalar round-tripped through canonical encoding", s, decoded)
}

func TestHashToPointDomainsDiffer(t *testing.T) {
	p := Generator()
	generic := HashToPoint(p)
	sig := HashToPointForSignature(p)
	require.False(t, generic.Equal(sig), "the two hash-to-curve oracles must not collide")
}

func TestHashToPointDeterministic(t *testing.T) {
	p := Generator()
	require.True(t, HashToPoint(p).Equal(HashToPoint(p)))
}
