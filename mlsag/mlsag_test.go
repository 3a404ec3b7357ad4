package mlsag

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bochaco/sn-ringct/curve"
	"github.com/bochaco/sn-ringct/internal/testutils"
)

func randomPosition() (Position, Secrets) {
	key := curve.RandomScalar(rand.Reader)
	commitmentKey := curve.RandomScalar(rand.Reader)
	return Position{
			Key:           curve.NewPoint().Mul(key, curve.Generator()),
			CommitmentKey: curve.NewPoint().Mul(commitmentKey, curve.Generator()),
		}, Secrets{
			Key:           key,
			CommitmentKey: commitmentKey,
		}
}

func decoyPosition() Position {
	p, _ := randomPosition()
	return p
}

func buildRing(t *testing.T, size, signerIndex int) ([]Position, Secrets) {
	t.Helper()
	require.Greater(t, size, 0)
	require.GreaterOrEqual(t, signerIndex, 0)
	require.Less(t, signerIndex, size)

	ring := make([]Position, size)
	var secrets Secrets
	for i := range ring {
		if i == signerIndex {
			pos, s := randomPosition()
			ring[i] = pos
			secrets = s
			continue
		}
		ring[i] = decoyPosition()
	}
	return ring, secrets
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	for _, size := range []int{1, 2, 5} {
		for signer := 0; signer < size; signer++ {
			ring, secrets := buildRing(t, size, signer)
			sig, err := Sign([]byte("message"), ring, signer, secrets, rand.Reader)
			require.NoError(t, err)
			require.NoError(t, Verify([]byte("message"), ring, sig))
		}
	}
}

func TestKeyImageIsDeterministicInSigner(t *testing.T) {
	ring, secrets := buildRing(t, 3, 1)
	sig1, err := Sign([]byte("m1"), ring, 1, secrets, rand.Reader)
	require.NoError(t, err)
	sig2, err := Sign([]byte("m2"), ring, 1, secrets, rand.Reader)
	require.NoError(t, err)
	testutils.AssertPointsEqual(t, "key image (must depend only on the secret key, not the message or nonces)", sig1.KeyImage, sig2.KeyImage)
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	ring, secrets := buildRing(t, 4, 2)
	sig, err := Sign([]byte("original"), ring, 2, secrets, rand.Reader)
	require.NoError(t, err)
	require.Error(t, Verify([]byte("tampered"), ring, sig))
}

func TestVerifyRejectsTamperedKeyImage(t *testing.T) {
	ring, secrets := buildRing(t, 3, 0)
	sig, err := Sign([]byte("msg"), ring, 0, secrets, rand.Reader)
	require.NoError(t, err)

	tampered := *sig
	tampered.KeyImage = curve.NewPoint().Mul(curve.RandomScalar(rand.Reader), curve.Generator())
	require.ErrorIs(t, Verify([]byte("msg"), ring, &tampered), ErrInvalidSignature)
}

func TestVerifyRejectsWrongRingSize(t *testing.T) {
	ring, secrets := buildRing(t, 3, 0)
	sig, err := Sign([]byte("msg"), ring, 0, secrets, rand.Reader)
	require.NoError(t, err)

	shortRing := ring[:len(ring)-1]
	require.ErrorIs(t, Verify([]byte("msg"), shortRing, sig), ErrRingSizeMismatch)
}

func TestSignRejectsEmptyRing(t *testing.T) {
	_, err := Sign([]byte("msg"), nil, 0, Secrets{}, rand.Reader)
	require.ErrorIs(t, err, ErrEmptyRing)
}

func TestSignRejectsOutOfRangeIndex(t *testing.T) {
	ring, secrets := buildRing(t, 2, 0)
	_, err := Sign([]byte("msg"), ring, 5, secrets, rand.Reader)
	require.ErrorIs(t, err, ErrSignerIndexOutOfRange)
}

func TestDifferentSecretKeysProduceDifferentKeyImages(t *testing.T) {
	_, s1 := randomPosition()
	_, s2 := randomPosition()
	pub := curve.NewPoint().Mul(s1.Key, curve.Generator())

	i1 := KeyImage(s1.Key, pub)
	i2 := KeyImage(s2.Key, pub)
	require.False(t, i1.Equal(i2))
}
