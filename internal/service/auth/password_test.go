package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestCredentialService(t *testing.T) *BcryptCredentialService {
	t.Helper()
	pool := NewHashPool(HashPoolConfig{WorkerCount: 2}, nil)
	pool.Start()
	t.Cleanup(pool.Stop)
	return NewBcryptCredentialService(bcrypt.MinCost, pool)
}

func TestCredentialService_HashAndVerify(t *testing.T) {
	t.Parallel()
	svc := newTestCredentialService(t)
	ctx := context.Background()

	digest, err := svc.Hash(ctx, "secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", digest)
	assert.NotContains(t, digest, "secret123")

	ok, err := svc.Verify(ctx, "secret123", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, wrong := range []string{"secret124", "Secret123", "secret12", "secret1234", ""} {
		ok, err := svc.Verify(ctx, wrong, digest)
		require.NoError(t, err, "mismatch is not an error")
		assert.False(t, ok, "password %q must not verify", wrong)
	}
}

func TestCredentialService_SaltsEachHash(t *testing.T) {
	t.Parallel()
	svc := newTestCredentialService(t)

	first, err := svc.Hash(context.Background(), "secret123")
	require.NoError(t, err)
	second, err := svc.Hash(context.Background(), "secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCredentialService_MalformedDigest(t *testing.T) {
	t.Parallel()
	svc := newTestCredentialService(t)

	ok, err := svc.Verify(context.Background(), "secret123", "not-a-bcrypt-digest")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialService_CryptoError(t *testing.T) {
	t.Parallel()
	svc := newTestCredentialService(t)

	_, err := svc.Hash(context.Background(), strings.Repeat("x", 100))
	assert.ErrorIs(t, err, ErrCrypto)
}

func TestNewBcryptCredentialService_CostFallback(t *testing.T) {
	t.Parallel()
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptCredentialService(2, nil).Cost())
	assert.Equal(t, 12, NewBcryptCredentialService(12, nil).Cost())
}

func TestHashPool_BoundsConcurrency(t *testing.T) {
	t.Parallel()
	pool := NewHashPool(HashPoolConfig{WorkerCount: 2}, nil)
	pool.Start()
	defer pool.Stop()

	var mu sync.Mutex
	running, peak := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pool.Run(context.Background(), func() {
				mu.Lock()
				running++
				if running > peak {
					peak = running
				}
				mu.Unlock()
				time.Sleep(10 * time.Millisecond)
				mu.Lock()
				running--
				mu.Unlock()
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak, 2)
}

func TestHashPool_ContextAndStop(t *testing.T) {
	t.Parallel()
	pool := NewHashPool(HashPoolConfig{WorkerCount: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pool.Run(ctx, func() {})
	assert.ErrorIs(t, err, context.Canceled, "no worker started, cancelled ctx wins")

	pool.Start()
	pool.Stop()
	err = pool.Run(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestHashPool_SurvivesPanics(t *testing.T) {
	t.Parallel()
	pool := NewHashPool(HashPoolConfig{WorkerCount: 1}, nil)
	pool.Start()
	defer pool.Stop()

	require.NoError(t, pool.Run(context.Background(), func() { panic("boom") }))

	ran := false
	require.NoError(t, pool.Run(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}
