package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialService hashes and verifies passwords. Plaintext is never stored or returned.
type CredentialService interface {
	// Hash returns a salted bcrypt digest of plaintext.
	// A failure of the primitive is reported as ErrCrypto.
	Hash(ctx context.Context, plaintext string) (string, error)

	// Verify reports whether plaintext matches digest. A mismatch is (false, nil);
	// an error is returned only when the work could not run (cancelled context,
	// stopped pool).
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}

// BcryptCredentialService implements CredentialService with bcrypt on a HashPool.
type BcryptCredentialService struct {
	cost int
	pool *HashPool
}

// Ensure BcryptCredentialService implements CredentialService interface
var _ CredentialService = (*BcryptCredentialService)(nil)

// NewBcryptCredentialService creates a credential service hashing at cost.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewBcryptCredentialService(cost int, pool *HashPool) *BcryptCredentialService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCredentialService{cost: cost, pool: pool}
}

// Hash implements CredentialService.Hash
func (s *BcryptCredentialService) Hash(ctx context.Context, plaintext string) (string, error) {
	var digest []byte
	hashErr := ErrCrypto

	if err := s.pool.Run(ctx, func() {
		digest, hashErr = bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	}); err != nil {
		return "", err
	}
	if hashErr != nil {
		return "", fmt.Errorf("%w: %v", ErrCrypto, hashErr)
	}
	return string(digest), nil
}

// Verify implements CredentialService.Verify
// bcrypt.CompareHashAndPassword compares in constant time.
func (s *BcryptCredentialService) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	compareErr := ErrCrypto

	if err := s.pool.Run(ctx, func() {
		compareErr = bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	}); err != nil {
		return false, err
	}

	// Mismatches and malformed stored digests both mean "no match".
	return compareErr == nil, nil
}

// Cost returns the bcrypt work factor in use.
func (s *BcryptCredentialService) Cost() int {
	return s.cost
}
