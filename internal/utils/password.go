package utils

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes and verifies account passwords with bcrypt.
// The cost is fixed at construction from configuration, so every
// credential in the system is hashed at the same strength and the
// repositories never see a plaintext password.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher at the given bcrypt cost.
// Out-of-range costs are clamped so a misconfigured deployment
// degrades to a sane strength instead of failing every registration.
func NewPasswordHasher(cost int) *PasswordHasher {
	switch {
	case cost < bcrypt.MinCost:
		cost = bcrypt.DefaultCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of a plaintext password.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches the stored hash.  Comparison
// is constant-time inside bcrypt.
func (h *PasswordHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
