// Package crypto implements server-side password hashing and verification.
package crypto

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor for new hashes. DefaultCost (10) keeps login
// latency in the tens of milliseconds on current hardware.
const bcryptCost = bcrypt.DefaultCost

// HashPassword returns a bcrypt digest of password. The per-password salt is
// generated internally and embedded in the digest.
func HashPassword(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, bcryptCost)
}

// VerifyPassword reports whether password matches the stored bcrypt digest.
// The comparison is constant-time inside bcrypt.
func VerifyPassword(password, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}
