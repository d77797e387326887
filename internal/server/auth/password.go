package auth

import "golang.org/x/crypto/bcrypt"

// HashCost is the bcrypt work factor for newly stored passwords.
const HashCost = 10

// HashPassword produces a salted bcrypt digest of the plaintext. The cost
// factor is embedded in the digest, so it can be raised later without
// invalidating stored hashes.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
// bcrypt's comparison does not leak timing proportional to a prefix match.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
