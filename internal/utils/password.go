package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash of the plaintext for storage. The cost
// follows the library default and is embedded in the hash, so stored hashes
// stay verifiable if the default moves.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext matches the stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
