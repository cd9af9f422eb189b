package auth

import "golang.org/x/crypto/bcrypt"

// HashCost matches bcrypt.DefaultCost; kept explicit because stored hashes
// embed it and changing it only affects new hashes.
const HashCost = 10

func GeneratePasswordHash(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}

	return string(hashedPassword), nil
}

// ComparePasswordHash returns a non-nil error on mismatch. A corrupt
// stored hash also reports as a mismatch rather than a distinct failure.
func ComparePasswordHash(hashedPassword []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hashedPassword, []byte(password))
}
