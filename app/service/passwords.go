package service

import "golang.org/x/crypto/bcrypt"

func hashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// verifyPassword reports whether password matches digest. A malformed digest
// counts as a mismatch, never an error, so callers cannot distinguish the two.
func verifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
