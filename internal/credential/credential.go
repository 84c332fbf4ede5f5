// Package credential implements the password policy inherited from the
// legacy system: a user's login secret is derived from the mother's name
// and date of birth. This is a deliberately preserved, materially weak
// scheme; it is isolated here so a stronger one can replace it without
// touching loan or extension logic. Login throttling compensates at the
// transport layer.
package credential

import "golang.org/x/crypto/bcrypt"

// DeriveSecret builds the login secret from the two profile fields:
// plain concatenation, no separator, dob in DDMMYYYY.
func DeriveSecret(motherName, dob string) string {
	return motherName + dob
}

// HashSecret returns the salted one-way hash stored for the user.
func HashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify recomputes and compares. A wrong secret is a false return,
// never an error.
func Verify(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
