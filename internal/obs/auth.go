package obs

import (
	"crypto/sha256"
	"encoding/base64"
)

// authenticationString answers a Hello challenge:
// base64(sha256(base64(sha256(password + salt)) + challenge))
func authenticationString(password string, challenge AuthenticationChallenge) string {
	secret := sha256.Sum256([]byte(password + challenge.Salt))
	secretB64 := base64.StdEncoding.EncodeToString(secret[:])
	auth := sha256.Sum256([]byte(secretB64 + challenge.Challenge))
	return base64.StdEncoding.EncodeToString(auth[:])
}
