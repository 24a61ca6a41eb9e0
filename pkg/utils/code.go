package utils

import (
	"crypto/rand"
	"math/big"
)

// TournamentCodeLength is the length of public tournament codes.
const TournamentCodeLength = 8

// No 0, O, 1, I or L.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateTournamentCode returns a random uppercase code of TournamentCodeLength characters.
func GenerateTournamentCode() (string, error) {
	return GenerateCode(TournamentCodeLength)
}

// GenerateCode returns a random code of the given length drawn from codeAlphabet.
func GenerateCode(length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}
