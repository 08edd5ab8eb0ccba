package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateCode returns n random bytes hex encoded in upper case.
func GenerateCode(n int) (string, error) {
	byt := make([]byte, n)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(byt)), nil
}

// RequestID is used as the request id generator for the HTTP server.
func RequestID() string {
	code, err := GenerateCode(8)
	if err != nil {
		return "UNKNOWN"
	}
	return code
}
