package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
)

// rsaKeyFromJWK decodes the base64url modulus and exponent of a JWK. An
// empty exponent means 65537.
func rsaKeyFromJWK(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("bad jwks.n: %w", err)
	}
	if len(nb) == 0 {
		return nil, fmt.Errorf("bad jwks.n: empty modulus")
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("bad jwks.e: %w", err)
	}
	exp := new(big.Int).SetBytes(eb)
	if exp.Sign() == 0 {
		exp.SetInt64(65537)
	}
	if !exp.IsInt64() || exp.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("bad jwks.e: exponent too large")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: int(exp.Int64())}, nil
}
