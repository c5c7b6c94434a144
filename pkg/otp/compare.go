package otp

import "crypto/subtle"

// TimingSafeEquals reports whether a and b hold the same bytes. Inputs of
// different length return false at once; otherwise every byte pair is
// compared, so the running time does not depend on where they differ.
func TimingSafeEquals(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

func timingSafeEqualString(a, b string) bool {
	return TimingSafeEquals([]byte(a), []byte(b))
}
