package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainEvaluation  = "peano/evaluation/v1"
	DomainDefinitions = "peano/definitions/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EvaluationID computes the content-addressed ID of an evaluation.
// The ID covers what was asked (session, expression, definitions, seq), not
// the outcome: replaying the same request must reproduce the same ID so the
// stored outcome can be compared against the recomputed one.
func EvaluationID(sessionToken, expr, definitionsHash string, seq int64) (string, error) {
	obj := Object{
		"session_token":    String(sessionToken),
		"expr":             String(expr),
		"definitions_hash": String(definitionsHash),
		"seq":              Int(seq),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("EvaluationID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainEvaluation, canonical), nil
}

// DefinitionsHash computes the hash of a set of named bindings, given as
// name -> decimal value. An empty set hashes to a fixed value.
func DefinitionsHash(bindings map[string]string) (string, error) {
	obj := make(Object, len(bindings))
	for k, v := range bindings {
		obj[k] = String(v)
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("DefinitionsHash: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainDefinitions, canonical), nil
}

// MustEvaluationID is like EvaluationID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustEvaluationID(sessionToken, expr, definitionsHash string, seq int64) string {
	id, err := EvaluationID(sessionToken, expr, definitionsHash, seq)
	if err != nil {
		panic(err)
	}
	return id
}
