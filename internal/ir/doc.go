// Package ir provides the record types shared by the engine, store and harness.
//
// This package contains type definitions, canonical JSON serialization and
// content-addressed identity. Other internal packages import ir; ir imports
// nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - numbers are int64 or decimal strings
//   - Logical clocks (seq) only, never wall-clock timestamps
//   - All JSON tags use snake_case
//   - IDs are SHA-256 over domain-prefixed RFC 8785 canonical JSON
package ir
