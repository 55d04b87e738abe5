// Package harness runs expression scenarios and checks their traces.
//
// A scenario is a YAML file listing expressions with expected outcomes,
// optional CUE definition specs, and assertions over the resulting trace:
//
//	name: arithmetic
//	description: Addition and ordering
//	specs: [../specs/numbers.cue]
//	session_token: arithmetic-session
//	cases:
//	  - expr: "one + two"
//	    expect: { value: 3 }
//	  - expr: "two < one"
//	    expect: { bool: false }
//	assertions:
//	  - type: trace_count
//	    count: 2
//
// Each scenario runs through the real engine against a fresh in-memory store,
// with a deterministic clock and a fixed session token, so the same scenario
// always produces the same trace. After the cases run, the recorded session
// is replayed and any record that does not reproduce fails the scenario.
//
// Golden files (testdata/golden/<name>.golden) hold the canonical JSON trace;
// regenerate them with:
//
//	go test ./internal/harness -update
package harness
