package ir

// Outcome classifies how an evaluation ended.
type Outcome string

const (
	OutcomeValue  Outcome = "value"  // natural number result
	OutcomeBool   Outcome = "bool"   // comparison result
	OutcomeAbsent Outcome = "absent" // pred(0)
	OutcomeError  Outcome = "error"  // evaluation failed; ErrorCode is set
)

// ValidOutcomes defines allowed outcomes.
var ValidOutcomes = map[Outcome]bool{
	OutcomeValue:  true,
	OutcomeBool:   true,
	OutcomeAbsent: true,
	OutcomeError:  true,
}

// Evaluation is the record of one expression evaluated in a session.
type Evaluation struct {
	ID              string  `json:"id"` // Content-addressed hash
	SessionToken    string  `json:"session_token"`
	Expr            string  `json:"expr"` // Canonical form of the expression
	Outcome         Outcome `json:"outcome"`
	Result          string  `json:"result,omitempty"`     // Decimal value or "true"/"false"
	ErrorCode       string  `json:"error_code,omitempty"` // Set when Outcome is OutcomeError
	Seq             int64   `json:"seq"`                  // Logical clock
	DefinitionsHash string  `json:"definitions_hash"`
	EngineVersion   string  `json:"engine_version"`
	IRVersion       string  `json:"ir_version"`
}

// Canonical returns the fields that describe the evaluation's behavior,
// suitable for MarshalCanonical. Version fields are excluded so traces stay
// stable across engine upgrades.
func (e Evaluation) Canonical() Object {
	obj := Object{
		"expr":    String(e.Expr),
		"outcome": String(e.Outcome),
		"seq":     Int(e.Seq),
	}
	if e.Result != "" {
		obj["result"] = String(e.Result)
	}
	if e.ErrorCode != "" {
		obj["error_code"] = String(e.ErrorCode)
	}
	return obj
}

// SameOutcome reports whether two evaluations ended the same way.
func (e Evaluation) SameOutcome(other Evaluation) bool {
	return e.Outcome == other.Outcome && e.Result == other.Result && e.ErrorCode == other.ErrorCode
}

// Definition is a named binding compiled from a definition spec.
type Definition struct {
	Name   string `json:"name"`
	Source string `json:"source"` // Expression or literal as written
	Value  string `json:"value"`  // Decimal value
}
