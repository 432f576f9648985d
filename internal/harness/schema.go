package harness

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// scenarioSchema is the CUE definition every scenario file must satisfy.
// It complements strict YAML decoding with value constraints: valid
// status codes, ISO dates, non-negative quantities, positive sequence
// numbers.
const scenarioSchema = `
#Date: =~"^[0-9]{4}-[0-9]{2}-[0-9]{2}$"

#Obligation: {
	id:           string & !=""
	venue:        string & !=""
	isin:         string & !=""
	account:      string & !=""
	settle_date:  #Date
	intended_qty: int & >=0
}

#Message: {
	msg_id:      string & !=""
	seq:         int & >0
	code:        "ACK" | "MATCHED" | "PARTIAL_SETTLED" | "SETTLED"
	isin:        string & !=""
	account:     string & !=""
	settle_date: #Date
	qty:         int
	at?:         string & !=""
}

#Cycle: {
	messages: [...#Message]
}

#Counts: {
	state_changed?:        int & >=0
	no_match?:             int & >=0
	duplicate_ignored?:    int & >=0
	out_of_order_ignored?: int & >=0
}

#Final: {
	id:         string & !=""
	state?:     "New" | "Matched" | "PartiallySettled" | "Settled"
	settled?:   int
	remaining?: int
}

#Expect: {
	counts?: #Counts
	final?: [...#Final]
}

#Scenario: {
	name:         =~"^[a-z][a-z0-9_]*$"
	description?: string
	obligations: [...#Obligation]
	cycles: [...#Cycle]
	expect?: #Expect
}
`

// ValidateSchema checks raw scenario YAML against the CUE schema.
// Returns a detailed, positioned error list on failure.
func ValidateSchema(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(scenarioSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Scenario: %w", err)
	}

	val := ctx.Encode(raw)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode scenario value: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("schema violation:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}
