// Package harness provides conformance testing for the reconciliation
// engine.
//
// The harness loads scenario files, executes them against a fresh engine,
// and validates event counts and final obligation state as executable
// contract tests.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	obligations:
//	  - id: OBL00001
//	    venue: LSE
//	    isin: US0000000001
//	    account: ACC100
//	    settle_date: 2024-03-15
//	    intended_qty: 1000
//	cycles:
//	  - messages:
//	      - msg_id: M1
//	        seq: 1
//	        code: MATCHED
//	        isin: US0000000001
//	        account: ACC100
//	        settle_date: 2024-03-15
//	        qty: 1000
//	expect:
//	  counts:
//	    state_changed: 1
//	    no_match: 0
//	  final:
//	    - id: OBL00001
//	      state: Matched
//	      settled: 0
//	      remaining: 1000
//
// Scenario files are validated twice: strict YAML decoding rejects
// unknown fields (typos), and a CUE schema rejects structurally valid
// but semantically wrong values (bad codes, negative quantities,
// malformed dates).
//
// # Deterministic Testing
//
// All obligations are created up front; each cycles entry ingests its
// messages and runs exactly one engine cycle. Message timestamps default
// to a fixed instant, so the produced trace is reproducible and can be
// compared against golden files via canonical JSON serialization.
// Running the same scenario twice produces byte-identical traces; the
// replay-determinism tests rely on this.
package harness
