package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/settlerec/settlerec/internal/domain"
	"github.com/settlerec/settlerec/internal/testutil"
)

// Scenario defines one conformance test scenario.
type Scenario struct {
	// Name uniquely identifies the scenario; it is also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Obligations are created, in order, before the first cycle.
	Obligations []ObligationSpec `yaml:"obligations"`

	// Cycles each ingest their messages and run exactly one engine cycle.
	Cycles []CycleSpec `yaml:"cycles"`

	// Expect validates event counts and final obligation snapshots.
	// If nil, only golden comparison applies.
	Expect *Expect `yaml:"expect,omitempty"`
}

// ObligationSpec is one obligation creation.
type ObligationSpec struct {
	ID          string `yaml:"id"`
	Venue       string `yaml:"venue"`
	ISIN        string `yaml:"isin"`
	Account     string `yaml:"account"`
	SettleDate  string `yaml:"settle_date"`
	IntendedQty int64  `yaml:"intended_qty"`
}

// CycleSpec is one engine cycle and the messages ingested before it.
type CycleSpec struct {
	Messages []MessageSpec `yaml:"messages"`
}

// MessageSpec is one status message.
type MessageSpec struct {
	MsgID      string `yaml:"msg_id"`
	Seq        int64  `yaml:"seq"`
	Code       string `yaml:"code"`
	ISIN       string `yaml:"isin"`
	Account    string `yaml:"account"`
	SettleDate string `yaml:"settle_date"`
	Qty        int64  `yaml:"qty"`

	// At is an optional RFC 3339 timestamp; defaults to the fixed
	// deterministic instant.
	At string `yaml:"at,omitempty"`
}

// Expect validates the outcome of a scenario.
type Expect struct {
	Counts *ExpectCounts      `yaml:"counts,omitempty"`
	Final  []ExpectFinalState `yaml:"final,omitempty"`
}

// ExpectCounts asserts per-kind event counts across all cycles.
// Nil fields are not asserted.
type ExpectCounts struct {
	StateChanged      *int `yaml:"state_changed,omitempty"`
	NoMatch           *int `yaml:"no_match,omitempty"`
	DuplicateIgnored  *int `yaml:"duplicate_ignored,omitempty"`
	OutOfOrderIgnored *int `yaml:"out_of_order_ignored,omitempty"`
}

// ExpectFinalState asserts the final snapshot of one obligation.
// Nil fields are not asserted.
type ExpectFinalState struct {
	ID        string  `yaml:"id"`
	State     *string `yaml:"state,omitempty"`
	Settled   *int64  `yaml:"settled,omitempty"`
	Remaining *int64  `yaml:"remaining,omitempty"`
}

// LoadScenario reads, schema-validates and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML bytes.
//
// Validation is layered: the CUE schema first (structural and value
// constraints with decent messages), then strict YAML decoding (rejects
// unknown fields, so typos like "expects:" fail loudly).
func ParseScenario(data []byte) (*Scenario, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}
	return &scenario, nil
}

// obligation converts the spec to its domain form.
// The schema has already validated field shapes.
func (o ObligationSpec) obligation() (domain.NewObligation, error) {
	date, err := domain.ParseDate(o.SettleDate)
	if err != nil {
		return domain.NewObligation{}, err
	}
	return domain.NewObligation{
		ID:    o.ID,
		Venue: o.Venue,
		Key: domain.MatchKey{
			ISIN:       o.ISIN,
			Account:    o.Account,
			SettleDate: date,
		},
		IntendedQty: o.IntendedQty,
	}, nil
}

// message converts the spec to its domain form.
func (m MessageSpec) message() (domain.StatusMessage, error) {
	code, err := domain.ParseStatusCode(m.Code)
	if err != nil {
		return domain.StatusMessage{}, err
	}
	date, err := domain.ParseDate(m.SettleDate)
	if err != nil {
		return domain.StatusMessage{}, err
	}
	at := testutil.FixedInstant
	if m.At != "" {
		at, err = time.Parse(time.RFC3339, m.At)
		if err != nil {
			return domain.StatusMessage{}, fmt.Errorf("invalid timestamp %q: %w", m.At, err)
		}
	}
	return domain.StatusMessage{
		MessageID: m.MsgID,
		Seq:       m.Seq,
		Code:      code,
		Key: domain.MatchKey{
			ISIN:       m.ISIN,
			Account:    m.Account,
			SettleDate: date,
		},
		Quantity: m.Qty,
		At:       at,
	}, nil
}
