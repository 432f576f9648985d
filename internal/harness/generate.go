package harness

import (
	"fmt"
	"math/rand"

	"github.com/settlerec/settlerec/internal/domain"
	"github.com/settlerec/settlerec/internal/feed"
	"github.com/settlerec/settlerec/internal/testutil"
)

var (
	venues       = []string{"LSE", "NYSE", "XETRA"}
	quantities   = []int64{100, 200, 500, 1000}
	isinAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateOptions controls deterministic dataset generation.
type GenerateOptions struct {
	// Obligations is the number of obligations to create. Each receives
	// a primary MATCHED status message with seq 1.
	Obligations int

	// StatusEvents is the total number of genuine status messages.
	// When it exceeds Obligations, additional lifecycle events
	// (PARTIAL_SETTLED, SETTLED, ACK in rotation) are spread over
	// randomly chosen obligations with incrementing sequence numbers.
	// Values below Obligations are raised to Obligations.
	StatusEvents int

	// Duplicates is the number of exact message copies appended on top
	// of StatusEvents.
	Duplicates int

	// Unmatches is the number of messages whose key matches no
	// obligation.
	Unmatches int

	// Seed drives all randomness. The same options always produce the
	// same dataset.
	Seed int64

	// Shuffle randomizes message order to simulate arrival variance.
	// With additional lifecycle events this can turn later-sequenced
	// messages into out-of-order rejections, so Expected counts are
	// only exact when Shuffle is false or StatusEvents == Obligations.
	Shuffle bool
}

// ExpectedCounts are the event counts a generated dataset must produce
// when run through the engine.
type ExpectedCounts struct {
	// MatchedObligations is the number of StateChanged events with
	// target state Matched.
	MatchedObligations int
	NoMatch            int
	DuplicateIgnored   int
}

// Dataset is a generated obligation/message workload.
type Dataset struct {
	Obligations []domain.NewObligation
	Messages    []domain.StatusMessage
	Expected    ExpectedCounts
}

// Generate builds a deterministic dataset from options.
func Generate(opts GenerateOptions) *Dataset {
	rng := rand.New(rand.NewSource(opts.Seed))
	if opts.StatusEvents < opts.Obligations {
		opts.StatusEvents = opts.Obligations
	}

	obligations := make([]domain.NewObligation, opts.Obligations)
	for i := range obligations {
		obligations[i] = domain.NewObligation{
			ID:    fmt.Sprintf("OBL%05d", i+1),
			Venue: venues[rng.Intn(len(venues))],
			Key: domain.MatchKey{
				ISIN:       fmt.Sprintf("US%010d", rng.Int63n(10000000000)),
				Account:    fmt.Sprintf("ACC%d", 100+rng.Intn(900)),
				SettleDate: randomDate(rng),
			},
			IntendedQty: quantities[rng.Intn(len(quantities))],
		}
	}

	// Primary MATCHED message per obligation, then additional lifecycle
	// events over random obligations until StatusEvents is reached.
	messages := make([]domain.StatusMessage, 0, opts.StatusEvents+opts.Duplicates+opts.Unmatches)
	lastSeq := make(map[string]int64, len(obligations))
	for _, ob := range obligations {
		messages = append(messages, domain.StatusMessage{
			MessageID: "M_" + ob.ID,
			Seq:       1,
			Code:      domain.CodeMatched,
			Key:       ob.Key,
			Quantity:  ob.IntendedQty,
			At:        testutil.FixedInstant,
		})
		lastSeq[ob.ID] = 1
	}
	for i := 0; i < opts.StatusEvents-opts.Obligations; i++ {
		ob := obligations[rng.Intn(len(obligations))]
		seq := lastSeq[ob.ID] + 1
		lastSeq[ob.ID] = seq
		msg := domain.StatusMessage{
			MessageID: "M_" + ob.ID,
			Seq:       seq,
			Key:       ob.Key,
			At:        testutil.FixedInstant,
		}
		switch i % 3 {
		case 0:
			msg.Code = domain.CodePartialSettled
			msg.Quantity = ob.IntendedQty / 4
		case 1:
			msg.Code = domain.CodeSettled
			msg.Quantity = ob.IntendedQty
		default:
			msg.Code = domain.CodeAck
			msg.Quantity = ob.IntendedQty
		}
		messages = append(messages, msg)
	}

	// Exact copies of sampled messages. Order relative to the original
	// does not matter: identical (msgId, seq) pairs are idempotent.
	if opts.Duplicates > 0 {
		k := opts.Duplicates
		if k > len(messages) {
			k = len(messages)
		}
		for _, idx := range rng.Perm(len(messages))[:k] {
			messages = append(messages, messages[idx])
		}
	}

	// Fake keys matching no obligation.
	for i := 0; i < opts.Unmatches; i++ {
		messages = append(messages, domain.StatusMessage{
			MessageID: fmt.Sprintf("M_FAKE%d", i+1),
			Seq:       1,
			Code:      domain.CodeMatched,
			Key: domain.MatchKey{
				ISIN:       randomISIN(rng),
				Account:    fmt.Sprintf("ACC%d", 1000+i),
				SettleDate: randomDate(rng),
			},
			Quantity: quantities[rng.Intn(len(quantities))],
			At:       testutil.FixedInstant,
		})
	}

	if opts.Shuffle {
		rng.Shuffle(len(messages), func(i, j int) {
			messages[i], messages[j] = messages[j], messages[i]
		})
	}

	dups := opts.Duplicates
	if dups > opts.StatusEvents {
		dups = opts.StatusEvents
	}
	return &Dataset{
		Obligations: obligations,
		Messages:    messages,
		Expected: ExpectedCounts{
			MatchedObligations: opts.Obligations,
			NoMatch:            opts.Unmatches,
			DuplicateIgnored:   dups,
		},
	}
}

// WriteRuntime truncates the runtime queue files and writes the dataset
// in feed wire format.
func (d *Dataset) WriteRuntime(rt *feed.Runtime) error {
	if err := rt.Reset(); err != nil {
		return err
	}
	for _, ob := range d.Obligations {
		if err := feed.AppendBank(rt, ob); err != nil {
			return err
		}
	}
	for _, msg := range d.Messages {
		if err := feed.AppendMarket(rt, msg); err != nil {
			return err
		}
	}
	return nil
}

func randomDate(rng *rand.Rand) domain.Date {
	return domain.Date(fmt.Sprintf("2024-%02d-%02d", 1+rng.Intn(12), 1+rng.Intn(28)))
}

func randomISIN(rng *rand.Rand) string {
	b := make([]byte, 12)
	for i := range b {
		b[i] = isinAlphabet[rng.Intn(len(isinAlphabet))]
	}
	return string(b)
}
