package feed

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/settlerec/settlerec/internal/domain"
)

// ParseBankLine parses one obligation-creation line:
//
//	id,venue,isin,account,settleDate,intendedQty
func ParseBankLine(line string) (domain.NewObligation, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 6 {
		return domain.NewObligation{}, fmt.Errorf("bank line has %d fields, want 6", len(fields))
	}
	date, err := domain.ParseDate(fields[4])
	if err != nil {
		return domain.NewObligation{}, err
	}
	qty, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil {
		return domain.NewObligation{}, fmt.Errorf("invalid intended quantity %q: %w", fields[5], err)
	}
	if qty < 0 {
		return domain.NewObligation{}, fmt.Errorf("negative intended quantity %d", qty)
	}
	return domain.NewObligation{
		ID:    fields[0],
		Venue: fields[1],
		Key: domain.MatchKey{
			ISIN:       fields[2],
			Account:    fields[3],
			SettleDate: date,
		},
		IntendedQty: qty,
	}, nil
}

// FormatBankLine renders an obligation creation in the bank file format.
func FormatBankLine(o domain.NewObligation) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s,%d",
		o.ID, o.Venue, o.Key.ISIN, o.Key.Account, o.Key.SettleDate, o.IntendedQty)
}

// BankSource drains obligation creations from bank.txt.
//
// Malformed lines are logged and skipped rather than failing the drain:
// one broken external write must not wedge the queue.
type BankSource struct {
	tailer *lineTailer
	log    *slog.Logger
}

// NewBankSource creates a source tailing the runtime's bank file.
func NewBankSource(rt *Runtime, log *slog.Logger) *BankSource {
	return &BankSource{
		tailer: newLineTailer(rt.Path(BankFile)),
		log:    log,
	}
}

// Drain returns the obligation creations appended since the last drain.
func (s *BankSource) Drain() ([]domain.NewObligation, error) {
	lines, err := s.tailer.drain()
	if err != nil {
		return nil, err
	}
	out := make([]domain.NewObligation, 0, len(lines))
	for _, line := range lines {
		o, err := ParseBankLine(line)
		if err != nil {
			s.log.Warn("skipping malformed bank line", "line", line, "error", err)
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// AppendBank appends one obligation creation to the runtime's bank file.
func AppendBank(rt *Runtime, o domain.NewObligation) error {
	return appendLine(rt.Path(BankFile), FormatBankLine(o))
}
