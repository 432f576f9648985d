package feed

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/settlerec/settlerec/internal/domain"
)

// ParseMarketLine parses one status-message line:
//
//	msgId,seq,code,isin,account,settleDate,qty,at
func ParseMarketLine(line string) (domain.StatusMessage, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 8 {
		return domain.StatusMessage{}, fmt.Errorf("market line has %d fields, want 8", len(fields))
	}
	seq, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return domain.StatusMessage{}, fmt.Errorf("invalid sequence number %q: %w", fields[1], err)
	}
	code, err := domain.ParseStatusCode(fields[2])
	if err != nil {
		return domain.StatusMessage{}, err
	}
	date, err := domain.ParseDate(fields[5])
	if err != nil {
		return domain.StatusMessage{}, err
	}
	qty, err := strconv.ParseInt(fields[6], 10, 64)
	if err != nil {
		return domain.StatusMessage{}, fmt.Errorf("invalid quantity %q: %w", fields[6], err)
	}
	at, err := time.Parse(time.RFC3339, fields[7])
	if err != nil {
		return domain.StatusMessage{}, fmt.Errorf("invalid timestamp %q: %w", fields[7], err)
	}
	return domain.StatusMessage{
		MessageID: fields[0],
		Seq:       seq,
		Code:      code,
		Key: domain.MatchKey{
			ISIN:       fields[3],
			Account:    fields[4],
			SettleDate: date,
		},
		Quantity: qty,
		At:       at,
	}, nil
}

// FormatMarketLine renders a status message in the market file format.
func FormatMarketLine(m domain.StatusMessage) string {
	return fmt.Sprintf("%s,%d,%s,%s,%s,%s,%d,%s",
		m.MessageID, m.Seq, m.Code, m.Key.ISIN, m.Key.Account,
		m.Key.SettleDate, m.Quantity, m.At.UTC().Format(time.RFC3339))
}

// MarketSource drains status messages from market.txt.
// Malformed lines are logged and skipped, as with BankSource.
type MarketSource struct {
	tailer *lineTailer
	log    *slog.Logger
}

// NewMarketSource creates a source tailing the runtime's market file.
func NewMarketSource(rt *Runtime, log *slog.Logger) *MarketSource {
	return &MarketSource{
		tailer: newLineTailer(rt.Path(MarketFile)),
		log:    log,
	}
}

// Drain returns the status messages appended since the last drain.
func (s *MarketSource) Drain() ([]domain.StatusMessage, error) {
	lines, err := s.tailer.drain()
	if err != nil {
		return nil, err
	}
	out := make([]domain.StatusMessage, 0, len(lines))
	for _, line := range lines {
		m, err := ParseMarketLine(line)
		if err != nil {
			s.log.Warn("skipping malformed market line", "line", line, "error", err)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// AppendMarket appends one status message to the runtime's market file.
func AppendMarket(rt *Runtime, m domain.StatusMessage) error {
	return appendLine(rt.Path(MarketFile), FormatMarketLine(m))
}
