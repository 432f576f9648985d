package engine

import (
	"time"

	"github.com/settlerec/settlerec/internal/domain"
)

var testInstant = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var testKey = domain.MatchKey{
	ISIN:       "US0378331005",
	Account:    "ACC123",
	SettleDate: "2024-03-15",
}

func testObligation(id string, qty int64) domain.NewObligation {
	return domain.NewObligation{
		ID:          id,
		Venue:       "LSE",
		Key:         testKey,
		IntendedQty: qty,
	}
}

func testMessage(msgID string, seq int64, code domain.StatusCode, qty int64) domain.StatusMessage {
	return domain.StatusMessage{
		MessageID: msgID,
		Seq:       seq,
		Code:      code,
		Key:       testKey,
		Quantity:  qty,
		At:        testInstant,
	}
}
