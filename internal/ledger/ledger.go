// Package ledger ведёт таблицу учёта покупок: каждая покупка — одна новая
// строка [date, purchaser, item, amount, note]. Изменения и удаления не поддерживаются.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/purchase-bridge/internal/lib/sl"
	"github.com/magabrotheeeer/purchase-bridge/internal/metrics"
	"github.com/magabrotheeeer/purchase-bridge/internal/models"
)

// Appender добавляет строки в удалённую таблицу.
type Appender interface {
	Append(ctx context.Context, spreadsheetID, sheetRange string, rows [][]any) (string, error)
}

// Ledger добавляет записи о покупках в таблицу.
type Ledger struct {
	appender      Appender
	spreadsheetID string
	sheetRange    string
	log           *slog.Logger
	metrics       *metrics.Metrics
}

// New создаёт Ledger. metrics может быть nil.
func New(log *slog.Logger, appender Appender, spreadsheetID, sheetRange string, m *metrics.Metrics) *Ledger {
	return &Ledger{
		appender:      appender,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
		log:           log,
		metrics:       m,
	}
}

// Append добавляет одну строку. Ошибка не пробрасывается, а логируется
// и возвращается внутри AppendResult.
func (l *Ledger) Append(ctx context.Context, rec models.PurchaseRecord) (res models.AppendResult) {
	const op = "ledger.Append"
	log := l.log.With(sl.Op(op), slog.String("spreadsheet_id", l.spreadsheetID))

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = models.AppendResult{Err: fmt.Errorf("%s: panic: %v", op, r)}
			log.Error("ledger append panicked", sl.Err(res.Err))
		}
		l.metrics.RecordLedgerAppend(time.Since(start).Seconds(), res.Err)
	}()

	updated, err := l.appender.Append(ctx, l.spreadsheetID, l.sheetRange, [][]any{rec.Row()})
	if err != nil {
		log.Error("failed to append row", sl.Err(err))
		return models.AppendResult{Err: fmt.Errorf("%s: %w", op, err)}
	}

	log.Info("row appended",
		slog.String("updated_range", updated),
		slog.String("item", rec.Item),
		slog.Float64("amount", rec.Amount),
	)
	return models.AppendResult{UpdatedRange: updated}
}

// URL возвращает ссылку на таблицу для сообщений пользователю.
func (l *Ledger) URL() string {
	return "https://docs.google.com/spreadsheets/d/" + l.spreadsheetID
}
