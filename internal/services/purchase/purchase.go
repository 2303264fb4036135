// Package purchase содержит бизнес-логику обработки slash-команды:
// разбор текста, поиск имени покупателя, запись в таблицу и ответ в Slack.
package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/purchase-bridge/internal/lib/parser"
	"github.com/magabrotheeeer/purchase-bridge/internal/lib/sl"
	"github.com/magabrotheeeer/purchase-bridge/internal/metrics"
	"github.com/magabrotheeeer/purchase-bridge/internal/models"
)

// UserResolver ищет отображаемое имя пользователя Slack.
type UserResolver interface {
	// ResolveUserName никогда не возвращает ошибку отдельно: при неудаче
	// Value содержит models.UnknownUser.
	ResolveUserName(ctx context.Context, userID string) models.UserName
}

// Ledger добавляет записи о покупках в таблицу.
type Ledger interface {
	Append(ctx context.Context, rec models.PurchaseRecord) models.AppendResult
	URL() string
}

// Notifier отправляет ответные сообщения в Slack.
type Notifier interface {
	Post(ctx context.Context, channelID string, reply models.Reply) error
	PostEphemeral(ctx context.Context, channelID, userID string, reply models.Reply) error
}

// Outcome конечное состояние обработки команды.
type Outcome string

const (
	OutcomeUsageHint    Outcome = "usage_hint"
	OutcomeParseFailed  Outcome = "parse_failed"
	OutcomeReported     Outcome = "reported"
	OutcomeAppendFailed Outcome = "append_failed"
	OutcomeAborted      Outcome = "aborted"
)

// Service реализует обработку команды. Состояние между командами не разделяется,
// кроме счётчика фоновых задач для корректной остановки.
type Service struct {
	resolver   UserResolver
	ledger     Ledger
	notifier   Notifier
	log        *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
	location   *time.Location
	dateLayout string

	inflight sync.WaitGroup
}

// Option настраивает Service.
type Option func(*Service)

// WithClock задаёт источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDateFormat задаёт часовой пояс и формат даты в строке таблицы.
func WithDateFormat(loc *time.Location, layout string) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
		if layout != "" {
			s.dateLayout = layout
		}
	}
}

// WithMetrics подключает метрики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, resolver UserResolver, ledger Ledger, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		resolver:   resolver,
		ledger:     ledger,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
		location:   time.UTC,
		dateLayout: "2006. 1. 2.",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acknowledge возвращает текст немедленного ответа на команду.
func (s *Service) Acknowledge(_ models.InboundCommand) string {
	return MsgAcknowledged
}

// Dispatch запускает обработку команды в фоне. Контекст запроса отвязывается
// от отмены: после подтверждения команда доводится до конечного состояния.
func (s *Service) Dispatch(ctx context.Context, cmd models.InboundCommand) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.Process(context.WithoutCancel(ctx), cmd)
	}()
}

// Wait ждёт завершения фоновых задач или отмены ctx.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Process выполняет команду синхронно и возвращает её конечное состояние.
// Любая паника перехватывается, а пользователю отправляется просьба повторить.
func (s *Service) Process(ctx context.Context, cmd models.InboundCommand) (outcome Outcome) {
	const op = "services.purchase.Process"
	log := s.log.With(
		sl.Op(op),
		slog.String("command_id", uuid.NewString()),
		slog.String("user_id", cmd.UserID),
		slog.String("channel_id", cmd.ChannelID),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("command processing panicked", sl.Err(fmt.Errorf("%s: %v", op, r)))
			s.post(ctx, log, cmd, abortedReply())
			outcome = OutcomeAborted
		}
		s.metrics.RecordCommand(string(outcome))
		log.Info("command processed", slog.String("outcome", string(outcome)))
	}()

	text := strings.TrimSpace(cmd.RawText)
	if text == "" {
		s.postEphemeral(ctx, log, cmd, usageReply(cmd.CommandName))
		return OutcomeUsageHint
	}

	parsed, err := parser.Parse(text)
	if err != nil {
		log.Info("input not recognized", slog.String("text", text), sl.Err(err))
		s.postEphemeral(ctx, log, cmd, formatErrorReply(cmd.CommandName, text))
		return OutcomeParseFailed
	}

	name := s.resolver.ResolveUserName(ctx, cmd.UserID)
	s.metrics.RecordUserLookup(name.Resolved())
	if !name.Resolved() {
		log.Warn("using placeholder purchaser name", sl.Err(name.Err))
	}

	rec := models.PurchaseRecord{
		Date:      s.now().In(s.location).Format(s.dateLayout),
		Purchaser: name.Value,
		Item:      parsed.Item,
		Amount:    parsed.Amount,
	}

	res := s.ledger.Append(ctx, rec)
	if !res.OK() {
		log.Error("failed to record purchase", sl.Err(res.Err))
		s.post(ctx, log, cmd, appendFailedReply())
		return OutcomeAppendFailed
	}

	s.post(ctx, log, cmd, recordedReply(rec, s.ledger.URL()))
	return OutcomeReported
}

func (s *Service) post(ctx context.Context, log *slog.Logger, cmd models.InboundCommand, reply models.Reply) {
	if err := s.notifier.Post(ctx, cmd.ChannelID, reply); err != nil {
		log.Error("failed to post reply", sl.Err(err))
	}
}

func (s *Service) postEphemeral(ctx context.Context, log *slog.Logger, cmd models.InboundCommand, reply models.Reply) {
	if err := s.notifier.PostEphemeral(ctx, cmd.ChannelID, cmd.UserID, reply); err != nil {
		log.Error("failed to post ephemeral reply", sl.Err(err))
	}
}
