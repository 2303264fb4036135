package purchase

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/purchase-bridge/internal/metrics"
	"github.com/magabrotheeeer/purchase-bridge/internal/models"
)

// MockResolver реализует интерфейс purchase.UserResolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveUserName(ctx context.Context, userID string) models.UserName {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UserName)
}

// MockLedger реализует интерфейс purchase.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Append(ctx context.Context, rec models.PurchaseRecord) models.AppendResult {
	args := m.Called(ctx, rec)
	return args.Get(0).(models.AppendResult)
}

func (m *MockLedger) URL() string {
	return "https://docs.google.com/spreadsheets/d/sheet-1"
}

// MockNotifier реализует интерфейс purchase.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Post(ctx context.Context, channelID string, reply models.Reply) error {
	args := m.Called(ctx, channelID, reply)
	return args.Error(0)
}

func (m *MockNotifier) PostEphemeral(ctx context.Context, channelID, userID string, reply models.Reply) error {
	args := m.Called(ctx, channelID, userID, reply)
	return args.Error(0)
}

var fixedNow = time.Date(2026, time.October, 18, 15, 4, 5, 0, time.UTC)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newService(r *MockResolver, l *MockLedger, n *MockNotifier) *Service {
	return NewService(newLogger(), r, l, n,
		WithClock(func() time.Time { return fixedNow }),
		WithDateFormat(time.UTC, "2006. 1. 2."),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
}

func command(text string) models.InboundCommand {
	return models.InboundCommand{
		RawText:     text,
		UserID:      "U1",
		ChannelID:   "C1",
		CommandName: "/purchase",
	}
}

func replyText(text string) any {
	return mock.MatchedBy(func(r models.Reply) bool { return r.Text == text })
}

func replyTextContains(sub string) any {
	return mock.MatchedBy(func(r models.Reply) bool { return strings.Contains(r.Text, sub) })
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		setupMocks  func(*MockResolver, *MockLedger, *MockNotifier)
		wantOutcome Outcome
	}{
		{
			name: "пустой текст — подсказка",
			text: "   ",
			setupMocks: func(_ *MockResolver, _ *MockLedger, n *MockNotifier) {
				n.On("PostEphemeral", mock.Anything, "C1", "U1", replyTextContains("/purchase <프로그램명> <금액>")).Return(nil)
			},
			wantOutcome: OutcomeUsageHint,
		},
		{
			name: "нераспознанный формат",
			text: "just text",
			setupMocks: func(_ *MockResolver, _ *MockLedger, n *MockNotifier) {
				n.On("PostEphemeral", mock.Anything, "C1", "U1", replyTextContains("형식을 인식하지 못했어요")).Return(nil)
			},
			wantOutcome: OutcomeParseFailed,
		},
		{
			name: "успешная запись",
			text: "ChatGPT Plus 20000",
			setupMocks: func(r *MockResolver, l *MockLedger, n *MockNotifier) {
				r.On("ResolveUserName", mock.Anything, "U1").Return(models.UserName{Value: "Jane Doe"})
				l.On("Append", mock.Anything, models.PurchaseRecord{
					Date:      "2026. 10. 18.",
					Purchaser: "Jane Doe",
					Item:      "ChatGPT Plus",
					Amount:    20000,
				}).Return(models.AppendResult{UpdatedRange: "Sheet1!A2:E2"})
				n.On("Post", mock.Anything, "C1", mock.MatchedBy(func(r models.Reply) bool {
					return strings.HasPrefix(r.Text, msgRecorded) &&
						r.LinkURL == "https://docs.google.com/spreadsheets/d/sheet-1" &&
						len(r.Details) == 4
				})).Return(nil)
			},
			wantOutcome: OutcomeReported,
		},
		{
			name: "ошибка поиска пользователя не прерывает запись",
			text: "Claude Pro $20",
			setupMocks: func(r *MockResolver, l *MockLedger, n *MockNotifier) {
				r.On("ResolveUserName", mock.Anything, "U1").
					Return(models.UserName{Value: models.UnknownUser, Err: errors.New("user_not_found")})
				l.On("Append", mock.Anything, mock.MatchedBy(func(rec models.PurchaseRecord) bool {
					return rec.Purchaser == models.UnknownUser && rec.Item == "Claude Pro" && rec.Amount == 20
				})).Return(models.AppendResult{})
				n.On("Post", mock.Anything, "C1", mock.Anything).Return(nil)
			},
			wantOutcome: OutcomeReported,
		},
		{
			name: "ошибка записи в таблицу",
			text: "Midjourney 10달러",
			setupMocks: func(r *MockResolver, l *MockLedger, n *MockNotifier) {
				r.On("ResolveUserName", mock.Anything, "U1").Return(models.UserName{Value: "Jane Doe"})
				l.On("Append", mock.Anything, mock.Anything).Return(models.AppendResult{Err: errors.New("quota exceeded")})
				n.On("Post", mock.Anything, "C1", replyText(msgAppendFailed)).Return(nil)
			},
			wantOutcome: OutcomeAppendFailed,
		},
		{
			name: "ошибка отправки ответа не меняет результат",
			text: "Tool 20,000.50",
			setupMocks: func(r *MockResolver, l *MockLedger, n *MockNotifier) {
				r.On("ResolveUserName", mock.Anything, "U1").Return(models.UserName{Value: "Jane Doe"})
				l.On("Append", mock.Anything, mock.MatchedBy(func(rec models.PurchaseRecord) bool {
					return rec.Amount == 20000.5
				})).Return(models.AppendResult{})
				n.On("Post", mock.Anything, "C1", mock.Anything).Return(errors.New("channel_not_found"))
			},
			wantOutcome: OutcomeReported,
		},
		{
			name: "паника перехватывается",
			text: "Tool 100",
			setupMocks: func(r *MockResolver, l *MockLedger, n *MockNotifier) {
				r.On("ResolveUserName", mock.Anything, "U1").Return(models.UserName{Value: "Jane Doe"})
				l.On("Append", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
					panic("nil pointer dereference")
				})
				n.On("Post", mock.Anything, "C1", replyText(msgAborted)).Return(nil)
			},
			wantOutcome: OutcomeAborted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, l, n := new(MockResolver), new(MockLedger), new(MockNotifier)
			tt.setupMocks(r, l, n)

			svc := newService(r, l, n)
			got := svc.Process(context.Background(), command(tt.text))

			assert.Equal(t, tt.wantOutcome, got)
			r.AssertExpectations(t)
			l.AssertExpectations(t)
			n.AssertExpectations(t)
		})
	}
}

func TestProcess_NoSideEffectsBeforeParse(t *testing.T) {
	r, l, n := new(MockResolver), new(MockLedger), new(MockNotifier)
	n.On("PostEphemeral", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newService(r, l, n)
	svc.Process(context.Background(), command("no amount here"))

	r.AssertNotCalled(t, "ResolveUserName", mock.Anything, mock.Anything)
	l.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestProcess_RepliesAreDistinct(t *testing.T) {
	rec := models.PurchaseRecord{Item: "Tool", Amount: 1, Purchaser: "Jane", Date: "2026. 10. 18."}

	success := recordedReply(rec, "https://example.com").Text
	failure := appendFailedReply().Text
	parseFailure := formatErrorReply("/purchase", "just text").Text

	assert.NotEqual(t, success, failure)
	assert.NotEqual(t, success, parseFailure)
	assert.NotEqual(t, failure, parseFailure)
}

// Повторная команда с тем же текстом добавляет вторую строку:
// дедупликации нет, каждый вызов — отдельная покупка.
func TestProcess_SameCommandTwiceAppendsTwice(t *testing.T) {
	r, l, n := new(MockResolver), new(MockLedger), new(MockNotifier)
	r.On("ResolveUserName", mock.Anything, "U1").Return(models.UserName{Value: "Jane Doe"})
	l.On("Append", mock.Anything, mock.Anything).Return(models.AppendResult{}).Twice()
	n.On("Post", mock.Anything, "C1", mock.Anything).Return(nil)

	svc := newService(r, l, n)
	cmd := command("ChatGPT Plus 20000")

	assert.Equal(t, OutcomeReported, svc.Process(context.Background(), cmd))
	assert.Equal(t, OutcomeReported, svc.Process(context.Background(), cmd))

	l.AssertNumberOfCalls(t, "Append", 2)
	first := l.Calls[0].Arguments.Get(1).(models.PurchaseRecord)
	second := l.Calls[1].Arguments.Get(1).(models.PurchaseRecord)
	assert.Equal(t, first, second)
}

func TestDispatch_CompletesAfterRequestContextCanceled(t *testing.T) {
	r, l, n := new(MockResolver), new(MockLedger), new(MockNotifier)
	r.On("ResolveUserName", mock.Anything, "U1").Return(models.UserName{Value: "Jane Doe"})
	l.On("Append", mock.Anything, mock.Anything).Return(models.AppendResult{})
	n.On("Post", mock.Anything, "C1", mock.Anything).Return(nil)

	svc := newService(r, l, n)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Dispatch(ctx, command("Claude Pro 20"))
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, svc.Wait(waitCtx))

	l.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestWait_RespectsContext(t *testing.T) {
	r, l, n := new(MockResolver), new(MockLedger), new(MockNotifier)
	block := make(chan struct{})
	defer close(block)

	r.On("ResolveUserName", mock.Anything, "U1").Run(func(mock.Arguments) { <-block }).
		Return(models.UserName{Value: "Jane Doe"})
	l.On("Append", mock.Anything, mock.Anything).Return(models.AppendResult{}).Maybe()
	n.On("Post", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := newService(r, l, n)
	svc.Dispatch(context.Background(), command("Claude Pro 20"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Wait(ctx), context.DeadlineExceeded)
}

func TestAcknowledge(t *testing.T) {
	svc := newService(new(MockResolver), new(MockLedger), new(MockNotifier))
	assert.Equal(t, MsgAcknowledged, svc.Acknowledge(command("Tool 1")))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "20", FormatAmount(20))
	assert.Equal(t, "999", FormatAmount(999))
	assert.Equal(t, "20,000", FormatAmount(20000))
	assert.Equal(t, "20,000.5", FormatAmount(20000.5))
	assert.Equal(t, "1,234,567.89", FormatAmount(1234567.89))
}
