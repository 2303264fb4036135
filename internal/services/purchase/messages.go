package purchase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/purchase-bridge/internal/models"
)

// MsgAcknowledged текст немедленного ответа на команду.
const MsgAcknowledged = "⏳ 구매 내역을 기록하고 있어요..."

const (
	msgRecorded     = "✅ 구매 내역이 기록되었습니다"
	msgAppendFailed = "⚠️ 스프레드시트 기록에 실패했어요. 관리자에게 문의해 주세요."
	msgAborted      = "⚠️ 처리 중 오류가 발생했어요. 잠시 후 다시 시도해 주세요."
	linkText        = "스프레드시트 열기"
)

func usageReply(command string) models.Reply {
	return models.Reply{
		Text: fmt.Sprintf("사용법: `%[1]s <프로그램명> <금액>`\n예) `%[1]s ChatGPT Plus 20000`, `%[1]s Claude Pro $20`", commandOrDefault(command)),
	}
}

func formatErrorReply(command, text string) models.Reply {
	return models.Reply{
		Text: fmt.Sprintf("❌ `%s` 형식을 인식하지 못했어요. `%s <프로그램명> <금액>` 형식으로 입력해 주세요.\n예) `ChatGPT Plus 20000`, `Midjourney 10달러`", text, commandOrDefault(command)),
	}
}

func recordedReply(rec models.PurchaseRecord, ledgerURL string) models.Reply {
	return models.Reply{
		Text: fmt.Sprintf("%s: *%s* %s", msgRecorded, rec.Item, FormatAmount(rec.Amount)),
		Details: []string{
			"*구매자*\n" + rec.Purchaser,
			"*항목*\n" + rec.Item,
			"*금액*\n" + FormatAmount(rec.Amount),
			"*날짜*\n" + rec.Date,
		},
		LinkURL:  ledgerURL,
		LinkText: linkText,
	}
}

func appendFailedReply() models.Reply {
	return models.Reply{Text: msgAppendFailed}
}

func abortedReply() models.Reply {
	return models.Reply{Text: msgAborted}
}

func commandOrDefault(command string) string {
	if command == "" {
		return "/purchase"
	}
	return command
}

// FormatAmount форматирует сумму с разделителями тысяч: 20000.5 -> "20,000.5".
func FormatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
