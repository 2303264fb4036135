// Package models содержит доменные структуры, описывающие покупку,
// входящую slash-команду и результаты обращений к внешним API.
package models

// InboundCommand представляет собой slash-команду, пришедшую из Slack.
// Полям можно доверять только после проверки подписи.
type InboundCommand struct {
	RawText     string                       // Свободный текст после имени команды
	UserID      string `validate:"required"` // Идентификатор пользователя Slack
	ChannelID   string `validate:"required"` // Канал, куда отправляется результат
	CommandName string `validate:"required"` // Имя команды, например /purchase
	Signature   string                       // Заголовок X-Slack-Signature
	Timestamp   int64                        // Заголовок X-Slack-Request-Timestamp
}

// ParsedInput результат разбора свободного текста: название и сумма.
type ParsedInput struct {
	Item   string
	Amount float64
}

// PurchaseRecord одна строка в таблице учёта покупок.
type PurchaseRecord struct {
	Date      string  // Дата в локальном формате
	Purchaser string  // Отображаемое имя покупателя
	Item      string  // Название программы или сервиса
	Amount    float64 // Неотрицательная сумма
	Note      string  // Примечание, при создании всегда пустое
}

// Row возвращает строку таблицы в порядке колонок [date, purchaser, item, amount, note].
func (r PurchaseRecord) Row() []any {
	return []any{r.Date, r.Purchaser, r.Item, r.Amount, r.Note}
}
