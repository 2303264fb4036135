package models

// UnknownUser имя, подставляемое вместо покупателя, если его не удалось найти.
const UnknownUser = "Unknown User"

// UserName результат поиска отображаемого имени пользователя.
// Если Err не nil, Value содержит UnknownUser.
type UserName struct {
	Value string
	Err   error
}

// Resolved сообщает, было ли имя получено из Slack.
func (n UserName) Resolved() bool {
	return n.Err == nil
}

// AppendResult результат добавления строки в таблицу.
type AppendResult struct {
	UpdatedRange string
	Err          error
}

// OK сообщает, была ли строка добавлена.
func (r AppendResult) OK() bool {
	return r.Err == nil
}

// Reply сообщение, отправляемое пользователю в Slack после обработки команды.
type Reply struct {
	Text     string   // Основной текст, он же fallback для уведомлений
	Details  []string // Поля с подробностями
	LinkURL  string   // Ссылка на таблицу, может быть пустой
	LinkText string
}
