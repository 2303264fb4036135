package ledger

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// valueInputOption "USER_ENTERED" позволяет таблице самой определить типы
// значений, например превратить строку с числом в число.
const valueInputOption = "USER_ENTERED"

// SheetsAppender добавляет строки через Google Sheets API v4.
type SheetsAppender struct {
	svc *sheets.Service
}

// ServiceAccount возвращает опцию авторизации сервисным аккаунтом по email и PEM-ключу.
func ServiceAccount(ctx context.Context, email string, privateKey []byte) option.ClientOption {
	conf := &jwt.Config{
		Email:      email,
		PrivateKey: privateKey,
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	return option.WithTokenSource(conf.TokenSource(ctx))
}

// NewSheetsAppender создаёт клиента Sheets API.
func NewSheetsAppender(ctx context.Context, opts ...option.ClientOption) (*SheetsAppender, error) {
	const op = "ledger.NewSheetsAppender"

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &SheetsAppender{svc: svc}, nil
}

// Append добавляет строки после последней заполненной строки диапазона
// и возвращает фактически обновлённый диапазон.
func (a *SheetsAppender) Append(ctx context.Context, spreadsheetID, sheetRange string, rows [][]any) (string, error) {
	const op = "ledger.SheetsAppender.Append"

	resp, err := a.svc.Spreadsheets.Values.
		Append(spreadsheetID, sheetRange, &sheets.ValueRange{Values: rows}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if resp.Updates == nil {
		return "", nil
	}
	return resp.Updates.UpdatedRange, nil
}
