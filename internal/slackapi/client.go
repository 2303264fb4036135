// Package slackapi оборачивает Web API Slack: поиск имени пользователя
// и отправку ответных сообщений в канал.
package slackapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/magabrotheeeer/purchase-bridge/internal/lib/sl"
	"github.com/magabrotheeeer/purchase-bridge/internal/models"
)

// API подмножество методов *slack.Client, которое использует сервис.
type API interface {
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
}

// Client отвечает за обращения к Slack.
type Client struct {
	api API
	log *slog.Logger
}

// New создаёт Client с bot token.
func New(log *slog.Logger, token string, options ...slack.Option) *Client {
	return NewWithAPI(log, slack.New(token, options...))
}

// NewWithAPI создаёт Client поверх готовой реализации API.
func NewWithAPI(log *slog.Logger, api API) *Client {
	return &Client{
		api: api,
		log: log,
	}
}

// ResolveUserName возвращает отображаемое имя пользователя.
// Порядок: real name, display name, name. Ошибка никогда не пробрасывается:
// вместо неё возвращается models.UnknownUser вместе с причиной.
func (c *Client) ResolveUserName(ctx context.Context, userID string) models.UserName {
	const op = "slackapi.ResolveUserName"
	log := c.log.With(sl.Op(op), slog.String("user_id", userID))

	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		log.Warn("failed to look up user", sl.Err(err))
		return models.UserName{Value: models.UnknownUser, Err: fmt.Errorf("%s: %w", op, err)}
	}
	if user == nil {
		return models.UserName{Value: models.UnknownUser, Err: fmt.Errorf("%s: empty user", op)}
	}

	for _, name := range []string{user.RealName, user.Profile.RealName, user.Profile.DisplayName, user.Name} {
		if name != "" {
			return models.UserName{Value: name}
		}
	}

	log.Warn("user has no name fields")
	return models.UserName{Value: models.UnknownUser, Err: fmt.Errorf("%s: %w", op, errors.New("user has no name"))}
}

// Post отправляет сообщение в канал.
func (c *Client) Post(ctx context.Context, channelID string, reply models.Reply) error {
	const op = "slackapi.Post"

	if _, _, err := c.api.PostMessageContext(ctx, channelID, MessageOptions(reply)...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PostEphemeral отправляет сообщение, видимое только пользователю userID.
func (c *Client) PostEphemeral(ctx context.Context, channelID, userID string, reply models.Reply) error {
	const op = "slackapi.PostEphemeral"

	if _, err := c.api.PostEphemeralContext(ctx, channelID, userID, MessageOptions(reply)...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MessageOptions превращает Reply в опции сообщения Slack: текст для
// уведомлений и блоки с подробностями и ссылкой, если они есть.
func MessageOptions(reply models.Reply) []slack.MsgOption {
	options := []slack.MsgOption{slack.MsgOptionText(reply.Text, false)}
	if len(reply.Details) == 0 && reply.LinkURL == "" {
		return options
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, reply.Text, false, false), nil, nil),
	}

	if len(reply.Details) > 0 {
		fields := make([]*slack.TextBlockObject, 0, len(reply.Details))
		for _, d := range reply.Details {
			fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, d, false, false))
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}

	if reply.LinkURL != "" {
		label := reply.LinkText
		if label == "" {
			label = reply.LinkURL
		}
		link := fmt.Sprintf("<%s|%s>", reply.LinkURL, label)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, link, false, false)))
	}

	return append(options, slack.MsgOptionBlocks(blocks...))
}
