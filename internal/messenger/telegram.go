package messenger

import (
	"fmt"
	"strconv"

	"kaloribot-api/internal/common"
	"kaloribot-api/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// telegramProvider implements the Provider interface using the telegram-bot-api library
type telegramProvider struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
	config config.MessengerConfig
}

// NewTelegramProvider creates a new Provider instance backed by Telegram
func NewTelegramProvider(config config.MessengerConfig, logger *zap.Logger) (Provider, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	// Validate bot by getting bot info
	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("failed to validate bot token: %w", err)
	}

	logger.Info("Telegram bot initialized successfully", zap.String("username", bot.Self.UserName))

	return &telegramProvider{
		bot:    bot,
		logger: logger,
		config: config,
	}, nil
}

// chatIDFor maps the numeric user identifier back to a Telegram chat ID.
func chatIDFor(user common.UserID) (int64, error) {
	chatID, err := strconv.ParseInt(string(user), 10, 64)
	if err != nil {
		return 0, BadRequestError{Details: fmt.Sprintf("user identifier %q is not a chat id", user)}
	}
	return chatID, nil
}

// SendText sends a plain text message to the user
func (p *telegramProvider) SendText(user common.UserID, text string) error {
	chatID, err := chatIDFor(user)
	if err != nil {
		return err
	}

	p.logger.Debug("Sending message",
		zap.String("user_phone", string(user)),
		zap.Int("text_length", len(text)))

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := p.bot.Send(msg); err != nil {
		p.logger.Error("Failed to send message",
			zap.String("user_phone", string(user)),
			zap.Error(err))
		return WrapProviderError(err, "SendText")
	}

	return nil
}

// SendChoices sends a message with an inline keyboard of tappable options
func (p *telegramProvider) SendChoices(user common.UserID, text string, choices []Choice) error {
	if len(choices) == 0 || len(choices) > MaxChoices {
		return BadRequestError{Details: fmt.Sprintf("choice count %d outside 1-%d", len(choices), MaxChoices)}
	}

	chatID, err := chatIDFor(user)
	if err != nil {
		return err
	}

	p.logger.Debug("Sending message with choices",
		zap.String("user_phone", string(user)),
		zap.Int("choice_count", len(choices)))

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = buildChoiceKeyboard(choices)

	if _, err := p.bot.Send(msg); err != nil {
		p.logger.Error("Failed to send message with choices",
			zap.String("user_phone", string(user)),
			zap.Error(err))
		return WrapProviderError(err, "SendChoices")
	}

	return nil
}

// FileURL resolves a media file identifier to a downloadable URL
func (p *telegramProvider) FileURL(fileID string) (string, error) {
	url, err := p.bot.GetFileDirectURL(fileID)
	if err != nil {
		p.logger.Error("Failed to resolve file URL",
			zap.String("file_id", fileID),
			zap.Error(err))
		return "", WrapProviderError(err, "FileURL")
	}
	return url, nil
}

// SetWebhook configures the webhook URL for receiving updates
func (p *telegramProvider) SetWebhook(webhookURL string) error {
	p.logger.Info("Setting webhook", zap.String("webhook_url", webhookURL))

	webhookConfig, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("failed to create webhook config: %w", err)
	}

	if _, err := p.bot.Request(webhookConfig); err != nil {
		p.logger.Error("Failed to set webhook",
			zap.String("webhook_url", webhookURL),
			zap.Error(err))
		return WrapProviderError(err, "SetWebhook")
	}

	p.logger.Info("Webhook set successfully", zap.String("webhook_url", webhookURL))
	return nil
}

// DeleteWebhook removes the configured webhook
func (p *telegramProvider) DeleteWebhook() error {
	p.logger.Info("Deleting webhook")

	if _, err := p.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		p.logger.Error("Failed to delete webhook", zap.Error(err))
		return WrapProviderError(err, "DeleteWebhook")
	}

	return nil
}

// buildChoiceKeyboard lays choices out two per row, matching how the
// keyboards read best on a phone screen.
func buildChoiceKeyboard(choices []Choice) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, choice := range choices {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(choice.Label, choice.Data))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
