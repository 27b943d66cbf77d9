package messenger

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kaloribot-api/internal/common"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// waterCallbackPrefix marks quick water buttons. The amount rides in the
// callback data and is rewritten into the same phrasing a typed water
// message uses, so one code path logs both.
const waterCallbackPrefix = "water_"

// WebhookParser turns raw Telegram webhook payloads into provider-neutral
// inbound messages.
type WebhookParser struct{}

// NewWebhookParser creates a new WebhookParser instance
func NewWebhookParser() *WebhookParser {
	return &WebhookParser{}
}

// ParseUpdate unmarshals webhook data into a Telegram Update struct
func (p *WebhookParser) ParseUpdate(updateData []byte) (*tgbotapi.Update, error) {
	if len(updateData) == 0 {
		return nil, ParseError{Details: "empty update data"}
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(updateData, &update); err != nil {
		return nil, ParseError{Details: fmt.Sprintf("failed to unmarshal update data: %v", err)}
	}

	if update.UpdateID == 0 {
		return nil, ParseError{Details: "invalid update: missing update ID"}
	}

	return &update, nil
}

// ExtractInbound converts a Telegram update into an InboundMessage. Updates
// with no message content or without an identifiable private sender are
// rejected with a ParseError.
func (p *WebhookParser) ExtractInbound(update *tgbotapi.Update) (*InboundMessage, error) {
	if update == nil {
		return nil, ParseError{Details: "update is nil"}
	}

	if update.CallbackQuery != nil {
		return p.extractCallback(update.CallbackQuery)
	}
	if update.Message != nil {
		return p.extractMessage(update.Message)
	}

	return nil, ParseError{Details: "update contains neither a message nor a callback query"}
}

func (p *WebhookParser) extractMessage(msg *tgbotapi.Message) (*InboundMessage, error) {
	user, err := senderOf(msg)
	if err != nil {
		return nil, err
	}

	inbound := &InboundMessage{
		UserPhone:   user,
		Text:        msg.Text,
		MessageType: TypeText,
		Timestamp:   time.Unix(int64(msg.Date), 0),
	}

	if len(msg.Photo) > 0 {
		// Telegram sends every resolution; the last entry is the largest.
		inbound.MediaFileID = msg.Photo[len(msg.Photo)-1].FileID
		inbound.MessageType = TypeImage
		inbound.Text = msg.Caption
	}

	if inbound.Text == "" && inbound.MediaFileID == "" {
		return nil, ParseError{Details: "message has no text or photo"}
	}

	return inbound, nil
}

func (p *WebhookParser) extractCallback(query *tgbotapi.CallbackQuery) (*InboundMessage, error) {
	if query.Data == "" {
		return nil, ParseError{Details: "callback query does not contain data"}
	}
	if query.Message == nil {
		return nil, ParseError{Details: "callback query does not reference a chat"}
	}

	user, err := senderOf(query.Message)
	if err != nil {
		return nil, err
	}

	return &InboundMessage{
		UserPhone:   user,
		Text:        NormalizeCallback(query.Data),
		MessageType: TypeCallback,
		Timestamp:   time.Now(),
	}, nil
}

// NormalizeCallback rewrites button callback data into the text command the
// button stands for.
func NormalizeCallback(data string) string {
	if amount, ok := strings.CutPrefix(data, waterCallbackPrefix); ok {
		if _, err := strconv.Atoi(amount); err == nil {
			return amount + " ml içtim"
		}
	}
	return data
}

// senderOf extracts and validates the chat identifier a reply must go to.
func senderOf(msg *tgbotapi.Message) (common.UserID, error) {
	if msg.Chat == nil {
		return "", ParseError{Details: "message does not contain chat information"}
	}

	user := common.UserID(strconv.FormatInt(msg.Chat.ID, 10))
	if !user.IsValid() {
		return "", ParseError{Details: fmt.Sprintf("chat %d is not a private user chat", msg.Chat.ID)}
	}
	return user, nil
}
