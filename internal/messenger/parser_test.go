package messenger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kaloribot-api/internal/common"
)

const testChatID int64 = 905551112233

func privateMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 42,
		Date:      1747209600,
		Chat:      &tgbotapi.Chat{ID: testChatID, Type: "private"},
		From:      &tgbotapi.User{ID: testChatID, FirstName: "Ayşe"},
		Text:      text,
	}
}

func TestParseUpdate(t *testing.T) {
	parser := NewWebhookParser()

	t.Run("valid update", func(t *testing.T) {
		payload := []byte(`{"update_id":1001,"message":{"message_id":42,"date":1747209600,"chat":{"id":905551112233,"type":"private"},"text":"merhaba"}}`)

		update, err := parser.ParseUpdate(payload)
		require.NoError(t, err)
		assert.Equal(t, 1001, update.UpdateID)
		assert.Equal(t, "merhaba", update.Message.Text)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := parser.ParseUpdate(nil)
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parser.ParseUpdate([]byte("{not json"))
		assert.Error(t, err)
	})

	t.Run("missing update id", func(t *testing.T) {
		_, err := parser.ParseUpdate([]byte(`{"message":{"text":"hi"}}`))
		assert.Error(t, err)
	})
}

func TestExtractInbound_TextMessage(t *testing.T) {
	parser := NewWebhookParser()

	inbound, err := parser.ExtractInbound(&tgbotapi.Update{UpdateID: 1, Message: privateMessage("250 ml içtim")})
	require.NoError(t, err)

	assert.Equal(t, common.UserID("905551112233"), inbound.UserPhone)
	assert.Equal(t, "250 ml içtim", inbound.Text)
	assert.Equal(t, TypeText, inbound.MessageType)
	assert.Empty(t, inbound.MediaFileID)
}

func TestExtractInbound_PhotoPicksLargest(t *testing.T) {
	parser := NewWebhookParser()

	msg := privateMessage("")
	msg.Caption = "akşam yemeğim"
	msg.Photo = []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90},
		{FileID: "medium", Width: 320},
		{FileID: "large", Width: 1280},
	}

	inbound, err := parser.ExtractInbound(&tgbotapi.Update{UpdateID: 2, Message: msg})
	require.NoError(t, err)

	assert.Equal(t, TypeImage, inbound.MessageType)
	assert.Equal(t, "large", inbound.MediaFileID)
	assert.Equal(t, "akşam yemeğim", inbound.Text)
}

func TestExtractInbound_CallbackQuery(t *testing.T) {
	parser := NewWebhookParser()

	inbound, err := parser.ExtractInbound(&tgbotapi.Update{
		UpdateID: 3,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			Data:    "water_250",
			Message: privateMessage(""),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, TypeCallback, inbound.MessageType)
	assert.Equal(t, "250 ml içtim", inbound.Text)
}

func TestExtractInbound_Rejections(t *testing.T) {
	parser := NewWebhookParser()

	t.Run("nil update", func(t *testing.T) {
		_, err := parser.ExtractInbound(nil)
		assert.Error(t, err)
	})

	t.Run("no content", func(t *testing.T) {
		_, err := parser.ExtractInbound(&tgbotapi.Update{UpdateID: 4})
		assert.Error(t, err)
	})

	t.Run("empty message", func(t *testing.T) {
		_, err := parser.ExtractInbound(&tgbotapi.Update{UpdateID: 5, Message: privateMessage("")})
		assert.Error(t, err)
	})

	t.Run("group chat sender", func(t *testing.T) {
		msg := privateMessage("merhaba")
		msg.Chat.ID = -1001234567890

		_, err := parser.ExtractInbound(&tgbotapi.Update{UpdateID: 6, Message: msg})
		require.Error(t, err)
		var parseErr ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("callback without data", func(t *testing.T) {
		_, err := parser.ExtractInbound(&tgbotapi.Update{
			UpdateID:      7,
			CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb-2", Message: privateMessage("")},
		})
		assert.Error(t, err)
	})
}

func TestNormalizeCallback(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected string
	}{
		{"water button", "water_200", "200 ml içtim"},
		{"large water button", "water_500", "500 ml içtim"},
		{"non numeric amount passes through", "water_abc", "water_abc"},
		{"preset button passes through", "1", "1"},
		{"plain command passes through", "rapor", "rapor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCallback(tt.data))
		})
	}
}
