package messenger

import (
	"time"

	"kaloribot-api/internal/common"
)

// MaxChoices is the most buttons a single prompt may carry.
const MaxChoices = 10

// Choice is one tappable option attached to an outbound message.
type Choice struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// InboundMessage is a provider-neutral inbound message. Tapped buttons
// arrive with their callback data already normalized into Text, so the
// rest of the pipeline never sees provider payloads.
type InboundMessage struct {
	UserPhone   common.UserID `json:"user_phone"`
	Text        string        `json:"text"`
	MediaFileID string        `json:"media_file_id,omitempty"`
	MessageType string        `json:"message_type"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Message type values carried on InboundMessage.
const (
	TypeText     = "text"
	TypeImage    = "image"
	TypeCallback = "callback"
)

// Provider defines the contract for the messaging platform
type Provider interface {
	// SendText sends a plain text message to the user
	SendText(user common.UserID, text string) error

	// SendChoices sends a message with 1 to MaxChoices tappable options
	SendChoices(user common.UserID, text string, choices []Choice) error

	// FileURL resolves a media file identifier to a downloadable URL
	FileURL(fileID string) (string, error)

	// SetWebhook configures the webhook URL for receiving updates
	SetWebhook(webhookURL string) error

	// DeleteWebhook removes the configured webhook
	DeleteWebhook() error
}
