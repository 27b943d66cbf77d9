package chatbot

import (
	"kaloribot-api/internal/ai"
	"kaloribot-api/internal/common"
	"kaloribot-api/internal/config"
	"kaloribot-api/internal/events"
	"kaloribot-api/internal/messenger"
	"kaloribot-api/internal/nutrition"

	"go.uber.org/zap"
)

// Service defines the interface for conversation handling
type Service interface {
	// HandleWebhook processes one raw webhook payload from the messaging
	// platform
	HandleWebhook(webhookData []byte) error

	// HandleInbound processes one already-parsed inbound message
	HandleInbound(inbound *messenger.InboundMessage) error
}

// service implements the Service interface
type service struct {
	repo       nutrition.NutritionRepository
	provider   messenger.Provider
	parser     *messenger.WebhookParser
	onboarding *onboardingFlow
	router     *commandRouter
	eventBus   events.EventBus
	logger     *zap.Logger
	cfg        config.NutritionConfig
}

// NewService creates a new conversation service
func NewService(repo nutrition.NutritionRepository, provider messenger.Provider, aiProvider ai.Provider,
	eventBus events.EventBus, logger *zap.Logger, cfg config.NutritionConfig) Service {
	s := &service{
		repo:       repo,
		provider:   provider,
		parser:     messenger.NewWebhookParser(),
		onboarding: newOnboardingFlow(repo, provider, eventBus, logger),
		router:     newCommandRouter(repo, provider, aiProvider, eventBus, logger, cfg),
		eventBus:   eventBus,
		logger:     logger,
		cfg:        cfg,
	}

	if err := eventBus.Subscribe(events.TopicReminderSent, s.onReminderSent); err != nil {
		logger.Warn("Failed to subscribe to reminder events", zap.Error(err))
	}

	return s
}

// HandleWebhook parses a webhook payload and runs the resulting message
// through the pipeline. Payloads that carry nothing actionable (edits,
// group noise, stickers) are dropped without error so the webhook endpoint
// can always acknowledge.
func (s *service) HandleWebhook(webhookData []byte) error {
	update, err := s.parser.ParseUpdate(webhookData)
	if err != nil {
		s.logger.Error("Failed to parse webhook update", zap.Error(err))
		return err
	}

	inbound, err := s.parser.ExtractInbound(update)
	if err != nil {
		s.logger.Debug("Ignoring unusable update",
			zap.Int("update_id", update.UpdateID),
			zap.Error(err))
		return nil
	}

	return s.HandleInbound(inbound)
}

// HandleInbound runs one message through user lookup, conversation logging
// and either the onboarding flow or the command router.
func (s *service) HandleInbound(inbound *messenger.InboundMessage) error {
	s.eventBus.Publish(events.TopicMessageReceived, events.MessageReceived{
		Event:       events.NewEvent(),
		UserPhone:   string(inbound.UserPhone),
		MessageText: inbound.Text,
		MediaFileID: inbound.MediaFileID,
		MessageType: inbound.MessageType,
	})

	user, err := s.ensureUser(inbound.UserPhone)
	if err != nil {
		s.logger.Error("Failed to load or create user",
			zap.String("user_phone", string(inbound.UserPhone)),
			zap.Error(err))
		return err
	}

	s.recordInbound(inbound)

	if !user.IsActive {
		s.logger.Debug("Dropping message from deactivated user",
			zap.String("user_phone", string(user.Phone)))
		return nil
	}

	if !user.OnboardingCompleted {
		return s.onboarding.Handle(user, inbound.Text)
	}

	return s.router.Dispatch(user, inbound)
}

// ensureUser loads the user row, creating it with the configured defaults
// on first contact.
func (s *service) ensureUser(phone common.UserID) (*nutrition.User, error) {
	user, err := s.repo.GetUser(phone)
	if err == nil {
		return user, nil
	}
	if !nutrition.IsNotFoundError(err) {
		return nil, err
	}

	user = &nutrition.User{
		Phone:                phone,
		Timezone:             s.cfg.DefaultTimezone,
		OnboardingStep:       nutrition.StepNone,
		BreakfastReminder:    true,
		LunchReminder:        true,
		DinnerReminder:       true,
		WaterReminder:        true,
		CalorieGoal:          s.cfg.DefaultCalorieGoal,
		WaterGoalML:          s.cfg.DefaultWaterGoalML,
		WaterIntervalMinutes: s.cfg.WaterIntervalMinutes,
		SilentStart:          s.cfg.DefaultSilentStart,
		SilentEnd:            s.cfg.DefaultSilentEnd,
		IsActive:             true,
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.logger.Info("New user created", zap.String("user_phone", string(phone)))
	return user, nil
}

// onReminderSent records each outgoing reminder in the conversation log so
// the admin history shows both sides of the exchange.
func (s *service) onReminderSent(event events.ReminderSent) {
	entry := &nutrition.ConversationLog{
		UserPhone:   common.UserID(event.UserPhone),
		Direction:   common.DirectionOutbound,
		MessageType: "reminder",
		Content:     event.Kind,
	}
	if err := s.repo.LogConversation(entry); err != nil {
		s.logger.Warn("Failed to log reminder entry",
			zap.String("user_phone", event.UserPhone),
			zap.String("kind", event.Kind),
			zap.Error(err))
	}
}

// recordInbound appends the conversation log entry and clears any pending
// inactivity warning. Neither failure blocks message handling.
func (s *service) recordInbound(inbound *messenger.InboundMessage) {
	content := inbound.Text
	if inbound.MediaFileID != "" && content == "" {
		content = "[photo]"
	}

	entry := &nutrition.ConversationLog{
		UserPhone:   inbound.UserPhone,
		Direction:   common.DirectionInbound,
		MessageType: inbound.MessageType,
		Content:     content,
	}
	if err := s.repo.LogConversation(entry); err != nil {
		s.logger.Warn("Failed to log conversation entry",
			zap.String("user_phone", string(inbound.UserPhone)),
			zap.Error(err))
	}

	if err := s.repo.ClearWarning(inbound.UserPhone); err != nil {
		s.logger.Warn("Failed to clear inactivity warning",
			zap.String("user_phone", string(inbound.UserPhone)),
			zap.Error(err))
	}
}
