package chatbot

import (
	"kaloribot-api/internal/common"
	"kaloribot-api/internal/events"
	"kaloribot-api/internal/messenger"
	"kaloribot-api/internal/nutrition"

	"go.uber.org/zap"
)

// onboardingFlow walks a new user through the meal time questions. Every
// state change is persisted before the next prompt goes out, so a restart
// resumes from the stored step.
type onboardingFlow struct {
	repo     nutrition.NutritionRepository
	provider messenger.Provider
	eventBus events.EventBus
	logger   *zap.Logger
}

func newOnboardingFlow(repo nutrition.NutritionRepository, provider messenger.Provider, eventBus events.EventBus, logger *zap.Logger) *onboardingFlow {
	return &onboardingFlow{
		repo:     repo,
		provider: provider,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Handle consumes one inbound message from a user whose onboarding is not
// complete yet.
func (f *onboardingFlow) Handle(user *nutrition.User, text string) error {
	switch user.OnboardingStep {
	case nutrition.StepNone:
		return f.begin(user)
	case nutrition.StepAwaitingBreakfast, nutrition.StepAwaitingLunch, nutrition.StepAwaitingDinner:
		return f.collectTime(user, text)
	default:
		f.logger.Warn("Onboarding message in unexpected step",
			zap.String("user_phone", string(user.Phone)),
			zap.String("step", user.OnboardingStep.String()))
		return f.begin(user)
	}
}

func (f *onboardingFlow) begin(user *nutrition.User) error {
	user.OnboardingStep = nutrition.StepAwaitingBreakfast
	if err := f.repo.SaveUser(user); err != nil {
		return err
	}
	return f.provider.SendText(user.Phone, msgWelcome)
}

func (f *onboardingFlow) collectTime(user *nutrition.User, text string) error {
	clock, err := common.ParseFlexibleClock(text)
	if err != nil {
		f.logger.Debug("Unparseable onboarding time",
			zap.String("user_phone", string(user.Phone)),
			zap.String("step", user.OnboardingStep.String()),
			zap.String("text", text))
		return f.provider.SendText(user.Phone, msgInvalidTime+"\n\n"+f.promptFor(user.OnboardingStep))
	}

	var next string
	switch user.OnboardingStep {
	case nutrition.StepAwaitingBreakfast:
		user.BreakfastTime = clock
		user.OnboardingStep = nutrition.StepAwaitingLunch
		next = msgAskLunch
	case nutrition.StepAwaitingLunch:
		user.LunchTime = clock
		user.OnboardingStep = nutrition.StepAwaitingDinner
		next = msgAskDinner
	case nutrition.StepAwaitingDinner:
		user.DinnerTime = clock
		user.OnboardingStep = nutrition.StepComplete
		user.OnboardingCompleted = true
		next = msgOnboardingDone
	}

	if err := f.repo.SaveUser(user); err != nil {
		return err
	}

	if user.OnboardingCompleted {
		f.logger.Info("User onboarding completed", zap.String("user_phone", string(user.Phone)))
		f.eventBus.Publish(events.TopicUserOnboarded, events.UserOnboarded{
			Event:     events.NewEvent(),
			UserPhone: string(user.Phone),
		})
	}

	return f.provider.SendText(user.Phone, next)
}

// promptFor returns the question matching a waiting step, used both on
// resume and when a message fails to parse.
func (f *onboardingFlow) promptFor(step nutrition.OnboardingStep) string {
	switch step {
	case nutrition.StepAwaitingLunch:
		return msgAskLunch
	case nutrition.StepAwaitingDinner:
		return msgAskDinner
	default:
		return "🌅 Kahvaltını genellikle saat kaçta yaparsın? (örn. 08:30)"
	}
}
