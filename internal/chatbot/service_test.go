package chatbot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"kaloribot-api/internal/ai"
	"kaloribot-api/internal/common"
	"kaloribot-api/internal/config"
	"kaloribot-api/internal/events"
	"kaloribot-api/internal/messenger"
	"kaloribot-api/internal/nutrition"
)

const testPhone = common.UserID("905551112233")

type serviceFixture struct {
	service  Service
	repo     *nutrition.MockNutritionRepository
	provider *messenger.MockProvider
	ai       *ai.MockProvider
	bus      *events.MockEventBus
}

func nutritionTestConfig() config.NutritionConfig {
	return config.NutritionConfig{
		DefaultTimezone:      "Europe/Istanbul",
		DefaultCalorieGoal:   2000,
		DefaultWaterGoalML:   2000,
		DefaultSilentStart:   "23:00",
		DefaultSilentEnd:     "07:00",
		DailyImageLimit:      20,
		WaterIntervalMinutes: 120,
	}
}

func zaptestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

func newServiceFixture(t *testing.T) *serviceFixture {
	repo := nutrition.NewMockNutritionRepository()
	provider := messenger.NewMockProvider()
	aiProvider := ai.NewMockProvider()
	bus := events.NewMockEventBus()
	bus.SetSynchronousMode(true)

	return &serviceFixture{
		service:  NewService(repo, provider, aiProvider, bus, zaptestLogger(t), nutritionTestConfig()),
		repo:     repo,
		provider: provider,
		ai:       aiProvider,
		bus:      bus,
	}
}

func (f *serviceFixture) onboardedUser(t *testing.T) *nutrition.User {
	t.Helper()
	user := &nutrition.User{
		Phone:                testPhone,
		Timezone:             "Europe/Istanbul",
		OnboardingCompleted:  true,
		OnboardingStep:       nutrition.StepComplete,
		BreakfastTime:        "08:00",
		LunchTime:            "13:00",
		DinnerTime:           "19:00",
		BreakfastReminder:    true,
		LunchReminder:        true,
		DinnerReminder:       true,
		WaterReminder:        true,
		CalorieGoal:          2000,
		WaterGoalML:          2000,
		WaterIntervalMinutes: 120,
		SilentStart:          "23:00",
		SilentEnd:            "07:00",
		IsActive:             true,
	}
	require.NoError(t, f.repo.CreateUser(user))
	return user
}

func textMessage(text string) *messenger.InboundMessage {
	return &messenger.InboundMessage{
		UserPhone:   testPhone,
		Text:        text,
		MessageType: messenger.TypeText,
	}
}

func TestHandleInbound_WaterMessage(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("250 ml içtim")))

	assert.Equal(t, 250, f.repo.WaterTotal(testPhone))

	last := f.provider.LastSent()
	require.NotNil(t, last)
	assert.Contains(t, last.Text, "250 ml kaydedildi")
	assert.Contains(t, last.Text, "250 / 2000 ml")

	published := f.bus.GetPublishedEvents(events.TopicWaterLogged)
	require.Len(t, published, 1)
	assert.Equal(t, 250, published[0].(events.WaterLogged).AmountML)
}

func TestHandleInbound_WaterPreset(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("2")))

	assert.Equal(t, 250, f.repo.WaterTotal(testPhone))
}

func TestHandleInbound_WaterGoalCommand(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("suhedefi 3000")))

	user, err := f.repo.GetUser(testPhone)
	require.NoError(t, err)
	assert.Equal(t, 3000, user.WaterGoalML)
	assert.Contains(t, f.provider.LastSent().Text, "3000 ml")
}

func TestHandleInbound_WaterGoalOutOfRange(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("suhedefi 50")))

	user, err := f.repo.GetUser(testPhone)
	require.NoError(t, err)
	assert.Equal(t, 2000, user.WaterGoalML, "goal must stay unchanged")
	assert.Contains(t, f.provider.LastSent().Text, "500-10000")
}

func TestHandleInbound_CalorieGoalCommand(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("kalorihedefi 2500")))

	user, err := f.repo.GetUser(testPhone)
	require.NoError(t, err)
	assert.Equal(t, 2500, user.CalorieGoal)

	require.NoError(t, f.service.HandleInbound(textMessage("kalorihedefi 9999")))
	user, err = f.repo.GetUser(testPhone)
	require.NoError(t, err)
	assert.Equal(t, 2500, user.CalorieGoal)
}

func TestHandleInbound_MealImage(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	inbound := &messenger.InboundMessage{
		UserPhone:   testPhone,
		MediaFileID: "file-123",
		MessageType: messenger.TypeImage,
	}
	require.NoError(t, f.service.HandleInbound(inbound))

	assert.Equal(t, 1, f.repo.MealCount(testPhone))
	require.Len(t, f.ai.ImageCalls(), 1)
	assert.Contains(t, f.ai.ImageCalls()[0], "file-123")

	last := f.provider.LastSent()
	require.NotNil(t, last)
	assert.Contains(t, last.Text, "Mercimek çorbası")
	assert.Contains(t, last.Text, "180")
}

func TestHandleInbound_MealTextCommand(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("ogun mercimek çorbası ve salata")))

	assert.Equal(t, 1, f.repo.MealCount(testPhone))
	require.Len(t, f.ai.TextCalls(), 1)
	assert.Equal(t, "mercimek çorbası ve salata", f.ai.TextCalls()[0])
}

func TestHandleInbound_UnknownTextGetsHelp(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("hmm acaba")))

	last := f.provider.LastSent()
	require.NotNil(t, last)
	assert.Contains(t, last.Text, "komut")
}

func TestHandleInbound_InactiveUserDropped(t *testing.T) {
	f := newServiceFixture(t)
	user := f.onboardedUser(t)
	_, err := f.repo.ToggleUserActive(user.Phone)
	require.NoError(t, err)

	require.NoError(t, f.service.HandleInbound(textMessage("rapor")))

	assert.Empty(t, f.provider.Sent())
	// The message is still logged for the record.
	assert.Equal(t, 1, f.repo.ConversationCount(testPhone))
}

func TestHandleInbound_ClearsInactivityWarning(t *testing.T) {
	f := newServiceFixture(t)
	user := f.onboardedUser(t)
	require.NoError(t, f.repo.MarkWarned(user.Phone, timeNowMinusHours(1)))

	require.NoError(t, f.service.HandleInbound(textMessage("rapor")))

	warned, err := f.repo.WasWarnedSince(user.Phone, timeNowMinusHours(4))
	require.NoError(t, err)
	assert.False(t, warned)
}

func TestHandleInbound_FirstContactStartsOnboarding(t *testing.T) {
	f := newServiceFixture(t)

	require.NoError(t, f.service.HandleInbound(textMessage("merhaba")))

	user, err := f.repo.GetUser(testPhone)
	require.NoError(t, err)
	assert.Equal(t, nutrition.StepAwaitingBreakfast, user.OnboardingStep)
	assert.Equal(t, "Europe/Istanbul", user.Timezone)
	assert.Equal(t, 2000, user.CalorieGoal)

	last := f.provider.LastSent()
	require.NotNil(t, last)
	assert.Contains(t, last.Text, "Kahvaltını")
}

func TestHandleInbound_SettingsAndFavorites(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("favori ekle Menemen 350")))
	require.NoError(t, f.service.HandleInbound(textMessage("favori liste")))
	assert.Contains(t, f.provider.LastSent().Text, "Menemen: 350 kcal")

	require.NoError(t, f.service.HandleInbound(textMessage("favori menemen")))
	assert.Equal(t, 1, f.repo.MealCount(testPhone))

	require.NoError(t, f.service.HandleInbound(textMessage("ayarlar")))
	assert.Contains(t, f.provider.LastSent().Text, "Kalori hedefi: 2000")
}

func TestHandleInbound_QuickFavorite(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("favori ekle fav1 400")))
	require.NoError(t, f.service.HandleInbound(textMessage("fav1")))

	assert.Equal(t, 1, f.repo.MealCount(testPhone))
	assert.NotContains(t, f.provider.LastSent().Text, msgUnknownCommand)
}

func TestHandleInbound_CommandAliasesAndMarkers(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"bang marker", "!rapor", "Günlük Rapor"},
		{"komutlar alias", "komutlar", "Kullanabileceğin komutlar"},
		{"tarihce alias", "tarihce", "öğün"},
		{"ayar alias", "ayar", "Kalori hedefi"},
		{"favoriler alias", "favoriler", "favori"},
		{"silentsaatler alias", "silentsaatler 22:00 06:00", "22:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, f.service.HandleInbound(textMessage(tt.text)))
			last := f.provider.LastSent()
			require.NotNil(t, last)
			assert.NotContains(t, last.Text, msgUnknownCommand)
			assert.Contains(t, last.Text, tt.want)
		})
	}
}

func TestHandleInbound_SilentHoursCommand(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("sessiz 22:00 06:30")))

	user, err := f.repo.GetUser(testPhone)
	require.NoError(t, err)
	assert.Equal(t, "22:00", user.SilentStart)
	assert.Equal(t, "06:30", user.SilentEnd)
}

func TestHandleInbound_TimezoneValidation(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("timezone Mars/Olympus")))
	user, err := f.repo.GetUser(testPhone)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Istanbul", user.Timezone)

	require.NoError(t, f.service.HandleInbound(textMessage("timezone America/New_York")))
	user, err = f.repo.GetUser(testPhone)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", user.Timezone)
}

func TestHandleInbound_WaterButtons(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.service.HandleInbound(textMessage("su")))

	last := f.provider.LastSent()
	require.NotNil(t, last)
	require.NotEmpty(t, last.Choices)
	for _, choice := range last.Choices {
		assert.True(t, strings.HasPrefix(choice.Data, "water_"))
	}
}

func TestReminderSent_RecordedInConversationLog(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	require.NoError(t, f.bus.Publish(events.TopicReminderSent, events.ReminderSent{
		Event:     events.NewEvent(),
		UserPhone: string(testPhone),
		Kind:      events.ReminderKindMeal,
	}))

	entries, err := f.repo.RecentConversations(testPhone, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, common.DirectionOutbound, entries[0].Direction)
	assert.Equal(t, "reminder", entries[0].MessageType)
	assert.Equal(t, events.ReminderKindMeal, entries[0].Content)
}

func timeNowMinusHours(hours int) time.Time {
	return time.Now().Add(-time.Duration(hours) * time.Hour)
}

func TestHandleWebhook_EndToEnd(t *testing.T) {
	f := newServiceFixture(t)
	f.onboardedUser(t)

	payload := []byte(`{"update_id":7,"message":{"message_id":1,"date":1747209600,"chat":{"id":905551112233,"type":"private"},"text":"250 ml içtim"}}`)
	require.NoError(t, f.service.HandleWebhook(payload))

	assert.Equal(t, 250, f.repo.WaterTotal(testPhone))
}
