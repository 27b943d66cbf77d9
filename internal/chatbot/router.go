package chatbot

import (
	"strings"

	"kaloribot-api/internal/ai"
	"kaloribot-api/internal/config"
	"kaloribot-api/internal/events"
	"kaloribot-api/internal/messenger"
	"kaloribot-api/internal/nutrition"

	"go.uber.org/zap"
)

// command identifies one dispatchable action.
type command int

const (
	cmdUnknown command = iota
	cmdReport
	cmdHelp
	cmdHistory
	cmdAdvice
	cmdSettings
	cmdWaterButtons
	cmdMealTime
	cmdTimezone
	cmdWaterInterval
	cmdWaterGoal
	cmdCalorieGoal
	cmdSilentHours
	cmdFavorite
	cmdMealLog
)

// commandAliases maps every accepted spelling to its command. Users type
// with and without Turkish characters, so both forms are listed.
var commandAliases = map[string]command{
	"rapor":         cmdReport,
	"özet":          cmdReport,
	"ozet":          cmdReport,
	"summary":       cmdReport,
	"yardim":        cmdHelp,
	"yardım":        cmdHelp,
	"help":          cmdHelp,
	"?":             cmdHelp,
	"start":         cmdHelp,
	"komutlar":      cmdHelp,
	"commands":      cmdHelp,
	"gecmis":        cmdHistory,
	"geçmiş":        cmdHistory,
	"gecmiş":        cmdHistory,
	"history":       cmdHistory,
	"tarihce":       cmdHistory,
	"tarihçe":       cmdHistory,
	"tavsiye":       cmdAdvice,
	"öneri":         cmdAdvice,
	"oneri":         cmdAdvice,
	"advice":        cmdAdvice,
	"tip":           cmdAdvice,
	"tips":          cmdAdvice,
	"ayarlar":       cmdSettings,
	"ayar":          cmdSettings,
	"settings":      cmdSettings,
	"setting":       cmdSettings,
	"su":            cmdWaterButtons,
	"buton":         cmdWaterButtons,
	"butonlar":      cmdWaterButtons,
	"buttons":       cmdWaterButtons,
	"button":        cmdWaterButtons,
	"saat":          cmdMealTime,
	"time":          cmdMealTime,
	"timezone":      cmdTimezone,
	"tz":            cmdTimezone,
	"zamandilimi":   cmdTimezone,
	"saatdilimi":    cmdTimezone,
	"suaraligi":     cmdWaterInterval,
	"suaraliği":     cmdWaterInterval,
	"waterinterval": cmdWaterInterval,
	"suhedefi":      cmdWaterGoal,
	"suhedfi":       cmdWaterGoal,
	"watergoal":     cmdWaterGoal,
	"kalorihedefi":  cmdCalorieGoal,
	"kalorihedfi":   cmdCalorieGoal,
	"caloriegoal":   cmdCalorieGoal,
	"sessiz":        cmdSilentHours,
	"silent":        cmdSilentHours,
	"silentsaatler": cmdSilentHours,
	"favori":        cmdFavorite,
	"favoriler":     cmdFavorite,
	"favorite":      cmdFavorite,
	"favorites":     cmdFavorite,
	"fav":           cmdFavorite,
	"ogun":          cmdMealLog,
	"öğün":          cmdMealLog,
	"ogün":          cmdMealLog,
	"yemek":         cmdMealLog,
	"meal":          cmdMealLog,
	"food":          cmdMealLog,
}

// commandRouter classifies an inbound message and runs the matching action.
type commandRouter struct {
	repo     nutrition.NutritionRepository
	provider messenger.Provider
	ai       ai.Provider
	eventBus events.EventBus
	logger   *zap.Logger
	cfg      config.NutritionConfig
}

func newCommandRouter(repo nutrition.NutritionRepository, provider messenger.Provider, aiProvider ai.Provider,
	eventBus events.EventBus, logger *zap.Logger, cfg config.NutritionConfig) *commandRouter {
	return &commandRouter{
		repo:     repo,
		provider: provider,
		ai:       aiProvider,
		eventBus: eventBus,
		logger:   logger,
		cfg:      cfg,
	}
}

// Dispatch routes one message from a fully onboarded user. Photos win over
// any text, then water phrasings, then the command table, and whatever is
// left gets the help message.
func (r *commandRouter) Dispatch(user *nutrition.User, inbound *messenger.InboundMessage) error {
	if inbound.MediaFileID != "" {
		return r.handleMealImage(user, inbound)
	}

	text := strings.TrimSpace(inbound.Text)
	lowered := strings.ToLower(text)

	if amount, ok := ParseWaterIntent(lowered); ok {
		return r.handleWater(user, amount)
	}

	stripped := strings.TrimLeft(lowered, "/!")
	fields := strings.Fields(stripped)
	if len(fields) == 0 {
		return r.provider.SendText(user.Phone, msgHelp)
	}

	// Argument casing matters for favorites and meal descriptions, so
	// arguments come from the original text.
	originalFields := strings.Fields(strings.TrimLeft(text, "/!"))
	args := originalFields[1:]

	switch commandAliases[fields[0]] {
	case cmdReport:
		return r.handleReport(user)
	case cmdHelp:
		return r.provider.SendText(user.Phone, msgHelp)
	case cmdHistory:
		return r.handleHistory(user)
	case cmdAdvice:
		return r.handleAdvice(user)
	case cmdSettings:
		return r.handleSettings(user)
	case cmdWaterButtons:
		return r.handleWaterButtons(user)
	case cmdMealTime:
		return r.handleMealTime(user, args)
	case cmdTimezone:
		return r.handleTimezone(user, args)
	case cmdWaterInterval:
		return r.handleWaterInterval(user, args)
	case cmdWaterGoal:
		return r.handleWaterGoal(user, args)
	case cmdCalorieGoal:
		return r.handleCalorieGoal(user, args)
	case cmdSilentHours:
		return r.handleSilentHours(user, args)
	case cmdFavorite:
		return r.handleFavorite(user, args)
	case cmdMealLog:
		return r.handleMealText(user, strings.Join(args, " "))
	default:
		// "fav1", "fav2" and the like quick-log the favorite saved under
		// that name.
		if strings.HasPrefix(fields[0], "fav") && len(fields[0]) > len("fav") {
			return r.invokeFavorite(user, originalFields[0])
		}
		r.logger.Debug("Unroutable message",
			zap.String("user_phone", string(user.Phone)),
			zap.String("text", lowered))
		return r.provider.SendText(user.Phone, msgUnknownCommand+"\n\n"+msgHelp)
	}
}
