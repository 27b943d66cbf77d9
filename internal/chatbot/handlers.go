package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kaloribot-api/internal/common"
	"kaloribot-api/internal/events"
	"kaloribot-api/internal/messenger"
	"kaloribot-api/internal/nutrition"

	"go.uber.org/zap"
)

// waterChoices are the interactive quick water buttons.
var waterChoices = []messenger.Choice{
	{Label: "1 Bardak (200 ml)", Data: "water_200"},
	{Label: "Büyük Bardak (250 ml)", Data: "water_250"},
	{Label: "Küçük Şişe (500 ml)", Data: "water_500"},
	{Label: "Büyük Şişe (1 L)", Data: "water_1000"},
}

// mealTimeAliases maps the spellings accepted by the meal time command.
var mealTimeAliases = map[string]nutrition.MealCategory{
	"kahvalti": nutrition.CategoryBreakfast,
	"kahvaltı": nutrition.CategoryBreakfast,
	"sabah":    nutrition.CategoryBreakfast,
	"ogle":     nutrition.CategoryLunch,
	"öğle":     nutrition.CategoryLunch,
	"oglen":    nutrition.CategoryLunch,
	"öğlen":    nutrition.CategoryLunch,
	"aksam":    nutrition.CategoryDinner,
	"akşam":    nutrition.CategoryDinner,
}

func (r *commandRouter) localNow(user *nutrition.User) time.Time {
	loc, ok := user.Location()
	if !ok {
		r.logger.Warn("Falling back to default timezone",
			zap.String("user_phone", string(user.Phone)),
			zap.String("timezone", user.Timezone))
	}
	return time.Now().In(loc)
}

func (r *commandRouter) todayBounds(user *nutrition.User) (time.Time, time.Time) {
	now := r.localNow(user)
	return nutrition.DayBounds(now, now.Location())
}

// logMeal persists one meal entry, classifying it from the user's clock and
// what was already eaten today, and confirms with the running total.
func (r *commandRouter) logMeal(user *nutrition.User, calories int, description, imagePath string) error {
	start, end := r.todayBounds(user)

	logged, err := r.repo.LoggedCategories(user.Phone, start, end)
	if err != nil {
		r.logger.Error("Failed to load logged categories",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	category := nutrition.ClassifyMeal(*user, logged, r.localNow(user))

	meal := &nutrition.MealLog{
		UserPhone:   user.Phone,
		Category:    category,
		Calories:    calories,
		Description: description,
		ImagePath:   imagePath,
	}
	if err := r.repo.AddMealLog(meal); err != nil {
		r.logger.Error("Failed to persist meal",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	r.eventBus.Publish(events.TopicMealLogged, events.MealLogged{
		Event:       events.NewEvent(),
		UserPhone:   string(user.Phone),
		Category:    category.String(),
		Calories:    calories,
		Description: description,
	})

	stats, err := r.repo.StatsForRange(user.Phone, start, end)
	if err != nil {
		stats = &nutrition.DailyStats{TotalCalories: calories}
	}

	reply := fmt.Sprintf("🍽️ %s (%s) kaydedildi: yaklaşık %d kcal.\n🔥 Bugün toplam: %d / %d kcal",
		description, category.Label(), calories, stats.TotalCalories, user.CalorieGoal)
	return r.provider.SendText(user.Phone, reply)
}

func (r *commandRouter) handleMealImage(user *nutrition.User, inbound *messenger.InboundMessage) error {
	start, end := r.todayBounds(user)

	count, err := r.repo.DailyImageCount(user.Phone, start, end)
	if err != nil {
		r.logger.Error("Failed to count image analyses",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}
	if count >= int64(r.cfg.DailyImageLimit) {
		return r.provider.SendText(user.Phone, msgImageLimitReached)
	}

	imageURL, err := r.provider.FileURL(inbound.MediaFileID)
	if err != nil {
		r.logger.Error("Failed to resolve media file",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	analysis, err := r.ai.AnalyzeMealImage(context.Background(), imageURL)
	if err != nil {
		r.logger.Error("Meal image analysis failed",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgImageFailed)
	}

	return r.logMeal(user, analysis.Calories, analysis.Description, inbound.MediaFileID)
}

func (r *commandRouter) handleMealText(user *nutrition.User, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return r.provider.SendText(user.Phone, msgMealLogUsage)
	}

	analysis, err := r.ai.AnalyzeMealText(context.Background(), description)
	if err != nil {
		r.logger.Error("Meal text analysis failed",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	return r.logMeal(user, analysis.Calories, analysis.Description, "")
}

func (r *commandRouter) handleWater(user *nutrition.User, amount int) error {
	if amount < MinWaterEntryML || amount > MaxWaterEntryML {
		return r.provider.SendText(user.Phone,
			fmt.Sprintf("💧 Su miktarı %d-%d ml arasında olmalı.", MinWaterEntryML, MaxWaterEntryML))
	}

	if err := r.repo.AddWaterLog(&nutrition.WaterLog{UserPhone: user.Phone, AmountML: amount}); err != nil {
		r.logger.Error("Failed to persist water entry",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	r.eventBus.Publish(events.TopicWaterLogged, events.WaterLogged{
		Event:     events.NewEvent(),
		UserPhone: string(user.Phone),
		AmountML:  amount,
	})

	start, end := r.todayBounds(user)
	stats, err := r.repo.StatsForRange(user.Phone, start, end)
	if err != nil {
		stats = &nutrition.DailyStats{TotalWaterML: amount}
	}

	reply := fmt.Sprintf("💧 %d ml kaydedildi!\nBugün toplam: %d / %d ml", amount, stats.TotalWaterML, user.WaterGoalML)
	if stats.TotalWaterML >= user.WaterGoalML {
		reply += "\n🎉 Günlük su hedefine ulaştın!"
	}
	return r.provider.SendText(user.Phone, reply)
}

func (r *commandRouter) handleReport(user *nutrition.User) error {
	start, end := r.todayBounds(user)

	stats, err := r.repo.StatsForRange(user.Phone, start, end)
	if err != nil {
		r.logger.Error("Failed to compute daily stats",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	meals, err := r.repo.MealsForRange(user.Phone, start, end)
	if err != nil {
		meals = nil
	}

	return r.provider.SendText(user.Phone, nutrition.FormatDailyReport(*user, *stats, meals))
}

func (r *commandRouter) handleHistory(user *nutrition.User) error {
	meals, err := r.repo.RecentMeals(user.Phone, 10)
	if err != nil {
		r.logger.Error("Failed to load meal history",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	loc, _ := user.Location()
	return r.provider.SendText(user.Phone, nutrition.FormatHistory(meals, loc))
}

func (r *commandRouter) handleAdvice(user *nutrition.User) error {
	start, end := r.todayBounds(user)

	stats, err := r.repo.StatsForRange(user.Phone, start, end)
	if err != nil {
		r.logger.Error("Failed to compute daily stats",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	advice, err := r.ai.GetAdvice(context.Background(), *user, *stats)
	if err != nil {
		r.logger.Error("Advice generation failed",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	return r.provider.SendText(user.Phone, "💡 "+advice)
}

func (r *commandRouter) handleSettings(user *nutrition.User) error {
	onOff := func(enabled bool) string {
		if enabled {
			return "açık"
		}
		return "kapalı"
	}

	settings := fmt.Sprintf(`⚙️ *Ayarların:*

🕐 Kahvaltı: %s | Öğle: %s | Akşam: %s
🌍 Saat dilimi: %s
🎯 Kalori hedefi: %d kcal
💧 Su hedefi: %d ml (hatırlatma aralığı %d dk)
🌙 Sessiz saatler: %s - %s
🔔 Hatırlatmalar: kahvaltı %s, öğle %s, akşam %s, su %s`,
		user.MealTimeFor(nutrition.CategoryBreakfast),
		user.MealTimeFor(nutrition.CategoryLunch),
		user.MealTimeFor(nutrition.CategoryDinner),
		user.Timezone,
		user.CalorieGoal,
		user.WaterGoalML, user.WaterIntervalMinutes,
		user.SilentStart, user.SilentEnd,
		onOff(user.BreakfastReminder), onOff(user.LunchReminder),
		onOff(user.DinnerReminder), onOff(user.WaterReminder))

	return r.provider.SendText(user.Phone, settings)
}

func (r *commandRouter) handleWaterButtons(user *nutrition.User) error {
	return r.provider.SendChoices(user.Phone, msgWaterPrompt, waterChoices)
}

func (r *commandRouter) handleMealTime(user *nutrition.User, args []string) error {
	if len(args) < 2 {
		return r.provider.SendText(user.Phone, msgMealTimeUsage)
	}

	category, ok := mealTimeAliases[strings.ToLower(args[0])]
	if !ok {
		return r.provider.SendText(user.Phone, msgMealTimeUsage)
	}

	clock, err := common.ParseFlexibleClock(args[1])
	if err != nil {
		return r.provider.SendText(user.Phone, msgInvalidTime)
	}

	switch category {
	case nutrition.CategoryBreakfast:
		user.BreakfastTime = clock
	case nutrition.CategoryLunch:
		user.LunchTime = clock
	case nutrition.CategoryDinner:
		user.DinnerTime = clock
	}

	if err := r.saveUser(user); err != nil {
		return err
	}
	return r.provider.SendText(user.Phone,
		fmt.Sprintf("✅ %s saatin %s olarak güncellendi.", category.Label(), clock))
}

func (r *commandRouter) handleTimezone(user *nutrition.User, args []string) error {
	if len(args) < 1 {
		return r.provider.SendText(user.Phone, msgTimezoneUsage)
	}

	zone := args[0]
	if _, err := time.LoadLocation(zone); err != nil {
		return r.provider.SendText(user.Phone,
			fmt.Sprintf("🌍 %q geçerli bir saat dilimi değil. Örnek: Europe/Istanbul", zone))
	}

	user.Timezone = zone
	if err := r.saveUser(user); err != nil {
		return err
	}
	return r.provider.SendText(user.Phone, fmt.Sprintf("✅ Saat dilimin %s olarak güncellendi.", zone))
}

func (r *commandRouter) handleWaterInterval(user *nutrition.User, args []string) error {
	minutes, ok := parsePositiveInt(args)
	if !ok {
		return r.provider.SendText(user.Phone,
			fmt.Sprintf("🔔 Kullanım: suaraligi <dakika>, %d-%d arası.", nutrition.MinWaterIntervalMin, nutrition.MaxWaterIntervalMin))
	}

	user.WaterIntervalMinutes = minutes
	if saved, err := r.saveGoal(user, "Su hatırlatma aralığı", "dk"); !saved {
		return err
	}
	return r.provider.SendText(user.Phone,
		fmt.Sprintf("✅ Su hatırlatma aralığın %d dakika olarak güncellendi.", minutes))
}

func (r *commandRouter) handleWaterGoal(user *nutrition.User, args []string) error {
	amount, ok := parsePositiveInt(args)
	if !ok {
		return r.provider.SendText(user.Phone,
			fmt.Sprintf("🎯 Kullanım: suhedefi <ml>, %d-%d arası.", nutrition.MinWaterGoalML, nutrition.MaxWaterGoalML))
	}

	user.WaterGoalML = amount
	if saved, err := r.saveGoal(user, "Su hedefi", "ml"); !saved {
		return err
	}
	return r.provider.SendText(user.Phone,
		fmt.Sprintf("✅ Günlük su hedefin %d ml olarak güncellendi.", amount))
}

func (r *commandRouter) handleCalorieGoal(user *nutrition.User, args []string) error {
	amount, ok := parsePositiveInt(args)
	if !ok {
		return r.provider.SendText(user.Phone,
			fmt.Sprintf("🎯 Kullanım: kalorihedefi <kcal>, %d-%d arası.", nutrition.MinCalorieGoal, nutrition.MaxCalorieGoal))
	}

	user.CalorieGoal = amount
	if saved, err := r.saveGoal(user, "Kalori hedefi", "kcal"); !saved {
		return err
	}
	return r.provider.SendText(user.Phone,
		fmt.Sprintf("✅ Günlük kalori hedefin %d kcal olarak güncellendi.", amount))
}

func (r *commandRouter) handleSilentHours(user *nutrition.User, args []string) error {
	if len(args) < 2 {
		return r.provider.SendText(user.Phone, msgSilentUsage)
	}

	start, err := common.ParseFlexibleClock(args[0])
	if err != nil {
		return r.provider.SendText(user.Phone, msgInvalidTime)
	}
	end, err := common.ParseFlexibleClock(args[1])
	if err != nil {
		return r.provider.SendText(user.Phone, msgInvalidTime)
	}

	user.SilentStart = start
	user.SilentEnd = end
	if err := r.saveUser(user); err != nil {
		return err
	}
	return r.provider.SendText(user.Phone,
		fmt.Sprintf("🌙 Sessiz saatlerin %s - %s olarak güncellendi.", start, end))
}

func (r *commandRouter) handleFavorite(user *nutrition.User, args []string) error {
	if len(args) == 0 {
		return r.listFavorites(user)
	}

	switch strings.ToLower(args[0]) {
	case "ekle", "add":
		return r.addFavorite(user, args[1:])
	case "sil", "remove", "delete":
		return r.removeFavorite(user, args[1:])
	case "liste", "list":
		return r.listFavorites(user)
	default:
		return r.invokeFavorite(user, strings.Join(args, " "))
	}
}

func (r *commandRouter) addFavorite(user *nutrition.User, args []string) error {
	// Last token is the calorie count, everything before it the name.
	if len(args) < 2 {
		return r.provider.SendText(user.Phone, msgFavoriteUsage)
	}

	calories, err := strconv.Atoi(args[len(args)-1])
	if err != nil || calories <= 0 {
		return r.provider.SendText(user.Phone, msgFavoriteUsage)
	}
	name := strings.Join(args[:len(args)-1], " ")

	favorite := &nutrition.FavoriteMeal{UserPhone: user.Phone, Name: name, Calories: calories}
	if err := r.repo.SaveFavorite(favorite); err != nil {
		r.logger.Error("Failed to save favorite",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	return r.provider.SendText(user.Phone,
		fmt.Sprintf("⭐ %s (%d kcal) favorilerine eklendi. \"favori %s\" yazarak kaydedebilirsin.", name, calories, name))
}

func (r *commandRouter) removeFavorite(user *nutrition.User, args []string) error {
	if len(args) == 0 {
		return r.provider.SendText(user.Phone, msgFavoriteUsage)
	}
	name := strings.Join(args, " ")

	if err := r.repo.DeleteFavorite(user.Phone, name); err != nil {
		if errors.Is(err, nutrition.ErrFavoriteNotFound) {
			return r.provider.SendText(user.Phone, fmt.Sprintf("⭐ %q adında bir favorin yok.", name))
		}
		r.logger.Error("Failed to delete favorite",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	return r.provider.SendText(user.Phone, fmt.Sprintf("🗑️ %s favorilerinden silindi.", name))
}

func (r *commandRouter) listFavorites(user *nutrition.User) error {
	favorites, err := r.repo.ListFavorites(user.Phone)
	if err != nil {
		r.logger.Error("Failed to list favorites",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	if len(favorites) == 0 {
		return r.provider.SendText(user.Phone, "⭐ Henüz favori öğünün yok.\n\n"+msgFavoriteUsage)
	}

	var b strings.Builder
	b.WriteString("⭐ *Favori öğünlerin:*\n\n")
	for _, favorite := range favorites {
		fmt.Fprintf(&b, "• %s: %d kcal\n", favorite.Name, favorite.Calories)
	}
	b.WriteString("\n\"favori <isim>\" yazarak hızlıca kaydedebilirsin.")
	return r.provider.SendText(user.Phone, b.String())
}

func (r *commandRouter) invokeFavorite(user *nutrition.User, name string) error {
	favorite, err := r.repo.GetFavorite(user.Phone, name)
	if err != nil {
		if errors.Is(err, nutrition.ErrFavoriteNotFound) {
			return r.provider.SendText(user.Phone, fmt.Sprintf("⭐ %q adında bir favorin yok.\n\n%s", name, msgFavoriteUsage))
		}
		r.logger.Error("Failed to load favorite",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}

	return r.logMeal(user, favorite.Calories, favorite.Name, "")
}

// saveUser persists profile edits and reports collaborator failures to the
// user as a generic error.
func (r *commandRouter) saveUser(user *nutrition.User) error {
	if err := r.repo.SaveUser(user); err != nil {
		r.logger.Error("Failed to save user",
			zap.String("user_phone", string(user.Phone)),
			zap.Error(err))
		return r.provider.SendText(user.Phone, msgGenericError)
	}
	return nil
}

// saveGoal persists a goal edit. An out-of-range value is answered with the
// allowed bounds and leaves the stored profile untouched; the caller only
// sends its confirmation when saved is true.
func (r *commandRouter) saveGoal(user *nutrition.User, label, unit string) (saved bool, err error) {
	err = r.repo.SaveUser(user)
	if err == nil {
		return true, nil
	}

	var rangeErr nutrition.GoalRangeError
	if errors.As(err, &rangeErr) {
		return false, r.provider.SendText(user.Phone,
			fmt.Sprintf("⚠️ %s %d-%d %s arasında olmalı.", label, rangeErr.Min, rangeErr.Max, unit))
	}

	r.logger.Error("Failed to save user",
		zap.String("user_phone", string(user.Phone)),
		zap.Error(err))
	return false, r.provider.SendText(user.Phone, msgGenericError)
}

func parsePositiveInt(args []string) (int, bool) {
	if len(args) < 1 {
		return 0, false
	}
	value, err := strconv.Atoi(args[0])
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}
