package chatbot

// User-facing Turkish copy. Kept in one place so the handlers stay readable.
const (
	msgWelcome = `👋 Merhaba! Ben kalori ve su takibi yapan beslenme asistanınım.

Önce öğün saatlerini öğrenmem gerekiyor, böylece sana doğru zamanda hatırlatma gönderebilirim.

🌅 Kahvaltını genellikle saat kaçta yaparsın? (örn. 08:30)`

	msgAskLunch  = "🥗 Harika! Peki öğle yemeğini genellikle saat kaçta yersin? (örn. 12:30)"
	msgAskDinner = "🍲 Son soru: akşam yemeğini genellikle saat kaçta yersin? (örn. 19:30)"

	msgOnboardingDone = `✅ Hepsi bu kadar, kaydın tamamlandı!

Artık bana yemek fotoğrafı gönderebilir, "250 ml içtim" gibi mesajlarla su tüketimini kaydedebilirsin.

Komutları görmek için "yardim" yazman yeterli.`

	msgInvalidTime = "⏰ Bu saati anlayamadım. Lütfen SS:DD biçiminde yaz, örneğin 08:30."

	msgHelp = `ℹ️ *Kullanabileceğin komutlar:*

📷 Yemek fotoğrafı gönder → kalorisini hesaplayıp kaydederim
🍽️ ogun <açıklama> → yazıyla öğün kaydet
💧 "250 ml içtim" veya "1 bardak su içtim" → su kaydet
💧 su → hızlı su butonları

📊 rapor → günlük rapor
📜 gecmis → son öğünlerin
💡 tavsiye → kişisel beslenme önerisi
⚙️ ayarlar → mevcut ayarların

🕐 saat kahvalti 08:30 → öğün saatini değiştir
🌍 timezone Europe/Istanbul → saat dilimi
🔔 suaraligi 120 → su hatırlatma aralığı (dk)
🎯 kalorihedefi 2000 / suhedefi 2000 → hedefler
🌙 sessiz 23:00 07:00 → sessiz saatler
⭐ favori ekle <isim> <kalori> → favori öğün`

	msgGenericError   = "😕 Bir şeyler ters gitti, lütfen biraz sonra tekrar dene."
	msgUnknownCommand = "🤔 Bunu anlayamadım."

	msgWaterPrompt = "💧 Ne kadar su içtin?"

	msgImageLimitReached = "📷 Bugünlük fotoğraf analizi hakkın doldu. Yarın tekrar deneyebilir veya öğününü yazıyla kaydedebilirsin."
	msgImageFailed       = "😕 Fotoğrafı analiz edemedim. Lütfen daha net bir fotoğraf dene veya öğününü yazıyla kaydet."

	msgTimezoneUsage = "🌍 Kullanım: timezone <IANA adı>, örneğin: timezone Europe/Istanbul"
	msgMealTimeUsage = "🕐 Kullanım: saat <kahvalti|ogle|aksam> <SS:DD>, örneğin: saat kahvalti 08:30"
	msgSilentUsage   = "🌙 Kullanım: sessiz <başlangıç> <bitiş>, örneğin: sessiz 23:00 07:00"
	msgFavoriteUsage = "⭐ Kullanım: favori ekle <isim> <kalori>, favori sil <isim>, favori liste veya favori <isim>"
	msgMealLogUsage  = "🍽️ Kullanım: ogun <açıklama>, örneğin: ogun mercimek çorbası ve salata"
)
