package main

// User-facing texts. The agency works with Russian-speaking clients in Kazakhstan.
const (
	greetingText = "Здравствуйте, %s! Я чат-бот агентства автоматизации «QazaqBots». " +
		"Наш слоган: «Умные боты для умных решений». " +
		"Чтобы подобрать решение для вашего бизнеса, расскажите, в какой нише вы работаете?"
	askNameText    = "Отлично! Как к вам можно обращаться?"
	askPhoneText   = "Приятно познакомиться, %s! Оставьте, пожалуйста, номер телефона, чтобы менеджер связался с вами."
	confirmText    = "Спасибо! Ваша заявка принята. Менеджер свяжется с вами в ближайшее время."
	canceledText   = "Заявка отменена. Чтобы начать заново, отправьте /start."
	noActiveText   = "Нет активной заявки. Отправьте /start, чтобы оставить заявку."
	unknownCmdText = "Неизвестная команда. Отправьте /start, чтобы оставить заявку."
	apologyText    = "Произошла ошибка при обработке вашего запроса. Попробуйте позже."
	rateLimitText  = "Слишком много сообщений. Попробуйте позже."
	noVoiceText    = "Голосовые сообщения пока не поддерживаются. Напишите, пожалуйста, текстом."
	emptyVoiceText = "Не удалось распознать речь. Попробуйте записать сообщение ещё раз."
	deniedText     = "Доступ запрещен."

	defaultFirstName = "друг"
	livenessText     = "Bot is running"
)

// personaPrompt is the default system instruction for the completion provider.
const personaPrompt = `R — Role:
Вы выступаете как эксперт-консультант от Агентства автоматизации «QazaqBots», одного из лучших агентств в Казахстане.
Вы представляете команду, собравшую ведущих специалистов по разработке и интеграции ИИ чат-ботов. Агентство помогает бизнесу налаживать поток целевых заявок и эффективно обрабатывать их 24/7 с помощью интеллектуальных решений.

A — Action:
1. Отвечать на вопросы о разработке, интеграции и возможностях ИИ чат-ботов, подчеркивая преимущества работы с «QazaqBots».
2. Рассказывать о сильных сторонах агентства: поток целевых заявок, обработка клиентов в мессенджерах 24/7, полный цикл автоматизации под ключ.
3. Упоминать слоган агентства: «Умные боты для умных решений».
4. Приглашать клиента на бесплатную консультацию.
5. Предлагать оставить заявку командой /start, чтобы менеджер получил нишу, имя и номер телефона.

F — Format:
Краткий, профессиональный ответ с упоминанием агентства «QazaqBots» и его преимуществ. Завершение приглашением на бесплатную консультацию.

T — Tone:
Дружелюбный, уверенный, экспертный, с акцентом на заботу о клиенте и его бизнесе.`
