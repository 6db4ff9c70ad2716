package service

import (
	"strconv"
	"strings"

	"dtportal/logger"
	"dtportal/web/locale"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

var (
	bot       *telego.Bot
	adminIds  []int64
	isRunning bool
)

// Tgbot sends portal notifications (admin logins, daily summaries) to the
// configured Telegram chats. It has no command surface: outbound only.
type Tgbot struct {
	settingService SettingService
}

func (t *Tgbot) NewTgbot() *Tgbot {
	return new(Tgbot)
}

// Start reads the bot token and admin chat ids from settings and creates
// the bot client.
func (t *Tgbot) Start() error {
	tgBotToken, err := t.settingService.GetTgBotToken()
	if err != nil || tgBotToken == "" {
		logger.Warning("Get TgBotToken failed:", err)
		return err
	}

	tgBotId, err := t.settingService.GetTgBotChatId()
	if err != nil {
		logger.Warning("Get GetTgBotChatId failed:", err)
		return err
	}

	adminIds = adminIds[:0]
	for _, adminId := range strings.Split(tgBotId, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(adminId))
		if err != nil {
			logger.Warning("Failed to parse admin chat id:", err)
			return err
		}
		adminIds = append(adminIds, int64(id))
	}

	bot, err = telego.NewBot(tgBotToken)
	if err != nil {
		logger.Warning("Get tgbot's api error:", err)
		return err
	}

	isRunning = true
	logger.Info("Telegram notifier started")
	return nil
}

func (t *Tgbot) IsRunning() bool {
	return isRunning
}

func (t *Tgbot) Stop() {
	isRunning = false
	adminIds = nil
	logger.Info("Telegram notifier stopped")
}

// I18nBot translates a bot message with "name==value" parameters.
func (t *Tgbot) I18nBot(name string, params ...string) string {
	return locale.I18n(locale.Bot, name, params...)
}

// SendMsgToTgbot sends one message to a chat. No-op while not running.
func (t *Tgbot) SendMsgToTgbot(chatId int64, msg string) {
	if !isRunning {
		return
	}
	if msg == "" {
		logger.Info("[tgbot] message is empty!")
		return
	}

	params := telego.SendMessageParams{
		ChatID: tu.ID(chatId),
		Text:   msg,
	}
	if _, err := bot.SendMessage(&params); err != nil {
		logger.Warning("Error sending telegram message :", err)
	}
}

// SendMsgToAdmins broadcasts a message to every configured admin chat.
func (t *Tgbot) SendMsgToAdmins(msg string) {
	for _, adminId := range adminIds {
		t.SendMsgToTgbot(adminId, msg)
	}
}

// UserLoginNotify reports a portal login attempt to the admin chats when
// login notifications are enabled. success is 1 for success, 0 for failure.
func (t *Tgbot) UserLoginNotify(username, ip, time string, success int) {
	if !isRunning {
		return
	}
	loginNotifyEnabled, err := t.settingService.GetTgBotLoginNotify()
	if err != nil || !loginNotifyEnabled {
		return
	}

	key := "tgbot.loginFailed"
	if success == 1 {
		key = "tgbot.loginSuccess"
	}
	msg := t.I18nBot(key, "username=="+username, "ip=="+ip, "time=="+time)
	t.SendMsgToAdmins(msg)
}
