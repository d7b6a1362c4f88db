package bot

import (
	"log/slog"
	"regbot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Command lists for Telegram's menu button (the "/" icon in the chat input).
// The admin chat gets its own list via BotCommandScopeChat.

var commandsUser = []tgbotapi.BotCommand{
	{Command: "start", Description: "Ro'yxatdan o'tish"},
	{Command: "restart", Description: "Qaytadan ro'yxatdan o'tish"},
}

var commandsAdmin = []tgbotapi.BotCommand{
	{Command: "admin", Description: "Admin menyu"},
	{Command: "stat", Description: "Statistika"},
	{Command: "export", Description: "Excel fayl yuklab olish"},
	{Command: "broadcast", Description: "Obunachilarga xabar yuborish"},
	{Command: "cancel", Description: "Broadcastni bekor qilish"},
	{Command: "restart", Description: "Qaytadan ro'yxatdan o'tish"},
}

type commandMenu struct {
	scope    tgbotapi.BotCommandScope
	commands []tgbotapi.BotCommand
}

// commandMenus lists the menus to register: the default one for everybody and,
// when an admin chat is configured, the admin one scoped to that chat.
func commandMenus(adminId int64) []commandMenu {
	menus := []commandMenu{{scope: tgbotapi.BotCommandScopeDefault{}, commands: commandsUser}}
	if adminId != 0 {
		menus = append(menus, commandMenu{
			scope:    tgbotapi.BotCommandScopeChat{ChatId: adminId},
			commands: commandsAdmin,
		})
	}
	return menus
}

// RegisterCommands publishes the command menus. It is called once at startup
// in both run modes; failures are logged and do not stop the bot.
func (t *TgBot) RegisterCommands() {
	for _, menu := range commandMenus(t.adminId) {
		_, err := t.api.SetMyCommands(menu.commands, &tgbotapi.SetMyCommandsOpts{
			Scope:       menu.scope,
			RequestOpts: requestOpts(),
		})
		if err != nil {
			t.log.Warn("setting commands", slog.String("scope", menu.scope.GetType()), sl.Err(err))
		}
	}
}
