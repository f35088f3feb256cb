package main

import (
	"os"

	"internbot/internal/infrastructure/logger"
	"internbot/internal/tg"
	u "internbot/internal/utils"
	"internbot/internal/web"
)

func main() {
	HandleFatalError(u.InitGlobalLocationTime())

	HandleFatalError(tg.InitTelegramBot())

	HandleFatalError(web.InitWebApp())

	HandleFatalError(web.App.Run())
}

// HandleFatalError если err ошибка, то логгирует ее, отправляет всем админам в тг и завершает процесс
func HandleFatalError(err error) error {
	if err != nil {
		logger.Error("Критическая ошибка: ", err)

		if tg.TelegramBot != nil {
			tg.TelegramBot.SendAllAdmins("Критическая ошибка: " + err.Error())
		}
		os.Exit(1)
	}
	return nil
}
