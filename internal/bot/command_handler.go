package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg, fmt.Sprintf("你好 %s！发送图片、视频或动图给我，我会自动保存它们。", msg.From.FirstName))
	case "help":
		b.reply(msg, "直接发送媒体文件即可。相册会整组收集后一起保存，转发的消息会按来源归档。")
	default:
		b.reply(msg, "未知命令 🤔")
	}
}
