package delivery

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

const defaultChatCaption = "Your daily weather and motivation update"

// ChatSender delivers voice notes through a Telegram bot.
type ChatSender struct {
	bot *telego.Bot
}

// NewChatSender creates the sender. An empty token, or a token the Telegram
// client rejects, leaves the sender in simulated mode.
func NewChatSender(token string) *ChatSender {
	if token == "" {
		return &ChatSender{}
	}

	bot, err := telego.NewBot(token)
	if err != nil {
		log.Printf("ERROR: failed to create telegram bot, chat delivery will be simulated: %v", err)
		return &ChatSender{}
	}
	return &ChatSender{bot: bot}
}

func (c *ChatSender) Channel() Channel { return ChannelChat }

func (c *ChatSender) Send(ctx context.Context, req Request, audio AudioRef) (Outcome, error) {
	if err := validateChat(req.Destination); err != nil {
		return Outcome{Detail: fmt.Sprintf("invalid chat destination %q", req.Destination)}, err
	}

	if c.bot == nil {
		return Outcome{
			Success:   true,
			Simulated: true,
			Detail:    fmt.Sprintf("telegram bot token not configured; would have sent voice note to %s via chat", req.Destination),
		}, nil
	}

	chatID := chatIDFor(req.Destination)

	// A supplied caption goes out as its own message ahead of the audio.
	if req.Message != "" {
		if _, err := c.bot.SendMessage(tu.Message(chatID, req.Message)); err != nil {
			return Outcome{Detail: fmt.Sprintf("failed to send chat message to %s", req.Destination)},
				fmt.Errorf("%w: telegram message: %v", ErrDeliveryFailed, err)
		}
	}

	f, err := os.Open(audio.Path)
	if err != nil {
		return Outcome{Detail: "audio file not readable"}, err
	}
	defer f.Close()

	params := tu.Audio(chatID, tu.File(f)).WithCaption(defaultChatCaption)
	if _, err := c.bot.SendAudio(params); err != nil {
		return Outcome{Detail: fmt.Sprintf("failed to send voice note to %s via chat", req.Destination)},
			fmt.Errorf("%w: telegram audio: %v", ErrDeliveryFailed, err)
	}

	return Outcome{
		Success: true,
		Detail:  fmt.Sprintf("voice note sent to %s via chat", req.Destination),
	}, nil
}

func chatIDFor(dest string) telego.ChatID {
	if strings.HasPrefix(dest, "@") {
		return tu.Username(dest)
	}
	id, _ := strconv.ParseInt(dest, 10, 64)
	return tu.ID(id)
}
