package entity

const BotName = "Computer"

type Player struct {
	Name string `json:"name"`
	Mark string `json:"mark"`
	Bot  bool   `json:"bot,omitempty"`
}

func NewBotPlayer(mark string) *Player {
	return &Player{
		Name: BotName,
		Mark: mark,
		Bot:  true,
	}
}

func (that *Player) IsBot() bool {
	return that.Bot
}
