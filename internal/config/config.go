package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBot TelegramBot
	ESPNAPI     ESPNAPI
	Storage     Storage
	Server      Server
	Schedule    Schedule
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

// ESPNAPI identifies the league and the seasons to import. The cookies are
// only needed for private leagues.
type ESPNAPI struct {
	LeagueID     string `envconfig:"LEAGUE_ID" required:"true"`
	SWID         string `envconfig:"SWID"`
	ESPNS2       string `envconfig:"ESPN_S2"`
	Years        []int  `envconfig:"YEARS" required:"true"`
	PlayoffTeams int    `envconfig:"PLAYOFF_TEAMS" default:"4"`
}

type Storage struct {
	RedisURL   string        `envconfig:"REDIS_URL"`
	HistoryTTL time.Duration `envconfig:"HISTORY_TTL" default:"24h"`
}

type Server struct {
	Addr string `envconfig:"HTTP_ADDR" default:":80"`
}

type Schedule struct {
	ImportCron string `envconfig:"IMPORT_CRON" default:"30 7 * * 2"`
	Timezone   string `envconfig:"TIMEZONE" default:"America/Chicago"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if c.ESPNAPI.PlayoffTeams < 1 {
		return nil, fmt.Errorf("PLAYOFF_TEAMS must be positive, got %d", c.ESPNAPI.PlayoffTeams)
	}
	return &c, nil
}
