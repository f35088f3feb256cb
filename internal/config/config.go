package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramConfig
	DataBaseConfig
	BroadcastConfig
	WebConfig
	LoggerConfig
}

type TelegramConfig struct {
	Token    string  `envconfig:"TELEGRAM_TOKEN" required:"true"` // Токен бота
	AdminIDs []int64 `envconfig:"TELEGRAM_ADMIN_IDS" required:"true"` // Список tg_id админов через запятую
	BotURL   string  `envconfig:"TELEGRAM_BOT_URL" default:"https://t.me/Internships_SkillFactory_bot"` // Ссылка на бота для стартового лога
}

type DataBaseConfig struct {
	Host     string `envconfig:"DBHOST" required:"true"` // IP адрес для подключения к БД
	Port     string `envconfig:"DBPORT" default:""`      // Port для подключения к БД
	DBName   string `envconfig:"DBNAME" required:"true"` // Имя базы данных
	UserName string `envconfig:"DBUSER" required:"true"` // Имя пользователя
	Password string `envconfig:"DBPASS" required:"true"` // Пароль пользователя
	SSLMode  string `envconfig:"DBSSLMODE" default:"disable"`
}

type BroadcastConfig struct {
	MediaDir       string  `envconfig:"BROADCAST_MEDIA_DIR" default:"media/images"`  // Директория для сохранения изображений рассылок
	SendPerSecond  float64 `envconfig:"BROADCAST_SEND_PER_SECOND" default:"20"`      // Ограничение скорости отправки сообщений при рассылке
	SessionTTLHour int     `envconfig:"BROADCAST_SESSION_TTL_HOUR" default:"24"`     // Время жизни черновика рассылки в сессии админа
	PageSize       int     `envconfig:"BROADCAST_COURSES_PAGE_SIZE" default:"8"`     // Количество курсов на странице выбора
}

type WebConfig struct {
	APPIP   string  `envconfig:"APP_IP" default:"localhost"` // IP адрес сервисного API
	APPPORT string  `envconfig:"APP_PORT" default:"8080"`    // Порт сервисного API
	RPS     float64 `envconfig:"APP_RPS" default:"10"`       // Ограничение запросов в секунду к сервисному API
}

type LoggerConfig struct {
	LogDir      string `envconfig:"LOG_DIR" default:"./log/intern_bot"`
	MaxFileSize int64  `envconfig:"LOG_MAX_FILE_SIZE" default:"10485760"` // 10MB в байтах
	TimeFormat  string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02_15-04-05"`
	FilePattern string `envconfig:"LOG_FILE_PATTERN" default:"intern_bot_%s.log"`
}

var File *Config

func init() {
	// Загрузка файла .env, если он есть рядом с бинарником
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			panic(err)
		}
	}

	File = &Config{}
	err := envconfig.Process("", File)
	if err != nil {
		panic(err)
	}
}
