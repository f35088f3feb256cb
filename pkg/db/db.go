package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config параметры подключения к базе данных
type Config struct {
	Host     string
	Port     string
	UserName string
	DBName   string
	Password string
	SSLMode  string
}

// NewDatabase создает новое подключение к базе данных и проверяет его пингом
func NewDatabase(conf Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s dbname=%s password=%s sslmode=%s", conf.Host, conf.UserName, conf.DBName, conf.Password, conf.SSLMode)
	if conf.Port != "" {
		dsn += fmt.Sprintf(" port=%s", conf.Port)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
