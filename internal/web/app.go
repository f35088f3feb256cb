package web

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"internbot/internal/broadcast"
	"internbot/internal/catalog"
	"internbot/internal/config"
	"internbot/internal/infrastructure/db"
	"internbot/internal/infrastructure/logger"
)

var App *WebApp

func InitWebApp() error {
	var err error

	App, err = NewWebApp()
	if err != nil {
		return err
	}

	return nil
}

// WebApp сервисный HTTP API: health-check и выборки по истории рассылок
// для внутренних дашбордов
type WebApp struct {
	Router *mux.Router

	catalog *catalog.Store
	records *broadcast.RecordStore
}

func NewWebApp() (*WebApp, error) {
	app := WebApp{
		catalog: catalog.NewStore(db.DB),
		records: broadcast.NewRecordStore(db.DB),
	}
	app.Router = app.SetRoutes()
	return &app, nil
}

// Run запускает HTTP сервер, блокирует вызывающую горутину
func (app *WebApp) Run() error {
	conf := config.File.WebConfig

	logger.Infof("Сервисный API запущен (%s:%s)", conf.APPIP, conf.APPPORT)

	err := http.ListenAndServe(conf.APPIP+":"+conf.APPPORT, app.Router)
	if err != nil {
		return fmt.Errorf("ошибка при запуске сервера: %v", err)
	}
	return nil
}
