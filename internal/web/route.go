package web

import (
	"github.com/gorilla/mux"
)

// Маршрутизатор
func (app *WebApp) SetRoutes() *mux.Router {
	router := mux.NewRouter()

	// Ограничение количества запросов от одного IP
	router.Use(LimitMiddleware)

	router.HandleFunc("/health", app.HandleHealth).Methods("GET")

	router.HandleFunc("/api/broadcasts", app.HandleGetBroadcasts).Methods("GET")
	router.HandleFunc("/api/broadcasts/export", app.HandleExportBroadcasts).Methods("GET")
	router.HandleFunc("/api/users/export", app.HandleExportUsers).Methods("GET")

	return router
}
