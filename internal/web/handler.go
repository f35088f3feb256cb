package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"internbot/internal/broadcast"
	"internbot/internal/export"
	"internbot/internal/infrastructure/logger"
	"internbot/internal/utils"
)

func (app *WebApp) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// broadcastResponse строка ответа /api/broadcasts
type broadcastResponse struct {
	BroadcastID  uint      `json:"broadcast_id"`
	Created      time.Time `json:"created"`
	ProjectTitle string    `json:"project_title,omitempty"`
	CourseName   string    `json:"course_name"`
	Recipients   int64     `json:"recipients"`
	Text         string    `json:"text"`
}

// HandleGetBroadcasts история рассылок в разрезе курсов.
// Фильтры: from, to (даты), course_id, project_id.
func (app *WebApp) HandleGetBroadcasts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summaries, err := app.records.FilterSummaries(filter)
	if err != nil {
		logger.Errorf("failed to filter broadcasts: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	response := make([]broadcastResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, broadcastResponse{
			BroadcastID:  s.BroadcastID,
			Created:      s.Created,
			ProjectTitle: s.ProjectTitle,
			CourseName:   s.CourseName,
			Recipients:   s.Recipients,
			Text:         s.Text,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleExportBroadcasts история рассылок файлом Excel, фильтры те же
func (app *WebApp) HandleExportBroadcasts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summaries, err := app.records.FilterSummaries(filter)
	if err != nil {
		logger.Errorf("failed to filter broadcasts: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data, err := export.BroadcastsWorkbook(summaries)
	if err != nil {
		logger.Errorf("failed to build broadcasts workbook: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sendWorkbook(w, fmt.Sprintf("broadcasts_%s.xlsx", time.Now().Format("2006-01-02")), data)
}

func (app *WebApp) HandleExportUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := app.catalog.ListUserRows()
	if err != nil {
		logger.Errorf("failed to list users: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data, err := export.UsersWorkbook(rows)
	if err != nil {
		logger.Errorf("failed to build users workbook: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sendWorkbook(w, fmt.Sprintf("users_%s.xlsx", time.Now().Format("2006-01-02")), data)
}

func sendWorkbook(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// parseFilter разбирает общие query-параметры выборки рассылок
func parseFilter(r *http.Request) (broadcast.Filter, error) {
	var filter broadcast.Filter
	query := r.URL.Query()

	if raw := query.Get("from"); raw != "" {
		from, err := utils.ParseDate(raw)
		if err != nil {
			return broadcast.Filter{}, fmt.Errorf("некорректный параметр from: %v", err)
		}
		filter.From = &from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := utils.ParseDate(raw)
		if err != nil {
			return broadcast.Filter{}, fmt.Errorf("некорректный параметр to: %v", err)
		}
		// Верхняя граница не включается, поэтому сдвигаем на сутки вперед
		to = to.Add(24 * time.Hour)
		filter.To = &to
	}
	if raw := query.Get("course_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return broadcast.Filter{}, fmt.Errorf("некорректный параметр course_id: %v", err)
		}
		courseID := uint(id)
		filter.CourseID = &courseID
	}
	if raw := query.Get("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return broadcast.Filter{}, fmt.Errorf("некорректный параметр project_id: %v", err)
		}
		projectID := uint(id)
		filter.ProjectID = &projectID
	}

	return filter, nil
}
