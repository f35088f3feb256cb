package tg

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"internbot/internal/catalog"
	"internbot/internal/model"
)

// Состояния диалогов вне мастера рассылки. Хранятся строкой в кэше,
// данные шага лежат рядом в dialogState.Data.
const (
	StateAddSpecialization    = "AddSpecializationName"
	StateRenameSpecialization = "RenameSpecializationName"
	StateAddCourse            = "AddCourseName"
	StateProjectCreate        = "ProjectCreate"
	StateProjectEdit          = "ProjectEdit"
	StateCourseSearch         = "BroadcastCourseSearch"
	StateStatsSearch          = "StatsSearch"
)

type dialogState struct {
	Name string
	Data any
}

// projectCreateFlow накапливает поля нового проекта по шагам
type projectCreateFlow struct {
	Draft model.Project
	Stage int // 0 - заголовок, 1 - описание, 2 - польза, 3 - пример
}

// projectEditFlow редактирование проекта, любой шаг можно пропустить
type projectEditFlow struct {
	ProjectID uint
	Update    catalog.ProjectUpdate
	Stage     int
}

// Типы действий в callback'ах. Данные кнопок сериализуются в JSON,
// тип действия вычитывается через gjson до полного разбора.
const (
	ActionMenu     = "Menu"
	ActionRegister = "Register"
	ActionWizard   = "Wizard"
	ActionSpec     = "Spec"
	ActionCourse   = "Course"
	ActionProject  = "Project"
	ActionStats    = "Stats"
	ActionStatus   = "Status"
	ActionExport   = "Export"
)

type CallBackAction struct {
	ActionType string `json:"ActionType"`
	Op         string `json:"Op,omitempty"`
	ID         int64  `json:"ID,omitempty"`
	Page       int    `json:"Page,omitempty"`
}

// parseCallback разбирает данные кнопки. Кнопки со строковыми командами
// (не JSON) возвращают пустой ActionType.
func parseCallback(data string) CallBackAction {
	if !gjson.Get(data, "ActionType").Exists() {
		return CallBackAction{}
	}

	var action CallBackAction
	if err := json.Unmarshal([]byte(data), &action); err != nil {
		return CallBackAction{}
	}
	return action
}

// callbackData сериализует действие для кнопки.
// Telegram ограничивает callback data 64 байтами, поля действия короткие.
func callbackData(action CallBackAction) string {
	data, _ := json.Marshal(action)
	return string(data)
}
