package models

import "time"

// DateRecord представляет одну отслеживаемую дату пользователя.
// Date хранится строкой в формате dd/mm/yyyy (формат обмена с хранилищем),
// TrackedAt - момент создания записи; обновляется при редактировании даты.
type DateRecord struct {
	ID        string    `json:"id"`         // UUID записи
	UserID    string    `json:"user_id"`    // ID владельца
	Date      string    `json:"date"`       // дата в формате dd/mm/yyyy
	TrackedAt time.Time `json:"tracked_at"` // время создания/последнего редактирования
}
