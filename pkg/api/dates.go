package api

// Даты передаются строками в формате dd/mm/yyyy с ведущими нулями

// AddDateRequest представляет запрос на добавление даты
type AddDateRequest struct {
	Date string `json:"date"` // дата в формате dd/mm/yyyy
}

// EditDateRequest представляет запрос на изменение даты записи
type EditDateRequest struct {
	Date string `json:"date"` // новое значение даты в формате dd/mm/yyyy
}

// DateEntry представляет одну запись даты в ответах API
type DateEntry struct {
	ID        string `json:"id"`         // UUID записи
	Date      string `json:"date"`       // дата в формате dd/mm/yyyy
	TrackedAt string `json:"tracked_at"` // время создания записи, RFC3339
}

// ListDatesResponse представляет список записей пользователя
type ListDatesResponse struct {
	Dates []DateEntry `json:"dates"`
}

// SpanEntry представляет один интервал между соседними датами
type SpanEntry struct {
	InitialDate string `json:"initial_date"` // более ранняя дата
	RecentDate  string `json:"recent_date"`  // более поздняя дата
	Seq         int    `json:"seq"`          // порядковый номер, с 1
	Days        int    `json:"days"`         // количество дней между датами
}

// CountResponse представляет результат вычисления интервалов
type CountResponse struct {
	Spans []SpanEntry `json:"spans"`
}

// DeleteAllResponse представляет результат массового удаления
type DeleteAllResponse struct {
	Deleted int `json:"deleted"` // количество удаленных записей
}
