// Package interval реализует вычисление интервалов между отслеживаемыми датами.
// Работает с датами в формате dd/mm/yyyy (формат обмена со storage и API).
package interval

import (
	"fmt"
	"sort"
	"time"
)

// DateFormat формат даты на границах системы (storage, API): dd/mm/yyyy с ведущими нулями
const DateFormat = "02/01/2006"

// parseFormat принимает дату и без ведущих нулей: "5/3/2024" и "05/03/2024"
// разбираются в одну и ту же дату. Наружу всегда уходит DateFormat
const parseFormat = "2/1/2006"

// Span представляет интервал между двумя соседними датами в отсортированной
// последовательности. Seq нумеруется с 1.
type Span struct {
	Initial string `json:"initial_date"` // более ранняя дата, dd/mm/yyyy
	Recent  string `json:"recent_date"`  // более поздняя дата, dd/mm/yyyy
	Seq     int    `json:"seq"`          // порядковый номер интервала
	Days    int    `json:"days"`         // количество календарных дней между датами
}

// ParseDate разбирает дату в формате dd/mm/yyyy.
// Время всегда UTC midnight: сравнение и вычитание дат не зависит от таймзоны
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(parseFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected format dd/mm/yyyy: %w", s, err)
	}
	return t, nil
}

// FormatDate форматирует дату в dd/mm/yyyy с ведущими нулями
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// DaysBetween возвращает количество календарных дней между двумя датами (b - a).
// Обе даты должны быть получены через ParseDate (UTC midnight). Считает через
// порядковые номера суток: разность через time.Duration переполняется на
// интервалах длиннее ~292 лет
func DaysBetween(a, b time.Time) int {
	return int(b.Unix()/secondsPerDay - a.Unix()/secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// Spans сортирует даты по возрастанию и возвращает интервалы между соседними
// парами. Результат не зависит от порядка входных дат. Менее двух валидных
// дат - пустой результат, не ошибка. Строки, которые не удается разобрать,
// пропускаются: count view деградирует, а не падает.
func Spans(dates []string) []Span {
	parsed := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := ParseDate(d)
		if err != nil {
			continue
		}
		parsed = append(parsed, t)
	}

	if len(parsed) < 2 {
		return []Span{}
	}

	// Стабильная сортировка: дубликаты дат сохраняют относительный порядок
	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].Before(parsed[j])
	})

	spans := make([]Span, 0, len(parsed)-1)
	for i := 1; i < len(parsed); i++ {
		initial := parsed[i-1]
		recent := parsed[i]
		spans = append(spans, Span{
			Seq:     i,
			Initial: FormatDate(initial),
			Recent:  FormatDate(recent),
			Days:    DaysBetween(initial, recent),
		})
	}

	return spans
}
