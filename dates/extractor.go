// Package dates извлекает даты приобретения и реализации из
// полуструктурированного текста документов 1С и преобразует
// текстовые периоды в календарные интервалы.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateFormatOutput формат вывода дат в итоговых столбцах
const DateFormatOutput = "02.01.2006"

// realizationFormats форматы дат реализации в порядке попыток разбора
var realizationFormats = []string{"02.01.2006", "2006-01-02", "02/01/2006"}

var (
	// Известные шаблоны документов, из которых извлекается дата приобретения.
	// Временная часть после даты игнорируется.
	documentDateRe = regexp.MustCompile(
		`(?:Приобретение товаров и услуг|Внутренняя накладная|Реализация товаров и услуг)` +
			`.*?от\s+(\d{2}\.\d{2}\.\d{4})(?:\s+\d{1,2}:\d{2}:\d{2})?`)

	// Период вида "Декабрь 2024 г." / "декабря 2024 г"
	periodRe = regexp.MustCompile(`([А-ЯЁа-яё]+)\s+(\d{4})\s*г\.?`)

	// Валидный квартал: "N квартал YYYY", N=1-4, YYYY=2020-2039
	quarterLabelRe = regexp.MustCompile(`^([1-4])\s+квартал\s+(20[2-3][0-9])$`)
)

var lowerRu = cases.Lower(language.Russian)

// monthIndex сопоставляет русские названия месяцев (именительный и
// родительный падежи, нижний регистр) с номерами 1-12
var monthIndex = map[string]time.Month{
	"январь": 1, "февраль": 2, "март": 3, "апрель": 4, "май": 5, "июнь": 6,
	"июль": 7, "август": 8, "сентябрь": 9, "октябрь": 10, "ноябрь": 11, "декабрь": 12,
	"января": 1, "февраля": 2, "марта": 3, "апреля": 4, "мая": 5, "июня": 6,
	"июля": 7, "августа": 8, "сентября": 9, "октября": 10, "ноября": 11, "декабря": 12,
}

// Extractor извлекает даты из текстов документов.
// PstrStart и PstrLength задают быстрый путь: чтение даты с
// фиксированной позиции строки до перехода к поиску по шаблонам.
type Extractor struct {
	PstrStart  int
	PstrLength int
}

// NewExtractor создает экстрактор дат с заданными параметрами быстрого пути
func NewExtractor(pstrStart, pstrLength int) *Extractor {
	return &Extractor{
		PstrStart:  pstrStart,
		PstrLength: pstrLength,
	}
}

// AcquisitionDate извлекает дату приобретения из строки документа.
// Сначала пробует фиксированную позицию, затем поиск по известным
// шаблонам фраз. Возвращает nil, если дата не найдена или не разбирается.
func (e *Extractor) AcquisitionDate(document string) *time.Time {
	if document == "" {
		return nil
	}

	if d := e.dateAtFixedOffset(document); d != nil {
		return d
	}

	match := documentDateRe.FindStringSubmatch(document)
	if match == nil {
		return nil
	}

	parsed, err := time.Parse("02.01.2006", match[1])
	if err != nil {
		return nil
	}
	return &parsed
}

// dateAtFixedOffset читает дату DD.MM.YYYY с фиксированной позиции строки
func (e *Extractor) dateAtFixedOffset(text string) *time.Time {
	if e.PstrLength <= 0 {
		return nil
	}

	runes := []rune(text)
	if len(runes) < e.PstrStart+e.PstrLength {
		return nil
	}

	candidate := string(runes[e.PstrStart : e.PstrStart+e.PstrLength])
	parsed, err := time.Parse("02.01.2006", candidate)
	if err != nil {
		return nil
	}
	return &parsed
}

// RealizationDate разбирает дату реализации, пробуя известные форматы по порядку
func RealizationDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	for _, format := range realizationFormats {
		if parsed, err := time.Parse(format, text); err == nil {
			return &parsed
		}
	}

	return nil
}

// QuarterLabel возвращает метку квартала вида "N квартал YYYY"
// или пустую строку для отсутствующей даты
func QuarterLabel(date *time.Time) string {
	if date == nil {
		return ""
	}

	quarter := (int(date.Month())-1)/3 + 1
	return fmt.Sprintf("%d квартал %d", quarter, date.Year())
}

// IsQuarterLabel проверяет, что строка является валидной меткой квартала
func IsQuarterLabel(value string) bool {
	return quarterLabelRe.MatchString(value)
}

// PeriodRange преобразует строку периода вида "Декабрь 2024 г." в
// закрытый интервал [первый день месяца, последний день месяца].
// Возвращает (nil, nil), если текст не распознан.
func PeriodRange(period string) (*time.Time, *time.Time) {
	match := periodRe.FindStringSubmatch(period)
	if match == nil {
		return nil, nil
	}

	month, ok := monthIndex[lowerRu.String(match[1])]
	if !ok {
		return nil, nil
	}

	year, err := strconv.Atoi(match[2])
	if err != nil {
		return nil, nil
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// День 0 следующего месяца нормализуется в последний день текущего,
	// включая 29 февраля в високосные годы
	end := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return &start, &end
}

// InRange сообщает, попадает ли дата в закрытый интервал [start, end].
// Любой nil-аргумент означает отсутствие данных и дает false.
func InRange(date, start, end *time.Time) bool {
	if date == nil || start == nil || end == nil {
		return false
	}
	return !date.Before(*start) && !date.After(*end)
}
