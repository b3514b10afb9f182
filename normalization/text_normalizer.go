package normalization

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerRu = cases.Lower(language.Russian)

// Упорядоченный набор шаблонов кода номенклатуры.
// Буквенные формы проверяются строго раньше чисто числовых, иначе
// составной код вида "БК-Вр.114" усекается до числового хвоста.
// Регистр не учитывается: нормализованный текст уже в нижнем регистре,
// а инвариант извлечения должен выдерживать оба варианта.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[А-ЯЁа-яё]+\.\d+\.\d+\.\d+(?:-\d+)*`),
	regexp.MustCompile(`[А-ЯЁа-яё]+\.\d+\.\d+(?:-[\d.,]+)*`),
	regexp.MustCompile(`[А-ЯЁа-яё]{2,4}-[А-ЯЁа-яё]{2,4}\.\d+`),
	regexp.MustCompile(`\d+\.\d+\.\d+(?:-[\d.,]+)*`),
}

// Normalize нормализует строку номенклатуры или контрагента:
// удаляет ведущие и хвостовые пробелы, приводит к нижнему регистру,
// схлопывает внутренние пробельные последовательности в один пробел.
// Для пустого входа возвращает пустую строку, никогда не завершается ошибкой.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = lowerRu.String(strings.TrimSpace(text))
	return strings.Join(strings.Fields(text), " ")
}

// ExtractCode извлекает структурированный код номенклатуры из текста.
// Шаблоны применяются по порядку, возвращается полное совпадение первого
// сработавшего. Пустая строка означает, что код не найден.
func ExtractCode(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	for _, pattern := range codePatterns {
		if match := pattern.FindString(text); match != "" {
			return match
		}
	}

	return ""
}
