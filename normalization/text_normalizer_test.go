package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalize проверяет базовую нормализацию текста
func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"пустая строка", "", ""},
		{"только пробелы", "   \t  ", ""},
		{"приведение к нижнему регистру", "Башмак Колонный", "башмак колонный"},
		{"схлопывание пробелов", "муфта   резьбовая \t ОНГ", "муфта резьбовая онг"},
		{"обрезка краев", "  переводник  ", "переводник"},
		{"кириллица с ё", "КОЛЬЦО Стопорное Ё", "кольцо стопорное ё"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

// TestExtractCode проверяет извлечение кода номенклатуры по шаблонам
func TestExtractCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"пустая строка", "", ""},
		{"без кода", "башмак колонный вращающийся", ""},
		{"буквенный префикс с тремя группами", "Муфта ОНГ.216.00.000-01 стальная", "ОНГ.216.00.000-01"},
		{"буквенный префикс с двумя группами", "Кольцо АБВ.12.34-5,6", "АБВ.12.34-5,6"},
		{"буквы-дефис-буквы с числом", "Башмак колонный вращающийся БК-Вр.114", "БК-Вр.114"},
		{"чисто числовая цепочка", "Деталь 32.23.0-28 универсальная", "32.23.0-28"},
		{"составной числовой код", "0.0.0-0-0.0-0-32.23.0-28", "0.0.0-0-0.0-0-32.23.0-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractCode(tt.input))
		})
	}
}

// TestExtractCode_LetterFormsBeforeNumeric проверяет порядок шаблонов:
// буквенная форма не должна усекаться до числового хвоста
func TestExtractCode_LetterFormsBeforeNumeric(t *testing.T) {
	code := ExtractCode("Муфта ОНГ.216.00.000-01-032")
	assert.Equal(t, "ОНГ.216.00.000-01-032", code)
}

// TestExtractCode_IdempotentUnderNormalize проверяет, что извлечение
// после нормализации дает тот же код с точностью до регистра
func TestExtractCode_IdempotentUnderNormalize(t *testing.T) {
	inputs := []string{
		"Башмак колонный вращающийся БК-Вр.114",
		"Муфта ОНГ.216.00.000-01-032 (подойдет 3/4)",
		"Деталь 32.23.0-28",
	}

	for _, input := range inputs {
		raw := ExtractCode(input)
		normalized := ExtractCode(Normalize(input))
		assert.Equal(t, Normalize(raw), normalized, "input: %s", input)
	}
}
