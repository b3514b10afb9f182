package dates

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// TestAcquisitionDate_Templates проверяет извлечение даты по известным шаблонам документов
func TestAcquisitionDate_Templates(t *testing.T) {
	e := NewExtractor(0, 0)

	tests := []struct {
		name     string
		document string
		expected *time.Time
	}{
		{
			"приобретение с временем",
			"Приобретение товаров и услуг 00КА-001861 от 28.06.2024 0:00:00",
			date(2024, time.June, 28),
		},
		{
			"реализация без времени",
			"Реализация товаров и услуг 00КА-00135 от 20.01.2025",
			date(2025, time.January, 20),
		},
		{
			"внутренняя накладная",
			"Внутренняя накладная НЧТЗ-00042 от 03.12.2024 12:30:00",
			date(2024, time.December, 3),
		},
		{"текст без шаблона", "просто текст без даты", nil},
		{"шаблон без даты", "Реализация товаров и услуг без номера", nil},
		{"невалидная дата", "Реализация товаров и услуг 00КА-1 от 45.13.2024", nil},
		{"пустая строка", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.AcquisitionDate(tt.document)
			if tt.expected == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.True(t, tt.expected.Equal(*got), "got %v", got)
			}
		})
	}
}

// TestAcquisitionDate_FixedOffset проверяет быстрый путь чтения даты с фиксированной позиции
func TestAcquisitionDate_FixedOffset(t *testing.T) {
	e := NewExtractor(10, 10)

	got := e.AcquisitionDate("0123456789" + "28.06.2024" + " хвост")
	require.NotNil(t, got)
	assert.True(t, date(2024, time.June, 28).Equal(*got))

	// Короткая строка уходит на поиск по шаблонам
	got = e.AcquisitionDate("Реализация товаров и услуг 1 от 20.01.2025")
	require.NotNil(t, got)
	assert.True(t, date(2025, time.January, 20).Equal(*got))
}

// TestRealizationDate проверяет разбор даты реализации в нескольких форматах
func TestRealizationDate(t *testing.T) {
	tests := []struct {
		input    string
		expected *time.Time
	}{
		{"01.03.2025", date(2025, time.March, 1)},
		{"2025-03-01", date(2025, time.March, 1)},
		{"01/03/2025", date(2025, time.March, 1)},
		{"  15.04.2025  ", date(2025, time.April, 15)},
		{"не дата", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := RealizationDate(tt.input)
		if tt.expected == nil {
			assert.Nil(t, got, "input: %q", tt.input)
		} else {
			require.NotNil(t, got, "input: %q", tt.input)
			assert.True(t, tt.expected.Equal(*got), "input: %q", tt.input)
		}
	}
}

// TestQuarterLabel проверяет формат метки квартала
func TestQuarterLabel(t *testing.T) {
	assert.Equal(t, "", QuarterLabel(nil))
	assert.Equal(t, "1 квартал 2025", QuarterLabel(date(2025, time.January, 20)))
	assert.Equal(t, "2 квартал 2024", QuarterLabel(date(2024, time.June, 28)))
	assert.Equal(t, "3 квартал 2024", QuarterLabel(date(2024, time.July, 1)))
	assert.Equal(t, "4 квартал 2024", QuarterLabel(date(2024, time.December, 31)))
}

// TestQuarterLabel_RoundTrip проверяет согласованность метки квартала
// для всех месяцев всех лет рабочего диапазона
func TestQuarterLabel_RoundTrip(t *testing.T) {
	for year := 2020; year <= 2029; year++ {
		for month := time.January; month <= time.December; month++ {
			d := date(year, month, 15)
			label := QuarterLabel(d)
			expected := fmt.Sprintf("%d квартал %d", (int(month)-1)/3+1, year)
			assert.Equal(t, expected, label)
			assert.True(t, IsQuarterLabel(label), "label %q must validate", label)
		}
	}
}

// TestIsQuarterLabel проверяет валидацию метки квартала
func TestIsQuarterLabel(t *testing.T) {
	assert.True(t, IsQuarterLabel("1 квартал 2025"))
	assert.True(t, IsQuarterLabel("4 квартал 2039"))
	assert.False(t, IsQuarterLabel("5 квартал 2025"))
	assert.False(t, IsQuarterLabel("1 квартал 2019"))
	assert.False(t, IsQuarterLabel("Q1 2025"))
	assert.False(t, IsQuarterLabel(""))
	assert.False(t, IsQuarterLabel("1 квартал 2025 г."))
}

// TestPeriodRange проверяет преобразование периода в интервал дат
func TestPeriodRange(t *testing.T) {
	tests := []struct {
		name   string
		period string
		start  *time.Time
		end    *time.Time
	}{
		{"февраль високосного года", "Февраль 2024 г.", date(2024, time.February, 1), date(2024, time.February, 29)},
		{"февраль обычного года", "Февраль 2025 г.", date(2025, time.February, 1), date(2025, time.February, 28)},
		{"декабрь", "Декабрь 2024 г.", date(2024, time.December, 1), date(2024, time.December, 31)},
		{"родительный падеж", "января 2025 г", date(2025, time.January, 1), date(2025, time.January, 31)},
		{"без суффикса г.", "Апрель 2025 г", date(2025, time.April, 1), date(2025, time.April, 30)},
		{"неизвестный месяц", "Мартобрь 2025 г.", nil, nil},
		{"пустая строка", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PeriodRange(tt.period)
			if tt.start == nil {
				assert.Nil(t, start)
				assert.Nil(t, end)
				return
			}
			require.NotNil(t, start)
			require.NotNil(t, end)
			assert.True(t, tt.start.Equal(*start), "start %v", start)
			assert.True(t, tt.end.Equal(*end), "end %v", end)
		})
	}
}

// TestPeriodRange_AllMonths проверяет последний день для всех двенадцати месяцев
func TestPeriodRange_AllMonths(t *testing.T) {
	months := []string{
		"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
	}
	lastDays := []int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

	for i, m := range months {
		start, end := PeriodRange(fmt.Sprintf("%s 2025 г.", m))
		require.NotNil(t, start, "month %s", m)
		require.NotNil(t, end, "month %s", m)
		assert.Equal(t, 1, start.Day())
		assert.Equal(t, lastDays[i], end.Day(), "month %s", m)
	}
}

// TestInRange проверяет попадание даты в закрытый интервал
func TestInRange(t *testing.T) {
	start, end := PeriodRange("Январь 2025 г.")

	assert.True(t, InRange(date(2025, time.January, 1), start, end))
	assert.True(t, InRange(date(2025, time.January, 31), start, end))
	assert.True(t, InRange(date(2025, time.January, 20), start, end))
	assert.False(t, InRange(date(2025, time.February, 1), start, end))
	assert.False(t, InRange(nil, start, end))
	assert.False(t, InRange(date(2025, time.January, 20), nil, end))
}
