package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costcalc/dates"
)

// TestEnrichTarget проверяет вычисление производных полей целевой записи
func TestEnrichTarget(t *testing.T) {
	record := EnrichTarget(TargetRecord{
		NomenclatureRaw: "  Башмак   Колонный БК-Вр.114 ",
		DocumentRef:     "Приобретение товаров и услуг 00КА-001861 от 28.06.2024 0:00:00",
		RealizationRaw:  "01.03.2025",
	}, dates.NewExtractor(0, 0))

	assert.Equal(t, "башмак колонный бк-вр.114", record.NomenclatureNorm)
	assert.Equal(t, "БК-Вр.114", record.NomenclatureCode)
	require.NotNil(t, record.AcquisitionDate)
	assert.Equal(t, "2 квартал 2024", record.AcquisitionQuarter)
	require.NotNil(t, record.RealizationDate)
}

// TestEnrichTarget_QuarterFromRealization проверяет откат квартала
// на дату реализации при отсутствии даты приобретения
func TestEnrichTarget_QuarterFromRealization(t *testing.T) {
	record := EnrichTarget(TargetRecord{
		NomenclatureRaw: "Муфта",
		DocumentRef:     "текст без даты",
		RealizationRaw:  "15.04.2025",
	}, dates.NewExtractor(0, 0))

	assert.Nil(t, record.AcquisitionDate)
	assert.Equal(t, "2 квартал 2025", record.AcquisitionQuarter)
}

// TestEnrichReference проверяет вычисление производных полей справочной записи
func TestEnrichReference(t *testing.T) {
	record := EnrichReference(ReferenceRecord{
		NomenclatureRaw: "Башмак колонный вращающийся БК-Вр.114",
		PeriodRaw:       "Январь 2025 г.",
		CounterpartyRaw: "  СК ТПХ  ",
	})

	assert.Equal(t, "башмак колонный вращающийся бк-вр.114", record.NomenclatureNorm)
	assert.Equal(t, "БК-Вр.114", record.NomenclatureCode)
	assert.Equal(t, "ск тпх", record.CounterpartyNorm)
	require.NotNil(t, record.PeriodStart)
	require.NotNil(t, record.PeriodEnd)
	assert.Equal(t, 1, record.PeriodStart.Day())
	assert.Equal(t, 31, record.PeriodEnd.Day())
}

// TestEffectiveCost проверяет порядок выбора действующей себестоимости
func TestEffectiveCost(t *testing.T) {
	primary := decimal.NewFromInt(100)
	alt1 := decimal.NewFromInt(200)
	alt2 := decimal.NewFromInt(300)

	tests := []struct {
		name     string
		record   ReferenceRecord
		expected *decimal.Decimal
	}{
		{"первое поле", ReferenceRecord{CostPrimary: &primary, CostAlt1: &alt1, CostAlt2: &alt2}, &primary},
		{"второе поле", ReferenceRecord{CostAlt1: &alt1, CostAlt2: &alt2}, &alt1},
		{"третье поле", ReferenceRecord{CostAlt2: &alt2}, &alt2},
		{"все пустые", ReferenceRecord{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.record.EffectiveCost()
			if tt.expected == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.True(t, got.Equal(*tt.expected))
			}
		})
	}
}

// TestParseCost проверяет разбор стоимостных ячеек
func TestParseCost(t *testing.T) {
	tests := []struct {
		input    string
		expected string // "" означает nil
	}{
		{"15000.50", "15000.50"},
		{"15000,50", "15000.50"},
		{"1 250 000,75", "1250000.75"},
		{"0", "0"},
		{"", ""},
		{"   ", ""},
		{"не число", ""},
	}

	for _, tt := range tests {
		got := ParseCost(tt.input)
		if tt.expected == "" {
			assert.Nil(t, got, "input: %q", tt.input)
		} else {
			require.NotNil(t, got, "input: %q", tt.input)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "input: %q", tt.input)
		}
	}
}
