package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"costcalc/internal/apperrors"
)

// SheetProfile профиль книги Excel: имена листов, служебные строки и
// отображение индексов столбцов на поля записей. Профиль — единственное
// место, где живут позиционные индексы: варианты исходных книг
// описываются отдельными YAML-файлами, а не ветками в коде.
type SheetProfile struct {
	Target TargetLayout `yaml:"target"`
	Source SourceLayout `yaml:"source"`
}

// TargetLayout разметка целевого листа продаж
type TargetLayout struct {
	Sheet        string        `yaml:"sheet"`
	HeaderRow    int           `yaml:"header_row"`     // строка заголовков (1-based, как в Excel)
	DataStartRow int           `yaml:"data_start_row"` // первая строка данных (1-based)
	MinColumns   int              `yaml:"min_columns"`
	Columns      TargetColumns    `yaml:"columns"`
	Reference    ReferenceColumns `yaml:"reference"`
	DateOffset   int              `yaml:"date_offset"` // быстрый путь извлечения даты
	DateLength   int              `yaml:"date_length"`
}

// TargetColumns 0-based индексы столбцов целевого листа
type TargetColumns struct {
	Nomenclature    int `yaml:"nomenclature"`
	Document        int `yaml:"document"`
	RealizationDate int `yaml:"realization_date"`
}

// ReferenceColumns 0-based индексы эталонных столбцов целевого листа,
// заполненных человеком. Используются только при сверке.
type ReferenceColumns struct {
	Date         int `yaml:"date"`
	Quarter      int `yaml:"quarter"`
	CostPurchase int `yaml:"cost_purchase"`
	CostDirect   int `yaml:"cost_direct"`
	CostOverhead int `yaml:"cost_overhead"`
}

// SourceLayout разметка справочного листа себестоимости
type SourceLayout struct {
	Sheet        string        `yaml:"sheet"`
	DataStartRow int           `yaml:"data_start_row"` // первая строка данных (1-based)
	MinColumns   int           `yaml:"min_columns"`
	Columns      SourceColumns `yaml:"columns"`
}

// SourceColumns 0-based индексы столбцов справочного листа
type SourceColumns struct {
	Nomenclature  int `yaml:"nomenclature"`
	Period        int `yaml:"period"`
	Counterparty  int `yaml:"counterparty"`
	Quantity      int `yaml:"quantity"`
	CostPurchase  int `yaml:"cost_purchase"`
	CostDirect    int `yaml:"cost_direct"`
	CostOverhead  int `yaml:"cost_overhead"`
	PeriodQuarter int `yaml:"period_quarter"`
}

// DefaultProfile профиль книги "СК ТПХ_1 пг" / "ВП 2024-2025 НЧТЗ"
func DefaultProfile() *SheetProfile {
	return &SheetProfile{
		Target: TargetLayout{
			Sheet:        "СК ТПХ_1 пг",
			HeaderRow:    11,
			DataStartRow: 12,
			MinColumns:   22,
			Columns: TargetColumns{
				Nomenclature:    18,
				Document:        21,
				RealizationDate: 3,
			},
			Reference: ReferenceColumns{
				Date:         40,
				Quarter:      41,
				CostPurchase: 42,
				CostDirect:   43,
				CostOverhead: 44,
			},
			DateOffset: 44,
			DateLength: 10,
		},
		Source: SourceLayout{
			Sheet:        "ВП 2024-2025 НЧТЗ",
			DataStartRow: 2,
			MinColumns:   46,
			Columns: SourceColumns{
				Nomenclature:  8,
				Period:        1,
				Counterparty:  5,
				Quantity:      13,
				CostPurchase:  16,
				CostDirect:    17,
				CostOverhead:  23,
				PeriodQuarter: 45,
			},
		},
	}
}

// LoadProfile читает профиль из YAML-файла. Пустой путь дает профиль
// по умолчанию.
func LoadProfile(path string) (*SheetProfile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("не удалось прочитать профиль листов", err)
	}

	var profile SheetProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, apperrors.NewConfigError("не удалось разобрать профиль листов", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return &profile, nil
}
