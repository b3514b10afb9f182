// Package matching реализует каскад сопоставления записей целевой
// таблицы продаж со справочником производственной себестоимости.
package matching

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"costcalc/dates"
	"costcalc/normalization"
)

// TargetRecord строка целевой таблицы продаж с производными полями.
// Производные поля вычисляются один раз при обогащении и далее не меняются.
type TargetRecord struct {
	RowIndex        int    // позиция строки в листе (0-based, от начала данных)
	NomenclatureRaw string // исходная номенклатура
	DocumentRef     string // документ приобретения (свободный текст с датой)
	RealizationRaw  string // дата реализации как текст

	NomenclatureNorm   string     // нормализованная номенклатура
	NomenclatureCode   string     // код номенклатуры, "" если не извлечен
	AcquisitionDate    *time.Time // дата приобретения из документа
	RealizationDate    *time.Time // дата реализации
	AcquisitionQuarter string     // метка квартала, "" если не определена
}

// ReferenceRecord строка справочника себестоимости с производными полями
type ReferenceRecord struct {
	RowIndex        int
	NomenclatureRaw string
	PeriodRaw       string // период вида "Январь 2025 г."
	CounterpartyRaw string
	QuarterRaw      string // метка квартала из справочника (для агрегации)

	Quantity     *decimal.Decimal // количество (для средневзвешенных)
	CostPrimary  *decimal.Decimal // стоимость закупки за единицу
	CostAlt1     *decimal.Decimal // прямая себестоимость за единицу
	CostAlt2     *decimal.Decimal // накладные расходы за единицу

	NomenclatureNorm string
	NomenclatureCode string
	CounterpartyNorm string
	PeriodStart      *time.Time
	PeriodEnd        *time.Time
}

// EffectiveCost возвращает действующую себестоимость записи:
// первое непустое из трех стоимостных полей. Запись без единого
// значения не может удовлетворить сопоставление.
func (r *ReferenceRecord) EffectiveCost() *decimal.Decimal {
	for _, cost := range []*decimal.Decimal{r.CostPrimary, r.CostAlt1, r.CostAlt2} {
		if cost != nil {
			return cost
		}
	}
	return nil
}

// EnrichTarget вычисляет производные поля целевой записи.
// Квартал приобретения определяется по дате приобретения, а при ее
// отсутствии — по дате реализации.
func EnrichTarget(record TargetRecord, extractor *dates.Extractor) TargetRecord {
	record.NomenclatureNorm = normalization.Normalize(record.NomenclatureRaw)
	record.NomenclatureCode = normalization.ExtractCode(record.NomenclatureRaw)
	record.AcquisitionDate = extractor.AcquisitionDate(record.DocumentRef)
	record.RealizationDate = dates.RealizationDate(record.RealizationRaw)

	record.AcquisitionQuarter = dates.QuarterLabel(record.AcquisitionDate)
	if record.AcquisitionQuarter == "" {
		record.AcquisitionQuarter = dates.QuarterLabel(record.RealizationDate)
	}

	return record
}

// EnrichReference вычисляет производные поля справочной записи
func EnrichReference(record ReferenceRecord) ReferenceRecord {
	record.NomenclatureNorm = normalization.Normalize(record.NomenclatureRaw)
	record.NomenclatureCode = normalization.ExtractCode(record.NomenclatureRaw)
	record.CounterpartyNorm = normalization.Normalize(record.CounterpartyRaw)
	record.PeriodStart, record.PeriodEnd = dates.PeriodRange(record.PeriodRaw)
	return record
}

// ParseCost разбирает стоимостную ячейку в число. Запятая принимается
// как десятичный разделитель, пробельные разряды игнорируются.
// Возвращает nil для пустых и нечисловых значений.
func ParseCost(cell string) *decimal.Decimal {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	cell = strings.ReplaceAll(cell, " ", "")
	cell = strings.ReplaceAll(cell, " ", "")
	cell = strings.ReplaceAll(cell, ",", ".")

	value, err := decimal.NewFromString(cell)
	if err != nil {
		return nil
	}
	return &value
}
