// Package aggregation вычисляет средневзвешенные себестоимости по
// справочнику производственных записей в разрезе номенклатуры и квартала.
// Повторяет семантику табличной формулы СУММЕСЛИМН: сумма стоимостного
// столбца по совпавшим строкам, деленная на сумму количества.
package aggregation

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"costcalc/matching"
)

// CostField стоимостное поле справочной записи
type CostField int

const (
	FieldPurchase CostField = iota // стоимость закупки за единицу
	FieldDirect                    // прямая себестоимость за единицу
	FieldOverhead                  // накладные расходы за единицу
)

// Engine агрегирует справочник по ключу (номенклатура, квартал).
// Индекс строится один раз, справочник после этого не меняется.
type Engine struct {
	byKey  map[string][]*matching.ReferenceRecord
	logger *slog.Logger
}

// NewEngine строит движок агрегации по обогащенному справочнику.
// Записи без метки квартала или без номенклатуры в индекс не попадают.
func NewEngine(references []matching.ReferenceRecord, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	engine := &Engine{
		byKey:  make(map[string][]*matching.ReferenceRecord),
		logger: logger,
	}

	for i := range references {
		ref := &references[i]
		if ref.NomenclatureNorm == "" || ref.QuarterRaw == "" {
			continue
		}
		key := aggregationKey(ref.NomenclatureNorm, ref.QuarterRaw)
		engine.byKey[key] = append(engine.byKey[key], ref)
	}

	return engine
}

func aggregationKey(nomenclature, quarter string) string {
	return nomenclature + "|" + quarter
}

// WeightedAverage возвращает средневзвешенную стоимость поля по строкам
// с совпавшими номенклатурой и кварталом: сумма поля / сумма количества,
// округленная до двух знаков. nil, если совпадений нет, количество
// нулевое или поле пусто во всех строках.
func (e *Engine) WeightedAverage(nomenclatureNorm, quarter string, field CostField) *decimal.Decimal {
	rows := e.byKey[aggregationKey(nomenclatureNorm, quarter)]
	if len(rows) == 0 {
		return nil
	}

	totalCost := decimal.Zero
	totalQuantity := decimal.Zero
	hasValue := false

	for _, row := range rows {
		if cost := fieldValue(row, field); cost != nil {
			totalCost = totalCost.Add(*cost)
			hasValue = true
		}
		if row.Quantity != nil {
			totalQuantity = totalQuantity.Add(*row.Quantity)
		}
	}

	if !hasValue || totalQuantity.IsZero() {
		return nil
	}

	result := totalCost.Div(totalQuantity).Round(2)
	return &result
}

func fieldValue(ref *matching.ReferenceRecord, field CostField) *decimal.Decimal {
	switch field {
	case FieldPurchase:
		return ref.CostPrimary
	case FieldDirect:
		return ref.CostAlt1
	case FieldOverhead:
		return ref.CostAlt2
	}
	return nil
}

// CostSet три вычисленных стоимостных показателя для одной строки
type CostSet struct {
	Purchase *decimal.Decimal
	Direct   *decimal.Decimal
	Overhead *decimal.Decimal
}

// Calculate считает все три показателя для пары (номенклатура, квартал).
// Empty сообщает, нашлось ли хоть одно значение.
func (e *Engine) Calculate(nomenclatureNorm, quarter string) CostSet {
	return CostSet{
		Purchase: e.WeightedAverage(nomenclatureNorm, quarter, FieldPurchase),
		Direct:   e.WeightedAverage(nomenclatureNorm, quarter, FieldDirect),
		Overhead: e.WeightedAverage(nomenclatureNorm, quarter, FieldOverhead),
	}
}

// Empty сообщает, что ни один показатель не вычислен
func (s CostSet) Empty() bool {
	return s.Purchase == nil && s.Direct == nil && s.Overhead == nil
}
