package reconciliation

import (
	"costcalc/excel"
	"costcalc/internal/config"
)

// BuildRows собирает строки сверки: эталонные значения берутся из
// заполненных человеком столбцов целевого листа, расчетные — из
// выходных строк конвейера. Строки выровнены по позиции.
func BuildRows(table *excel.Table, profile *config.SheetProfile, outputs []excel.RowOutput) []Row {
	cols := profile.Target.Columns
	ref := profile.Target.Reference
	start := profile.Target.DataStartRow - 1

	rows := make([]Row, 0, len(outputs))
	for i, output := range outputs {
		rowIdx := start + i
		humanQuarter := table.Cell(rowIdx, ref.Quarter)
		rows = append(rows, Row{
			Number:       profile.Target.DataStartRow + i,
			Nomenclature: table.Cell(rowIdx, cols.Nomenclature),
			Document:     table.Cell(rowIdx, cols.Document),
			HumanQuarter: humanQuarter,
			Human: map[string]string{
				"AO": table.Cell(rowIdx, ref.Date),
				"AP": humanQuarter,
				"AQ": table.Cell(rowIdx, ref.CostPurchase),
				"AR": table.Cell(rowIdx, ref.CostDirect),
				"AS": table.Cell(rowIdx, ref.CostOverhead),
			},
			Computed: map[string]string{
				"AO": output.AcquisitionDate,
				"AP": output.Quarter,
				"AQ": output.CostPurchase,
				"AR": output.CostDirect,
				"AS": output.CostOverhead,
			},
		})
	}
	return rows
}
