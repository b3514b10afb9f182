package excel

import (
	"log/slog"

	"github.com/xuri/excelize/v2"

	"costcalc/internal/apperrors"
	"costcalc/internal/config"
)

// Заголовки добавляемых столбцов результата
var outputHeaders = []string{
	"**Дата приобретения**",
	"**Квартал приобретения**",
	"**Стоимость закупки НЧТЗ 1 ед**",
	"**Прямая СС НЧТЗ 1 ед**",
	"**НР НЧТЗ 1 ед**",
}

// RowOutput пять производных значений одной строки результата.
// Стоимостные поля — готовый текст: число либо маркер-заглушка.
type RowOutput struct {
	AcquisitionDate string
	Quarter         string
	CostPurchase    string
	CostDirect      string
	CostOverhead    string
}

func (r RowOutput) values() []string {
	return []string{r.AcquisitionDate, r.Quarter, r.CostPurchase, r.CostDirect, r.CostOverhead}
}

// Writer дописывает столбцы результата в исходную книгу,
// сохраняя существующее содержимое и форматирование
type Writer struct {
	logger *slog.Logger
}

// NewWriter создает писатель результатов
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// Write открывает входную книгу, дописывает пять столбцов результата
// начиная с первого свободного столбца целевого листа и сохраняет
// книгу по выходному пути. Заголовки пишутся в строку шапки профиля,
// данные — со строки данных.
func (w *Writer) Write(inputPath, outputPath string, profile *config.SheetProfile, outputs []RowOutput) error {
	file, err := excelize.OpenFile(inputPath)
	if err != nil {
		return apperrors.NewWriteError("не удалось открыть книгу для записи", err)
	}
	defer file.Close()

	sheet := profile.Target.Sheet
	cols, err := file.GetCols(sheet)
	if err != nil {
		return apperrors.NewWriteError("не удалось определить ширину листа "+sheet, err)
	}
	startCol := len(cols) + 1

	for i, header := range outputHeaders {
		cell, err := excelize.CoordinatesToCellName(startCol+i, profile.Target.HeaderRow)
		if err != nil {
			return apperrors.NewWriteError("не удалось вычислить адрес ячейки заголовка", err)
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return apperrors.NewWriteError("не удалось записать заголовок", err)
		}
	}

	for rowIdx, output := range outputs {
		rowNum := profile.Target.DataStartRow + rowIdx
		for colIdx, value := range output.values() {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(startCol+colIdx, rowNum)
			if err != nil {
				return apperrors.NewWriteError("не удалось вычислить адрес ячейки данных", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return apperrors.NewWriteError("не удалось записать значение", err)
			}
		}
	}

	if err := file.SaveAs(outputPath); err != nil {
		return apperrors.NewWriteError("не удалось сохранить книгу: "+outputPath, err)
	}

	w.logger.Info("результат сохранен",
		"path", outputPath,
		"rows", len(outputs),
		"start_column", startCol)

	return nil
}
