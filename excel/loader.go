// Package excel загружает и записывает книги Excel через excelize.
// Ядро обработки получает таблицы как строки с именованными полями
// и ничего не знает о формате файлов.
package excel

import (
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"costcalc/internal/apperrors"
	"costcalc/internal/config"
)

// Table таблица одного листа: имя и строки ячеек как текст.
// Rows содержит лист целиком, начиная с первой строки; служебные
// строки (шапка) отсекаются потребителем по профилю.
type Table struct {
	Name string
	Rows [][]string
}

// Cell возвращает значение ячейки или пустую строку за пределами строки.
// Строки excelize имеют переменную длину: хвостовые пустые ячейки опущены.
func (t *Table) Cell(rowIdx, colIdx int) string {
	if rowIdx < 0 || rowIdx >= len(t.Rows) {
		return ""
	}
	row := t.Rows[rowIdx]
	if colIdx < 0 || colIdx >= len(row) {
		return ""
	}
	return row[colIdx]
}

// RowCount возвращает число строк листа
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Loader загружает целевой и справочный листы книги
type Loader struct {
	logger *slog.Logger
}

// NewLoader создает загрузчик
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load открывает книгу и возвращает целевую и справочную таблицы.
// Отказы различимы по коду: отсутствие файла, отсутствие листа,
// недостаток столбцов и прочие ошибки загрузки.
func (l *Loader) Load(path string, profile *config.SheetProfile) (*Table, *Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, apperrors.NewFileMissingError(path, err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apperrors.NewLoadError("не удалось открыть книгу", err)
	}
	defer file.Close()

	target, err := l.loadSheet(file, profile.Target.Sheet, profile.Target.MinColumns)
	if err != nil {
		return nil, nil, err
	}

	source, err := l.loadSheet(file, profile.Source.Sheet, profile.Source.MinColumns)
	if err != nil {
		return nil, nil, err
	}

	l.logger.Info("книга загружена",
		"path", path,
		"target_rows", target.RowCount(),
		"source_rows", source.RowCount())

	return target, source, nil
}

// loadSheet читает один лист и проверяет минимальную ширину
func (l *Loader) loadSheet(file *excelize.File, sheet string, minColumns int) (*Table, error) {
	index, err := file.GetSheetIndex(sheet)
	if err != nil || index < 0 {
		return nil, apperrors.NewSheetMissingError(sheet, err)
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewLoadError("не удалось прочитать лист "+sheet, err)
	}

	if len(rows) == 0 {
		return nil, apperrors.NewLoadError("лист пуст: "+sheet, nil)
	}

	maxWidth := 0
	for _, row := range rows {
		if len(row) > maxWidth {
			maxWidth = len(row)
		}
	}
	if maxWidth < minColumns {
		return nil, apperrors.NewColumnMissingError(sheet, minColumns, maxWidth)
	}

	l.logger.Info("лист загружен", "sheet", sheet, "rows", len(rows), "columns", maxWidth)

	return &Table{Name: sheet, Rows: rows}, nil
}
