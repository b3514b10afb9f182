package reconciliation

import (
	"fmt"
	"strings"
)

var (
	sectionBar = strings.Repeat("=", 80)
	columnBar  = strings.Repeat("-", 80)
)

// FormatReport собирает текстовый отчет о сверке: шапка с идентификатором
// запуска, раздел по каждому столбцу и общий раздел находок расчета
func FormatReport(report *Report) string {
	var b strings.Builder

	writeLine := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	writeLine(sectionBar)
	writeLine("ОТЧЁТ О СВЕРКЕ ЭТАЛОННЫХ И РАСЧЁТНЫХ ДАННЫХ")
	writeLine("Запуск: %s", report.RunID)
	writeLine(sectionBar)
	writeLine("Всего строк: %d", report.TotalRows)
	writeLine("")

	for _, stats := range report.Columns {
		writeLine("Столбец %s: %s", stats.Column.Code, stats.Column.Name)
		writeLine(columnBar)
		writeLine("  Полных совпадений: %d", stats.Counts[OutcomeExactMatch])
		writeLine("  Несовпадений: %d", stats.Counts[OutcomeMismatch])
		writeLine("  Оба пусты, поиск не велся: %d", stats.Counts[OutcomeBothEmptyIntentional])
		writeLine("  Оба пусты, человек искал: %d", stats.Counts[OutcomeBothEmptyReal])
		writeLine("  Расчет нашел, человек нет: %d", stats.Counts[OutcomeProgramFoundHumanNot])
		writeLine("  Человек нашел, расчет нет: %d", stats.Counts[OutcomeHumanFoundProgramNot])

		if len(stats.MismatchExamples) > 0 {
			writeLine("")
			writeLine("  Примеры несовпадений (до %d шт):", maxMismatchExamples)
			for _, example := range stats.MismatchExamples {
				writeLine("    Строка %d:", example.Row)
				writeLine("      Эталон:  %s", example.Human)
				writeLine("      Расчёт:  %s", example.Computed)
				if example.Difference != "" {
					writeLine("      Разница: %s", example.Difference)
				}
			}
		}
		writeLine("")
	}

	if report.ProgramFoundTotal > 0 {
		writeLine("Расчет нашел значения, отсутствующие у человека: %d", report.ProgramFoundTotal)
		writeLine(columnBar)
		writeLine("  Примеры (до %d шт):", maxProgramFoundExamples)
		for _, example := range report.ProgramFound {
			writeLine("    Строка %d, столбец %s:", example.Row, example.Column)
			writeLine("      Номенклатура: %s", example.Nomenclature)
			writeLine("      Документ:     %s", example.Document)
			writeLine("      Дата:         %s", example.Date)
			writeLine("      Квартал:      %s", example.Quarter)
			writeLine("      Стоимость:    %s", example.Cost)
		}
		writeLine("")
	}

	writeLine(sectionBar)
	return b.String()
}
