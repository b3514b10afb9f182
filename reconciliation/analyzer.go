package reconciliation

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"costcalc/dates"
	"costcalc/matching"
)

// Outcome исход сверки одной ячейки эталона с расчетом
type Outcome string

const (
	// OutcomeBothEmptyIntentional оба пусты и валидного квартала не было:
	// человек и не пытался искать
	OutcomeBothEmptyIntentional Outcome = "both_empty_intentional"
	// OutcomeBothEmptyReal оба пусты при валидном квартале:
	// человек искал и не нашел, расчет это подтверждает
	OutcomeBothEmptyReal Outcome = "both_empty_real"
	// OutcomeProgramFoundHumanNot расчет дал значение, которого нет у человека
	OutcomeProgramFoundHumanNot Outcome = "program_found_human_not"
	// OutcomeHumanFoundProgramNot у человека значение есть, расчет его не дал
	OutcomeHumanFoundProgramNot Outcome = "human_found_program_not"
	// OutcomeExactMatch значения совпали
	OutcomeExactMatch Outcome = "exact_match"
	// OutcomeMismatch значения расходятся сверх допуска
	OutcomeMismatch Outcome = "mismatch"
)

// ColumnKind способ сравнения значений столбца
type ColumnKind int

const (
	// KindText сравнение нормализованных строк
	KindText ColumnKind = iota
	// KindNumeric числовое сравнение с допуском
	KindNumeric
)

// Column описание сверяемого столбца
type Column struct {
	Code string
	Name string
	Kind ColumnKind
}

// Columns сверяемые столбцы в порядке вывода отчета
var Columns = []Column{
	{Code: "AO", Name: "Дата приобретения", Kind: KindText},
	{Code: "AP", Name: "Квартал приобретения", Kind: KindText},
	{Code: "AQ", Name: "Стоимость закупки НЧТЗ 1 ед", Kind: KindNumeric},
	{Code: "AR", Name: "Прямая СС НЧТЗ 1 ед", Kind: KindNumeric},
	{Code: "AS", Name: "НР НЧТЗ 1 ед", Kind: KindNumeric},
}

// Допуск числового сравнения стоимостных столбцов
var costTolerance = decimal.NewFromFloat(0.01)

const (
	maxMismatchExamples     = 10
	maxProgramFoundExamples = 30
)

// Row одна строка сверки: эталонные и расчетные значения по кодам
// столбцов плюс контекст для примеров отчета
type Row struct {
	// Number номер строки листа Excel
	Number int
	// Nomenclature исходная номенклатура строки
	Nomenclature string
	// Document исходная ссылка на документ
	Document string
	// HumanQuarter эталонная ячейка квартала, определяет намеренность пустоты
	HumanQuarter string
	// Human эталонные значения по кодам столбцов
	Human map[string]string
	// Computed расчетные значения по кодам столбцов
	Computed map[string]string
}

// MismatchExample расхождение значений для отчета
type MismatchExample struct {
	Row        int
	Human      string
	Computed   string
	Difference string // знаковая разница, только для числовых столбцов
}

// ProgramFoundExample строка, где расчет дал значение сверх эталона
type ProgramFoundExample struct {
	Row          int
	Column       string
	Nomenclature string
	Document     string
	Date         string
	Quarter      string
	Cost         string
}

// ColumnStats агрегат исходов одного столбца
type ColumnStats struct {
	Column           Column
	Counts           map[Outcome]int
	MismatchExamples []MismatchExample
}

// Matched сумма совпавших ячеек
func (s *ColumnStats) Matched() int {
	return s.Counts[OutcomeExactMatch] + s.Counts[OutcomeBothEmptyReal] +
		s.Counts[OutcomeBothEmptyIntentional]
}

// Report итог сверки всех строк
type Report struct {
	RunID        string
	TotalRows    int
	Columns      []ColumnStats
	ProgramFound []ProgramFoundExample
	// programFoundTotal полное число случаев, включая не попавшие в примеры
	ProgramFoundTotal int
}

// Analyzer классифицирует расхождения эталонных и расчетных данных
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer создает анализатор сверки
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// humanEmpty определяет пустоту эталонной ячейки: отсутствие значения,
// заготовка-формула или буквальный ноль
func humanEmpty(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || strings.HasPrefix(trimmed, "=") || trimmed == "0"
}

// programEmpty определяет пустоту расчетной ячейки: отсутствие значения
// либо один из маркеров-заглушек
func programEmpty(value string) bool {
	trimmed := strings.TrimSpace(value)
	switch trimmed {
	case "", matching.SentinelNoMatch, matching.SentinelNoData,
		matching.MarkerManualReview, matching.MarkerMissingKeyData:
		return true
	}
	return false
}

// Classify относит пару эталон/расчет к одному исходу.
// humanQuarter решает, была ли пустота намеренной: без валидной метки
// квартала человеку не по чему было искать.
func Classify(kind ColumnKind, human, computed, humanQuarter string) Outcome {
	hEmpty := humanEmpty(human)
	pEmpty := programEmpty(computed)

	switch {
	case hEmpty && pEmpty:
		if humanEmpty(humanQuarter) || !dates.IsQuarterLabel(strings.TrimSpace(humanQuarter)) {
			return OutcomeBothEmptyIntentional
		}
		return OutcomeBothEmptyReal
	case hEmpty:
		return OutcomeProgramFoundHumanNot
	case pEmpty:
		return OutcomeHumanFoundProgramNot
	}

	if kind == KindNumeric {
		return classifyNumeric(human, computed)
	}
	if strings.TrimSpace(human) == strings.TrimSpace(computed) {
		return OutcomeExactMatch
	}
	return OutcomeMismatch
}

func classifyNumeric(human, computed string) Outcome {
	humanNum, err1 := parseNumber(human)
	computedNum, err2 := parseNumber(computed)
	if err1 != nil || err2 != nil {
		// непарсящееся непустое значение сравниваем как текст
		if strings.TrimSpace(human) == strings.TrimSpace(computed) {
			return OutcomeExactMatch
		}
		return OutcomeMismatch
	}
	if humanNum.Sub(computedNum).Abs().LessThan(costTolerance) {
		return OutcomeExactMatch
	}
	return OutcomeMismatch
}

func parseNumber(value string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	return decimal.NewFromString(cleaned)
}

// Analyze сворачивает классификацию всех строк в отчет.
// Каждая ячейка получает ровно один исход, счетчики — простая свертка.
func (a *Analyzer) Analyze(runID string, rows []Row) *Report {
	report := &Report{
		RunID:     runID,
		TotalRows: len(rows),
	}
	for _, col := range Columns {
		report.Columns = append(report.Columns, ColumnStats{
			Column: col,
			Counts: make(map[Outcome]int),
		})
	}

	for _, row := range rows {
		for i, col := range Columns {
			stats := &report.Columns[i]
			human := row.Human[col.Code]
			computed := row.Computed[col.Code]
			outcome := Classify(col.Kind, human, computed, row.HumanQuarter)
			stats.Counts[outcome]++

			switch outcome {
			case OutcomeMismatch:
				if len(stats.MismatchExamples) < maxMismatchExamples {
					stats.MismatchExamples = append(stats.MismatchExamples,
						a.mismatchExample(col, row, human, computed))
				}
			case OutcomeProgramFoundHumanNot:
				report.ProgramFoundTotal++
				if len(report.ProgramFound) < maxProgramFoundExamples {
					report.ProgramFound = append(report.ProgramFound, ProgramFoundExample{
						Row:          row.Number,
						Column:       col.Code,
						Nomenclature: row.Nomenclature,
						Document:     row.Document,
						Date:         row.Computed["AO"],
						Quarter:      row.Computed["AP"],
						Cost:         row.Computed["AQ"],
					})
				}
			}
		}
	}

	for _, stats := range report.Columns {
		a.logger.Info("итог сверки столбца",
			"column", stats.Column.Code,
			"exact", stats.Counts[OutcomeExactMatch],
			"mismatch", stats.Counts[OutcomeMismatch],
			"program_found", stats.Counts[OutcomeProgramFoundHumanNot],
			"human_found", stats.Counts[OutcomeHumanFoundProgramNot])
	}

	return report
}

func (a *Analyzer) mismatchExample(col Column, row Row, human, computed string) MismatchExample {
	example := MismatchExample{
		Row:      row.Number,
		Human:    strings.TrimSpace(human),
		Computed: strings.TrimSpace(computed),
	}
	if col.Kind == KindNumeric {
		humanNum, err1 := parseNumber(human)
		computedNum, err2 := parseNumber(computed)
		if err1 == nil && err2 == nil {
			diff := computedNum.Sub(humanNum)
			sign := ""
			if diff.Sign() >= 0 {
				sign = "+"
			}
			example.Difference = sign + diff.StringFixed(2)
		}
	}
	return example
}
