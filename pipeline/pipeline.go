// Package pipeline оркеструет расчет себестоимости: разбор загруженных
// таблиц в типизированные записи, обогащение, сопоставление по чанкам и
// формирование выходных столбцов с маркерами-заглушками.
package pipeline

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"costcalc/aggregation"
	"costcalc/dates"
	"costcalc/excel"
	"costcalc/internal/config"
	"costcalc/matching"
)

// Stats счетчики одного прогона. Сводка выводится всегда, даже при
// частичных отказах отдельных строк.
type Stats struct {
	Total        int // всего строк целевой таблицы
	Aggregated   int // стоимость найдена агрегацией по кварталу
	Level1       int // совпадение по дате и номенклатуре
	Level2       int // совпадение по коду или контрагенту
	Fuzzy        int // нечеткое совпадение
	ManualReview int // требует ручной проверки
	MissingData  int // отсутствуют ключевые данные
}

// Matched сумма строк, получивших стоимость
func (s Stats) Matched() int {
	return s.Aggregated + s.Level1 + s.Level2 + s.Fuzzy
}

// Result итог прогона: выходные строки в порядке целевой таблицы,
// обогащенные записи для сверки и счетчики
type Result struct {
	Outputs []excel.RowOutput
	Targets []matching.TargetRecord
	Stats   Stats
}

// Pipeline последовательный однопроходный расчет. Строки независимы,
// чанки задают только шаг журналирования прогресса.
type Pipeline struct {
	cfg     *config.Config
	profile *config.SheetProfile
	logger  *slog.Logger
}

// New создает конвейер расчета
func New(cfg *config.Config, profile *config.SheetProfile, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, profile: profile, logger: logger}
}

// Run выполняет полный расчет по двум загруженным таблицам
func (p *Pipeline) Run(target, source *excel.Table) *Result {
	extractor := dates.NewExtractor(p.profile.Target.DateOffset, p.profile.Target.DateLength)

	targets := p.parseTargets(target, extractor)
	references := p.parseReferences(source)

	p.logger.Info("таблицы разобраны",
		"target_rows", len(targets),
		"reference_rows", len(references))

	engine := aggregation.NewEngine(references, p.logger)
	matcher := matching.NewMatcher(references, matching.Options{
		CounterpartyKeywords: p.cfg.CounterpartyKeywords,
		CandidateThreshold:   p.cfg.CandidateThreshold,
		AcceptThreshold:      p.cfg.AcceptThreshold,
		FuzzyCandidateCap:    p.cfg.FuzzyCandidateCap,
	}, p.logger)

	result := &Result{
		Outputs: make([]excel.RowOutput, 0, len(targets)),
		Targets: targets,
	}
	result.Stats.Total = len(targets)

	chunkSize := p.cfg.ChunkSize
	if chunkSize < 1 {
		chunkSize = len(targets)
	}

	for start := 0; start < len(targets); start += chunkSize {
		end := start + chunkSize
		if end > len(targets) {
			end = len(targets)
		}

		for i := start; i < end; i++ {
			result.Outputs = append(result.Outputs, p.computeRow(targets[i], engine, matcher, &result.Stats))
		}

		p.logger.Info("чанк обработан",
			"rows_done", end,
			"rows_total", len(targets),
			"matched", result.Stats.Matched())
	}

	p.logger.Info("расчет завершен",
		"total", result.Stats.Total,
		"matched", result.Stats.Matched(),
		"aggregated", result.Stats.Aggregated,
		"level1", result.Stats.Level1,
		"level2", result.Stats.Level2,
		"fuzzy", result.Stats.Fuzzy,
		"manual_review", result.Stats.ManualReview,
		"missing_data", result.Stats.MissingData)

	return result
}

// computeRow заполняет пять выходных значений одной строки.
// Сначала агрегация по кварталу, затем каскад сопоставления,
// затем маркеры недостающих данных.
func (p *Pipeline) computeRow(target matching.TargetRecord, engine *aggregation.Engine, matcher *matching.Matcher, stats *Stats) excel.RowOutput {
	output := excel.RowOutput{
		AcquisitionDate: matching.SentinelNoData,
		Quarter:         target.AcquisitionQuarter,
	}
	if target.AcquisitionDate != nil {
		output.AcquisitionDate = target.AcquisitionDate.Format(dates.DateFormatOutput)
	}

	if target.NomenclatureNorm != "" && target.AcquisitionQuarter != "" {
		costs := engine.Calculate(target.NomenclatureNorm, target.AcquisitionQuarter)
		if !costs.Empty() {
			stats.Aggregated++
			output.CostPurchase = costText(costs.Purchase)
			output.CostDirect = costText(costs.Direct)
			output.CostOverhead = costText(costs.Overhead)
			return output
		}
	}

	match := matcher.Match(target)
	switch match.Level {
	case matching.LevelOne:
		stats.Level1++
	case matching.LevelTwo:
		stats.Level2++
	case matching.LevelFuzzy:
		stats.Fuzzy++
	case matching.LevelNone:
		switch match.Reason {
		case matching.ReasonMissingKeyData:
			stats.MissingData++
			output.CostPurchase = matching.MarkerMissingKeyData
		default:
			stats.ManualReview++
			output.CostPurchase = matching.MarkerManualReview
		}
		output.CostDirect = matching.SentinelNoMatch
		output.CostOverhead = matching.SentinelNoMatch
		return output
	}

	// каскад дает одну стоимость, остальные столбцы помечаются
	output.CostPurchase = match.Cost.StringFixed(2)
	output.CostDirect = matching.SentinelNoMatch
	output.CostOverhead = matching.SentinelNoMatch
	return output
}

func costText(cost *decimal.Decimal) string {
	if cost == nil {
		return matching.SentinelNoMatch
	}
	return cost.StringFixed(2)
}

// parseTargets превращает строки целевого листа в типизированные записи
// по индексам профиля и обогащает их производными полями
func (p *Pipeline) parseTargets(table *excel.Table, extractor *dates.Extractor) []matching.TargetRecord {
	cols := p.profile.Target.Columns
	start := p.profile.Target.DataStartRow - 1

	var records []matching.TargetRecord
	for rowIdx := start; rowIdx < table.RowCount(); rowIdx++ {
		record := matching.TargetRecord{
			RowIndex:        rowIdx - start,
			NomenclatureRaw: table.Cell(rowIdx, cols.Nomenclature),
			DocumentRef:     table.Cell(rowIdx, cols.Document),
			RealizationRaw:  table.Cell(rowIdx, cols.RealizationDate),
		}
		records = append(records, matching.EnrichTarget(record, extractor))
	}
	return records
}

// parseReferences превращает строки справочника в типизированные записи
func (p *Pipeline) parseReferences(table *excel.Table) []matching.ReferenceRecord {
	cols := p.profile.Source.Columns
	start := p.profile.Source.DataStartRow - 1

	var records []matching.ReferenceRecord
	for rowIdx := start; rowIdx < table.RowCount(); rowIdx++ {
		record := matching.ReferenceRecord{
			RowIndex:        rowIdx - start,
			NomenclatureRaw: table.Cell(rowIdx, cols.Nomenclature),
			PeriodRaw:       table.Cell(rowIdx, cols.Period),
			CounterpartyRaw: table.Cell(rowIdx, cols.Counterparty),
			QuarterRaw:      table.Cell(rowIdx, cols.PeriodQuarter),
			Quantity:        matching.ParseCost(table.Cell(rowIdx, cols.Quantity)),
			CostPrimary:     matching.ParseCost(table.Cell(rowIdx, cols.CostPurchase)),
			CostAlt1:        matching.ParseCost(table.Cell(rowIdx, cols.CostDirect)),
			CostAlt2:        matching.ParseCost(table.Cell(rowIdx, cols.CostOverhead)),
		}
		records = append(records, matching.EnrichReference(record))
	}
	return records
}
