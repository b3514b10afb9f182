package matching

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"costcalc/dates"
)

// MatchLevel уровень каскада, давший результат
type MatchLevel string

const (
	LevelOne   MatchLevel = "level1" // дата в периоде + номенклатура
	LevelTwo   MatchLevel = "level2" // код или номенклатура + контрагент
	LevelFuzzy MatchLevel = "fuzzy"  // нечеткая схожесть номенклатур
	LevelNone  MatchLevel = "none"   // совпадение не найдено
)

// UnmatchedReason уточнение для несопоставленных записей
type UnmatchedReason string

const (
	ReasonMissingKeyData UnmatchedReason = "missing_key_data"       // нет ни номенклатуры, ни дат
	ReasonManualReview   UnmatchedReason = "manual_review_required" // данные есть, совпадения нет
)

// MatchResult итог сопоставления одной целевой записи
type MatchResult struct {
	Cost   *decimal.Decimal
	Level  MatchLevel
	Reason UnmatchedReason // заполнено только для LevelNone
}

// Options параметры каскада сопоставления
type Options struct {
	// CounterpartyKeywords ключевые слова организации для уровня 2
	CounterpartyKeywords []string
	// CandidateThreshold порог отбора кандидатов нечеткого поиска
	CandidateThreshold float64
	// AcceptThreshold порог принятия лучшего нечеткого кандидата
	AcceptThreshold float64
	// FuzzyCandidateCap максимум кандидатов нечеткого прохода на запись
	FuzzyCandidateCap int
}

// DefaultOptions параметры каскада по умолчанию
func DefaultOptions() Options {
	return Options{
		CounterpartyKeywords: []string{"ск тпх", "ск татпром-холдинг"},
		CandidateThreshold:   0.6,
		AcceptThreshold:      0.75,
		FuzzyCandidateCap:    2000,
	}
}

// Matcher выполняет каскад сопоставления по загруженному справочнику.
// Справочник неизменяем после создания, сопоставление строк независимо.
type Matcher struct {
	references []ReferenceRecord
	index      *candidateIndex
	opts       Options
	logger     *slog.Logger
}

// NewMatcher создает матчер по обогащенному справочнику
func NewMatcher(references []ReferenceRecord, opts Options, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		references: references,
		index:      newCandidateIndex(references),
		opts:       opts,
		logger:     logger,
	}
}

// Match прогоняет целевую запись через каскад: уровень 1 при наличии
// даты приобретения, затем уровень 2, затем нечеткий поиск. Любой сбой
// деградирует к следующему уровню, терминальное состояние всегда достигается.
func (m *Matcher) Match(target TargetRecord) MatchResult {
	if target.AcquisitionDate != nil {
		if cost := m.levelOne(target); cost != nil {
			return MatchResult{Cost: cost, Level: LevelOne}
		}
	}

	if cost := m.levelTwo(target); cost != nil {
		return MatchResult{Cost: cost, Level: LevelTwo}
	}

	if target.NomenclatureNorm != "" {
		if cost := m.fuzzy(target); cost != nil {
			return MatchResult{Cost: cost, Level: LevelFuzzy}
		}
	}

	return MatchResult{Level: LevelNone, Reason: m.unmatchedReason(target)}
}

// levelOne ищет записи, период которых содержит дату приобретения,
// с точным совпадением нормализованной номенклатуры
func (m *Matcher) levelOne(target TargetRecord) *decimal.Decimal {
	if target.NomenclatureNorm == "" {
		return nil
	}

	var survivors []*ReferenceRecord
	for i := range m.references {
		ref := &m.references[i]
		if !dates.InRange(target.AcquisitionDate, ref.PeriodStart, ref.PeriodEnd) {
			continue
		}
		if ref.NomenclatureNorm == target.NomenclatureNorm && ref.EffectiveCost() != nil {
			survivors = append(survivors, ref)
		}
	}

	return pickBest(survivors, target.AcquisitionDate)
}

// levelTwo ищет по коду номенклатуры либо по точной номенклатуре,
// с обязательным ключевым словом контрагента. При наличии даты
// реализации дополнительно требуется попадание в период, без нее
// запись принимается безусловно.
func (m *Matcher) levelTwo(target TargetRecord) *decimal.Decimal {
	var survivors []*ReferenceRecord

	if target.NomenclatureCode != "" {
		for i := range m.references {
			ref := &m.references[i]
			if ref.NomenclatureCode == "" || !strings.Contains(ref.NomenclatureCode, target.NomenclatureCode) {
				continue
			}
			if m.acceptLevelTwo(ref, target.RealizationDate) {
				survivors = append(survivors, ref)
			}
		}
	}

	if len(survivors) == 0 && target.NomenclatureNorm != "" {
		for i := range m.references {
			ref := &m.references[i]
			if ref.NomenclatureNorm != target.NomenclatureNorm {
				continue
			}
			if m.acceptLevelTwo(ref, target.RealizationDate) {
				survivors = append(survivors, ref)
			}
		}
	}

	return pickBest(survivors, target.RealizationDate)
}

// acceptLevelTwo проверяет контрагента и, при наличии, дату реализации
func (m *Matcher) acceptLevelTwo(ref *ReferenceRecord, realizationDate *time.Time) bool {
	if ref.EffectiveCost() == nil {
		return false
	}
	if !m.hasCounterpartyKeyword(ref.CounterpartyNorm) {
		return false
	}
	if realizationDate != nil {
		return dates.InRange(realizationDate, ref.PeriodStart, ref.PeriodEnd)
	}
	return true
}

func (m *Matcher) hasCounterpartyKeyword(counterparty string) bool {
	for _, keyword := range m.opts.CounterpartyKeywords {
		if strings.Contains(counterparty, keyword) {
			return true
		}
	}
	return false
}

// fuzzy оценивает схожесть номенклатуры против кандидатов из индекса,
// оставляет единственного лучшего и принимает его только при схожести
// не ниже порога принятия
func (m *Matcher) fuzzy(target TargetRecord) *decimal.Decimal {
	candidates := m.index.Candidates(target.NomenclatureNorm, m.opts.FuzzyCandidateCap)

	var best *ReferenceRecord
	bestScore := 0.0

	for _, pos := range candidates {
		ref := &m.references[pos]
		if ref.NomenclatureNorm == "" || ref.EffectiveCost() == nil {
			continue
		}

		score := SequenceSimilarity(target.NomenclatureNorm, ref.NomenclatureNorm)
		if score < m.opts.CandidateThreshold {
			continue
		}
		if score > bestScore || (score == bestScore && best != nil && ref.RowIndex < best.RowIndex) {
			best, bestScore = ref, score
		}
	}

	if best == nil || bestScore < m.opts.AcceptThreshold {
		return nil
	}

	m.logger.Debug("нечеткое совпадение",
		"target", target.NomenclatureNorm,
		"candidate", best.NomenclatureNorm,
		"score", bestScore)

	return best.EffectiveCost()
}

// unmatchedReason классифицирует несопоставленную запись: ключевые данные
// отсутствуют, только если нет ни номенклатуры, ни одной извлекаемой даты
func (m *Matcher) unmatchedReason(target TargetRecord) UnmatchedReason {
	if target.NomenclatureNorm == "" && target.AcquisitionDate == nil && target.RealizationDate == nil {
		return ReasonMissingKeyData
	}
	return ReasonManualReview
}

// pickBest применяет приоритизацию и возвращает стоимость лучшей записи.
// Критерии строго упорядочены: попадание целевой даты в период
// перевешивает любую стоимость, затем близость к середине периода в днях,
// затем меньшая стоимость как детерминированный добивочный критерий.
func pickBest(survivors []*ReferenceRecord, targetDate *time.Time) *decimal.Decimal {
	if len(survivors) == 0 {
		return nil
	}
	if len(survivors) > 1 {
		sort.SliceStable(survivors, func(i, j int) bool {
			return betterCandidate(survivors[i], survivors[j], targetDate)
		})
	}
	return survivors[0].EffectiveCost()
}

// betterCandidate сравнивает двух кандидатов по приоритетным критериям
func betterCandidate(a, b *ReferenceRecord, targetDate *time.Time) bool {
	aInPeriod := dates.InRange(targetDate, a.PeriodStart, a.PeriodEnd)
	bInPeriod := dates.InRange(targetDate, b.PeriodStart, b.PeriodEnd)
	if aInPeriod != bInPeriod {
		return aInPeriod
	}

	aDist := midpointDistance(a, targetDate)
	bDist := midpointDistance(b, targetDate)
	if aDist != bDist {
		return aDist < bDist
	}

	aCost := a.EffectiveCost()
	bCost := b.EffectiveCost()
	if aCost != nil && bCost != nil && !aCost.Equal(*bCost) {
		return aCost.LessThan(*bCost)
	}
	return false
}

// midpointDistance возвращает удаленность целевой даты от середины
// периода в днях. Без даты или периода кандидат считается самым дальним.
func midpointDistance(ref *ReferenceRecord, targetDate *time.Time) float64 {
	if targetDate == nil || ref.PeriodStart == nil || ref.PeriodEnd == nil {
		return math.Inf(1)
	}

	mid := ref.PeriodStart.Add(ref.PeriodEnd.Sub(*ref.PeriodStart) / 2)
	diff := targetDate.Sub(mid).Hours() / 24
	return math.Abs(diff)
}
