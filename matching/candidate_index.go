package matching

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// candidateIndex индексирует справочные записи по стеммированным токенам
// нормализованной номенклатуры. Пока справочник не превышает лимит,
// нечеткий поиск оценивает все записи; сверх лимита остаются кандидаты,
// разделяющие с целью хотя бы одну основу слова, что ограничивает
// стоимость прохода детерминированно, а не обрезкой "первых N".
type candidateIndex struct {
	byStem map[string][]int
	total  int
}

// newCandidateIndex строит индекс по нормализованным номенклатурам справочника
func newCandidateIndex(references []ReferenceRecord) *candidateIndex {
	index := &candidateIndex{
		byStem: make(map[string][]int),
		total:  len(references),
	}

	for i, ref := range references {
		seen := make(map[string]bool)
		for _, stem := range stemTokens(ref.NomenclatureNorm) {
			if !seen[stem] {
				index.byStem[stem] = append(index.byStem[stem], i)
				seen[stem] = true
			}
		}
	}

	return index
}

// Candidates возвращает позиции справочных записей для нечеткой оценки.
// Справочник в пределах лимита отдается целиком: схожесть считается
// против каждой записи. Сверх лимита остаются записи с общими основами,
// ранжированные по их числу, при равенстве — с меньшим номером строки.
func (ci *candidateIndex) Candidates(nomenclatureNorm string, limit int) []int {
	if limit <= 0 || ci.total <= limit {
		all := make([]int, ci.total)
		for i := range all {
			all[i] = i
		}
		return all
	}

	shared := make(map[int]int)
	for _, stem := range stemTokens(nomenclatureNorm) {
		for _, pos := range ci.byStem[stem] {
			shared[pos]++
		}
	}

	candidates := make([]int, 0, len(shared))
	for pos := range shared {
		candidates = append(candidates, pos)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if shared[candidates[i]] != shared[candidates[j]] {
			return shared[candidates[i]] > shared[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates
}

// stemTokens разбивает текст на словесные токены и стеммирует русские слова.
// Токены короче трех символов и чисто числовые группы пропускаются:
// коды сравниваются отдельными уровнями каскада.
func stemTokens(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	stems := make([]string, 0, len(words))
	for _, word := range words {
		if len([]rune(word)) < 3 || isNumericToken(word) {
			continue
		}

		stemmed, err := snowball.Stem(word, "russian", true)
		if err != nil {
			stemmed = word
		}
		stems = append(stems, stemmed)
	}

	return stems
}

func isNumericToken(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
