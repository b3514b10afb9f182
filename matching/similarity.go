package matching

// SequenceSimilarity вычисляет коэффициент схожести двух строк по
// Ратклиффу-Обершелпу: удвоенное число совпавших символов в общих
// блоках, деленное на суммарную длину строк. Результат в диапазоне [0, 1].
func SequenceSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	a := []rune(s1)
	b := []rune(s2)
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	matched := matchingRunes(a, b, 0, len(a), 0, len(b))
	return 2.0 * float64(matched) / float64(len(a)+len(b))
}

// matchingRunes считает суммарную длину совпадающих блоков в
// a[alo:ahi] и b[blo:bhi] рекурсивно вокруг самого длинного блока
func matchingRunes(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}

	total := size
	total += matchingRunes(a, b, alo, i, blo, j)
	total += matchingRunes(a, b, i+size, ahi, j+size, bhi)
	return total
}

// longestMatch находит самый длинный общий блок в a[alo:ahi] и b[blo:bhi].
// При равной длине выбирается блок, начинающийся раньше в a, затем в b,
// что делает результат детерминированным.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (bestI, bestJ, bestSize int) {
	positions := make(map[rune][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		positions[b[j]] = append(positions[b[j]], j)
	}

	bestI, bestJ = alo, blo
	lengths := make(map[int]int)

	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for _, j := range positions[a[i]] {
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestSize {
				bestI, bestJ, bestSize = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}

	return bestI, bestJ, bestSize
}
