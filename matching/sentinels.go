package matching

// Маркеры-заглушки, записываемые в выходные ячейки вместо пустоты
const (
	// SentinelNoMatch пишется в стоимостные столбцы при отсутствии совпадения
	SentinelNoMatch = "#РП"
	// SentinelNoData пишется в столбец даты, когда дата не извлекается
	SentinelNoData = "#НД"
	// MarkerManualReview помечает строку, требующую ручной проверки
	MarkerManualReview = "*ТРЕБУЕТ РУЧНОЙ ПРОВЕРКИ*"
	// MarkerMissingKeyData помечает строку без ключевых данных
	MarkerMissingKeyData = "*ОТСУТСТВУЮТ КЛЮЧЕВЫЕ ДАННЫЕ*"
)
