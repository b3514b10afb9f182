package apperrors

import (
	"fmt"
)

// Коды завершения процесса по причинам отказа.
// Каждая фатальная причина имеет собственный код, чтобы вызывающие
// скрипты могли различать отказы без разбора текста ошибки.
const (
	ExitFileMissing   = 2 // входной файл не найден
	ExitSheetMissing  = 3 // требуемый лист отсутствует в книге
	ExitColumnMissing = 4 // недостаточно столбцов в листе
	ExitLoadFailed    = 5 // прочая ошибка загрузки
	ExitWriteFailed   = 6 // ошибка записи результата
	ExitConfigInvalid = 7 // некорректная конфигурация или профиль
)

// AppError представляет ошибку приложения с кодом завершения и контекстом
type AppError struct {
	Code    int    // Код завершения процесса
	Message string // Сообщение для пользователя
	Err     error  // Внутренняя ошибка для логов
	Context string // Дополнительный контекст (функция, параметры)
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap возвращает вложенную ошибку для errors.Is и errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// ExitCode возвращает код завершения процесса
func (e *AppError) ExitCode() int {
	return e.Code
}

// WithContext добавляет контекст к ошибке
func (e *AppError) WithContext(context string) *AppError {
	e.Context = context
	return e
}

// NewFileMissingError создает ошибку отсутствия входного файла
func NewFileMissingError(path string, err error) *AppError {
	return &AppError{
		Code:    ExitFileMissing,
		Message: fmt.Sprintf("файл не найден: %s", path),
		Err:     err,
	}
}

// NewSheetMissingError создает ошибку отсутствия листа в книге
func NewSheetMissingError(sheet string, err error) *AppError {
	return &AppError{
		Code:    ExitSheetMissing,
		Message: fmt.Sprintf("лист не найден: %s", sheet),
		Err:     err,
	}
}

// NewColumnMissingError создает ошибку недостаточного количества столбцов
func NewColumnMissingError(sheet string, required, found int) *AppError {
	return &AppError{
		Code:    ExitColumnMissing,
		Message: fmt.Sprintf("недостаточно столбцов в листе %q (требуется минимум %d, найдено %d)", sheet, required, found),
	}
}

// NewLoadError создает общую ошибку загрузки
func NewLoadError(message string, err error) *AppError {
	return &AppError{
		Code:    ExitLoadFailed,
		Message: message,
		Err:     err,
	}
}

// NewWriteError создает ошибку записи результата
func NewWriteError(message string, err error) *AppError {
	return &AppError{
		Code:    ExitWriteFailed,
		Message: message,
		Err:     err,
	}
}

// NewConfigError создает ошибку конфигурации
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Code:    ExitConfigInvalid,
		Message: message,
		Err:     err,
	}
}
