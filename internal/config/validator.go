package config

import (
	"fmt"
	"strings"

	"costcalc/internal/apperrors"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	if c.ChunkSize < 1 {
		errors = append(errors, fmt.Sprintf("chunk size must be positive, got %d", c.ChunkSize))
	}

	if c.CandidateThreshold < 0 || c.CandidateThreshold > 1 {
		errors = append(errors, fmt.Sprintf("candidate threshold must be in [0, 1], got %g", c.CandidateThreshold))
	}
	if c.AcceptThreshold < 0 || c.AcceptThreshold > 1 {
		errors = append(errors, fmt.Sprintf("accept threshold must be in [0, 1], got %g", c.AcceptThreshold))
	}
	if c.AcceptThreshold < c.CandidateThreshold {
		errors = append(errors, "accept threshold must not be below candidate threshold")
	}

	if c.FuzzyCandidateCap < 0 {
		errors = append(errors, fmt.Sprintf("fuzzy candidate cap must not be negative, got %d", c.FuzzyCandidateCap))
	}

	if len(c.CounterpartyKeywords) == 0 {
		errors = append(errors, "at least one counterparty keyword is required")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("unknown log level: %s", c.LogLevel))
	}

	if len(errors) > 0 {
		return apperrors.NewConfigError("конфигурация некорректна: "+strings.Join(errors, "; "), nil)
	}

	return nil
}

// Validate проверяет корректность профиля листов
func (p *SheetProfile) Validate() error {
	var errors []string

	if p.Target.Sheet == "" {
		errors = append(errors, "target sheet name is required")
	}
	if p.Source.Sheet == "" {
		errors = append(errors, "source sheet name is required")
	}

	if p.Target.HeaderRow < 1 {
		errors = append(errors, fmt.Sprintf("target header row must be 1-based, got %d", p.Target.HeaderRow))
	}
	if p.Target.DataStartRow <= p.Target.HeaderRow {
		errors = append(errors, "target data start row must be below the header row")
	}

	if p.Source.DataStartRow < 1 {
		errors = append(errors, fmt.Sprintf("source data start row must be 1-based, got %d", p.Source.DataStartRow))
	}

	if p.Target.MinColumns < 1 {
		errors = append(errors, "target min columns must be positive")
	}
	if p.Source.MinColumns < 1 {
		errors = append(errors, "source min columns must be positive")
	}

	targetColumns := []int{
		p.Target.Columns.Nomenclature,
		p.Target.Columns.Document,
		p.Target.Columns.RealizationDate,
	}
	for _, idx := range targetColumns {
		if idx < 0 || idx >= p.Target.MinColumns {
			errors = append(errors, fmt.Sprintf("target column index %d is outside [0, %d)", idx, p.Target.MinColumns))
		}
	}

	sourceColumns := []int{
		p.Source.Columns.Nomenclature,
		p.Source.Columns.Period,
		p.Source.Columns.Counterparty,
		p.Source.Columns.Quantity,
		p.Source.Columns.CostPurchase,
		p.Source.Columns.CostDirect,
		p.Source.Columns.CostOverhead,
		p.Source.Columns.PeriodQuarter,
	}
	for _, idx := range sourceColumns {
		if idx < 0 || idx >= p.Source.MinColumns {
			errors = append(errors, fmt.Sprintf("source column index %d is outside [0, %d)", idx, p.Source.MinColumns))
		}
	}

	referenceColumns := []int{
		p.Target.Reference.Date,
		p.Target.Reference.Quarter,
		p.Target.Reference.CostPurchase,
		p.Target.Reference.CostDirect,
		p.Target.Reference.CostOverhead,
	}
	for _, idx := range referenceColumns {
		if idx < 0 {
			errors = append(errors, fmt.Sprintf("reference column index must not be negative, got %d", idx))
		}
	}

	if p.Target.DateOffset < 0 || p.Target.DateLength < 0 {
		errors = append(errors, "date offset and length must not be negative")
	}

	if len(errors) > 0 {
		return apperrors.NewConfigError("профиль листов некорректен: "+strings.Join(errors, "; "), nil)
	}

	return nil
}
