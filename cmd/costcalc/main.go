package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"costcalc/excel"
	"costcalc/internal/apperrors"
	"costcalc/internal/config"
	"costcalc/pipeline"
	"costcalc/reconciliation"
)

var (
	flagInput     string
	flagOutput    string
	flagProfile   string
	flagChunkSize int
	flagCompare   bool
	flagLogLevel  string
)

func main() {
	root := &cobra.Command{
		Use:           "costcalc",
		Short:         "Расчет себестоимости продаж по справочнику производства",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagProfile, "profile", "", "путь к YAML-профилю листов (пусто: профиль по умолчанию)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "уровень журнала: debug, info, warn, error")

	calc := &cobra.Command{
		Use:   "calc",
		Short: "Рассчитать стоимостные столбцы и записать результат",
		RunE:  runCalc,
	}
	calc.Flags().StringVar(&flagInput, "input", "", "входная книга Excel")
	calc.Flags().StringVar(&flagOutput, "output", "результат.xlsx", "выходная книга Excel")
	calc.Flags().IntVar(&flagChunkSize, "chunk-size", 0, "размер чанка обработки (0: из конфигурации)")
	calc.Flags().BoolVar(&flagCompare, "compare", false, "сверить расчет с эталонными столбцами и сохранить отчет")
	_ = calc.MarkFlagRequired("input")

	reconcile := &cobra.Command{
		Use:   "reconcile",
		Short: "Сверить расчет с эталонными столбцами без записи книги",
		RunE:  runReconcile,
	}
	reconcile.Flags().StringVar(&flagInput, "input", "", "входная книга Excel")
	_ = reconcile.MarkFlagRequired("input")

	configCheck := &cobra.Command{
		Use:   "config-check",
		Short: "Проверить конфигурацию и профиль листов",
		RunE:  runConfigCheck,
	}

	root.AddCommand(calc, reconcile, configCheck)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка: %v\n", err)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			os.Exit(appErr.ExitCode())
		}
		os.Exit(1)
	}
}

// setup загружает конфигурацию, профиль и настраивает журнал.
// Флаги имеют приоритет над переменными окружения.
func setup() (*config.Config, *config.SheetProfile, *slog.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if flagChunkSize > 0 {
		cfg.ChunkSize = flagChunkSize
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	profilePath := cfg.ProfilePath
	if flagProfile != "" {
		profilePath = flagProfile
	}
	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	return cfg, profile, logger, nil
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runCalc(cmd *cobra.Command, args []string) error {
	cfg, profile, logger, err := setup()
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger.Info("запуск расчета", "run_id", runID, "input", flagInput, "output", flagOutput)

	target, source, err := excel.NewLoader(logger).Load(flagInput, profile)
	if err != nil {
		return err
	}

	result := pipeline.New(cfg, profile, logger).Run(target, source)

	if err := excel.NewWriter(logger).Write(flagInput, flagOutput, profile, result.Outputs); err != nil {
		return err
	}

	printSummary(result.Stats)

	if flagCompare {
		report := analyze(runID, target, profile, result, logger)
		reportPath := reportPathFor(flagOutput)
		if err := os.WriteFile(reportPath, []byte(reconciliation.FormatReport(report)), 0o644); err != nil {
			return apperrors.NewWriteError("не удалось сохранить отчет о сверке: "+reportPath, err)
		}
		logger.Info("отчет о сверке сохранен", "path", reportPath)
	}

	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, profile, logger, err := setup()
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger.Info("запуск сверки", "run_id", runID, "input", flagInput)

	target, source, err := excel.NewLoader(logger).Load(flagInput, profile)
	if err != nil {
		return err
	}

	result := pipeline.New(cfg, profile, logger).Run(target, source)
	report := analyze(runID, target, profile, result, logger)

	fmt.Println(reconciliation.FormatReport(report))
	printSummary(result.Stats)

	return nil
}

func analyze(runID string, target *excel.Table, profile *config.SheetProfile, result *pipeline.Result, logger *slog.Logger) *reconciliation.Report {
	rows := reconciliation.BuildRows(target, profile, result.Outputs)
	return reconciliation.NewAnalyzer(logger).Analyze(runID, rows)
}

// reportPathFor строит путь отчета рядом с выходной книгой
func reportPathFor(outputPath string) string {
	base := strings.TrimSuffix(outputPath, ".xlsx")
	return base + "_comparison_report.txt"
}

// printSummary печатает сводку прогона. Сводка выводится всегда,
// даже когда часть строк осталась без результата.
func printSummary(stats pipeline.Stats) {
	fmt.Println("=== Сводка расчета ===")
	fmt.Printf("  Всего строк: %d\n", stats.Total)
	fmt.Printf("  Стоимость найдена: %d\n", stats.Matched())
	fmt.Printf("    агрегация по кварталу: %d\n", stats.Aggregated)
	fmt.Printf("    уровень 1 (дата и номенклатура): %d\n", stats.Level1)
	fmt.Printf("    уровень 2 (код и контрагент): %d\n", stats.Level2)
	fmt.Printf("    нечеткое совпадение: %d\n", stats.Fuzzy)
	fmt.Printf("  Требуют ручной проверки: %d\n", stats.ManualReview)
	fmt.Printf("  Отсутствуют ключевые данные: %d\n", stats.MissingData)
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	cfg, profile, _, err := setup()
	if err != nil {
		return err
	}

	fmt.Println("=== Проверка конфигурации ===")
	fmt.Println("")
	fmt.Println("✅ Конфигурация успешно загружена")
	fmt.Printf("  Размер чанка: %d\n", cfg.ChunkSize)
	fmt.Printf("  Порог отбора кандидатов: %g\n", cfg.CandidateThreshold)
	fmt.Printf("  Порог принятия: %g\n", cfg.AcceptThreshold)
	fmt.Printf("  Лимит нечетких кандидатов: %d\n", cfg.FuzzyCandidateCap)
	fmt.Printf("  Ключевые слова контрагента: %s\n", strings.Join(cfg.CounterpartyKeywords, "; "))
	fmt.Printf("  Уровень журнала: %s\n", cfg.LogLevel)
	fmt.Println("")
	fmt.Println("✅ Профиль листов корректен")
	fmt.Printf("  Целевой лист: %s (шапка: строка %d, данные: строка %d)\n",
		profile.Target.Sheet, profile.Target.HeaderRow, profile.Target.DataStartRow)
	fmt.Printf("  Справочный лист: %s (данные: строка %d)\n",
		profile.Source.Sheet, profile.Source.DataStartRow)

	return nil
}
