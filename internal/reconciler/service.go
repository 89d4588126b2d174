// Package reconciler turns a monthly currency summary and a sales ledger into
// per-entity invoices.
//
// BuildInvoices is the pure core: it joins aggregated ledger sales with the
// currency records of the same month through the entity directory. Service
// wraps it with file loading, parsing, progress reporting and a Result that
// carries everything a report needs.
//
// Example usage:
//
//	service, err := reconciler.NewService(reconciler.DefaultConfig())
//	service.AddProgressCallback(func(p reconciler.Progress) {
//		fmt.Printf("%d/%d %s\n", p.CompletedSteps, p.TotalSteps, p.Stage)
//	})
//
//	result, err := service.Process(ctx, &reconciler.Request{
//		CurrencyFile: "financial_report.csv",
//		LedgerFile:   "sales_ledger.txt",
//	})
package reconciler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"time"
	"unicode/utf8"

	"financial-report-slicer/internal/entities"
	"financial-report-slicer/internal/models"
	"financial-report-slicer/internal/parsers"
	"financial-report-slicer/pkg/errors"
	"financial-report-slicer/pkg/logger"

	"github.com/google/uuid"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Config holds configuration options for the reconciliation service
type Config struct {
	// LocalCurrency is the currency invoices are totalled in; empty means inferred
	LocalCurrency string `json:"local_currency,omitempty"`
	// SelectedEntities limits the invoices to these entities; empty means all
	SelectedEntities []entities.LegalEntity `json:"selected_entities,omitempty"`
	// AsOf pins the clock used for country display names
	AsOf *time.Time `json:"as_of,omitempty"`

	CurrencyLayout *parsers.CurrencyLayout `json:"currency_layout,omitempty"`
	LedgerLayout   *parsers.LedgerLayout   `json:"ledger_layout,omitempty"`
}

// DefaultConfig returns a default configuration for the reconciliation service
func DefaultConfig() *Config {
	return &Config{
		CurrencyLayout: parsers.DefaultCurrencyLayout(),
		LedgerLayout:   parsers.DefaultLedgerLayout(),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LocalCurrency != "" && !currencyCodePattern.MatchString(c.LocalCurrency) {
		return fmt.Errorf("local currency must be a three letter ISO code, got %q", c.LocalCurrency)
	}

	for _, entity := range c.SelectedEntities {
		if !entity.IsValid() {
			return fmt.Errorf("unknown legal entity %d", int(entity))
		}
	}

	return nil
}

// Request names the two report files of one month
type Request struct {
	CurrencyFile string `json:"currency_file" yaml:"currency_file"`
	LedgerFile   string `json:"ledger_file" yaml:"ledger_file"`
}

// Validate validates the request
func (r *Request) Validate() error {
	if r.CurrencyFile == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, "currency_file", nil, nil)
	}
	if r.LedgerFile == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, "ledger_file", nil, nil)
	}
	return nil
}

// Result contains everything produced for one pair of reports
type Result struct {
	ReportID           string                  `json:"report_id" yaml:"report_id"`
	Month              string                  `json:"month,omitempty" yaml:"month,omitempty"`
	DateRange          models.DateRange        `json:"date_range" yaml:"date_range"`
	LocalCurrency      string                  `json:"local_currency" yaml:"local_currency"`
	CurrencyRecords    []models.CurrencyRecord `json:"currency_records" yaml:"currency_records"`
	Invoices           []models.Invoice        `json:"invoices" yaml:"invoices"`
	ProcessedAt        time.Time               `json:"processed_at" yaml:"processed_at"`
	ProcessingDuration time.Duration           `json:"processing_duration" yaml:"processing_duration"`
	Request            *Request                `json:"request,omitempty" yaml:"request,omitempty"`
}

// TotalInLocalCurrency sums all invoices
func (r *Result) TotalInLocalCurrency() float64 {
	var total float64
	for _, invoice := range r.Invoices {
		total += invoice.TotalInLocalCurrency()
	}
	return total
}

// Invoice returns the invoice addressed to entity
func (r *Result) Invoice(entity entities.LegalEntity) (models.Invoice, bool) {
	for _, invoice := range r.Invoices {
		if invoice.Recipient == entity {
			return invoice, true
		}
	}
	return models.Invoice{}, false
}

// Stage names a step of the reconciliation
type Stage string

const (
	StageReadingCurrency Stage = "reading currency summary"
	StageReadingLedger   Stage = "reading sales ledger"
	StageParsingCurrency Stage = "parsing currency summary"
	StageParsingLedger   Stage = "parsing sales ledger"
	StageBuilding        Stage = "building invoices"
	StageCompleted       Stage = "completed"
)

// Progress reports how far a reconciliation has come
type Progress struct {
	Stage          Stage         `json:"stage"`
	CompletedSteps int           `json:"completed_steps"`
	TotalSteps     int           `json:"total_steps"`
	Elapsed        time.Duration `json:"elapsed"`
}

// ProgressCallback is called at the start of every stage
type ProgressCallback func(Progress)

type tracker struct {
	callbacks []ProgressCallback
	started   time.Time
	total     int
	completed int
}

func (t *tracker) enter(stage Stage) {
	progress := Progress{
		Stage:          stage,
		CompletedSteps: t.completed,
		TotalSteps:     t.total,
		Elapsed:        time.Since(t.started),
	}
	for _, callback := range t.callbacks {
		callback(progress)
	}
	if stage != StageCompleted {
		t.completed++
	}
}

// Service runs the reconciliation of a currency summary and a sales ledger
type Service struct {
	config         *Config
	currencyParser *parsers.CurrencyParser
	ledgerParser   *parsers.LedgerParser
	directory      *entities.Directory
	logger         logger.Logger
	callbacks      []ProgressCallback
	now            func() time.Time
}

// NewService creates a new reconciliation service
func NewService(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "reconciler", config, err)
	}

	currencyParser, err := parsers.NewCurrencyParser(config.CurrencyLayout)
	if err != nil {
		return nil, err
	}

	ledgerParser, err := parsers.NewLedgerParser(config.LedgerLayout)
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("reconciler")

	directory := entities.NewDirectory(nil)
	if config.AsOf != nil {
		directory = entities.PinnedDirectory(*config.AsOf)
	}

	return &Service{
		config:         config,
		currencyParser: currencyParser,
		ledgerParser:   ledgerParser,
		directory:      directory,
		logger:         log,
		now:            time.Now,
	}, nil
}

// WithLogger routes the logs of the service and its parsers to log
func (s *Service) WithLogger(log logger.Logger) *Service {
	s.logger = log.WithComponent("reconciler")
	s.currencyParser.WithLogger(log.WithComponent("currency_parser"))
	s.ledgerParser.WithLogger(log.WithComponent("ledger_parser"))
	s.directory.WithLogger(log.WithComponent("entity_directory"))
	return s
}

// AddProgressCallback adds a progress callback function
func (s *Service) AddProgressCallback(callback ProgressCallback) {
	s.callbacks = append(s.callbacks, callback)
}

// Config returns the configuration of the service
func (s *Service) Config() *Config {
	return s.config
}

// Process reads both report files and builds the invoices
func (s *Service) Process(ctx context.Context, request *Request) (*Result, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	track := s.newTracker(5)

	s.logger.WithFields(logger.Fields{
		"currency_file": request.CurrencyFile,
		"ledger_file":   request.LedgerFile,
	}).Info("Starting reconciliation")

	track.enter(StageReadingCurrency)
	currencyText, err := readReport(request.CurrencyFile)
	if err != nil {
		return nil, err
	}

	if err := checkContext(ctx, StageReadingLedger); err != nil {
		return nil, err
	}
	track.enter(StageReadingLedger)
	ledgerText, err := readReport(request.LedgerFile)
	if err != nil {
		return nil, err
	}

	result, err := s.process(ctx, track, currencyText, ledgerText)
	if err != nil {
		return nil, err
	}
	result.Request = request
	return result, nil
}

// ProcessText builds the invoices from report contents already in memory
func (s *Service) ProcessText(ctx context.Context, currencyText, ledgerText string) (*Result, error) {
	return s.process(ctx, s.newTracker(3), currencyText, ledgerText)
}

// Month reads the report month label from a currency summary file. The
// boolean is false when the title row carries no month.
func (s *Service) Month(currencyFile string) (string, bool, error) {
	text, err := readReport(currencyFile)
	if err != nil {
		return "", false, err
	}

	month, ok := s.currencyParser.ParseMonth(text)
	return month, ok, nil
}

func (s *Service) newTracker(total int) *tracker {
	return &tracker{callbacks: s.callbacks, started: s.now(), total: total}
}

func (s *Service) process(ctx context.Context, track *tracker, currencyText, ledgerText string) (*Result, error) {
	if err := checkContext(ctx, StageParsingCurrency); err != nil {
		return nil, err
	}
	track.enter(StageParsingCurrency)

	month, ok := s.currencyParser.ParseMonth(currencyText)
	if !ok {
		s.logger.Warn("Could not find the report month in the currency summary title")
	}

	records, err := s.currencyParser.Parse(currencyText)
	if err != nil {
		return nil, err
	}

	if err := checkContext(ctx, StageParsingLedger); err != nil {
		return nil, err
	}
	track.enter(StageParsingLedger)

	sales, dateRange, err := s.ledgerParser.Parse(ledgerText)
	if err != nil {
		return nil, err
	}

	if err := checkContext(ctx, StageBuilding); err != nil {
		return nil, err
	}
	track.enter(StageBuilding)

	localCurrency := s.config.LocalCurrency
	if localCurrency == "" {
		localCurrency = InferLocalCurrency(records)
	}

	invoices, err := BuildInvoices(sales, dateRange, records, &Options{
		SelectedEntities: s.config.SelectedEntities,
		LocalCurrency:    localCurrency,
		Directory:        s.directory,
		Logger:           s.logger.WithComponent("invoice_builder"),
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		ReportID:        uuid.NewString(),
		Month:           month,
		DateRange:       dateRange,
		LocalCurrency:   localCurrency,
		CurrencyRecords: records,
		Invoices:        invoices,
		ProcessedAt:     track.started,
	}
	result.ProcessingDuration = time.Since(track.started)
	track.enter(StageCompleted)

	s.logger.WithFields(logger.Fields{
		"report_id":      result.ReportID,
		"month":          month,
		"invoices":       len(invoices),
		"local_currency": localCurrency,
		"duration":       result.ProcessingDuration,
	}).Info("Reconciliation completed")

	return result, nil
}

func checkContext(ctx context.Context, stage Stage) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CategoryReconciliation, errors.CodeProcessingError,
			fmt.Sprintf("reconciliation cancelled before %s", stage)).
			WithContext("stage", string(stage))
	}
	return nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readReport loads a report export as text
func readReport(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fileError(path, err)
	}
	if info.IsDir() {
		return "", errors.FileError(errors.CodeDirectoryError, path, nil).
			WithSuggestion("pass the report file, not the directory containing it")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fileError(path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", errors.FileError(errors.CodeFileCorrupted, path, nil).
			WithSuggestion("reports must be UTF-8 text; export the file again without converting it")
	}

	return string(data), nil
}

func fileError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return errors.FileError(errors.CodeFileNotFound, path, err)
	case os.IsPermission(err):
		return errors.FileError(errors.CodeFilePermission, path, err)
	default:
		return errors.FileError(errors.CodeFileCorrupted, path, err)
	}
}
