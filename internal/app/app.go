package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
	"time"

	"github.com/andy/proinvoice/internal/config"
	"github.com/andy/proinvoice/internal/crypto"
	"github.com/andy/proinvoice/internal/db"
	"github.com/andy/proinvoice/internal/logger"
	"github.com/andy/proinvoice/internal/repository"
	"github.com/andy/proinvoice/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB

	// Repositories
	ClientRepo  repository.ClientRepository
	ServiceRepo repository.ServiceRepository
	InvoiceRepo repository.InvoiceRepository
	ProfileRepo repository.ProfileRepository

	// Services
	ClientService  service.ClientService
	CatalogService service.CatalogService
	InvoiceService service.InvoiceService
	ProfileService service.ProfileService
	ReportService  service.ReportService
	BackupService  service.BackupService

	now       service.Clock
	logCloser io.Closer
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Setting up logging
// 3. Getting encryption key from keyring
// 4. Opening database and running migrations
// 5. Creating repositories and services
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output
	logCloser, err := logger.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	keyring := crypto.NewKeyring()

	password, err := keyring.GetKey()
	if err != nil && !errors.Is(err, crypto.ErrNoKey) {
		logCloser.Close()
		return nil, fmt.Errorf("failed to read encryption key: %w", err)
	}
	if err != nil {
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			logCloser.Close()
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		if err := keyring.SetKey(password); err != nil {
			logCloser.Close()
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	database, err := db.Open(cfg.Database.Path, password, logger.WithComponent("db"))
	if errors.Is(err, db.ErrWrongKey) {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open %s (check %s or the system keyring): %w", cfg.Database.Path, crypto.EnvKey, err)
	}
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		logCloser.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := wire(database, cfg, time.Now)
	a.logCloser = logCloser
	log.Info().Str("db", database.Path()).Msg("application started")
	return a, nil
}

// wire builds repositories and services on top of an open database
func wire(database *db.DB, cfg *config.Config, now service.Clock) *App {
	clientRepo := repository.NewClientRepo(database)
	serviceRepo := repository.NewServiceRepo(database)
	invoiceRepo := repository.NewInvoiceRepo(database)
	profileRepo := repository.NewProfileRepo(database)

	a := &App{
		Config:      cfg,
		DB:          database,
		ClientRepo:  clientRepo,
		ServiceRepo: serviceRepo,
		InvoiceRepo: invoiceRepo,
		ProfileRepo: profileRepo,

		ClientService:  service.NewClientService(clientRepo, logger.WithComponent("clients")),
		CatalogService: service.NewCatalogService(serviceRepo, logger.WithComponent("catalog")),
		ProfileService: service.NewProfileService(profileRepo, logger.WithComponent("company")),
		ReportService:  service.NewReportService(invoiceRepo, clientRepo, serviceRepo),
		BackupService: service.NewBackupService(
			invoiceRepo, clientRepo, serviceRepo, profileRepo,
			now, logger.WithComponent("backup"),
		),
		now: now,
	}
	a.InvoiceService = a.newInvoiceService()
	return a
}

func (a *App) newInvoiceService() service.InvoiceService {
	defaults := service.InvoiceDefaults{
		NumberPrefix: a.Config.Invoice.NumberPrefix,
		DueDays:      a.Config.Invoice.DefaultDueDays,
		TaxRate:      decimal.NewFromFloat(a.Config.Invoice.DefaultTaxRate),
	}
	return service.NewInvoiceService(
		a.InvoiceRepo, a.ClientRepo, a.ServiceRepo, a.ProfileRepo,
		defaults, a.now, logger.WithComponent("invoices"),
	)
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var err error
	if a.DB != nil {
		err = a.DB.Close()
	}
	if a.logCloser != nil {
		if cerr := a.logCloser.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your invoices will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Printf("Set %s to supply it from the environment instead.\n", crypto.EnvKey)
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig validates and saves the current configuration, then applies the invoice defaults
func (a *App) SaveConfig() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if err := a.Config.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := a.Config.Save(config.DefaultConfigPath()); err != nil {
		return err
	}
	a.InvoiceService = a.newInvoiceService()
	return nil
}
