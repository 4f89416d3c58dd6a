package app

import (
	"time"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/comments"
	"github.com/gonz247/commentgenerator/internal/database"
	"github.com/gonz247/commentgenerator/internal/logger"
	"github.com/gonz247/commentgenerator/internal/metrics"
	"github.com/gonz247/commentgenerator/internal/repositories"
	"github.com/gonz247/commentgenerator/internal/services"

	assessmentController "github.com/gonz247/commentgenerator/internal/controllers/assessments"
	vocabularyController "github.com/gonz247/commentgenerator/internal/controllers/vocabulary"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	Database database.DB
	Config   config.Config
	Engine   comments.Engine
	Metrics  *metrics.CommentMetrics

	// Services
	TransactionService       *services.TransactionService
	CacheInvalidationService *services.CacheInvalidationService

	// Repositories
	AssessmentRepo repositories.AssessmentRepository
	VocabularyRepo repositories.VocabularyRepository

	// Controllers
	AssessmentController *assessmentController.AssessmentController
	VocabularyController *vocabularyController.VocabularyController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(config)
}

func NewWithConfig(config config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	commentMetrics, err := metrics.NewCommentMetrics(registry)
	if err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to register metrics", err)
	}

	vocabularyTTL := time.Duration(config.VocabularyCacheMinutes) * time.Minute
	vocabularyMemo := cache.New(vocabularyTTL, 2*vocabularyTTL)

	engine := comments.NewEngine(config.CompanyName)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	cacheInvalidationService := services.NewCacheInvalidationService(db, vocabularyMemo)

	// Initialize repositories
	assessmentRepo := repositories.NewAssessment(db)
	vocabularyRepo := repositories.NewVocabulary(db)

	// Initialize controllers with repositories and services
	assessmentController := assessmentController.New(
		assessmentRepo,
		engine,
		transactionService,
		cacheInvalidationService,
		commentMetrics,
		config,
	)
	vocabularyController := vocabularyController.New(
		vocabularyRepo,
		transactionService,
		cacheInvalidationService,
		vocabularyMemo,
		commentMetrics,
	)

	app := &App{
		Database:                 db,
		Config:                   config,
		Engine:                   engine,
		Metrics:                  commentMetrics,
		TransactionService:       transactionService,
		CacheInvalidationService: cacheInvalidationService,
		AssessmentRepo:           assessmentRepo,
		VocabularyRepo:           vocabularyRepo,
		AssessmentController:     assessmentController,
		VocabularyController:     vocabularyController,
	}

	if err := app.validate(); err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := map[string]bool{
		"metrics":                  a.Metrics == nil,
		"transactionService":       a.TransactionService == nil,
		"cacheInvalidationService": a.CacheInvalidationService == nil,
		"assessmentRepo":           a.AssessmentRepo == nil,
		"vocabularyRepo":           a.VocabularyRepo == nil,
		"assessmentController":     a.AssessmentController == nil,
		"vocabularyController":     a.VocabularyController == nil,
	}

	for name, isNil := range nilChecks {
		if isNil {
			return log.Error("nil check failed", "component", name)
		}
	}

	return nil
}

func (a *App) Close() error {
	return a.Database.Close()
}
