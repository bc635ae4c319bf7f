package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"scholarsync-backend/internal/config"
	infraCache "scholarsync-backend/internal/infrastructure/cache"
	"scholarsync-backend/internal/infrastructure/database"
	"scholarsync-backend/pkg/cache"

	catalogRepo "scholarsync-backend/internal/domains/catalog/repository"
	personGateway "scholarsync-backend/internal/domains/person/gateway"
	personHandler "scholarsync-backend/internal/domains/person/handler"
	personService "scholarsync-backend/internal/domains/person/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds all application dependencies. It is the root of the
// dependency graph; every component is a singleton created once at startup.
type Container struct {
	// Infrastructure layer - shared across all domains
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	AsynqClient *asynq.Client

	// Repository layer (data access)
	CatalogRepo catalogRepo.Repository

	// External gateways
	DirectoryGateway personGateway.Gateway

	// Service layer (business logic)
	ImportService personService.ImportService

	// Handler layer (HTTP)
	PersonHandler *personHandler.PersonHandler
}

// NewContainer builds the full dependency graph.
//
// Initialization order matters:
//  1. Config (depends on nothing)
//  2. Infrastructure (DB, Cache, queue client) - depends on Config
//  3. Repositories - depend on Infrastructure
//  4. Gateways and Services - depend on Repositories
//  5. Handlers - depend on Services
func NewContainer() (*Container, error) {
	log.Println("[CONTAINER] Initializing DI container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("[CONTAINER] Config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE AND QUEUE CLIENT
	// ========================================
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	// A broken cache degrades performance but does not break correctness,
	// so a failed ping is a warning rather than a startup error.
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Printf("[CONTAINER] Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("[CONTAINER] Redis connected")
	}
	c.Cache = redisCache

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// ========================================
	// STEP 4: INITIALIZE REPOSITORIES
	// ========================================
	c.CatalogRepo = catalogRepo.NewPostgresRepository(db.Pool, c.Cache)

	// ========================================
	// STEP 5: INITIALIZE GATEWAYS AND SERVICES
	// ========================================
	linker := personService.NewRecordLinker(c.CatalogRepo, cfg.Directory.MatchProperties)

	c.DirectoryGateway = personGateway.NewClient(personGateway.Config{
		BaseURL:  cfg.Directory.BaseURL,
		Username: cfg.Directory.Username,
		Password: cfg.Directory.Password,
		Timeout:  cfg.Directory.Timeout,
	}, linker)

	templateID := templateIDOrNil(cfg.Catalog.PersonTemplateID)
	c.ImportService = personService.NewImportService(
		c.CatalogRepo,
		c.DirectoryGateway,
		c.AsynqClient,
		templateID,
	)

	// ========================================
	// STEP 6: INITIALIZE HANDLERS
	// ========================================
	c.PersonHandler = personHandler.NewPersonHandler(c.ImportService)

	log.Println("[CONTAINER] DI container initialized")
	return c, nil
}

// Cleanup releases infrastructure resources in reverse dependency order.
func (c *Container) Cleanup() {
	log.Println("[CONTAINER] Cleaning up resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("[CONTAINER] Error closing queue client: %v", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("[CONTAINER] Error closing cache: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("[CONTAINER] Error closing database: %v", err)
		}
	}

	log.Println("[CONTAINER] Cleanup complete")
}

func templateIDOrNil(id int) *int {
	if id <= 0 {
		return nil
	}
	return &id
}
