package di

import (
	"github.com/hemantmeena2005/eventbooking/internal/handler"
	"github.com/hemantmeena2005/eventbooking/internal/repository"
	"github.com/hemantmeena2005/eventbooking/internal/service"
	"github.com/hemantmeena2005/eventbooking/pkg/database"
	"github.com/hemantmeena2005/eventbooking/pkg/redis"
)

// Container holds all dependencies for the event booking service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	EventRepo    repository.EventRepository
	BookingRepo  repository.BookingRepository
	BookingStore repository.BookingStore
	OutboxRepo   repository.OutboxRepository

	// Services
	EventService   service.EventService
	BookingService service.BookingService

	// Handlers
	HealthHandler  *handler.HealthHandler
	EventHandler   *handler.EventHandler
	BookingHandler *handler.BookingHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB    *database.PostgresDB
	Redis *redis.Client
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
	}

	// Repositories. The event repository is wrapped with the Redis cache
	// when a cache client is available; the booking store always goes
	// straight to PostgreSQL.
	pgEventRepo := repository.NewPostgresEventRepository(c.DB.Pool())
	txBookingRepo := repository.NewTransactionalBookingRepository(c.DB.Pool())

	var cacheInvalidator service.CacheInvalidator
	if c.Redis != nil {
		cached := repository.NewCachedEventRepository(pgEventRepo, c.Redis)
		c.EventRepo = cached
		cacheInvalidator = cached
	} else {
		c.EventRepo = pgEventRepo
	}

	c.BookingRepo = repository.NewPostgresBookingRepository(c.DB.Pool())
	c.BookingStore = txBookingRepo
	c.OutboxRepo = txBookingRepo.OutboxRepo()

	// Services
	c.EventService = service.NewEventService(c.EventRepo)
	c.BookingService = service.NewBookingService(c.BookingRepo, c.BookingStore, cacheInvalidator)

	// Handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)

	return c
}
