package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mrleocoder/coderbds/internal/config"
	"github.com/mrleocoder/coderbds/internal/handler"
	mongostore "github.com/mrleocoder/coderbds/internal/mongo"
	"github.com/mrleocoder/coderbds/internal/notify"
	"github.com/mrleocoder/coderbds/internal/postgres"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/internal/repository/memory"
	"github.com/mrleocoder/coderbds/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using process environment")
	}

	cfgPath := os.Getenv("CONFIG_FILE")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	gin.SetMode(cfg.App.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, cleanup, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("storage error: %v", err)
	}
	defer cleanup()

	tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.Fatalf("telegram error: %v", err)
	}
	defer tg.Wait()
	var notifier service.Notifier
	if tg != nil {
		notifier = tg
	}

	auth := service.NewAuthService(repos.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err := auth.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	r := gin.Default()
	handler.Register(r, handler.Services{
		Auth:       auth,
		Posting:    service.NewPostingService(repos, cfg.Posting.Fee, cfg.Posting.Lifetime(), notifier),
		Moderation: service.NewModerationService(repos, notifier),
		Wallet:     service.NewWalletService(repos, notifier),
		Members:    service.NewMemberService(repos.Users),
		Tickets:    service.NewTicketService(repos.Tickets, notifier),
		Stats:      service.NewStatsService(repos),
		Properties: service.NewPropertyCatalog(repos.Properties),
		Lands:      service.NewLandCatalog(repos.Lands),
		Sims:       service.NewSimCatalog(repos.Sims),
		News:       service.NewNewsCatalog(repos.News),
	})

	srv := &http.Server{Addr: ":" + cfg.App.Port, Handler: r}
	go func() {
		log.Printf("BDS service running on :%s …", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// openStores builds the repository set for the configured backend. Tickets
// live in PostgreSQL when DATABASE_URL is set.
func openStores(ctx context.Context, cfg *config.Config) (repository.Set, func(), error) {
	mem := memory.New().Set()
	repos := mem
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Storage.Backend == config.StorageMongo {
		client, err := mongostore.NewMongoClient(ctx, cfg.Storage.MongoURI)
		if err != nil {
			return repos, cleanup, err
		}
		closers = append(closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("mongo disconnect: %v", err)
			}
		})
		db := client.Database(cfg.Storage.MongoDB)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return repos, cleanup, err
		}
		repos = repository.Set{
			Users:        repository.NewUserRepository(db),
			Transactions: repository.NewTransactionRepository(db),
			MemberPosts:  repository.NewMemberPostRepository(db),
			Properties:   repository.NewPropertyRepository(db),
			Lands:        repository.NewLandRepository(db),
			Sims:         repository.NewSimRepository(db),
			News:         repository.NewNewsRepository(db),
			Tickets:      mem.Tickets,
			Tx:           mongostore.NewTransactor(client, cfg.Storage.MongoTransactions),
		}
	} else {
		log.Println("⚠️  Using in-memory storage, data is lost on restart")
	}

	if cfg.Storage.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.Storage.DatabaseURL)
		if err != nil {
			return repos, cleanup, err
		}
		closers = append(closers, func() { _ = db.Close() })
		if err := postgres.Migrate(ctx, db); err != nil {
			return repos, cleanup, err
		}
		repos.Tickets = repository.NewTicketRepository(db)
	} else {
		log.Println("⚠️  DATABASE_URL not set, tickets kept in memory")
	}
	return repos, cleanup, nil
}
