package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/mailservice"
	"github.com/sushihentaime/bloglist/internal/memstore"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type application struct {
	// ctx is cancelled on shutdown and stops background work such as rate limiter cleanup
	ctx         context.Context
	cancel      context.CancelFunc
	config      *Config
	logger      *slog.Logger
	userService *userservice.UserService
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
	broker      *common.MessageBroker
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	blogs, users, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open the store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}

	// the broker is optional; without it no user.created events are published
	var (
		broker   *common.MessageBroker
		producer common.MessageProducer
	)
	if cfg.MQHost != "" {
		broker, err = common.NewMessageBroker(common.BrokerURI(cfg.MQHost, cfg.MQPort, cfg.MQUser, cfg.MQPassword))
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}

		err = common.SetupUserExchange(broker)
		if err != nil {
			logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}
		producer = broker
	}

	app, err := newApplication(cfg, logger, blogs, users, producer)
	if err != nil {
		logger.Error("failed to initialize the services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	app.broker = broker

	if broker != nil && cfg.MailHost != "" {
		app.mailService = mailservice.NewMailService(broker, mailservice.MailConfig{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			Username: cfg.MailUser,
			Password: cfg.MailPassword,
			Sender:   cfg.MailSender,
		}, logger)

		err = app.mailService.SendWelcomeEmails()
		if err != nil {
			logger.Error("failed to start the mail consumer", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	err = app.serve()

	app.shutdown(closeStore)

	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newApplication wires the services on top of the given stores. producer may be nil.
func newApplication(cfg *Config, logger *slog.Logger, blogs blogservice.BlogStore, users userservice.UserStore, producer common.MessageProducer) (*application, error) {
	tokens, err := userservice.NewTokenManager(cfg.Secret, cfg.TokenTTL, cfg.TokenIssuer)
	if err != nil {
		return nil, err
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	userService := userservice.NewUserService(users, producer, cache, tokens, logger)

	ctx, cancel := context.WithCancel(context.Background())

	return &application{
		ctx:         ctx,
		cancel:      cancel,
		config:      cfg,
		logger:      logger,
		userService: userService,
		blogService: blogservice.NewBlogService(blogs, userService, cache),
	}, nil
}

func openStore(cfg *Config) (blogservice.BlogStore, userservice.UserStore, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		store := memstore.New()
		return store.Blogs(), store.Users(), func() {}, nil

	case "postgres":
		db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
		if err != nil {
			return nil, nil, nil, err
		}
		return blogservice.NewBlogModel(db), userservice.NewUserModel(db), func() { common.CloseDB(db) }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (app *application) shutdown(closeStore func()) {
	app.cancel()

	if app.mailService != nil {
		app.mailService.Close()
	}

	if app.broker != nil {
		if err := app.broker.Close(); err != nil {
			app.logger.Error("failed to close the message broker", slog.String("error", err.Error()))
		}
	}

	closeStore()
}
