package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Brendan777/Assignment2/pkg/domain/model"
	"github.com/Brendan777/Assignment2/pkg/domain/service"
	"github.com/Brendan777/Assignment2/pkg/infrastructure/catalog"
	"github.com/Brendan777/Assignment2/pkg/infrastructure/event"
	"github.com/Brendan777/Assignment2/pkg/infrastructure/userstore"
	"github.com/Brendan777/Assignment2/transport"
)

const appID = "shopservice"

type config struct {
	HTTPAddress  string `envconfig:"http_address" default:":8080"`
	CatalogPath  string `envconfig:"catalog_path" default:"products.json"`
	PublicDir    string `envconfig:"public_dir" default:"public"`
	TemplatesDir string `envconfig:"templates_dir" default:"templates"`
	UserStore    string `envconfig:"user_store" default:"file"`
	UserDataPath string `envconfig:"user_data_path" default:"user_data.json"`
	MySQLDSN     string `envconfig:"mysql_dsn"`
	AMQPURL      string `envconfig:"amqp_url"`
	LogFile      string `envconfig:"log_file"`
}

func main() {
	app := &cli.App{
		Name:  appID,
		Usage: "Quantity-order shop: product catalog, purchase validation and invoicing",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "http-address", Usage: "listen address, overrides SHOP_HTTP_ADDRESS"},
			&cli.StringFlag{Name: "catalog", Usage: "path to the catalog JSON file, overrides SHOP_CATALOG_PATH"},
		},
		Action: runApp,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("service stopped")
	}
}

func runApp(c *cli.Context) error {
	var cfg config
	if err := envconfig.Process("shop", &cfg); err != nil {
		return errors.Wrap(err, "parse environment")
	}
	if addr := c.String("http-address"); addr != "" {
		cfg.HTTPAddress = addr
	}
	if path := c.String("catalog"); path != "" {
		cfg.CatalogPath = path
	}

	setupLogger(cfg.LogFile)

	catalogStore, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	users, closeUsers, err := buildUserStore(cfg)
	if err != nil {
		return err
	}
	defer closeUsers()

	dispatcher, closeDispatcher, err := buildDispatcher(cfg)
	if err != nil {
		return err
	}
	defer closeDispatcher()

	orders := service.NewOrderService(catalogStore, dispatcher)
	creds := service.NewCredentialService(users, dispatcher)
	invoices := service.NewInvoiceService()

	router := transport.Router(catalogStore, orders, creds, invoices, cfg.PublicDir, cfg.TemplatesDir)
	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("url", cfg.HTTPAddress).Info("Starting server")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "listen and serve")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down...")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func setupLogger(logFile string) {
	log.SetFormatter(&log.JSONFormatter{})
	if logFile == "" {
		return
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.WithError(err).Warn("could not open log file, logging to stderr")
		return
	}
	log.SetOutput(file)
}

func buildUserStore(cfg config) (model.UserRepository, func(), error) {
	switch cfg.UserStore {
	case "file":
		return userstore.NewFileStore(cfg.UserDataPath), func() {}, nil
	case "mysql":
		db, err := sqlx.Connect("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect to MySQL")
		}
		if err := userstore.Migrate(db.DB); err != nil {
			db.Close()
			return nil, nil, err
		}
		return userstore.NewMySQLStore(db), func() { db.Close() }, nil
	default:
		return nil, nil, errors.Errorf("unknown user store backend %q", cfg.UserStore)
	}
}

func buildDispatcher(cfg config) (service.EventDispatcher, func(), error) {
	if cfg.AMQPURL == "" {
		return event.NewLogDispatcher(), func() {}, nil
	}

	conn, ch, err := event.SetupConn(cfg.AMQPURL)
	if err != nil {
		return nil, nil, err
	}
	return event.NewAMQPDispatcher(ch), func() {
		ch.Close()
		conn.Close()
	}, nil
}
