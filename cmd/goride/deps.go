package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/goride/admin-api/internal/api"
	"github.com/goride/admin-api/internal/api/handler"
	"github.com/goride/admin-api/internal/core/ports"
	"github.com/goride/admin-api/internal/core/service"
	mongostore "github.com/goride/admin-api/internal/infrastructure/db/mongo"
	redisstore "github.com/goride/admin-api/internal/infrastructure/db/redis"
	"github.com/goride/admin-api/internal/infrastructure/db/sqlstore"
	"github.com/goride/admin-api/internal/infrastructure/mail"
	"github.com/goride/admin-api/internal/infrastructure/security"
	"github.com/goride/admin-api/internal/infrastructure/storage"
	"github.com/goride/admin-api/internal/pkg/config"
	"github.com/goride/admin-api/pkg/logger"
)

// resources tracks everything that must be closed on shutdown, in opening order.
type resources struct {
	closers []func(context.Context) error
	checks  []handler.Check
}

func (r *resources) onClose(fn func(context.Context) error) {
	r.closers = append(r.closers, fn)
}

func (r *resources) check(name string, ping func(context.Context) error) {
	r.checks = append(r.checks, handler.Check{Name: name, Ping: ping})
}

// Close releases resources in reverse order.
func (r *resources) Close(ctx context.Context, log zerolog.Logger) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("close resource")
		}
	}
}

// stores are the repositories behind the configured STORE_DRIVER.
type stores struct {
	accounts ports.AccountRepository
	rides    ports.RideRepository

	// Exactly one of these is set.
	mongo  *mongostore.Store
	sqlDB  *sql.DB
	driver sqlstore.Driver
}

func openStores(ctx context.Context, cfg *config.Config, res *resources) (*stores, error) {
	if cfg.StoreDriver == "mongo" {
		ms, err := mongostore.Connect(ctx, mongostore.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			Timeout:     cfg.Mongo.Timeout,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("driver", "mongo").Wrap(err)
		}
		res.onClose(ms.Close)
		res.check("mongodb", ms.Ping)
		return &stores{accounts: ms.Accounts(), rides: ms.Rides(), mongo: ms}, nil
	}

	driver := sqlstore.Driver(cfg.StoreDriver)
	db, err := sqlstore.Open(ctx, driver, cfg.SQL.DSN)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("driver", driver).Wrap(err)
	}
	res.onClose(func(context.Context) error { return db.Close() })
	res.check(string(driver), db.PingContext)
	return &stores{
		accounts: sqlstore.NewAccountRepository(db),
		rides:    sqlstore.NewRideRepository(db),
		sqlDB:    db,
		driver:   driver,
	}, nil
}

// prepare creates indexes or tables. Both are idempotent.
func (s *stores) prepare(ctx context.Context) error {
	if s.mongo != nil {
		if err := s.mongo.Accounts().EnsureIndexes(ctx); err != nil {
			return oops.Code("MIGRATION_FAILED").With("store", "accounts").Wrap(err)
		}
		if err := s.mongo.Rides().EnsureIndexes(ctx); err != nil {
			return oops.Code("MIGRATION_FAILED").With("store", "rides").Wrap(err)
		}
		return nil
	}
	return sqlstore.Migrate(ctx, s.sqlDB, s.driver)
}

// seedRides fills an empty ride catalogue.
func (s *stores) seedRides(ctx context.Context) (int, error) {
	rides := defaultRides(time.Now().UTC())
	if s.mongo != nil {
		return s.mongo.Rides().SeedRides(ctx, rides)
	}
	return sqlstore.NewRideRepository(s.sqlDB).SeedRides(ctx, rides)
}

func newImageStore(ctx context.Context, cfg *config.Config, res *resources, log zerolog.Logger) (ports.ImageStore, error) {
	if cfg.Storage.Driver == "minio" {
		m, err := storage.NewMinIO(storage.MinIOConfig{
			Endpoint:  cfg.Storage.MinIOEndpoint,
			AccessKey: cfg.Storage.MinIOAccessKey,
			SecretKey: cfg.Storage.MinIOSecretKey,
			Bucket:    cfg.Storage.MinIOBucket,
			UseSSL:    cfg.Storage.MinIOUseSSL,
		}, log)
		if err != nil {
			return nil, oops.Code("STORAGE_INIT_FAILED").With("driver", "minio").Wrap(err)
		}
		if err := m.EnsureBucket(ctx); err != nil {
			return nil, oops.Code("STORAGE_INIT_FAILED").With("driver", "minio").Wrap(err)
		}
		res.check("minio", m.Ping)
		return m, nil
	}

	d, err := storage.NewDisk(cfg.Storage.UploadDir)
	if err != nil {
		return nil, oops.Code("STORAGE_INIT_FAILED").With("driver", "disk").Wrap(err)
	}
	return d, nil
}

func newMailer(cfg *config.Config) (ports.Mailer, error) {
	m := cfg.Mail
	var (
		mailer ports.Mailer
		err    error
	)
	switch m.Transport {
	case "mailtrap":
		mailer, err = mail.NewMailtrapMailer(mail.MailtrapConfig{
			APIKey:   m.MailtrapAPIKey,
			URL:      m.MailtrapURL,
			From:     cfg.SenderAddress(),
			FromName: m.FromName,
			Timeout:  m.Timeout,
		})
	default:
		mailer, err = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     m.SMTPHost,
			Port:     m.SMTPPort,
			Username: m.SMTPUsername,
			Password: m.SMTPPassword,
			From:     cfg.SenderAddress(),
			FromName: m.FromName,
			Timeout:  m.Timeout,
			Insecure: m.SMTPInsecure,
		})
	}
	if err != nil {
		return nil, oops.Code("MAIL_INIT_FAILED").With("transport", m.Transport).Wrap(err)
	}
	return mailer, nil
}

// buildApp connects every backend and wires the services behind the router.
// On error, whatever was opened is already registered in res.
func buildApp(ctx context.Context, cfg *config.Config, res *resources, log zerolog.Logger) (api.Deps, error) {
	st, err := openStores(ctx, cfg, res)
	if err != nil {
		return api.Deps{}, err
	}
	if err := st.prepare(ctx); err != nil {
		return api.Deps{}, err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return api.Deps{}, oops.Code("REDIS_CONNECT_FAILED").Wrap(err)
	}
	res.onClose(func(context.Context) error { return rdb.Close() })
	res.check("redis", func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) })

	images, err := newImageStore(ctx, cfg, res, logger.Component("storage"))
	if err != nil {
		return api.Deps{}, err
	}
	mailer, err := newMailer(cfg)
	if err != nil {
		return api.Deps{}, err
	}
	tokens, err := security.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		return api.Deps{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	auth := service.NewAuthService(
		st.accounts,
		hasher,
		tokens,
		redisstore.NewResetTokenGuard(rdb),
		service.NewResetLinkDispatcher(mailer, cfg.FrontendURL, cfg.Brand),
		images,
		logger.Component("auth"),
	)

	return api.Deps{
		Auth:        auth,
		Profiles:    service.NewProfileService(st.accounts, hasher, logger.Component("profiles")),
		Rides:       service.NewRideService(st.rides),
		Images:      images,
		Checks:      res.checks,
		Logger:      log,
		BackendURL:  cfg.BackendURL,
		BodyLimit:   cfg.BodyLimit,
		Development: cfg.IsDevelopment(),
	}, nil
}
