package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/config"
	"github.com/ivankudzin/truecompanions/backend/internal/infra/httpclient"
	"github.com/ivankudzin/truecompanions/backend/internal/infra/logger"
	paymentsinfra "github.com/ivankudzin/truecompanions/backend/internal/infra/payments"
	s3infra "github.com/ivankudzin/truecompanions/backend/internal/infra/s3"
	"github.com/ivankudzin/truecompanions/backend/internal/jobs/cleanup"
	mongorepo "github.com/ivankudzin/truecompanions/backend/internal/repo/mongo"
	pgrepo "github.com/ivankudzin/truecompanions/backend/internal/repo/postgres"
	redrepo "github.com/ivankudzin/truecompanions/backend/internal/repo/redis"
	authsvc "github.com/ivankudzin/truecompanions/backend/internal/services/auth"
	favoritessvc "github.com/ivankudzin/truecompanions/backend/internal/services/favorites"
	mediasvc "github.com/ivankudzin/truecompanions/backend/internal/services/media"
	paymentsvc "github.com/ivankudzin/truecompanions/backend/internal/services/payments"
	premiumsvc "github.com/ivankudzin/truecompanions/backend/internal/services/premium"
	profilesvc "github.com/ivankudzin/truecompanions/backend/internal/services/profiles"
	ratesvc "github.com/ivankudzin/truecompanions/backend/internal/services/rate"
	statssvc "github.com/ivankudzin/truecompanions/backend/internal/services/stats"
	storiessvc "github.com/ivankudzin/truecompanions/backend/internal/services/stories"
	unlocksvc "github.com/ivankudzin/truecompanions/backend/internal/services/unlock"
	userssvc "github.com/ivankudzin/truecompanions/backend/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	mongo      *mongo.Client
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	sweep      *cleanup.Job
	stopJobs   context.CancelFunc
	jobsCtx    context.Context
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log, cfg.HTTP.CORSOrigins)

	var (
		mongoClient *mongo.Client
		db          *mongo.Database
	)
	if c, err := mongorepo.NewClient(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout); err != nil {
		log.Warn("mongo init failed, continuing in degraded mode", zap.Error(err))
	} else {
		mongoClient = c
		db = c.Database(cfg.Mongo.Database)
		if cfg.Mongo.EnsureIndexes {
			if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
				log.Warn("mongo index setup failed", zap.Error(err))
			}
		}
	}

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
		if cfg.Postgres.AutoMigrate {
			if err := pgrepo.EnsureSchema(ctx, pool); err != nil {
				log.Warn("postgres schema setup failed", zap.Error(err))
			}
		}
	}

	redisClient, err := redrepo.NewClient(redrepo.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("redis init failed, continuing in degraded mode", zap.Error(err))
	}
	auditLog := logger.Audit(log)

	userRepo := mongorepo.NewUserRepo(db)
	profileRepo := mongorepo.NewProfileRepo(db)
	favoriteRepo := mongorepo.NewFavoriteRepo(db)
	storyRepo := mongorepo.NewStoryRepo(db)
	unlockRepo := pgrepo.NewUnlockRepo(pool)
	paymentRepo := pgrepo.NewPaymentRepo(pool)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	cacheRepo := redrepo.NewCacheRepo(redisClient)

	rateLimiter := ratesvc.NewLimiter(rateRepo, map[ratesvc.Action]ratesvc.Rule{
		ratesvc.ActionUnlockRequest: {Limit: cfg.Limits.UnlockRequestsPerMin, Window: time.Minute},
		ratesvc.ActionPaymentIntent: {Limit: cfg.Limits.PaymentIntentsPerMin, Window: time.Minute},
	})
	rateLimiter.AttachLogger(log)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, cfg.Auth.SessionTTL)
	authService.AttachLogger(log)

	userService := userssvc.NewService(userRepo)
	userService.AttachLogger(auditLog)

	profileService := profilesvc.NewService(profileRepo, profilesvc.Limits{
		PageSizeDefault:      cfg.Limits.PageSizeDefault,
		PageSizeMax:          cfg.Limits.PageSizeMax,
		AdminPageSizeDefault: cfg.Limits.AdminPageSizeDefault,
		MinAge:               cfg.Limits.MinAge,
		MaxAge:               cfg.Limits.MaxAge,
		NameMaxLength:        cfg.Limits.ProfileNameMaxLength,
		ImageMaxLength:       cfg.Limits.ProfileImageMaxLength,
	})
	profileService.AttachLogger(log)

	premiumService := premiumsvc.NewService(profileRepo)
	premiumService.AttachLogger(auditLog)

	unlockService := unlocksvc.NewService(unlockRepo, profileRepo, rateLimiter, unlocksvc.Price{
		AmountCents: cfg.Payments.UnlockPriceCents,
		Currency:    cfg.Payments.Currency,
	})
	unlockService.AttachLogger(auditLog)

	gateway, err := paymentsinfra.New(paymentsinfra.Config{
		Provider:  cfg.Payments.Provider,
		SecretKey: cfg.Payments.StripeSecretKey,
	}, httpclient.New(cfg.Payments.Timeout))
	if err != nil {
		return nil, fmt.Errorf("init payment gateway: %w", err)
	}
	paymentService := paymentsvc.NewService(paymentsvc.Dependencies{
		Gateway: gateway,
		Ledger:  paymentRepo,
		Limiter: rateLimiter,
		Pricing: paymentsvc.Pricing{
			UnlockPriceCents:  cfg.Payments.UnlockPriceCents,
			Currency:          cfg.Payments.Currency,
			PaymentMethodType: cfg.Payments.PaymentMethodType,
		},
	})
	paymentService.AttachLogger(log)

	favoritesService := favoritessvc.NewService(favoriteRepo, profileRepo)
	favoritesService.AttachLogger(log)

	storiesService := storiessvc.NewService(storyRepo, profileRepo, storiessvc.Limits{
		RatingMin:       cfg.Limits.StoryRatingMin,
		RatingMax:       cfg.Limits.StoryRatingMax,
		ReviewMaxLength: cfg.Limits.StoryReviewMaxLength,
	})
	storiesService.AttachLogger(log)

	statsService := statssvc.NewService(profileRepo, paymentRepo, unlockRepo, cacheRepo, cfg.Stats.CacheTTL)
	statsService.AttachLogger(log)

	var mediaService *mediasvc.Service
	if s3Client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		mediaService = mediasvc.NewService(mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket), mediasvc.Limits{
			MaxImageBytes:       cfg.Media.MaxImageBytes,
			AllowedContentTypes: cfg.Media.AllowedContentTypes,
			URLTTL:              cfg.S3.URLTTL,
		})
		mediaService.AttachLogger(log)
	}

	var sweep *cleanup.Job
	if db != nil {
		sweep = cleanup.NewFavoritesSweep(favoriteRepo, profileRepo, cfg.Jobs.FavoritesSweepBatch, log)
	}

	RegisterRoutes(r, Dependencies{
		AuthService:      authService,
		UserService:      userService,
		ProfileService:   profileService,
		PremiumService:   premiumService,
		UnlockService:    unlockService,
		PaymentService:   paymentService,
		FavoritesService: favoritesService,
		StoriesService:   storiesService,
		StatsService:     statsService,
		MediaService:     mediaService,
		Logger:           log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	jobsCtx, stopJobs := context.WithCancel(context.Background())

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		mongo:      mongoClient,
		postgres:   pool,
		redis:      redisClient,
		sweep:      sweep,
		stopJobs:   stopJobs,
		jobsCtx:    jobsCtx,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	if a.sweep != nil && a.cfg.Jobs.FavoritesSweepInterval > 0 {
		go a.sweep.Loop(a.jobsCtx, a.cfg.Jobs.FavoritesSweepInterval)
	}

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	a.stopJobs()
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
