// Package app wires configuration into storage, settlement and services.
// Both the API server and the operator CLI build on it.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"presale-backend/config"
	httpHandler "presale-backend/internal/adapter/http/handler"
	"presale-backend/internal/adapter/settlement/evm"
	"presale-backend/internal/adapter/storage/memory"
	pgStorage "presale-backend/internal/adapter/storage/postgres"
	redisStorage "presale-backend/internal/adapter/storage/redis"
	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"
	"presale-backend/internal/service"
	"presale-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Storage bundles the ledger repositories of one backend.
type Storage struct {
	Purchases  ports.PurchaseRepository
	Tokens     ports.TokenConfigRepository
	Referrals  ports.ReferralRepository
	Attempts   ports.SettlementAttemptRepository
	Audit      ports.AuditRepository
	Transactor ports.DBTransactor
	Health     []ports.HealthChecker

	close func()
}

// Close releases the backend's connections.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects the configured ledger backend. Postgres schemas are
// applied on open.
func OpenStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		log.Warn().Msg("using in-memory ledger, state is lost on exit")
		return &Storage{
			Purchases:  store.Purchases(),
			Tokens:     store.Tokens(),
			Referrals:  store.Referrals(),
			Attempts:   store.Attempts(),
			Audit:      store.Audit(),
			Transactor: store.Transactor(),
			Health:     []ports.HealthChecker{store.HealthCheck()},
		}, nil
	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := pgStorage.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("PostgreSQL connected")
		return &Storage{
			Purchases:  pgStorage.NewPurchaseRepo(pool),
			Tokens:     pgStorage.NewTokenConfigRepo(pool),
			Referrals:  pgStorage.NewReferralRepo(pool),
			Attempts:   pgStorage.NewSettlementAttemptRepo(pool),
			Audit:      pgStorage.NewAuditRepository(pool),
			Transactor: pgStorage.NewTransactor(pool),
			Health:     []ports.HealthChecker{pgStorage.NewHealthCheck(pool)},
			close:      pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}

// App holds the wired services of a running presale backend.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Storage    *Storage
	Oracle     *evm.Oracle
	Purchase   *service.PurchaseServiceImpl
	Claim      *service.ClaimServiceImpl
	Referral   *service.ReferralServiceImpl
	Auth       *service.AuthServiceImpl
	TokenAdmin *service.TokenAdminServiceImpl
	Reconciler *service.ReconcilerImpl
	Sessions   ports.TokenService
	Audit      ports.AuditService
	Health     []ports.HealthChecker

	// RateLimiter throttles purchase and claim requests per wallet.
	RateLimiter ports.RateLimiter
	// MemoryLimiter is set when RateLimiter is process-local and needs sweeping.
	MemoryLimiter *service.MemoryRateLimiter

	redis   *goredis.Client
	closers []func()
}

// New builds every service from cfg.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}
	clock := service.SystemClock{}

	storage, err := OpenStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.Storage = storage
	a.closers = append(a.closers, storage.Close)
	a.Health = append(a.Health, storage.Health...)

	// Challenge nonces, purchase replay cache and rate limit windows live in
	// Redis when it is enabled, in process otherwise.
	var (
		challenges ports.ChallengeStore
		cache      ports.IdempotencyCache
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		a.redis = rdb
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		a.Health = append(a.Health, redisStorage.NewHealthCheck(rdb))
		challenges = redisStorage.NewChallengeStore(rdb)
		cache = redisStorage.NewPurchaseCache(rdb)
		log.Info().Msg("Redis connected")
	} else {
		kv := memory.NewKV()
		challenges = kv
		cache = kv
	}

	if cfg.RateLimit.Backend == "redis" {
		a.RateLimiter = redisStorage.NewRateLimiter(a.redis, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, clock)
	} else {
		a.MemoryLimiter = service.NewMemoryRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, clock)
		a.RateLimiter = a.MemoryLimiter
	}

	oracle, closeRPC, err := dialOracle(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Oracle = oracle
	a.closers = append(a.closers, closeRPC)
	a.Health = append(a.Health, oracle)

	// Core services
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	a.Sessions = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	a.Audit = service.NewAuditService(storage.Audit, log)
	alerts := service.NewAlertService(cfg.Alerts.WebhookURL, cfg.Alerts.Secret, sigSvc, &http.Client{Timeout: 10 * time.Second}, log)

	walletCap, err := decimal.NewFromString(cfg.Sale.WalletCap)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("sale.wallet_cap: %w", err)
	}
	capped, ok := domain.ParseTokenSymbol(cfg.Sale.CappedToken)
	if !ok {
		a.Close()
		return nil, fmt.Errorf("sale.capped_token: unknown token %q", cfg.Sale.CappedToken)
	}

	// Business services
	ledger := service.NewSettlementLedger(storage.Purchases, storage.Tokens, storage.Referrals, storage.Attempts, storage.Transactor, clock, log)
	guard := service.NewPurchaseLimitGuard(storage.Purchases, storage.Attempts, capped, walletCap)
	a.Purchase = service.NewPurchaseService(service.PurchaseDeps{
		PurchaseRepo:      storage.Purchases,
		TokenRepo:         storage.Tokens,
		AttemptRepo:       storage.Attempts,
		Transactor:        storage.Transactor,
		Ledger:            ledger,
		Guard:             guard,
		Oracle:            oracle,
		Cache:             cache,
		Audit:             a.Audit,
		Alerts:            alerts,
		Clock:             clock,
		SettlementTimeout: cfg.Sale.SettlementTimeout,
	}, logger.Component(log, "purchase"))
	a.Claim = service.NewClaimService(storage.Purchases, storage.Tokens, oracle, a.Audit, alerts, clock, cfg.Sale.SettlementTimeout, logger.Component(log, "claim"))
	a.Referral = service.NewReferralService(storage.Referrals, a.Audit, clock, log)
	a.Auth = service.NewAuthService(challenges, a.Sessions, a.Audit, clock, cfg.Sale.ChallengeTTL, log)
	a.TokenAdmin = service.NewTokenAdminService(storage.Tokens, hashSvc, cfg.Admin.APIKeyHash, a.Audit, clock, log)
	a.Reconciler = service.NewReconciler(storage.Attempts, storage.Purchases, ledger, oracle, alerts, a.Audit, clock, service.ReconcilerConfig{
		Grace:     cfg.Reconciler.Grace,
		MaxAge:    cfg.Reconciler.MaxAge,
		BatchSize: cfg.Reconciler.BatchSize,
	}, logger.Component(log, "reconciler"))

	return a, nil
}

// dialOracle connects the settlement oracle with the decrypted signer key.
func dialOracle(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*evm.Oracle, func(), error) {
	if cfg.Chain.SignerKeyEnc == "" {
		return nil, nil, fmt.Errorf("chain.signer_key_enc is required")
	}
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key, service.SignerKeyLabel)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing encryption service: %w", err)
	}
	keyHex, err := encSvc.Decrypt(cfg.Chain.SignerKeyEnc)
	if err != nil {
		return nil, nil, fmt.Errorf("decrypting signer key: %w", err)
	}

	client, err := evm.Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return nil, nil, err
	}
	oracle, err := evm.New(client, evm.Config{
		ChainID:         cfg.Chain.ChainID,
		PresaleContract: cfg.Chain.PresaleContract,
		PrivateKeyHex:   keyHex,
		GasLimit:        cfg.Chain.GasLimit,
		RPCRate:         cfg.Chain.RPCRate,
		RPCBurst:        cfg.Chain.RPCBurst,
		ReceiptPoll:     cfg.Chain.ReceiptPoll,
	}, logger.Component(log, "oracle"))
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return oracle, client.Close, nil
}

// Router builds the HTTP API over the app's services.
func (a *App) Router() *gin.Engine {
	return httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        a.Auth,
		PurchaseSvc:    a.Purchase,
		ClaimSvc:       a.Claim,
		ReferralSvc:    a.Referral,
		TokenAdminSvc:  a.TokenAdmin,
		TokenSvc:       a.Sessions,
		RateLimiter:    a.RateLimiter,
		HealthCheckers: a.Health,
		AuditSvc:       a.Audit,
		Logger:         a.Log,
	})
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// SeedTokens upserts the token configurations listed in the config file.
func SeedTokens(ctx context.Context, admin ports.TokenAdminService, seeds []config.TokenConfig) error {
	for _, seed := range seeds {
		cfg, err := TokenFromConfig(seed)
		if err != nil {
			return err
		}
		if err := admin.Upsert(ctx, cfg); err != nil {
			return fmt.Errorf("seeding token %s: %w", seed.Symbol, err)
		}
	}
	return nil
}

// TokenFromConfig converts a configured token seed into a TokenConfig.
func TokenFromConfig(seed config.TokenConfig) (*domain.TokenConfig, error) {
	symbol, ok := domain.ParseTokenSymbol(seed.Symbol)
	if !ok {
		return nil, fmt.Errorf("token %q: unknown symbol", seed.Symbol)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(seed.UnitPrice))
	if err != nil {
		return nil, fmt.Errorf("token %s: unit_price: %w", symbol, err)
	}
	supply, err := decimal.NewFromString(strings.TrimSpace(seed.TotalSupply))
	if err != nil {
		return nil, fmt.Errorf("token %s: total_supply: %w", symbol, err)
	}
	cfg := &domain.TokenConfig{
		Symbol:            symbol,
		ContractAddress:   seed.ContractAddress,
		UnitPrice:         price,
		TotalSupply:       supply,
		VestingPeriodDays: seed.VestingPeriodDays,
		Decimals:          seed.Decimals,
	}
	if seed.MaxPerWallet != nil && strings.TrimSpace(*seed.MaxPerWallet) != "" {
		m, err := decimal.NewFromString(strings.TrimSpace(*seed.MaxPerWallet))
		if err != nil {
			return nil, fmt.Errorf("token %s: max_per_wallet: %w", symbol, err)
		}
		cfg.MaxPerWallet = &m
	}
	return cfg, nil
}
