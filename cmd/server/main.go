package main

import (
	"context"
	"fmt"
	"francoggm/coffeekiosk-mpesa/internal/app/callback"
	"francoggm/coffeekiosk-mpesa/internal/app/mpesa"
	"francoggm/coffeekiosk-mpesa/internal/app/payment"
	"francoggm/coffeekiosk-mpesa/internal/app/server"
	"francoggm/coffeekiosk-mpesa/internal/app/token"
	"francoggm/coffeekiosk-mpesa/internal/app/workers"
	"francoggm/coffeekiosk-mpesa/internal/app/workers/processors"
	"francoggm/coffeekiosk-mpesa/internal/config"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.NewConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if missing := cfg.Missing(); len(missing) > 0 {
		log.Println("WARNING: Missing environment variables:", strings.Join(missing, ", "))
	} else {
		log.Println("All required environment variables are configured")
	}

	tokenStore, closeStore := newTokenStore(ctx, cfg)
	defer closeStore()

	// Gateway
	client := mpesa.NewClient(cfg.Mpesa.BaseURL, cfg.Mpesa.ConsumerKey, cfg.Mpesa.ConsumerSecret, cfg.Mpesa.Timeout)
	builder := mpesa.NewBuilder(mpesa.Credentials{ShortCode: cfg.Mpesa.ShortCode, PassKey: cfg.Mpesa.PassKey}, nil)

	// Services
	tokenService := token.NewService(client, tokenStore)
	paymentService := payment.NewPaymentService(tokenService, client, builder, payment.Merchant{
		CallbackURL:      cfg.Mpesa.CallbackURL,
		AccountReference: cfg.Mpesa.AccountReference,
		TransactionDesc:  cfg.Mpesa.TransactionDesc,
	})
	receiver := callback.NewReceiver()

	// Callback workers
	callbackEventsCh := make(chan any, cfg.CallbackBufferSize)
	callbackOrchestrator := workers.NewOrchestrator(cfg.CallbackCount, callbackEventsCh, processors.NewCallbackProcessor(receiver))

	workersCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	callbackOrchestrator.StartWorkers(workersCtx)

	srv := server.NewServer(cfg, paymentService, receiver, callbackEventsCh)

	log.Printf("Coffee Kiosk M-PESA API running on port %s\n", cfg.Server.Port)
	log.Printf("Health check: http://localhost:%s/health\n", cfg.Server.Port)

	if err := srv.Run(ctx); err != nil {
		// Handlers may still be sending callbacks, so the channel stays open.
		log.Println("Error running server:", err)
		cancelWorkers()
	} else {
		// Every handler has returned; drain callbacks already acknowledged.
		close(callbackEventsCh)
	}

	callbackOrchestrator.Wait()
}

func newTokenStore(ctx context.Context, cfg *config.Config) (token.Store, func()) {
	if cfg.Cache.Store != "redis" {
		return token.NewMemoryStore(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Cache.Host, cfg.Cache.Port),
		Password:     cfg.Cache.Password,
		DB:           0,
		MinIdleConns: 2,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		panic(err)
	}

	log.Printf("Sharing access token through redis at %s:%s\n", cfg.Cache.Host, cfg.Cache.Port)
	return token.NewRedisStore(rdb), func() { rdb.Close() }
}
