// README: Entry point; loads config, wires services, starts the HTTP server.
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

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"snabbdeal/internal/config"
	httptransport "snabbdeal/internal/http"
	"snabbdeal/internal/infra"
	"snabbdeal/internal/maps"
	"snabbdeal/internal/media"
	"snabbdeal/internal/modules/delivery"
	"snabbdeal/internal/modules/intent"
	"snabbdeal/internal/modules/partner"
	"snabbdeal/internal/modules/payment"
	"snabbdeal/internal/modules/pickup"
	"snabbdeal/internal/modules/pricing"
	"snabbdeal/internal/modules/sale"
	"snabbdeal/internal/modules/testimonial"
	"snabbdeal/internal/notify"
	"snabbdeal/internal/stripe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("db init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var sms *notify.Dispatcher
	if cfg.ClickSend.Username != "" {
		sender := notify.NewClickSendClient(resty.New(), cfg.ClickSend.Username, cfg.ClickSend.APIKey, cfg.ClickSend.From)
		sms = notify.NewDispatcher(sender, logger)
	} else {
		logger.Warn("clicksend not configured, sms disabled")
	}

	var uploader media.Uploader
	if cfg.Storage.Bucket != "" {
		uploader, err = media.NewS3Uploader(ctx, media.Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			logger.Fatal("object storage init", zap.Error(err))
		}
	} else {
		logger.Warn("object storage not configured, uploads disabled")
	}

	var geocoder intent.Geocoder
	if cfg.Maps.APIKey != "" {
		geocoder, err = maps.NewGeocodeService(cfg.Maps.APIKey)
		if err != nil {
			logger.Fatal("maps init", zap.Error(err))
		}
	}

	provider := stripe.NewClient(cfg.Stripe.APIKey)
	ledger := payment.NewPGLedger(dbPool)
	keys := payment.NewRedisKeyStore(redisClient)

	intentCheckout := payment.NewCheckout(
		pricing.NewPolicy(cfg.Pricing.IntentThresholdKm),
		ledger, provider, keys, cfg.Stripe.Currency, cfg.FrontendURL, logger)
	deliveryCheckout := payment.NewCheckout(
		pricing.NewPolicy(cfg.Pricing.DeliveryThresholdKm),
		ledger, provider, keys, cfg.Stripe.Currency, cfg.FrontendURL, logger)

	partnerStore := partner.NewPGStore(dbPool)
	partnerSvc := partner.NewService(partnerStore, uploader, logger)

	saleStore := sale.NewPGStore(dbPool)
	saleSvc := sale.NewService(saleStore)

	pickupStore := pickup.NewPGStore(dbPool)
	pickupSvc := pickup.NewService(pickupStore)

	intentStore := intent.NewPGStore(dbPool)
	intentConfirmer := payment.NewConfirmer(ledger, provider, intent.NewOrderAdapter(intentStore), logger)
	intentSvc := intent.NewService(intentStore, partnerSvc, intentCheckout, intentConfirmer, pickupSvc, geocoder, sms, logger)

	deliveryStore := delivery.NewPGStore(dbPool)
	deliveryConfirmer := payment.NewConfirmer(ledger, provider, delivery.NewOrderAdapter(deliveryStore), logger)
	deliverySvc := delivery.NewService(deliveryStore, saleSvc, deliveryCheckout, deliveryConfirmer, uploader, sms, cfg.FrontendURL, logger)

	testimonialStore := testimonial.NewPGStore(dbPool)
	testimonialSvc := testimonial.NewService(testimonialStore, deliverySvc)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Intents:      intentSvc,
		Deliveries:   deliverySvc,
		Partners:     partnerSvc,
		Sales:        saleSvc,
		Pickups:      pickupSvc,
		Testimonials: testimonialSvc,
		Log:          logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}
