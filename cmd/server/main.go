package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"feira_back_end/internal/cache"
	"feira_back_end/internal/cart"
	"feira_back_end/internal/config"
	"feira_back_end/internal/database"
	"feira_back_end/internal/events"
	"feira_back_end/internal/handlers/farmer"
	"feira_back_end/internal/handlers/product"
	"feira_back_end/internal/handlers/user"
	"feira_back_end/internal/repository"
	"feira_back_end/internal/routes"
	"feira_back_end/internal/services"
	"feira_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	cartSweepInterval = 10 * time.Minute
	cartMaxIdle       = 30 * time.Minute
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET não definido")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clients := database.ConnectDatabases(cfg)
	defer clients.Close()

	profiles := repository.NewProfileRepository(clients.Scylla)
	products := repository.NewProductRepository(clients.Scylla)
	orders := repository.NewOrderRepository(clients.Scylla)

	store := cache.NewStore(clients.Redis)
	catalog := services.NewCatalog(products, cache.NewProductCache(clients.Redis))

	mirror := cart.NewMirror(clients.Redis, cfg.SessionTTL)
	carts := cart.NewRegistry(mirror)
	go carts.RunJanitor(ctx, cartSweepInterval, cartMaxIdle)

	var publisher events.OrderPublisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		p, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			log.Println("⚠️ RabbitMQ indisponível, eventos de pedido desativados:", err)
		} else {
			defer p.Close()
			publisher = p
			log.Println("✅ Conectado ao RabbitMQ")
		}
	}

	mailer := utils.NewMailer(cfg)

	productHandler := &product.Handler{
		Products: products,
		Catalog:  catalog,
		Names:    profiles,
	}
	userHandler := &user.Handler{
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
		Profiles:   profiles,
		Catalog:    catalog,
		Orders:     orders,
		Carts:      carts,
		Feed:       mirror,
		Tokens:     store,
		Events:     publisher,
		Mailer:     mailer,
		Receipts:   utils.ReceiptPDF,
		Pix:        user.PixConfig{Key: cfg.PixKey, Merchant: cfg.PixMerchant, City: cfg.PixCity},
	}
	farmerHandler := &farmer.Handler{
		Orders:   orders,
		Profiles: profiles,
		Events:   publisher,
		Mailer:   mailer,
	}

	// interfaces só recebem os clientes que de fato conectaram
	if clients.Elastic != nil {
		productHandler.Search = services.NewSearch(clients.Elastic)
	}
	if clients.MinIO != nil {
		storage := services.NewStorage(clients.MinIO, cfg.MinioBucket, cfg.MinioEndpoint, cfg.MinioUseSSL)
		productHandler.Images = storage
		userHandler.Images = storage
	}

	r := gin.Default()
	routes.RegisterRoutes(r, routes.Dependencies{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Store:       store,
		Users:       userHandler,
		Products:    productHandler,
		Farmers:     farmerHandler,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("🚀 Servidor Feira rodando na porta", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Servidor parou: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown forçado: %v", err)
	}
}
