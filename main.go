package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"biblio-backend/internal/catalog/books"
	"biblio-backend/internal/catalog/libraries"
	"biblio-backend/internal/catalog/users"
	"biblio-backend/internal/lending/borrows"
	"biblio-backend/internal/lending/copies"
	"biblio-backend/internal/lending/exports"
	"biblio-backend/internal/lending/reservations"
	"biblio-backend/internal/platform/auth"
	"biblio-backend/internal/platform/db"
)

func main() {
	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	// 動作モード取得
	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	secret := []byte(cfg.Auth.Secret)

	// ログインだけは認証なしで叩ける
	pub := r.Group("/api/v1")
	auth.RegisterRoutes(pub, auth.NewService(conn, secret))

	// /api/v1 （要JWT）
	api := r.Group("/api/v1")
	api.Use(auth.RequireAuth(secret))

	books.RegisterRoutes(api, books.NewService(conn))
	libraries.RegisterRoutes(api, libraries.NewService(conn))
	users.RegisterRoutes(api, users.NewService(conn))

	copySvc := copies.NewService(conn)
	reservationSvc := reservations.NewService(conn)
	borrowSvc := borrows.NewService(conn, copySvc, reservationSvc)

	copies.RegisterRoutes(api, copySvc)
	reservations.RegisterRoutes(api, reservationSvc)
	borrows.RegisterRoutes(api, borrowSvc)
	exports.RegisterRoutes(api, exports.NewService(conn))

	srv := &http.Server{
		Addr:    ":8443",
		Handler: r,
	}

	var certFile, keyFile string

	// TLS設定
	if mode == "dev" {
		//開発用
		certFile = fmt.Sprintf("config/tls/dev/%s", cfg.Certificate.Cert)
		keyFile = fmt.Sprintf("config/tls/dev/%s", cfg.Certificate.Key)
	} else {
		//本番用
		certFile = fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Cert)
		keyFile = fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Key)
	}

	go func() {
		log.Println("[INFO] listening on https://0.0.0.0:8443")
		if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
