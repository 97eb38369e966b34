package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"estateportal/internal/config"
	"estateportal/internal/database"
	"estateportal/internal/domain/auth"
	"estateportal/internal/domain/content"
	"estateportal/internal/domain/document"
	"estateportal/internal/domain/image"
	"estateportal/internal/domain/property"
	"estateportal/internal/middleware"
	jwtsvc "estateportal/internal/pkg/jwt"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatalf("failed to create upload directory %s: %v", cfg.UploadDir, err)
	}

	j := jwtsvc.NewIssuer(cfg.JWTSecret, cfg.JWTAccessTTL)

	userRepo := auth.NewUserRepository(db)
	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	propertyRepo := property.NewRepository(db)

	imageRepo := image.NewRepository(db)
	imageService := image.NewService(imageRepo, propertyRepo, cfg.UploadDir)
	imageHandler := image.NewHandler(imageService)

	documentRepo := document.NewRepository(db)
	documentService := document.NewService(documentRepo, propertyRepo, cfg.UploadDir)
	documentHandler := document.NewHandler(documentService)

	propertyService := property.NewService(
		propertyRepo,
		cfg.UploadDir,
		cfg.PublicBaseURL,
		cfg.PlaceholderURL,
		cfg.LockSkewTolerance,
		imageService,
		documentService,
	)
	propertyHandler := property.NewHandler(propertyService)

	contentRepo := content.NewRepository(db)
	contentHandler := content.NewHandler(contentRepo)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger(cfg.IsProduction()))
	r.Use(middleware.CORS())

	r.Static(image.StaticURLBase, cfg.UploadDir)

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuth(j))
	{
		auth.RegisterRoutes(api, authHandler)
		property.RegisterRoutes(api, propertyHandler)
		image.RegisterRoutes(api, imageHandler)
		document.RegisterRoutes(api, documentHandler)
		content.RegisterRoutes(api, contentHandler)

		protected := api.Group("/")
		protected.Use(middleware.RequireAuth(j), middleware.RequireRole(auth.RoleAdmin, auth.RoleEditor))
		{
			auth.RegisterProtectedRoutes(protected, authHandler)
			property.RegisterProtectedRoutes(protected, propertyHandler)
			image.RegisterProtectedRoutes(protected, imageHandler)
			document.RegisterProtectedRoutes(protected, documentHandler)
			content.RegisterProtectedRoutes(protected, contentHandler)
		}
	}

	log.Printf("server_start env=%s port=%s upload_dir=%s", cfg.AppEnv, cfg.Port, cfg.UploadDir)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
