package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/approval-api/configs"
	"github.com/maheshrc27/approval-api/internal/api/handlers"
	"github.com/maheshrc27/approval-api/internal/api/middleware"
	job "github.com/maheshrc27/approval-api/internal/jobs"
	"github.com/maheshrc27/approval-api/internal/queue"
	"github.com/maheshrc27/approval-api/internal/repository"
	"github.com/maheshrc27/approval-api/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)
	clientRepo := repository.NewClientRepository(db)
	postRepo := repository.NewPostRepository(db)
	imageRepo := repository.NewPostImageRepository(db)
	changeRequestRepo := repository.NewChangeRequestRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)
	r2Service := service.NewR2Service(*cfg)
	fetcher := service.NewPostFetcher(clientRepo, postRepo, imageRepo, changeRequestRepo)
	reviewService := service.NewReviewService(transactor, fetcher, postRepo, changeRequestRepo)
	postService := service.NewPostService(transactor, clientRepo, postRepo, imageRepo, changeRequestRepo, r2Service)
	clientService := service.NewClientService(clientRepo)
	analyticsService := service.NewAnalyticsService(clientRepo, postRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	// share-link review page
	review := handlers.NewReviewHandler(reviewService)
	app.Get("/client/:link", review.GetBoard)
	app.Post("/client/:link/groups/approve", review.ApproveGroup)
	app.Post("/client/:link/groups/change-request", review.RequestChange)
	app.Post("/client/:link/posts/:id/approve", review.ApprovePost)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/remove", user.RemoveAccount)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	clients := handlers.NewClientHandler(clientService)
	api.Get("/clients", clients.ListClients)
	api.Post("/clients", clients.CreateClient)
	api.Get("/clients/:id", clients.GetClient)
	api.Put("/clients/:id", clients.UpdateClient)
	api.Delete("/clients/:id", clients.RemoveClient)
	api.Post("/clients/:id/group", clients.SetGroupMembers)

	post := handlers.NewPostHandler(postService, client)
	api.Post("/posts/create", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/:id/caption", post.UpdateCaption)
	api.Post("/posts/remove", post.RemovePost)

	analytics := handlers.NewAnalyticsHandler(analyticsService)
	api.Get("/analytics/weekly", analytics.WeeklyQuota)

	// cron jobs
	publishJob := job.NewPublishJob(postRepo)

	c := cron.New()
	if err := c.AddFunc(cfg.PublishSweep, publishJob.Run); err != nil {
		log.Fatalf("Invalid publish sweep schedule %q: %v", cfg.PublishSweep, err)
	}
	c.Start()
	defer c.Stop()

	//queue
	queueW := queue.NewQueue(postRepo)

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})

	go func() {
		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishDue, queueW.HandlePublishDueTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ListenAddr)

	gracefulShutdown(app, server)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}
	server.Shutdown()

	log.Println("Server shutdown complete.")
}
