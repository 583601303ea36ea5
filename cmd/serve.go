package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kunmmi/whisper/internal/chat"
	"github.com/kunmmi/whisper/internal/config"
	"github.com/kunmmi/whisper/internal/database"
	"github.com/kunmmi/whisper/internal/http/handlers"
	"github.com/kunmmi/whisper/internal/http/middleware"
	"github.com/kunmmi/whisper/internal/store"
	"github.com/kunmmi/whisper/internal/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.DBDSN == "" || cfg.JWTSecret == "" {
		return fmt.Errorf("DB_DSN and JWT_SECRET must be set")
	}

	db, err := database.ConnectMySQL(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	st := store.New(db)
	svc := chat.New(st)
	hub := ws.NewHub()
	router := ws.NewRouter(hub, svc)

	r := gin.Default()

	authH := &handlers.AuthHandler{Store: st, JWTSecret: cfg.JWTSecret}
	r.POST("/api/auth/register", authH.Register)
	r.POST("/api/auth/login", authH.Login)

	wsH := &handlers.WSHandler{
		Hub:                  hub,
		Router:               router,
		JWTSecret:            cfg.JWTSecret,
		WSInsecureSkipVerify: cfg.WSInsecureSkipVerify,
	}
	r.GET("/ws", wsH.Handle)

	r.Static("/uploads", cfg.UploadDir)

	authed := r.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	authed.GET("/auth/me", authH.Me)

	userH := &handlers.UserHandler{Store: st, Hub: hub}
	authed.GET("/users/search", userH.Search)
	authed.GET("/users/online-status", userH.OnlineStatuses)
	authed.GET("/users/online-status/:userId", userH.OnlineStatus)
	authed.PUT("/users/profile-picture", userH.UpdateProfilePicture)

	chatH := &handlers.ChatHandler{Svc: svc}
	authed.POST("/chats/private", chatH.CreatePrivate)
	authed.POST("/chats/group", chatH.CreateGroup)
	authed.GET("/chats", chatH.List)
	authed.POST("/chats/:chatId/add-user", chatH.AddUser)
	authed.POST("/chats/:chatId/remove-user", chatH.RemoveUser)
	authed.POST("/chats/:chatId/leave", chatH.Leave)
	authed.PUT("/chats/:chatId/rename", chatH.Rename)
	authed.DELETE("/chats/:chatId", chatH.Delete)

	msgH := &handlers.MessageHandler{Svc: svc, Hub: hub}
	authed.GET("/messages/:chatId", msgH.List)
	authed.POST("/messages/:chatId", msgH.Send)
	authed.POST("/messages/:chatId/read", msgH.MarkRead)

	upH := &handlers.UploadHandler{Dir: cfg.UploadDir, MaxBytes: cfg.MaxUploadMB << 20}
	authed.POST("/upload/image", upH.Image)
	authed.POST("/upload/video", upH.Video)
	authed.POST("/upload/audio", upH.Audio)
	authed.POST("/upload/file", upH.File)

	log.Println("listening on", cfg.Addr())
	return r.Run(cfg.Addr())
}
