package main

import (
	"log"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cookbook/auth"
	"cookbook/catalog"
	"cookbook/common"
	"cookbook/database"
	"cookbook/media"
	"cookbook/recipes"
	"cookbook/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	db := common.ConnectDb()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	router := gin.Default()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
	})

	router.Use(sessions.Sessions("cookbook-session", store))
	router.Use(auth.SessionActor())

	router.Static("/media", media.Root())

	authModule := auth.NewAuthModule(db)
	authModule.RegisterRoutes(router)

	usersModule := users.NewUsersModule(db)
	usersModule.RegisterRoutes(router)

	catalogModule := catalog.NewCatalogModule(db)
	catalogModule.RegisterRoutes(router)

	recipesModule := recipes.NewRecipesModule(db)
	recipesModule.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
