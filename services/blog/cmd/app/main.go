package main

import (
	"meow-site/pkg/config"
	"meow-site/services/blog/internal/app"

	_ "meow-site/services/blog/docs" // Swagger docs
)

// @title           Meow Site API
// @version         1.0
// @description     Blog posts, follows and moderation for Meow Site

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
