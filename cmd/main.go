package main

import (
	"github.com/gin-gonic/gin"

	"github.com/anooppassi66/lms-development/internal/app"
	"github.com/anooppassi66/lms-development/internal/config"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	cfg := config.MustLoad()
	app.Run(cfg)
}
