package main

import (
	"github.com/humanbelnik/kinofav/core/internal/app"
	"github.com/humanbelnik/kinofav/core/internal/config"
)

// @title Kinofav API
// @version 1.0
// @description Movie catalog browsing with synchronized favorites
// @BasePath /api/v1
func main() {
	app.Go(config.Load())
}
