package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/gelojavonitalla/idmc-gcfsm-sub004/pkg/receipt"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

// ocrEngine is the composition root's single extraction engine. The
// Tesseract handle and raster transform are injected once here.
var ocrEngine *receipt.Engine

func main() {
	// Auto-load ./.env if present before reading vars
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	ocrEngine = receipt.New(receipt.NewTesseract(), receipt.NewImagingRaster())

	// Support a lightweight migrate command: `./idmc_app migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()

	r := gin.Default()

	setupRoutes(r)

	r.Run(":8081")
}
