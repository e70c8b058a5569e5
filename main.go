package main

import (
	"flag"
	"log"
	"strings"

	"spendtrack/config"
	"spendtrack/database"
	"spendtrack/middleware"
	"spendtrack/router"
)

// @title SpendTrack API
// @version 1.0
// @description Personal finance tracking API with user accounts, categories and expense records
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "path to an external config file (optional)")
	flag.StringVar(&configFile, "c", "", "path to an external config file (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 3000 or :3000")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showVersion, "v", false, "print version (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("SpendTrack v1.0.0")
		return
	}

	// embedded defaults, optionally overridden by an external file and env
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("port overridden from command line: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer database.Close()

	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg, database.GetDB())

	log.Printf("==========================================")
	log.Printf("  SpendTrack API is up")
	log.Printf("==========================================")
	log.Printf("  Swagger: http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API:     http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}
