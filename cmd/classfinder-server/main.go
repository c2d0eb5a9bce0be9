package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"classfinder-backend/lib/browser"
	"classfinder-backend/lib/configutil"
	"classfinder-backend/lib/scrapers/akademik"
	"classfinder-backend/lib/serviceutil"
	"classfinder-backend/lib/telemetry"
	"classfinder-backend/lib/timezone"
	"classfinder-backend/services/classfinder"
	"classfinder-backend/services/classfinder/server"

	"github.com/gin-gonic/gin"
)

type Config struct {
	Port              int                 `json:"port"`
	PortalBaseUrl     string              `json:"portal_base_url"`
	BatchSize         int                 `json:"batch_size"`
	ScanBudgetSeconds int                 `json:"scan_budget_seconds"`
	Catalog           classfinder.Catalog `json:"catalog"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(*verbose)
	tel, err := telemetry.SetupFromEnv(ctx, "classfinder-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	catalog := cfg.Catalog
	if len(catalog.Courses) == 0 {
		catalog = classfinder.DefaultCatalog()
	}

	client := akademik.NewClient(akademik.ClientOptions{
		BaseURL: cfg.PortalBaseUrl,
	})
	scanner := classfinder.NewService(client, catalog, classfinder.Options{
		BatchSize:  cfg.BatchSize,
		ScanBudget: time.Duration(cfg.ScanBudgetSeconds) * time.Second,
	})
	acquirer := browser.NewAcquirer(browser.Options{
		BaseURL: cfg.PortalBaseUrl,
	})
	defer acquirer.Release()

	slog.Info(
		"scan space",
		"courses", len(catalog.Courses),
		"sections", len(catalog.Sections),
		"academic_year", timezone.AcademicYear(timezone.Now()),
	)

	if !*verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	server.NewService(scanner, acquirer).Register(router)

	port := cfg.Port
	if port == 0 {
		port = 8000
	}
	go serviceutil.StartHttpServer(port, router)
	<-ctx.Done()
}
