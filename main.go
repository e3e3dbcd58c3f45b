package main

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"fund-scout/config"
	"fund-scout/models"
	"fund-scout/providers/edgar"
	"fund-scout/rules"
	"fund-scout/services"
	"fund-scout/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	candidatesDiscoveredCounter prometheus.Counter
	investorsAddedCounter       prometheus.Counter
)

func init() {
	candidatesDiscoveredCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fund_candidates_discovered_total",
			Help: "Total number of fund candidates written by the discovery stage.",
		},
	)
	investorsAddedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "investors_added_total",
			Help: "Total number of investors merged into the directory.",
		},
	)
	prometheus.MustRegister(candidatesDiscoveredCounter, investorsAddedCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	ruleSet, err := rules.Load(cfg.RulesFile)
	if err != nil {
		logging.Fatal("Regel-Tabellen nicht ladbar", zap.Error(err))
	}

	// Optionales Filing-Archiv
	var archive *gorm.DB
	if cfg.ArchiveEnabled() {
		archive, err = storage.OpenArchive(cfg, logging)
		if err != nil {
			logging.Fatal("Filing-Archiv nicht erreichbar", zap.Error(err))
		}
	}

	// Setup Services
	edgarClient := edgar.NewClient(cfg, logging)
	discovery := services.NewDiscoveryService(cfg, logging, edgarClient, archive)
	verify := services.NewVerifyService(cfg, logging)
	merge := services.NewMergeService(cfg, logging)
	enrich := services.NewEnrichService(cfg, logging, ruleSet)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupInvestorRoutes(router, cfg, logging)
	setupPipelineRoutes(router, logging, discovery, verify, merge, enrich)

	// Setup Cron: nächtlicher Discovery+Verification-Lauf über die letzte Woche
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled discovery job...")
		end := time.Now().UTC()
		start := end.AddDate(0, 0, -7)
		count, err := discovery.Run(context.Background(), start.Format("2006-01-02"), end.Format("2006-01-02"), cfg.EdgarMaxResults)
		if err != nil {
			logging.Error("Cron discovery failed", zap.Error(err))
			return
		}
		candidatesDiscoveredCounter.Add(float64(count))

		if _, err := verify.Run(context.Background()); err != nil {
			logging.Error("Cron verification failed", zap.Error(err))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupInvestorRoutes(router *gin.Engine, cfg *config.Config, log *zap.Logger) {
	dirPath := filepath.Join(cfg.DataDir, cfg.DirectoryFile)
	rg := router.Group("/investors")

	rg.GET("/", func(c *gin.Context) {
		directory, err := storage.LoadDirectory(dirPath)
		if err != nil {
			log.Error("Directory nicht lesbar", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "directory error"})
			return
		}
		c.JSON(http.StatusOK, directory)
	})

	// Body-gesteuerter Endpunkt für gefilterte Abfragen
	rg.POST("/query", func(c *gin.Context) {
		type InvestorQuery struct {
			Type      string `json:"type"`
			Stage     string `json:"stage"`
			Geography string `json:"geography"`
			Active    *bool  `json:"active"`
			Origin    string `json:"origin"`
			Limit     int    `json:"limit"`
		}

		var req InvestorQuery
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		directory, err := storage.LoadDirectory(dirPath)
		if err != nil {
			log.Error("Directory nicht lesbar", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "directory error"})
			return
		}

		var filtered []models.Investor
		for _, inv := range directory {
			if req.Type != "" && inv.Type != req.Type {
				continue
			}
			if req.Stage != "" && !containsString(inv.Stages, req.Stage) {
				continue
			}
			if req.Geography != "" && !containsString(inv.Geography, req.Geography) {
				continue
			}
			if req.Active != nil && inv.Active != *req.Active {
				continue
			}
			if req.Origin != "" && inv.Origin != req.Origin {
				continue
			}
			filtered = append(filtered, inv)
			if req.Limit > 0 && len(filtered) >= req.Limit {
				break
			}
		}

		c.JSON(http.StatusOK, filtered)
	})
}

func setupPipelineRoutes(router *gin.Engine, log *zap.Logger,
	discovery *services.DiscoveryService, verify *services.VerifyService,
	merge *services.MergeService, enrich *services.EnrichService) {

	rg := router.Group("/pipeline")

	rg.POST("/discover", func(c *gin.Context) {
		var req struct {
			StartDate string `json:"startDate" binding:"required"`
			EndDate   string `json:"endDate" binding:"required"`
			Max       int    `json:"max"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "startDate und endDate erforderlich (YYYY-MM-DD)"})
			return
		}

		go func() {
			count, err := discovery.Run(context.Background(), req.StartDate, req.EndDate, req.Max)
			if err != nil {
				log.Error("Async discovery failed", zap.Error(err))
				return
			}
			candidatesDiscoveredCounter.Add(float64(count))
			log.Info("Async discovery completed", zap.Int("candidates", count))
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Discovery triggered."})
	})

	rg.POST("/verify", func(c *gin.Context) {
		go func() {
			if _, err := verify.Run(context.Background()); err != nil {
				log.Error("Async verification failed", zap.Error(err))
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Verification triggered."})
	})

	rg.POST("/merge", func(c *gin.Context) {
		go func() {
			report, err := merge.Run(context.Background())
			if err != nil {
				log.Error("Async merge failed", zap.Error(err))
				return
			}
			investorsAddedCounter.Add(float64(len(report.Added)))
			log.Info("Async merge completed", zap.String("run_id", report.RunID), zap.Int("added", len(report.Added)))
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Merge triggered."})
	})

	rg.POST("/enrich", func(c *gin.Context) {
		go func() {
			if _, err := enrich.Run(context.Background()); err != nil {
				log.Error("Async enrichment failed", zap.Error(err))
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Enrichment triggered."})
	})
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
