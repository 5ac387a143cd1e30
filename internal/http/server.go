package http

import (
	_ "embed"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Eric21111/expense-tracker-sub001/internal/ai"
	"github.com/Eric21111/expense-tracker-sub001/internal/alerts"
	"github.com/Eric21111/expense-tracker-sub001/internal/config"
	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/mail"
)

//go:embed transaction.schema.json
var transactionSchema string

type Server struct {
	cfg       *config.Config
	validator *gojsonschema.Schema
	openai    *ai.Client
	mailer    *mail.Mailer
	alerts    *alerts.Generator
}

func NewServer(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors(cfg))
	r.Use(logging())

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(transactionSchema))
	if err != nil {
		panic(err)
	}

	mailer := mail.New(cfg)
	var sender alerts.Sender
	if mailer.Enabled() {
		sender = mailer
	}

	s := &Server{
		cfg:       cfg,
		validator: schema,
		openai:    ai.NewClient(cfg),
		mailer:    mailer,
		alerts:    alerts.NewGenerator(database.DB, sender),
	}

	// Auth
	r.POST("/users/register", s.register)
	r.POST("/users/verify-email", s.verifyEmail)
	r.POST("/users/login", s.login)
	r.POST("/users/google", s.googleLogin)
	r.POST("/users/forgot-password", s.forgotPassword)
	r.POST("/users/reset-password", s.resetPassword)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(AuthMiddleware(cfg))
	{
		authorized.POST("/users/change-password", s.changePassword)

		authorized.GET("/accounts", s.listAccounts)
		authorized.POST("/accounts", s.createAccount)
		authorized.POST("/accounts/bulk", s.bulkCreateAccounts)
		authorized.PUT("/accounts/:id", s.updateAccount)
		authorized.DELETE("/accounts/:id", s.deleteAccount)

		authorized.GET("/budgets", s.listBudgets)
		authorized.POST("/budgets", s.createBudget)
		authorized.PUT("/budgets/:id", s.updateBudget)
		authorized.DELETE("/budgets/:id", s.deleteBudget)
		authorized.PUT("/budgets/archive-group/:groupId", s.archiveGroup)
		authorized.POST("/budgets/reset-monthly", s.resetMonthly)

		authorized.GET("/transactions", s.listTransactions)
		authorized.GET("/transactions/summary", s.transactionSummary)
		authorized.POST("/transactions", s.createTransaction)
		authorized.PUT("/transactions/:id", s.updateTransaction)
		authorized.DELETE("/transactions/:id", s.deleteTransaction)

		authorized.GET("/notifications", s.listNotifications)
		authorized.POST("/notifications", s.createNotification)
		authorized.PUT("/notifications/:id/read", s.markNotificationRead)
		authorized.PUT("/notifications/:id/dismiss", s.dismissNotification)

		authorized.GET("/badges", s.listBadges)
		authorized.POST("/badges/progress", s.refreshBadgeProgress)

		authorized.GET("/insights", s.getInsights)
		authorized.POST("/insights/ai", s.aiInsights)
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	return r
}

func cors(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.AllowOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, x-user-email")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// fail logs the raw error and answers with a generic message. Raw database
// errors never reach the client.
func fail(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"success": false, "message": msg})
}
