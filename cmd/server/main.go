package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Eric21111/expense-tracker-sub001/internal/config"
	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	httpserver "github.com/Eric21111/expense-tracker-sub001/internal/http"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

func main() {
	_ = godotenv.Load(".env")

	database.Connect()
	database.DB.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Budget{},
		&models.Transaction{},
		&models.Notification{},
		&models.Badge{},
		&models.VerificationCode{},
		&models.PendingRegistration{},
	)

	cfg := config.Load()
	r := httpserver.NewServer(cfg)
	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
