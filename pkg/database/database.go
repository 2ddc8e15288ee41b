package database

import (
	"fmt"
	"log"
	"time"

	"math_arena_backend/internal/config"
	"math_arena_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Contest{},
		&model.Problem{},
		&model.Submission{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedContests(db)

	return db, nil
}

// seedContests inserts a demo contest so a fresh install has something to
// show on the dashboard.
func seedContests(db *gorm.DB) {
	var count int64
	db.Model(&model.Contest{}).Count(&count)
	if count != 0 {
		return
	}

	contest := &model.Contest{
		Name:            "Welcome Round",
		Description:     "A short warm-up round to get familiar with the arena.",
		StartTime:       time.Now().Add(24 * time.Hour),
		DurationMinutes: 60,
	}
	if err := db.Create(contest).Error; err != nil {
		return
	}

	problems := []model.Problem{
		{ContestID: contest.ID, Title: "Sum of Squares", Statement: "Compute $1^2 + 2^2 + \\dots + 10^2$.", Answer: "385", Points: 100},
		{ContestID: contest.ID, Title: "Last Digit", Statement: "What is the last digit of $7^{2024}$?", Answer: "1", Points: 200},
		{ContestID: contest.ID, Title: "Simple Logarithm", Statement: "Evaluate $\\log_2 256$.", Answer: "8", Points: 100},
	}
	for _, p := range problems {
		db.Create(&p)
	}
}
