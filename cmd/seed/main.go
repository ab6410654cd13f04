package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"filmoteca/internal/config"
	"filmoteca/internal/db"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
)

const (
	demoEmail    = "demo@filmoteca.local"
	demoPassword = "demo-password"
)

var sampleMovies = []model.Movie{
	{Title: "Dune", Director: "Denis Villeneuve", Year: 2021, Rating: 5, IsFavorite: true},
	{Title: "El laberinto del fauno", Director: "Guillermo del Toro", Year: 2006, Rating: 4},
	{Title: "Blade Runner 2049", Director: "Denis Villeneuve", Year: 2017, Rating: 4},
	{Title: "Relatos salvajes", Director: "Damián Szifron", Year: 2014},
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.Info("starting seed script")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQL.DSN)
	if err != nil {
		logger.Fatalf("connect database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Movie{}); err != nil {
		logger.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	movieRepo := repository.NewMovieRepository(gormDB)

	user, err := userRepo.FindByEmail(ctx, demoEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Fatalf("look up demo user: %v", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), cfg.Bcrypt.Cost)
		if err != nil {
			logger.Fatalf("hash demo password: %v", err)
		}

		user = &model.User{Email: demoEmail, PasswordHash: string(hash)}
		if err := userRepo.Create(ctx, user); err != nil {
			logger.Fatalf("create demo user: %v", err)
		}
		logger.Infof("created demo user %s", demoEmail)
	} else {
		logger.Infof("demo user %s already present", demoEmail)
	}

	existing, err := movieRepo.ListByOwner(ctx, user.ID)
	if err != nil {
		logger.Fatalf("list demo movies: %v", err)
	}
	if len(existing) > 0 {
		logger.Infof("demo catalog already seeded (%d movies), nothing to do", len(existing))
		return
	}

	for _, m := range sampleMovies {
		movie := m
		movie.OwnerID = user.ID
		if err := movieRepo.Create(ctx, &movie); err != nil {
			logger.Fatalf("create movie %q: %v", movie.Title, err)
		}
	}

	logger.Infof("seed completed: %d movies for %s", len(sampleMovies), demoEmail)
}
