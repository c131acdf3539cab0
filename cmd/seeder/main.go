// Command seeder loads candidate reference data (flights, hotels, car
// rentals, in-flight activities, shop items) from a JSON file into MySQL.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/jaiwee/cathay-chuangx5/internal/adapters/observability"
	"github.com/jaiwee/cathay-chuangx5/internal/domain"
	"github.com/jaiwee/cathay-chuangx5/internal/shared"
	mysqlrepo "github.com/jaiwee/cathay-chuangx5/internal/storage/mysql"
)

type seedFile struct {
	Flights    []domain.FlightCandidate    `json:"flights"`
	Hotels     []domain.HotelCandidate     `json:"hotels"`
	CarRentals []domain.CarRentalCandidate `json:"car_rentals"`
	Activities []domain.ActivityCandidate  `json:"activities"`
	ShopItems  []domain.ShopItem           `json:"shop_items"`
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Str("file", cfg.SeedFile).Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal().Err(err).Msg("parse seed file failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	run := func(kind string, fn func(context.Context) error) {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			if err := fn(ctx); err != nil {
				log.Warn().Str("kind", kind).Err(err).Msg("upsert failed")
				return
			}
			log.Debug().Str("kind", kind).Msg("upsert ok")
		}()
	}

	for _, f := range seed.Flights {
		f := f
		run("flight", func(ctx context.Context) error { return repo.UpsertFlight(ctx, f) })
	}
	for _, h := range seed.Hotels {
		h := h
		run("hotel", func(ctx context.Context) error { return repo.UpsertHotel(ctx, h) })
	}
	for _, c := range seed.CarRentals {
		c := c
		run("car_rental", func(ctx context.Context) error { return repo.UpsertCarRental(ctx, c) })
	}
	for _, a := range seed.Activities {
		a := a
		run("activity", func(ctx context.Context) error { return repo.UpsertActivity(ctx, a) })
	}
	for _, s := range seed.ShopItems {
		s := s
		run("shop_item", func(ctx context.Context) error { return repo.UpsertShopItem(ctx, s) })
	}

	wg.Wait()
	log.Info().
		Int("flights", len(seed.Flights)).
		Int("hotels", len(seed.Hotels)).
		Int("car_rentals", len(seed.CarRentals)).
		Int("activities", len(seed.Activities)).
		Int("shop_items", len(seed.ShopItems)).
		Msg("seeding completed")
}
