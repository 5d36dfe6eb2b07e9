package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paswerklabs/paswerk/internal/config"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	repo     ratesdomain.Repository
	cache    *redis.Client
	cacheTTL time.Duration
	defaults ratesdomain.RateTable
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	Repo  ratesdomain.Repository
	Cache *redis.Client `optional:"true"`
}

func NewService(p ServiceParam) ratesdomain.Service {
	ttl := p.Cfg.Redis.RateTableTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		db:  p.DB,
		log: p.Log.Named("rates.service"),

		repo:     p.Repo,
		cache:    p.Cache,
		cacheTTL: ttl,
		defaults: defaultsFromConfig(p.Cfg),
	}
}

func (s *Service) Resolve(ctx context.Context, locationID int64, passType string) (ratesdomain.RateTable, error) {
	pt, err := ratesdomain.ParsePassType(passType)
	if err != nil {
		return ratesdomain.RateTable{}, err
	}

	key := cacheKey(locationID, pt)
	if table, ok := s.cacheGet(ctx, key); ok {
		return table, nil
	}

	tables, err := s.repo.FindActive(ctx, s.db, locationID, pt)
	if err != nil {
		return ratesdomain.RateTable{}, err
	}
	if len(tables) > 1 {
		return ratesdomain.RateTable{}, fmt.Errorf("%w: location %d pass type %s has %d active tables",
			ratesdomain.ErrDuplicateRateTable, locationID, pt, len(tables))
	}

	if len(tables) == 0 {
		known, err := s.repo.LocationExists(ctx, s.db, locationID)
		if err != nil {
			return ratesdomain.RateTable{}, err
		}
		if !known {
			s.log.Warn("rate lookup for unknown location, using defaults",
				zap.Int64("location_id", locationID), zap.String("pass_type", string(pt)))
		} else {
			s.log.Info("no rate table for location, using defaults",
				zap.Int64("location_id", locationID), zap.String("pass_type", string(pt)))
		}
		table := s.defaults
		table.LocationID = locationID
		table.PassType = pt
		s.cacheSet(ctx, key, table)
		return table, nil
	}

	table := tables[0]
	s.cacheSet(ctx, key, table)
	return table, nil
}

func (s *Service) cacheGet(ctx context.Context, key string) (ratesdomain.RateTable, bool) {
	if s.cache == nil {
		return ratesdomain.RateTable{}, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return ratesdomain.RateTable{}, false
	}
	var table ratesdomain.RateTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return ratesdomain.RateTable{}, false
	}
	return table, true
}

func (s *Service) cacheSet(ctx context.Context, key string, table ratesdomain.RateTable) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(table)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.log.Warn("rate table cache write failed", zap.Error(err))
	}
}

func cacheKey(locationID int64, pt ratesdomain.PassType) string {
	return fmt.Sprintf("rates:%d:%s", locationID, pt)
}

func defaultsFromConfig(cfg config.Config) ratesdomain.RateTable {
	d := cfg.Billing.DefaultRates
	if d.Evening > 0 && d.Night > 0 && d.Weekend > 0 && d.Holiday > 0 && d.NewYearsEve > 0 {
		return ratesdomain.RateTable{
			Base:        d.Base,
			Evening:     d.Evening,
			Night:       d.Night,
			Weekend:     d.Weekend,
			Holiday:     d.Holiday,
			NewYearsEve: d.NewYearsEve,
		}
	}
	return ratesdomain.TableFromBase(d.Base)
}
