package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shresthgour/indiamun-backend/internal/enrollment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("enrollment.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Enroll(ctx context.Context, email, productID string) error {
	record := &domain.Record{
		ID:        s.genID.Generate(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}

	inserted, err := s.repo.Insert(ctx, s.db, record)
	if err != nil {
		return err
	}
	if !inserted {
		s.log.Debug("already enrolled",
			zap.String("email", record.Email),
			zap.String("product_id", productID),
		)
		return nil
	}

	s.log.Info("enrolled",
		zap.String("email", record.Email),
		zap.String("product_id", productID),
	)
	return nil
}

func (s *Service) IsEnrolled(ctx context.Context, email, productID string) (bool, error) {
	return s.repo.Exists(ctx, s.db, strings.ToLower(strings.TrimSpace(email)), productID)
}

func (s *Service) Enrollments(ctx context.Context, email string) ([]domain.Record, error) {
	return s.repo.ListByEmail(ctx, s.db, strings.ToLower(strings.TrimSpace(email)))
}
