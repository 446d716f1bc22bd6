package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/refi-protocol/withdraw-api-service/internal/chain"
	"github.com/refi-protocol/withdraw-api-service/internal/config"
	"github.com/refi-protocol/withdraw-api-service/internal/db"
	"github.com/refi-protocol/withdraw-api-service/internal/queue"
)

// Service layer contains the business logic and is used to interact with
// the database, the program gateway and the settlement event queue.
type Services struct {
	DbClient  db.DBClient
	Chain     chain.ChainClient
	Publisher queue.Publisher
	cfg       *config.Config
}

func New(
	ctx context.Context, cfg *config.Config, chainClient chain.ChainClient, publisher queue.Publisher,
) (*Services, error) {
	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Ctx(ctx).Fatal().Err(err).Msg("error while creating db client")
		return nil, err
	}
	return &Services{
		DbClient:  dbClient,
		Chain:     chainClient,
		Publisher: publisher,
		cfg:       cfg,
	}, nil
}

// DoHealthCheck checks the health of the service by pinging the database
// and the program gateway.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	if err := s.DbClient.Ping(ctx); err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	if err := s.Chain.Ping(ctx); err != nil {
		return fmt.Errorf("gateway ping failed: %w", err)
	}
	return nil
}
