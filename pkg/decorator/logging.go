package decorator

import (
	"context"
	"time"

	"github.com/carlosduarte/devices-api/pkg/logger"
)

type commandLoggingDecorator[C Command, R any] struct {
	base   CommandHandler[C, R]
	action string
	logger logger.Logger
}

func (d commandLoggingDecorator[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	start := time.Now()

	log := d.logger.WithContext(ctx).With().Str("action", d.action).Logger()
	log.Debug().Msg("executing command")

	result, err := d.base.Handle(ctx, cmd)

	elapsed := time.Since(start)
	if err != nil {
		log.Warn().Err(err).Dur("duration", elapsed).Msg("command failed")

		return result, err
	}

	log.Debug().Dur("duration", elapsed).Msg("command succeeded")

	return result, nil
}

type queryLoggingDecorator[Q Query, R Result] struct {
	base   QueryHandler[Q, R]
	action string
	logger logger.Logger
}

func (d queryLoggingDecorator[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	start := time.Now()

	log := d.logger.WithContext(ctx).With().Str("action", d.action).Logger()
	log.Debug().Msg("executing query")

	result, err := d.base.Execute(ctx, query)

	elapsed := time.Since(start)
	if err != nil {
		log.Warn().Err(err).Dur("duration", elapsed).Msg("query failed")

		return result, err
	}

	log.Debug().Dur("duration", elapsed).Msg("query succeeded")

	return result, nil
}
