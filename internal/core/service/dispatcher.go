package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/port"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	unknownCommandText = "Sorry, I don't know that command."
	handlerFailedText  = "Sorry, something went wrong while handling that command."
)

const (
	statusSuccess        = "success"
	statusHandlerError   = "handler_error"
	statusUnknownCommand = "unknown_command"
	statusDeliveryFailed = "delivery_failed"
)

// Dispatcher routes an interaction to its registered command and delivers exactly
// one response for it.
type Dispatcher struct {
	registry     port.CommandRegistry
	timeout      time.Duration
	interactions metric.Int64Counter
	duration     metric.Float64Histogram
}

func NewDispatcher(registry port.CommandRegistry, timeout time.Duration, mp metric.MeterProvider) (*Dispatcher, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(instrumentationName)

	interactions, err := meter.Int64Counter("bot.interactions",
		metric.WithDescription("Number of dispatched interactions"),
		metric.WithUnit("{interactions}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create interactions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("bot.interaction.duration",
		metric.WithDescription("Time from receiving an interaction to delivering its response"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Dispatcher{
		registry:     registry,
		timeout:      timeout,
		interactions: interactions,
		duration:     duration,
	}, nil
}

// Dispatch handles one interaction. Errors are logged here; the returned error only
// tells the caller how the interaction ended.
func (d *Dispatcher) Dispatch(ctx context.Context, interaction *domain.Interaction, replier port.Replier) error {
	requestID, err := uuid.NewV4()
	if err != nil {
		log.Warn().Err(err).Msg("failed to generate request id")
	}

	l := log.With().
		Str("requestId", requestID.String()).
		Str("interactionId", interaction.ID).
		Str("platform", string(interaction.Platform)).
		Str("command", interaction.Command).
		Logger()

	l.Debug().Str("argument", interaction.Argument).Str("username", interaction.Username).Msg("received interaction")

	start := time.Now()
	status, err := d.dispatch(ctx, &l, interaction, &onceReplier{next: replier})

	attrs := metric.WithAttributes(
		attribute.String("command", interaction.Command),
		attribute.String("platform", string(interaction.Platform)),
		attribute.String("status", status),
	)
	d.interactions.Add(ctx, 1, attrs)
	d.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

	return err
}

func (d *Dispatcher) dispatch(ctx context.Context, l *zerolog.Logger, interaction *domain.Interaction,
	reply port.Replier) (string, error) {
	cmd, err := d.registry.Get(interaction.Command)
	if err != nil {
		l.Error().Err(err).Strs("registered", d.registry.ListCommands()).
			Msg("no handler for command, registry and backend commands disagree")

		if err := reply.Reply(ctx, unknownCommandText); err != nil {
			l.Error().Err(err).Msg(domain.ErrResponseDeliveryFailed.Error())
		}

		return statusUnknownCommand, fmt.Errorf("%w: %s", domain.ErrUnknownCommand, interaction.Command)
	}

	status := statusSuccess

	text, err := d.invoke(ctx, cmd, interaction)
	if err != nil {
		l.Error().Err(err).Msg("command handler failed")
		text = handlerFailedText
		status = statusHandlerError
	}

	if err := reply.Reply(ctx, text); err != nil {
		l.Error().Err(err).Msg(domain.ErrResponseDeliveryFailed.Error())
		return statusDeliveryFailed, fmt.Errorf("%w: %w", domain.ErrResponseDeliveryFailed, err)
	}

	l.Info().Str("status", status).Msg("responded to interaction")

	return status, nil
}

func (d *Dispatcher) invoke(ctx context.Context, cmd port.Command, interaction *domain.Interaction) (text string,
	err error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command handler panicked: %v", r)
		}
	}()

	return cmd.Respond(ctx, interaction)
}

// onceReplier lets the first Reply through and rejects any later one.
type onceReplier struct {
	next port.Replier
	sent atomic.Bool
}

func (r *onceReplier) Reply(ctx context.Context, text string) error {
	if !r.sent.CompareAndSwap(false, true) {
		return domain.ErrAlreadyResponded
	}

	if r.next == nil {
		return errors.New("no response channel")
	}

	return r.next.Reply(ctx, text)
}
