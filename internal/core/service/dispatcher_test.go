package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/domain/command"
	"weatherbot/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type MockCommand struct {
	mock.Mock
	name string
}

func (m *MockCommand) Respond(ctx context.Context, interaction *domain.Interaction) (string, error) {
	args := m.Called(ctx, interaction)
	return args.String(0), args.Error(1)
}

func (m *MockCommand) GetCommand() string {
	return m.name
}

func (m *MockCommand) Describe() domain.CommandDescriptor {
	return domain.CommandDescriptor{Name: m.name}
}

type panickingCommand struct{}

func (p *panickingCommand) Respond(_ context.Context, _ *domain.Interaction) (string, error) {
	panic("boom")
}

func (p *panickingCommand) GetCommand() string { return "panic" }

func (p *panickingCommand) Describe() domain.CommandDescriptor {
	return domain.CommandDescriptor{Name: "panic"}
}

type blockingCommand struct {
	release chan struct{}
}

func (b *blockingCommand) Respond(ctx context.Context, _ *domain.Interaction) (string, error) {
	select {
	case <-b.release:
		return "released", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *blockingCommand) GetCommand() string { return "block" }

func (b *blockingCommand) Describe() domain.CommandDescriptor {
	return domain.CommandDescriptor{Name: "block"}
}

type recordingReplier struct {
	mu      sync.Mutex
	replies []string
	err     error
}

func (r *recordingReplier) Reply(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.replies = append(r.replies, text)
	return r.err
}

func (r *recordingReplier) Replies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.replies...)
}

func newTestDispatcher(t *testing.T, timeout time.Duration, commands ...port.Command) *Dispatcher {
	t.Helper()

	registry := &command.Registry{}
	registry.Register(command.NewHello("hello"))
	for _, c := range commands {
		registry.Register(c)
	}
	registry.Freeze()

	d, err := NewDispatcher(registry, timeout, nil)
	require.NoError(t, err)

	return d
}

func TestDispatcher_DispatchHello(t *testing.T) {
	interactions := []*domain.Interaction{
		{Command: "hello"},
		{ID: "1", Platform: domain.Discord, Command: "hello", Argument: "ignored", Username: "alice"},
		{ID: "2", Platform: domain.Telegram, Command: "hello", ChannelID: "100"},
	}

	for _, interaction := range interactions {
		d := newTestDispatcher(t, time.Second)
		r := &recordingReplier{}

		err := d.Dispatch(t.Context(), interaction, r)

		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, r.Replies())
	}
}

func TestDispatcher_DispatchUnknownCommand(t *testing.T) {
	mc := &MockCommand{name: "known"}
	d := newTestDispatcher(t, time.Second, mc)
	r := &recordingReplier{}

	var err error
	require.NotPanics(t, func() {
		err = d.Dispatch(t.Context(), &domain.Interaction{Command: "unknown"}, r)
	})

	require.ErrorIs(t, err, domain.ErrUnknownCommand)
	assert.LessOrEqual(t, len(r.Replies()), 1)
	assert.Equal(t, []string{unknownCommandText}, r.Replies())
	mc.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything)
}

func TestDispatcher_DispatchHandlerResults(t *testing.T) {
	tests := []struct {
		name       string
		mockSetup  func(m *MockCommand)
		wantReply  string
		replierErr error
		wantErr    error
	}{
		{
			name: "handler success",
			mockSetup: func(m *MockCommand) {
				m.On("Respond", mock.Anything, mock.AnythingOfType("*domain.Interaction")).Return("done", nil)
			},
			wantReply: "done",
		},
		{
			name: "handler error is mapped to one text",
			mockSetup: func(m *MockCommand) {
				m.On("Respond", mock.Anything, mock.Anything).Return("", errors.New("fail"))
			},
			wantReply: handlerFailedText,
		},
		{
			name: "delivery failure is reported",
			mockSetup: func(m *MockCommand) {
				m.On("Respond", mock.Anything, mock.Anything).Return("done", nil)
			},
			wantReply:  "done",
			replierErr: errors.New("interaction expired"),
			wantErr:    domain.ErrResponseDeliveryFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mc := &MockCommand{name: "cmd"}
			tc.mockSetup(mc)

			d := newTestDispatcher(t, time.Second, mc)
			r := &recordingReplier{err: tc.replierErr}

			err := d.Dispatch(t.Context(), &domain.Interaction{ID: "1", Command: "cmd"}, r)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, []string{tc.wantReply}, r.Replies())
			mc.AssertNumberOfCalls(t, "Respond", 1)
		})
	}
}

func TestDispatcher_DispatchRecoversPanic(t *testing.T) {
	d := newTestDispatcher(t, time.Second, &panickingCommand{})
	r := &recordingReplier{}

	var err error
	require.NotPanics(t, func() {
		err = d.Dispatch(t.Context(), &domain.Interaction{Command: "panic"}, r)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{handlerFailedText}, r.Replies())
}

func TestDispatcher_DispatchHandlerTimeout(t *testing.T) {
	d := newTestDispatcher(t, 20*time.Millisecond, &blockingCommand{release: make(chan struct{})})
	r := &recordingReplier{}

	err := d.Dispatch(t.Context(), &domain.Interaction{Command: "block"}, r)

	require.NoError(t, err)
	assert.Equal(t, []string{handlerFailedText}, r.Replies())
}

func TestDispatcher_DispatchConcurrently(t *testing.T) {
	blocker := &blockingCommand{release: make(chan struct{})}
	d := newTestDispatcher(t, 5*time.Second, blocker)

	blocked := &recordingReplier{}
	done := make(chan error, 1)
	go func() {
		done <- d.Dispatch(t.Context(), &domain.Interaction{Command: "block"}, blocked)
	}()

	other := &recordingReplier{}
	require.NoError(t, d.Dispatch(t.Context(), &domain.Interaction{Command: "hello"}, other))
	assert.Equal(t, []string{"hello"}, other.Replies())
	assert.Empty(t, blocked.Replies())

	close(blocker.release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"released"}, blocked.Replies())
}

func TestDispatcher_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	registry := &command.Registry{}
	registry.Register(command.NewHello("hello"))

	d, err := NewDispatcher(registry, time.Second, mp)
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(t.Context(), &domain.Interaction{Command: "hello", Platform: domain.Discord},
		&recordingReplier{}))
	require.Error(t, d.Dispatch(t.Context(), &domain.Interaction{Command: "nope", Platform: domain.Discord},
		&recordingReplier{}))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	statuses := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "bot.interactions" {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)

			for _, dp := range sum.DataPoints {
				status, _ := dp.Attributes.Value(attribute.Key("status"))
				statuses[status.AsString()] += dp.Value
			}
		}
	}

	assert.Equal(t, map[string]int64{statusSuccess: 1, statusUnknownCommand: 1}, statuses)
}

func TestOnceReplier(t *testing.T) {
	r := &recordingReplier{}
	once := &onceReplier{next: r}

	require.NoError(t, once.Reply(t.Context(), "first"))
	require.ErrorIs(t, once.Reply(t.Context(), "second"), domain.ErrAlreadyResponded)

	assert.Equal(t, []string{"first"}, r.Replies())
}

func TestOnceReplier_NoChannel(t *testing.T) {
	once := &onceReplier{}

	require.Error(t, once.Reply(t.Context(), "text"))
	require.ErrorIs(t, once.Reply(t.Context(), "text"), domain.ErrAlreadyResponded)
}
