package handler

import (
	"errors"
	"testing"
	"time"
	"weatherbot/internal/core/domain"
	"weatherbot/internal/core/domain/command"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse,
	_ ...discordgo.RequestOption) error {
	args := m.Called(interaction, resp)
	return args.Error(0)
}

func (m *MockSession) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit,
	_ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(interaction, newresp)
	msg, _ := args.Get(0).(*discordgo.Message)
	return msg, args.Error(1)
}

func (m *MockSession) ApplicationCommandBulkOverwrite(appID string, guildID string,
	commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	args := m.Called(appID, guildID, commands)
	created, _ := args.Get(0).([]*discordgo.ApplicationCommand)
	return created, args.Error(1)
}

func makeInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "interaction-1",
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "channel-1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "u1", Username: "alice"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: options,
		},
	}}
}

func TestToInteraction(t *testing.T) {
	tests := []struct {
		name string
		in   *discordgo.InteractionCreate
		want *domain.Interaction
	}{
		{
			name: "hello without options",
			in:   makeInteraction("hello"),
			want: &domain.Interaction{
				ID:        "interaction-1",
				Platform:  domain.Discord,
				Command:   "hello",
				ChannelID: "channel-1",
				Username:  "alice",
			},
		},
		{
			name: "forecast with place",
			in: makeInteraction("forecast", &discordgo.ApplicationCommandInteractionDataOption{
				Name:  "place",
				Type:  discordgo.ApplicationCommandOptionString,
				Value: "Paris",
			}),
			want: &domain.Interaction{
				ID:        "interaction-1",
				Platform:  domain.Discord,
				Command:   "forecast",
				Argument:  "Paris",
				ChannelID: "channel-1",
				Username:  "alice",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, toInteraction(tc.in))
		})
	}
}

func TestToInteraction_DirectMessage(t *testing.T) {
	in := makeInteraction("hello")
	in.Member = nil
	in.User = &discordgo.User{Username: "bob"}

	assert.Equal(t, "bob", toInteraction(in).Username)
}

func TestDiscord_InteractionCreate(t *testing.T) {
	in := makeInteraction("hello")

	ms := new(MockSession)
	ms.On("InteractionRespond", in.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}).Return(nil).Once()

	md := newMockDispatcher()
	md.On("Dispatch", mock.Anything, mock.MatchedBy(func(i *domain.Interaction) bool {
		return i.Command == "hello" && i.Platform == domain.Discord
	}), mock.Anything).Return(nil).Once()

	NewDiscord(md, &command.Registry{}, "").interactionCreate(t.Context(), ms, in)

	ms.AssertExpectations(t)
	md.AssertExpectations(t)
}

func TestDiscord_InteractionCreateDeferFails(t *testing.T) {
	in := makeInteraction("hello")

	ms := new(MockSession)
	ms.On("InteractionRespond", mock.Anything, mock.Anything).Return(errors.New("unknown interaction")).Once()

	md := newMockDispatcher()

	NewDiscord(md, &command.Registry{}, "").interactionCreate(t.Context(), ms, in)

	ms.AssertExpectations(t)
	assert.Empty(t, md.Calls)
}

func TestDiscord_InteractionCreateIgnoresOtherTypes(t *testing.T) {
	in := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:   "1",
		Type: discordgo.InteractionMessageComponent,
	}}

	ms := new(MockSession)
	md := newMockDispatcher()

	NewDiscord(md, &command.Registry{}, "").interactionCreate(t.Context(), ms, in)

	assert.Empty(t, ms.Calls)
	assert.Empty(t, md.Calls)
}

func TestDiscord_Ready(t *testing.T) {
	registry := &command.Registry{}
	registry.Register(command.NewHello("hello"))

	ms := new(MockSession)
	ms.On("ApplicationCommandBulkOverwrite", "app-id", "guild-id", mock.MatchedBy(
		func(c []*discordgo.ApplicationCommand) bool {
			return len(c) == 1 && c[0].Name == "hello" && c[0].Description == "Say hello"
		})).Return([]*discordgo.ApplicationCommand{{Name: "hello"}}, nil).Once()

	d := NewDiscord(newMockDispatcher(), registry, "guild-id")
	d.ready(t.Context(), ms, &discordgo.Ready{User: &discordgo.User{ID: "app-id", Username: "weather"}})

	ms.AssertExpectations(t)
	select {
	case err := <-d.fatal:
		t.Fatalf("unexpected fatal error: %v", err)
	default:
	}
}

func TestDiscord_ReadyRegistrationFails(t *testing.T) {
	registry := &command.Registry{}
	registry.Register(command.NewHello("hello"))

	ms := new(MockSession)
	ms.On("ApplicationCommandBulkOverwrite", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("401 unauthorized")).Once()

	d := NewDiscord(newMockDispatcher(), registry, "")
	d.ready(t.Context(), ms, &discordgo.Ready{User: &discordgo.User{ID: "app-id"}})

	select {
	case err := <-d.fatal:
		require.ErrorIs(t, err, domain.ErrRegistrationFailed)
	case <-time.After(time.Second):
		t.Fatal("registration failure was not reported")
	}
}

func TestDiscord_ReadyWithoutUser(t *testing.T) {
	d := NewDiscord(newMockDispatcher(), &command.Registry{}, "")
	d.ready(t.Context(), new(MockSession), &discordgo.Ready{})

	select {
	case err := <-d.fatal:
		require.Error(t, err)
	default:
		t.Fatal("expected fatal error")
	}
}
