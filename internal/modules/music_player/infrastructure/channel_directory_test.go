package infrastructure

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

type stubGuildState struct {
	guild *discordgo.Guild
	err   error
}

func (s *stubGuildState) Guild(string) (*discordgo.Guild, error) {
	return s.guild, s.err
}

func testGuild() *discordgo.Guild {
	return &discordgo.Guild{
		ID: "1",
		Channels: []*discordgo.Channel{
			{ID: "10", Name: "general", Type: discordgo.ChannelTypeGuildText},
			{ID: "20", Name: "General", Type: discordgo.ChannelTypeGuildVoice},
			{ID: "30", Name: "Music Room", Type: discordgo.ChannelTypeGuildVoice},
		},
		VoiceStates: []*discordgo.VoiceState{
			{UserID: "7", ChannelID: "30"},
			{UserID: "8", ChannelID: ""},
		},
	}
}

func TestChannelDirectory_UserVoiceChannel(t *testing.T) {
	dir := NewChannelDirectory(&stubGuildState{guild: testGuild()})

	destination, err := dir.UserVoiceChannel(1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if destination == nil || destination.ChannelID != 30 || destination.Name != "Music Room" {
		t.Errorf("expected Music Room (30), got %+v", destination)
	}

	for _, userID := range []uint64{8, 9} {
		destination, err := dir.UserVoiceChannel(1, snowflake.ID(userID))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if destination != nil {
			t.Errorf("expected nil for user %d, got %+v", userID, destination)
		}
	}
}

func TestChannelDirectory_VoiceChannelByName(t *testing.T) {
	dir := NewChannelDirectory(&stubGuildState{guild: testGuild()})

	tests := []struct {
		name   string
		lookup string
		wantID uint64
	}{
		{name: "exact match", lookup: "Music Room", wantID: 30},
		{name: "text channel is ignored", lookup: "general"},
		{name: "case sensitive", lookup: "music room"},
		{name: "unknown", lookup: "Lobby"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			destination, err := dir.VoiceChannelByName(1, tt.lookup)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantID == 0 {
				if destination != nil {
					t.Errorf("expected no match, got %+v", destination)
				}
				return
			}
			if destination == nil || uint64(destination.ChannelID) != tt.wantID {
				t.Errorf("expected channel %d, got %+v", tt.wantID, destination)
			}
		})
	}
}

func TestChannelDirectory_StateError(t *testing.T) {
	stateErr := errors.New("state cache not found")
	dir := NewChannelDirectory(&stubGuildState{err: stateErr})

	if _, err := dir.UserVoiceChannel(1, 7); !errors.Is(err, stateErr) {
		t.Errorf("expected state error, got %v", err)
	}
	if _, err := dir.VoiceChannelByName(1, "General"); !errors.Is(err, stateErr) {
		t.Errorf("expected state error, got %v", err)
	}
}
