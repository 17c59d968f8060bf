package usecases

import "errors"

// Errors returned by the music player use cases.
var (
	// ErrEmptyReference is returned when a play request carries no media reference.
	ErrEmptyReference = errors.New("a media reference is required")

	// ErrMissingDestination is returned when an item would be queued without a voice channel.
	ErrMissingDestination = errors.New("a destination voice channel is required")

	// ErrNothingToSkip is returned when skip is requested while nothing is playing.
	ErrNothingToSkip = errors.New("nothing is currently playing")

	// ErrNotInGuild is returned when a command is issued outside of a guild.
	ErrNotInGuild = errors.New("commands must be used in a server")
)
