package domain

import (
	"sort"
	"strings"
)

type Game struct {
	ID   string
	Name string
}

type Stream struct {
	BroadcastID  string
	Title        string
	Game         *Game
	ViewerCount  int
	DropsEnabled bool
}

type Channel struct {
	ID          int64
	Login       string
	DisplayName string
	Stream      *Stream
}

func (c *Channel) Online() bool {
	return c != nil && c.Stream != nil
}

func (c *Channel) Name() string {
	if c == nil {
		return ""
	}
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Login
}

func (c *Channel) GameName() string {
	if c.Online() && c.Stream.Game != nil {
		return c.Stream.Game.Name
	}
	return "<Unknown>"
}

// CanWatch reports whether the channel is live with drops enabled for one of games.
func (c *Channel) CanWatch(games GameSet) bool {
	if !c.Online() {
		return false
	}
	if c.Stream.Game == nil || !c.Stream.DropsEnabled {
		return false
	}
	return games.Contains(*c.Stream.Game)
}

// Clone returns a deep copy safe to hand to another goroutine.
func (c *Channel) Clone() *Channel {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Stream != nil {
		stream := *c.Stream
		if c.Stream.Game != nil {
			game := *c.Stream.Game
			stream.Game = &game
		}
		clone.Stream = &stream
	}
	return &clone
}

// GameSet is keyed by game name.
type GameSet map[string]Game

func (s GameSet) Add(game Game) {
	s[strings.ToLower(game.Name)] = game
}

func (s GameSet) Contains(game Game) bool {
	_, ok := s[strings.ToLower(game.Name)]
	return ok
}

func (s GameSet) Sorted() []Game {
	games := make([]Game, 0, len(s))
	for _, game := range s {
		games = append(games, game)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].Name < games[j].Name
	})
	return games
}
