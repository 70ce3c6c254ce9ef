package model

import "time"

type UserData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthData struct {
	AuthToken string `json:"authToken"`
	Username  string `json:"username"`
}

// GameData is the stored form of a game. The position is not stored; it is
// rebuilt by replaying Moves from the opening.
type GameData struct {
	GameID        string    `json:"gameID"`
	GameName      string    `json:"gameName"`
	WhiteUsername string    `json:"whiteUsername,omitempty"`
	BlackUsername string    `json:"blackUsername,omitempty"`
	Moves         []Move    `json:"moves"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PlayerColor returns the color username plays in this game.
func (d GameData) PlayerColor(username string) (Color, bool) {
	switch {
	case username == "":
		return "", false
	case d.WhiteUsername == username:
		return White, true
	case d.BlackUsername == username:
		return Black, true
	}
	return "", false
}

// Seat returns the username seated at color c, "" when free.
func (d GameData) Seat(c Color) string {
	if c == White {
		return d.WhiteUsername
	}
	return d.BlackUsername
}

func (d *GameData) SetSeat(c Color, username string) {
	if c == White {
		d.WhiteUsername = username
	} else {
		d.BlackUsername = username
	}
}

// GameState is what clients see of a game.
type GameState struct {
	GameID        string   `json:"gameID"`
	GameName      string   `json:"gameName"`
	WhiteUsername string   `json:"whiteUsername,omitempty"`
	BlackUsername string   `json:"blackUsername,omitempty"`
	Board         []string `json:"board"` // rank 8 first, see Board.Ranks
	Turn          Color    `json:"turn"`
	History       []Move   `json:"history"`
	Status        Status   `json:"status"`
}

func NewGameState(data GameData, g *Game) (GameState, error) {
	status, err := g.Status()
	if err != nil {
		return GameState{}, err
	}
	return GameState{
		GameID:        data.GameID,
		GameName:      data.GameName,
		WhiteUsername: data.WhiteUsername,
		BlackUsername: data.BlackUsername,
		Board:         g.Board().Ranks(),
		Turn:          g.Turn(),
		History:       g.History(),
		Status:        status,
	}, nil
}

// BoardFromRanks rebuilds a board from the rows produced by Board.Ranks.
func BoardFromRanks(ranks []string) (*Board, error) {
	if len(ranks) != 8 {
		return nil, errRanks
	}
	b := NewBoard()
	for i, row := range ranks {
		if len(row) != 8 {
			return nil, errRanks
		}
		for j := 0; j < 8; j++ {
			if row[j] == '.' {
				continue
			}
			piece, ok := pieceFromLetter(row[j])
			if !ok {
				return nil, errRanks
			}
			b.Set(pos(j+1, 8-i), piece)
		}
	}
	return b, nil
}
