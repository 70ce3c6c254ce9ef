package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/benbeisheim/chess-server/internal/model"
)

// Facade is the server API the REPL drives.
type Facade interface {
	Register(user model.UserData) (model.AuthData, error)
	Login(username, password string) (model.AuthData, error)
	Logout(authToken string) error
	CreateGame(authToken, gameName string) (string, error)
	ListGames(authToken string) ([]model.GameData, error)
	JoinGame(authToken, gameID string, color model.Color) (model.GameState, error)
	GetGame(authToken, gameID string) (model.GameState, error)
	ValidMoves(authToken, gameID string, from model.Position) ([]model.Move, error)
	MakeMove(authToken, gameID string, move model.Move) (model.GameState, error)
	WatchGame(authToken, gameID string, onState func(model.GameState)) (func(), error)
}

type clientState int

const (
	stateLoggedOut clientState = iota
	stateLoggedIn
	stateInGame
)

var prompts = map[clientState]string{
	stateLoggedOut: "[LOGGED OUT] >>> ",
	stateLoggedIn:  "[LOGGED IN] >>> ",
	stateInGame:    "[IN GAME] >>> ",
}

const (
	loggedOutHelp = `Commands:
  register <USERNAME> <EMAIL> <PASSWORD> - create an account and log in
  login <USERNAME> <PASSWORD> - log in as an existing user
  quit - exit the program
  help - show available commands`

	loggedInHelp = `Commands:
  create <NAME> - create a game
  list - list all games
  join <ID> <WHITE|BLACK> - join a game as a player
  observe <ID> - watch a game
  logout - log out
  quit - exit the program
  help - show available commands`

	inGameHelp = `Commands:
  redraw - draw the board again
  move <FROM> <TO> [PIECE] - make a move, e.g. "move e7 e8 queen"
  moves <SQUARE> - highlight the legal moves of a piece
  leave - leave the game
  help - show available commands`
)

type activeGame struct {
	id    string
	name  string
	color model.Color // "" when observing
	state model.GameState
	stop  func()
}

// Repl is the line-oriented chess client. It moves between the logged out,
// logged in and in-game states as commands succeed.
type Repl struct {
	facade   Facade
	renderer *BoardRenderer

	mu  sync.Mutex // guards out and game.state; pushed states print from another goroutine
	out io.Writer

	state clientState
	auth  model.AuthData
	games []model.GameData
	game  *activeGame
}

func NewRepl(facade Facade, renderer *BoardRenderer, out io.Writer) *Repl {
	return &Repl{
		facade:   facade,
		renderer: renderer,
		out:      out,
	}
}

func (r *Repl) printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

func (r *Repl) println(s string) {
	r.printf("%s\n", s)
}

func (r *Repl) prompt() {
	r.printf("\n%s", prompts[r.state])
}

// Run reads commands from in until quit or end of input.
func (r *Repl) Run(in io.Reader) error {
	r.println("Welcome to Chess! Log in or register to play.")
	r.println(r.help())

	scanner := bufio.NewScanner(in)
	for {
		r.prompt()
		if !scanner.Scan() {
			break
		}
		if quit := r.Eval(scanner.Text()); quit {
			break
		}
	}
	r.leaveGame()
	r.println("\nGoodbye!")
	return scanner.Err()
}

func (r *Repl) help() string {
	switch r.state {
	case stateLoggedIn:
		return loggedInHelp
	case stateInGame:
		return inGameHelp
	}
	return loggedOutHelp
}

// Eval runs one command line and reports whether the user asked to quit.
func (r *Repl) Eval(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, params := strings.ToLower(fields[0]), fields[1:]

	if cmd == "help" {
		r.println(r.help())
		return false
	}

	switch r.state {
	case stateLoggedOut:
		return r.evalLoggedOut(cmd, params)
	case stateLoggedIn:
		return r.evalLoggedIn(cmd, params, line)
	default:
		r.evalInGame(cmd, params)
		return false
	}
}

func (r *Repl) unknown(cmd string) {
	r.printf("Unknown command %q.\n%s\n", cmd, r.help())
}

func (r *Repl) evalLoggedOut(cmd string, params []string) bool {
	switch cmd {
	case "register":
		if len(params) != 3 {
			r.println("Usage: register <USERNAME> <EMAIL> <PASSWORD>")
			return false
		}
		auth, err := r.facade.Register(model.UserData{Username: params[0], Email: params[1], Password: params[2]})
		if err != nil {
			r.printf("Register failed: %v\n", err)
			return false
		}
		r.loggedIn(auth)
		r.printf("Registered as %s.\n", auth.Username)
	case "login":
		if len(params) != 2 {
			r.println("Usage: login <USERNAME> <PASSWORD>")
			return false
		}
		auth, err := r.facade.Login(params[0], params[1])
		if err != nil {
			r.printf("Login failed: %v\n", err)
			return false
		}
		r.loggedIn(auth)
		r.printf("Logged in as %s.\n", auth.Username)
	case "quit":
		return true
	default:
		r.unknown(cmd)
	}
	return false
}

func (r *Repl) loggedIn(auth model.AuthData) {
	r.auth = auth
	r.state = stateLoggedIn
	if games, err := r.facade.ListGames(auth.AuthToken); err == nil {
		r.games = games
	}
}

func (r *Repl) evalLoggedIn(cmd string, params []string, line string) bool {
	switch cmd {
	case "create":
		// the name is the rest of the line, spaces included
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), strings.Fields(line)[0]))
		if name == "" {
			r.println("Usage: create <NAME>")
			return false
		}
		if _, err := r.facade.CreateGame(r.auth.AuthToken, name); err != nil {
			r.printf("Could not create game: %v\n", err)
			return false
		}
		r.refreshGames()
		r.printf("Created game %s.\n", name)
	case "list":
		if err := r.refreshGames(); err != nil {
			r.printf("Could not list games: %v\n", err)
			return false
		}
		r.printGames()
	case "join":
		if len(params) != 2 {
			r.println("Usage: join <ID> <WHITE|BLACK>")
			return false
		}
		color, ok := model.ParseColor(params[1])
		if !ok {
			r.printf("Invalid team color %q, expected WHITE or BLACK.\n", params[1])
			return false
		}
		r.join(params[0], color)
	case "observe":
		if len(params) != 1 {
			r.println("Usage: observe <ID>")
			return false
		}
		r.join(params[0], "")
	case "logout":
		r.logout()
	case "quit":
		r.logout()
		return true
	default:
		r.unknown(cmd)
	}
	return false
}

func (r *Repl) refreshGames() error {
	games, err := r.facade.ListGames(r.auth.AuthToken)
	if err != nil {
		return err
	}
	r.games = games
	return nil
}

func seatName(username string) string {
	if username == "" {
		return "(open)"
	}
	return username
}

func (r *Repl) printGames() {
	if len(r.games) == 0 {
		r.println("No games yet. Create one with: create <NAME>")
		return
	}
	var sb strings.Builder
	sb.WriteString("ID | Name | White | Black\n")
	for i, g := range r.games {
		fmt.Fprintf(&sb, "%d | %s | %s | %s\n", i+1, g.GameName, seatName(g.WhiteUsername), seatName(g.BlackUsername))
	}
	r.printf("%s", sb.String())
}

// gameAt resolves a 1-based index from the last listing.
func (r *Repl) gameAt(index string) (model.GameData, bool) {
	n, err := strconv.Atoi(index)
	if err != nil {
		r.println("Game ID must be a number. Type list to see the games.")
		return model.GameData{}, false
	}
	if n < 1 || n > len(r.games) {
		r.printf("No game with ID %d. Type list to see the games.\n", n)
		return model.GameData{}, false
	}
	return r.games[n-1], true
}

func (r *Repl) join(index string, color model.Color) {
	data, ok := r.gameAt(index)
	if !ok {
		return
	}
	state, err := r.facade.JoinGame(r.auth.AuthToken, data.GameID, color)
	if err != nil {
		r.printf("Could not join %s: %v\n", data.GameName, err)
		return
	}

	g := &activeGame{id: data.GameID, name: data.GameName, color: color, state: state}
	r.game = g
	r.state = stateInGame
	if color == "" {
		r.printf("You are now observing %s.\n", data.GameName)
	} else {
		r.printf("Joined %s as %s.\n", data.GameName, color)
	}
	r.draw(nil)

	stop, err := r.facade.WatchGame(r.auth.AuthToken, data.GameID, func(s model.GameState) { r.pushed(g, s) })
	if err != nil {
		r.printf("Live updates unavailable (%v); use redraw to refresh.\n", err)
		return
	}
	g.stop = stop
}

// pushed handles a state sent by the server while the user sits at the prompt.
func (r *Repl) pushed(g *activeGame, s model.GameState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(s.History) <= len(g.state.History) {
		g.state = s
		return
	}
	g.state = s
	fmt.Fprintf(r.out, "\n%s", r.renderLocked(g, nil))
	fmt.Fprintf(r.out, "\n%s", prompts[stateInGame])
}

func (r *Repl) perspective(g *activeGame) model.Color {
	if g.color == model.Black {
		return model.Black
	}
	return model.White
}

func (r *Repl) renderLocked(g *activeGame, highlights []model.Position) string {
	board, err := model.BoardFromRanks(g.state.Board)
	if err != nil {
		return fmt.Sprintf("Could not draw board: %v\n", err)
	}
	return r.renderer.Render(board, r.perspective(g), highlights...) + statusLine(g.state)
}

func (r *Repl) draw(highlights []model.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.out, r.renderLocked(r.game, highlights))
}

func statusLine(s model.GameState) string {
	switch s.Status {
	case model.StatusCheckmate:
		return fmt.Sprintf("Checkmate! %s wins.\n", s.Turn.Opponent())
	case model.StatusStalemate:
		return "Stalemate. The game is a draw.\n"
	case model.StatusCheck:
		return fmt.Sprintf("%s to move and in check.\n", s.Turn)
	}
	return fmt.Sprintf("%s to move.\n", s.Turn)
}

func (r *Repl) evalInGame(cmd string, params []string) {
	switch cmd {
	case "redraw":
		state, err := r.facade.GetGame(r.auth.AuthToken, r.game.id)
		if err != nil {
			r.printf("Could not load game: %v\n", err)
			return
		}
		r.setState(state)
		r.draw(nil)
	case "move":
		r.move(params)
	case "moves":
		r.showMoves(params)
	case "leave":
		name := r.game.name
		r.leaveGame()
		r.state = stateLoggedIn
		r.printf("Left %s.\n", name)
	default:
		r.unknown(cmd)
	}
}

func (r *Repl) setState(state model.GameState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.game.state = state
}

func (r *Repl) move(params []string) {
	if len(params) < 2 || len(params) > 3 {
		r.println("Usage: move <FROM> <TO> [PIECE]")
		return
	}
	if r.game.color == "" {
		r.println("Observers cannot move.")
		return
	}
	from, err := model.ParsePosition(params[0])
	if err != nil {
		r.printf("Bad square: %v\n", err)
		return
	}
	to, err := model.ParsePosition(params[1])
	if err != nil {
		r.printf("Bad square: %v\n", err)
		return
	}
	move := model.Move{From: from, To: to}
	if len(params) == 3 {
		promotion, ok := model.ParsePieceType(params[2])
		if !ok {
			r.printf("Unknown piece %q.\n", params[2])
			return
		}
		move.Promotion = promotion
	}

	state, err := r.facade.MakeMove(r.auth.AuthToken, r.game.id, move)
	if err != nil {
		r.printf("Move rejected: %v\n", err)
		return
	}
	r.setState(state)
	r.draw(nil)
}

func (r *Repl) showMoves(params []string) {
	if len(params) != 1 {
		r.println("Usage: moves <SQUARE>")
		return
	}
	from, err := model.ParsePosition(params[0])
	if err != nil {
		r.printf("Bad square: %v\n", err)
		return
	}
	moves, err := r.facade.ValidMoves(r.auth.AuthToken, r.game.id, from)
	if err != nil {
		r.printf("Could not load moves: %v\n", err)
		return
	}
	if len(moves) == 0 {
		r.printf("No legal moves from %s.\n", from)
		return
	}
	targets := make([]model.Position, 0, len(moves))
	for _, m := range moves {
		targets = append(targets, m.To)
	}
	r.draw(targets)
}

func (r *Repl) leaveGame() {
	if r.game == nil {
		return
	}
	if r.game.stop != nil {
		r.game.stop()
	}
	r.game = nil
}

func (r *Repl) logout() {
	if err := r.facade.Logout(r.auth.AuthToken); err != nil {
		r.printf("Logout failed: %v\n", err)
		return
	}
	r.auth = model.AuthData{}
	r.games = nil
	r.state = stateLoggedOut
	r.println("Logged out. Thanks for playing!")
}
