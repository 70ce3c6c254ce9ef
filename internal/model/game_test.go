package model

import (
	"errors"
	"math/rand"
	"sort"
	"testing"
)

func mv(s string) Move {
	m := Move{From: MustParsePosition(s[0:2]), To: MustParsePosition(s[2:4])}
	if len(s) == 5 {
		m.Promotion = pieceTypeFromLetter(s[4])
	}
	return m
}

func mustFEN(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return g
}

func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, s := range moves {
		if err := g.MakeMove(mv(s)); err != nil {
			t.Fatalf("MakeMove(%s): %v", s, err)
		}
	}
}

func moveStrings(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func validFrom(t *testing.T, g *Game, square string) []string {
	t.Helper()
	moves, err := g.ValidMoves(MustParsePosition(square))
	if err != nil {
		t.Fatalf("ValidMoves(%s): %v", square, err)
	}
	return moveStrings(moves)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOpeningMoveCount(t *testing.T) {
	g := NewGame()
	moves, err := g.AllValidMoves()
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 20 {
		t.Errorf("expected 20 opening moves for White, got %d: %v", len(moves), moveStrings(moves))
	}

	for _, first := range []string{"e2e4", "g1f3", "a2a3", "h2h4"} {
		g := NewGame()
		play(t, g, first)
		moves, err := g.AllValidMoves()
		if err != nil {
			t.Fatal(err)
		}
		if len(moves) != 20 {
			t.Errorf("after %s expected 20 moves for Black, got %d", first, len(moves))
		}
	}
}

func TestValidMovesOfTheSideNotToMoveIsEmpty(t *testing.T) {
	g := NewGame()
	if got := validFrom(t, g, "e7"); len(got) != 0 {
		t.Errorf("black pawn should have no valid moves on White's turn, got %v", got)
	}
	if got := validFrom(t, g, "e4"); len(got) != 0 {
		t.Errorf("empty square should have no valid moves, got %v", got)
	}
}

func TestPieceMovement(t *testing.T) {
	for _, tc := range []struct {
		name   string
		fen    string
		square string
		want   []string
	}{
		{
			name:   "knight in the corner",
			fen:    "4k3/8/8/8/8/8/8/N3K3 w - - 0 1",
			square: "a1",
			want:   []string{"a1b3", "a1c2"},
		},
		{
			name:   "rook stops at friend and captures enemy",
			fen:    "4k3/8/8/p7/8/8/8/R2NK3 w - - 0 1",
			square: "a1",
			want:   []string{"a1a2", "a1a3", "a1a4", "a1a5", "a1b1", "a1c1"},
		},
		{
			name:   "bishop slides diagonally",
			fen:    "4k3/8/8/8/8/2p5/8/B3K3 w - - 0 1",
			square: "a1",
			want:   []string{"a1b2", "a1c3"},
		},
		{
			name:   "queen combines rook and bishop",
			fen:    "4k3/8/8/8/8/1P6/PP6/Q3K3 w - - 0 1",
			square: "a1",
			want:   []string{"a1b1", "a1c1", "a1d1"},
		},
		{
			name:   "king steps once",
			fen:    "4k3/8/8/8/8/8/8/K7 w - - 0 1",
			square: "a1",
			want:   []string{"a1a2", "a1b1", "a1b2"},
		},
		{
			name:   "pawn single and double push",
			fen:    "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
			square: "e2",
			want:   []string{"e2e3", "e2e4"},
		},
		{
			name:   "pawn double push blocked on the far square",
			fen:    "4k3/8/8/8/4n3/8/4P3/4K3 w - - 0 1",
			square: "e2",
			want:   []string{"e2e3"},
		},
		{
			name:   "pawn blocked entirely",
			fen:    "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1",
			square: "e2",
			want:   []string{},
		},
		{
			name:   "pawn captures diagonally only onto enemies",
			fen:    "4k3/8/8/8/8/3p1P2/4P3/4K3 w - - 0 1",
			square: "e2",
			want:   []string{"e2d3", "e2e3", "e2e4"},
		},
		{
			name:   "black pawn moves down the board",
			fen:    "4k3/3p4/4P3/8/8/8/8/4K3 b - - 0 1",
			square: "d7",
			want:   []string{"d7d5", "d7d6", "d7e6"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := mustFEN(t, tc.fen)
			got := validFrom(t, g, tc.square)
			sort.Strings(tc.want)
			if !equalStrings(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPinnedPieceCannotMove(t *testing.T) {
	g := mustFEN(t, "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
	if got := validFrom(t, g, "e2"); len(got) != 0 {
		t.Errorf("pinned bishop should have no moves, got %v", got)
	}
}

func TestKingCannotStepIntoCheck(t *testing.T) {
	g := mustFEN(t, "4k3/8/8/8/8/8/r7/4K3 w - - 0 1")
	want := []string{"e1d1", "e1f1"}
	if got := validFrom(t, g, "e1"); !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPromotion(t *testing.T) {
	g := mustFEN(t, "4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	got := validFrom(t, g, "b7")
	want := []string{"b7b8b", "b7b8n", "b7b8q", "b7b8r"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if err := g.MakeMove(mv("b7b8")); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("promotion without a piece should be illegal, got %v", err)
	}

	play(t, g, "b7b8q")
	piece, ok := g.Board().Get(MustParsePosition("b8"))
	if !ok || piece != (Piece{Type: Queen, Color: White}) {
		t.Errorf("expected a white queen on b8, got %v", piece)
	}
	if !g.Board().IsEmpty(MustParsePosition("b7")) {
		t.Error("b7 should be empty after promotion")
	}
	inCheck, err := g.IsInCheck(Black)
	if err != nil || !inCheck {
		t.Errorf("new queen should give check along the eighth rank, got %v %v", inCheck, err)
	}
}

func TestPromotionByCapture(t *testing.T) {
	g := mustFEN(t, "r3k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	got := validFrom(t, g, "b7")
	if len(got) != 8 {
		t.Errorf("expected 4 push and 4 capture promotions, got %v", got)
	}
	play(t, g, "b7a8n")
	piece, _ := g.Board().Get(MustParsePosition("a8"))
	if piece != (Piece{Type: Knight, Color: White}) {
		t.Errorf("expected a white knight on a8, got %v", piece)
	}
}

func TestEnPassant(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "a7a6", "e4e5", "d7d5")

	got := validFrom(t, g, "e5")
	want := []string{"e5d6", "e5e6"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	play(t, g, "e5d6")
	b := g.Board()
	if !b.IsEmpty(MustParsePosition("d5")) {
		t.Error("the captured pawn on d5 should be removed")
	}
	if piece, _ := b.Get(MustParsePosition("d6")); piece != (Piece{Type: Pawn, Color: White}) {
		t.Errorf("expected white pawn on d6, got %v", piece)
	}
}

func TestEnPassantOnlyImmediately(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "a7a6", "e4e5", "d7d5", "h2h3", "a6a5")
	if got := validFrom(t, g, "e5"); !equalStrings(got, []string{"e5e6"}) {
		t.Errorf("en passant must expire after one move, got %v", got)
	}
}

func TestEnPassantNotAfterSingleSteps(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "d7d6", "e4e5", "d6d5")
	if got := validFrom(t, g, "e5"); !equalStrings(got, []string{"e5e6"}) {
		t.Errorf("two single steps do not allow en passant, got %v", got)
	}
}

func TestCastling(t *testing.T) {
	g := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	got := validFrom(t, g, "e1")
	want := []string{"e1c1", "e1d1", "e1d2", "e1e2", "e1f1", "e1f2", "e1g1"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	play(t, g, "e1g1")
	b := g.Board()
	for square, want := range map[string]Piece{
		"g1": {Type: King, Color: White},
		"f1": {Type: Rook, Color: White},
	} {
		if piece, _ := b.Get(MustParsePosition(square)); piece != want {
			t.Errorf("%s: expected %v, got %v", square, want, piece)
		}
	}
	if !b.IsEmpty(MustParsePosition("h1")) || !b.IsEmpty(MustParsePosition("e1")) {
		t.Error("e1 and h1 should be empty after castling")
	}
	if g.Castling().Has(WhiteKingside) || g.Castling().Has(WhiteQueenside) {
		t.Error("white castling rights should be gone after the king moved")
	}

	play(t, g, "e8c8")
	b = g.Board()
	if piece, _ := b.Get(MustParsePosition("d8")); piece != (Piece{Type: Rook, Color: Black}) {
		t.Errorf("expected black rook on d8 after queenside castling, got %v", piece)
	}
}

func TestCastlingBlockedByAttackOrPieces(t *testing.T) {
	for _, tc := range []struct {
		name string
		fen  string
		want []string
	}{
		{
			name: "transit square attacked",
			fen:  "4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1",
			want: []string{"e1c1", "e1d1", "e1d2", "e1e2"},
		},
		{
			name: "king in check",
			fen:  "4r1k1/8/8/8/8/8/8/R3K2R w KQ - 0 1",
			want: []string{"e1d1", "e1d2", "e1f1", "e1f2"},
		},
		{
			name: "knight between king and rook",
			fen:  "4k3/8/8/8/8/8/8/RN2K2R w KQ - 0 1",
			want: []string{"e1d1", "e1d2", "e1e2", "e1f1", "e1f2", "e1g1"},
		},
		{
			name: "no rights",
			fen:  "4k3/8/8/8/8/8/8/R3K2R w - - 0 1",
			want: []string{"e1d1", "e1d2", "e1e2", "e1f1", "e1f2"},
		},
		{
			name: "b1 attacked does not stop queenside castling",
			fen:  "1r2k3/8/8/8/8/8/8/R3K3 w Q - 0 1",
			want: []string{"e1c1", "e1d1", "e1d2", "e1e2", "e1f1", "e1f2"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := mustFEN(t, tc.fen)
			if got := validFrom(t, g, "e1"); !equalStrings(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCastlingRightLostWhenRookMoves(t *testing.T) {
	g := mustFEN(t, "r3k2r/p7/8/8/8/8/7P/R3K2R w KQkq - 0 1")
	play(t, g, "h1g1", "a7a6", "g1h1", "a6a5")
	for _, s := range validFrom(t, g, "e1") {
		if s == "e1g1" {
			t.Fatal("kingside castling should be gone after the h1 rook moved")
		}
	}
	if !g.Castling().Has(WhiteQueenside) {
		t.Error("queenside right should survive")
	}
}

func TestMakeMoveRejections(t *testing.T) {
	for _, tc := range []struct {
		move string
		want error
	}{
		{"e3e4", ErrNoPieceAtSource},
		{"e7e5", ErrWrongTurn},
		{"e2e5", ErrIllegalMove},
		{"g1g3", ErrIllegalMove},
		{"e2e4q", ErrIllegalMove},
	} {
		t.Run(tc.move, func(t *testing.T) {
			g := NewGame()
			before := g.Board()
			err := g.MakeMove(mv(tc.move))
			if !errors.Is(err, tc.want) || !errors.Is(err, ErrInvalidMove) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !g.Board().Equal(before) {
				t.Error("board changed after a rejected move")
			}
			if g.Turn() != White {
				t.Error("turn changed after a rejected move")
			}
			if len(g.History()) != 0 {
				t.Error("history grew after a rejected move")
			}
		})
	}
}

func TestTurnAlternation(t *testing.T) {
	g := NewGame()
	moves := []string{"e2e4", "e7e5", "g1f3", "b8c6"}
	for i, s := range moves {
		before := g.Turn()
		if err := g.MakeMove(mv("a1a5")); err == nil {
			t.Fatal("expected a1a5 to be rejected")
		}
		if g.Turn() != before {
			t.Fatal("turn changed on a rejected move")
		}
		play(t, g, s)
		if g.Turn() != before.Opponent() {
			t.Fatalf("turn did not flip after %s", s)
		}
		if len(g.History()) != i+1 {
			t.Fatalf("expected %d history entries, got %d", i+1, len(g.History()))
		}
	}
	if got := moveStrings(g.History()); len(got) != 4 {
		t.Errorf("unexpected history %v", got)
	}
	if last, _ := g.LastMove(); last.String() != "b8c6" {
		t.Errorf("expected last move b8c6, got %s", last)
	}
}

func TestScholarsMate(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")

	mate, err := g.IsInCheckmate(Black)
	if err != nil {
		t.Fatal(err)
	}
	if !mate {
		t.Error("expected Black to be checkmated")
	}
	stale, err := g.IsInStalemate(Black)
	if err != nil {
		t.Fatal(err)
	}
	if stale {
		t.Error("checkmate is not stalemate")
	}
	if status, _ := g.Status(); status != StatusCheckmate {
		t.Errorf("expected status checkmate, got %s", status)
	}
	if mate, _ := g.IsInCheckmate(White); mate {
		t.Error("White is not checkmated")
	}
}

func TestFoolsMate(t *testing.T) {
	g := NewGame()
	play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	mate, err := g.IsInCheckmate(White)
	if err != nil {
		t.Fatal(err)
	}
	if !mate {
		t.Error("expected White to be checkmated")
	}
}

func TestCheckIsNotMate(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "f7f6", "d2d4", "g7g5", "d1h5")
	if status, err := g.Status(); err != nil || status != StatusCheckmate {
		t.Fatalf("Qh5 is mate here, got %s %v", status, err)
	}

	g = NewGame()
	play(t, g, "e2e4", "f7f5", "d1h5")
	status, err := g.Status()
	if err != nil {
		t.Fatal(err)
	}
	if status != StatusCheck {
		t.Errorf("expected check, got %s", status)
	}
	if got := validFrom(t, g, "g7"); !equalStrings(got, []string{"g7g6"}) {
		t.Errorf("only g7g6 blocks from g7, got %v", got)
	}
}

func TestStalemate(t *testing.T) {
	g := mustFEN(t, "k7/8/1QK5/8/8/8/8/8 b - - 0 1")
	stale, err := g.IsInStalemate(Black)
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("expected Black to be stalemated")
	}
	mate, err := g.IsInCheckmate(Black)
	if err != nil {
		t.Fatal(err)
	}
	if mate {
		t.Error("stalemate is not checkmate")
	}
	if status, _ := g.Status(); status != StatusStalemate {
		t.Errorf("expected status stalemate, got %s", status)
	}
}

func TestMissingKingPropagates(t *testing.T) {
	g := mustFEN(t, "8/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if _, err := g.IsInCheck(Black); !errors.Is(err, ErrKingMissing) {
		t.Errorf("IsInCheck: expected ErrKingMissing, got %v", err)
	}
	if _, err := g.IsInCheckmate(Black); !errors.Is(err, ErrKingMissing) {
		t.Errorf("IsInCheckmate: expected ErrKingMissing, got %v", err)
	}

	g = mustFEN(t, "4k3/8/8/8/8/8/4P3/8 w - - 0 1")
	if _, err := g.ValidMoves(MustParsePosition("e2")); !errors.Is(err, ErrKingMissing) {
		t.Errorf("ValidMoves: expected ErrKingMissing, got %v", err)
	}
	before := g.Board()
	if err := g.MakeMove(mv("e2e4")); !errors.Is(err, ErrMalformedBoard) {
		t.Errorf("MakeMove: expected ErrMalformedBoard, got %v", err)
	}
	if !g.Board().Equal(before) || len(g.History()) != 0 {
		t.Error("failed MakeMove changed the game")
	}
}

func TestIsUnderAttackIgnoresPawnPushes(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1").Board()
	if IsUnderAttack(b, MustParsePosition("e3"), White) {
		t.Error("a pawn does not attack the square in front of it")
	}
	if !IsUnderAttack(b, MustParsePosition("d3"), White) || !IsUnderAttack(b, MustParsePosition("f3"), White) {
		t.Error("a pawn attacks both forward diagonals")
	}
}

// Every legal move of a random game must leave the mover out of check.
func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 20; game++ {
		g := NewGame()
		for ply := 0; ply < 80; ply++ {
			moves, err := g.AllValidMoves()
			if err != nil {
				t.Fatal(err)
			}
			if len(moves) == 0 {
				break
			}
			mover := g.Turn()
			for _, m := range moves {
				b := g.Board()
				ApplyMove(b, m)
				inCheck, err := IsInCheck(b, mover)
				if err != nil {
					t.Fatal(err)
				}
				if inCheck {
					t.Fatalf("game %d ply %d: %s leaves %s in check\n%s", game, ply, m, mover, g.Board())
				}
			}
			if err := g.MakeMove(moves[rng.Intn(len(moves))]); err != nil {
				t.Fatalf("game %d ply %d: %v", game, ply, err)
			}
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGame()
	clone := g.Clone()
	play(t, clone, "e2e4")
	if g.Turn() != White || len(g.History()) != 0 || !g.Board().Equal(NewStartingBoard()) {
		t.Error("playing on the clone changed the original game")
	}
}
