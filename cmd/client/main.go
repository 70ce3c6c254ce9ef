package main

import (
	"flag"
	"os"

	"github.com/benbeisheim/chess-server/internal/client"
	"github.com/benbeisheim/chess-server/internal/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "chess server URL")
	flag.Parse()

	facade := client.NewServerFacade(*serverURL)
	renderer := ui.NewBoardRenderer(lipgloss.NewRenderer(os.Stdout))
	repl := ui.NewRepl(facade, renderer, os.Stdout)

	if err := repl.Run(os.Stdin); err != nil {
		log.Fatal(err)
	}
}
