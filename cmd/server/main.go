package main

import (
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mwhitlock/falconhunter-backend/internal/controller"
	"github.com/mwhitlock/falconhunter-backend/internal/middleware"
	"github.com/mwhitlock/falconhunter-backend/internal/service"
)

var (
	addr    string
	origins []string
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "falconhunter-server",
		Short: "Game server for the falcon-hunter chess variant",
		Long: heredoc.Doc(`
			falconhunter-server hosts two-player games of falcon-hunter chess.

			Each side owns a one-time privilege to bring a fairy piece into
			play on its own two home ranks: the falcon slides diagonally
			toward the opponent and straight back, the hunter the inverse.
			Clients talk to the server over REST for game management and over
			WebSocket for live play.
		`),
		RunE: run,
	}

	root.Flags().StringVar(&addr, "addr", ":3000", "listen address")
	root.Flags().StringSliceVar(&origins, "origins", []string{"http://localhost:5173"}, "allowed CORS origins")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(func(c *fiber.Ctx) error {
		logrus.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Debug("incoming request")
		return c.Next()
	})

	gameManager := service.NewGameManager()
	gameService := service.NewGameService(gameManager)

	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Use("/ws/game/:gameId", middleware.WebSocketUpgrade())
	app.Get("/ws/game/:gameId", websocket.New(func(c *websocket.Conn) {
		wsController.HandleConnection(c)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Get("/matchmaking/events", gameController.MatchmakingEvents)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Post("/:gameId/move", gameController.SubmitMove)
	gameRoutes.Post("/:gameId/fairy", gameController.SubmitFairyEntry)
	gameRoutes.Post("/:gameId/fairy/decline", gameController.DeclineFairyEntry)

	logrus.WithField("addr", addr).Info("starting server")
	return app.Listen(addr)
}
