package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:    true,
		DrawLastMovedBackground: true,
		ShowLegalMoves:          true,
		Colors: ConfigColors{
			BoardColor:    180,
			BoardColorAlt: 179,
			BlockedColor:  94,
			Player1Color:  232,
			Player2Color:  255,
			LegalColor:    22,
			CursorColorFG: 2,
			CursorColorBG: 4,
			LastMovedBG:   2,
		},
		Symbols: ConfigSymbols{
			Player1: '●',
			Player2: '●',
			Blank:   '·',
			Blocked: '▪',
			Legal:   '◦',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameSettings{
			DefaultWidth:       7,
			DefaultHeight:      7,
			DefaultHumanPlayer: 1,
			TurnTimeMs:         1000,
			RecordGames:        true,
		},
		Agent: AgentSettings{
			SearchDepth:     3,
			Iterative:       true,
			Method:          "alphabeta",
			Evaluator:       "weighted_mobility",
			HeuristicWeight: 1.5,
			TimeoutMarginMs: 10,
		},
	}
}
