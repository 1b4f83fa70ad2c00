package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/diogo/healthchat/internal/chat"
	"github.com/diogo/healthchat/internal/render"
	"github.com/diogo/healthchat/internal/tui"
)

func newChatCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the health assistant.

The chat keeps conversation context across messages. If no model session
can be established the screen still opens and shows the reason.
Type 'exit', 'quit', or press Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), deps)
		},
	}
}

func runChat(ctx context.Context, deps *Dependencies) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, cleanup, err := deps.prepare()
	if err != nil {
		return err
	}
	defer cleanup()

	spin := newSpinner(deps.Stderr, "Connecting to Gemini")
	spin.start()
	session, closeSession, err := deps.Connect(ctx, cfg)
	defer closeSession()

	ctrl := chat.NewController(chat.NewStore(chat.Greeting()), session)
	if err != nil {
		spin.stopWithError()
		ctrl.SetConnectionError(err)
	} else {
		spin.stopWithSuccess("Connected")
	}

	theme := render.TUIThemeOrDefault(cfg.TUITheme)
	markdown := render.OptionsFromConfig(cfg.Markdown)
	if cfg.Markdown.Style == "" && os.Getenv("GLAMOUR_STYLE") == "" {
		markdown = markdown.WithStyle(theme.MarkdownStyle)
	}

	log.Info().Bool("connected", ctrl.Connected()).Str("theme", theme.Name).Msg("starting chat")
	return deps.RunChat(ctx, ctrl, tui.Options{
		ModelName: cfg.DefaultModel,
		Theme:     theme,
		Markdown:  markdown,
		Copy:      deps.Copy,
	})
}
