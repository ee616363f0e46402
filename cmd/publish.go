package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bettercollective/embedforge/internal/model"
	"github.com/bettercollective/embedforge/internal/publish"
	"github.com/bettercollective/embedforge/internal/store"
	"github.com/bettercollective/embedforge/pkg/github"
)

var (
	publishFlags    widgetFlags
	publishOwner    string
	publishRepo     string
	publishFilename string
	publishNewSlot  bool
	publishMessage  string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Render a widget and publish it to a GitHub Pages repo",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		owner := publishOwner
		if owner == "" {
			owner = cfg.GitHub.Owner
		}
		repo := publishRepo
		if repo == "" {
			repo = cfg.GitHub.Repo
		}
		if owner == "" || repo == "" {
			return eris.New("github owner and repo are required (flags or config)")
		}
		if cfg.GitHub.Token == "" {
			return eris.New("github token is required (EMBEDFORGE_GITHUB_TOKEN)")
		}

		gh := github.NewClient(cfg.GitHub.Token)

		// The widget embeds its own URL, so the filename has to be known
		// before rendering. New-slot allocation runs against the current
		// listing; a failed listing allocates from empty.
		filename := publishFilename
		if filename == "" {
			filename = cfg.Publish.MainFilename
		}
		if publishNewSlot {
			names, err := gh.ListRootFiles(ctx, owner, repo, cfg.Publish.Branch)
			if err != nil {
				zap.L().Warn("listing failed, allocating from empty", zap.Error(err))
				names = nil
			}
			filename = publish.NextAvailable(cfg.Publish.SlotPrefix, cfg.Publish.SlotExtension, names)
		}
		embedURL := publish.PagesURL(owner, repo, filename)

		html, kind, err := buildWidget(publishFlags, embedURL)
		if err != nil {
			return err
		}

		out, err := publish.NewPublisher(gh).Publish(ctx, publish.Request{
			Owner:    owner,
			Repo:     repo,
			Filename: filename,
			Mode:     publish.ModeReplace,
			Branch:   cfg.Publish.Branch,
			HTML:     html,
			Message:  publishMessage,
		})
		if err != nil {
			return err
		}

		if out.PagesWarning != "" {
			cmd.Println("warning: " + out.PagesWarning)
		}
		if !out.BuildRequested {
			cmd.Println("warning: pages build was not triggered; the site may lag behind")
		}

		if err := recordPublication(cmd, out, owner, repo, kind); err != nil {
			// History is best-effort; the publish itself succeeded.
			zap.L().Warn("record publication failed", zap.Error(err))
		}

		cmd.Println("published: " + out.EmbedURL)
		cmd.Println()
		cmd.Println(publish.EmbedSnippet(out.EmbedURL, publishFlags.title))
		return nil
	},
}

func recordPublication(cmd *cobra.Command, out *publish.Outcome, owner, repo string, kind model.WidgetKind) error {
	s, err := store.NewSQLite(cfg.History.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(cmd.Context()); err != nil {
		return err
	}
	_, err = s.RecordPublication(cmd.Context(), model.Publication{
		Owner:    owner,
		Repo:     repo,
		Filename: out.Filename,
		Widget:   kind,
		Brand:    publishFlags.brandName,
		EmbedURL: out.EmbedURL,
	})
	return err
}

func init() {
	addWidgetFlags(publishCmd, &publishFlags)
	publishCmd.Flags().StringVar(&publishOwner, "owner", "", "GitHub owner (default from config)")
	publishCmd.Flags().StringVar(&publishRepo, "repo", "", "GitHub repo (default from config)")
	publishCmd.Flags().StringVar(&publishFilename, "filename", "", "target filename (default main widget file)")
	publishCmd.Flags().BoolVar(&publishNewSlot, "new-slot", false, "allocate the next free w<N>.html slot instead")
	publishCmd.Flags().StringVar(&publishMessage, "message", "", "commit message")
	rootCmd.AddCommand(publishCmd)
}
