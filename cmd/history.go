package main

import (
	"github.com/spf13/cobra"

	"github.com/bettercollective/embedforge/internal/store"
)

var (
	historyLimit int
	historyRepo  string
	historyBrand string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent publications",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.NewSQLite(cfg.History.DatabasePath)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Migrate(cmd.Context()); err != nil {
			return err
		}

		pubs, err := s.ListPublications(cmd.Context(), store.PublicationFilter{
			Repo:  historyRepo,
			Brand: historyBrand,
			Limit: historyLimit,
		})
		if err != nil {
			return err
		}
		if len(pubs) == 0 {
			cmd.Println("no publications recorded")
			return nil
		}

		for _, p := range pubs {
			cmd.Printf("%s  %-6s %-22s %s\n",
				p.CreatedAt.Format("2006-01-02 15:04"), p.Widget, p.Brand, p.EmbedURL)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max rows to show")
	historyCmd.Flags().StringVar(&historyRepo, "repo", "", "filter by repo")
	historyCmd.Flags().StringVar(&historyBrand, "brand", "", "filter by brand")
	rootCmd.AddCommand(historyCmd)
}
