package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/careerquest/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import heroes, quests and challenges from a JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		importFile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importFile(path string) {
	ctx := context.Background()
	rt := newRuntime(ctx)
	defer rt.close()

	snap, err := storage.ReadSnapshot(path)
	if err != nil {
		rt.logger.Fatal("reading import file", zap.Error(err))
	}

	for _, def := range snap.Challenges {
		if err := rt.service.AddChallenge(ctx, def); err != nil {
			rt.logger.Fatal("importing challenge", zap.Error(err), zap.String("title", def.Title))
		}
	}

	for _, q := range snap.Postings {
		if err := rt.store.SavePosting(ctx, q); err != nil {
			rt.logger.Fatal("importing posting", zap.Error(err))
		}
	}

	for _, c := range snap.Candidates {
		if _, err := rt.service.RegisterCandidate(ctx, c); err != nil {
			rt.logger.Fatal("importing candidate", zap.Error(err), zap.String("candidate_id", c.ID))
		}
	}

	rt.persist()

	rt.logger.Info("import finished",
		zap.Int("challenges", len(snap.Challenges)),
		zap.Int("postings", len(snap.Postings)),
		zap.Int("candidates", len(snap.Candidates)),
	)
}
