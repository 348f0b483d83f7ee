package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/careerquest/internal/enrich"
	"github.com/spigell/careerquest/internal/fitscore"
	"github.com/spigell/careerquest/internal/logger"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single quest for a hero",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the quest board of a hero",
	Run: func(cmd *cobra.Command, _ []string) {
		questBoard(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(boardCmd)

	scoreCmd.Flags().StringP("candidate", "c", "", "hero id")
	scoreCmd.Flags().StringP("posting", "p", "", "quest id")
	scoreCmd.Flags().BoolP("quick", "q", false, "use the bulk scoring mode and never call the enrichment service")
	_ = scoreCmd.MarkFlagRequired("candidate")
	_ = scoreCmd.MarkFlagRequired("posting")

	boardCmd.Flags().StringP("candidate", "c", "", "hero id")
	_ = boardCmd.MarkFlagRequired("candidate")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()
	rt := newRuntime(ctx)
	defer rt.close()

	candidateID, _ := cmd.Flags().GetString("candidate")
	postingID, _ := cmd.Flags().GetString("posting")
	quick, _ := cmd.Flags().GetBool("quick")

	log := rt.logger.With(logger.SubjectFields(candidateID, postingID, "")...)

	var result enrich.Result
	if quick {
		c, err := rt.store.LoadCandidate(ctx, candidateID)
		if err != nil {
			log.Fatal("loading candidate", zap.Error(err))
		}
		q, err := rt.store.LoadPosting(ctx, postingID)
		if err != nil {
			log.Fatal("loading posting", zap.Error(err))
		}
		result = enrich.Result{Source: enrich.SourceDeterministic, Assessment: fitscore.Quick(c.Profile, q.Posting)}
	} else {
		var err error
		result, err = rt.service.AssessPosting(ctx, candidateID, postingID)
		if err != nil {
			log.Fatal("assessing posting", zap.Error(err))
		}
	}

	log.Info("posting scored",
		zap.String("source", string(result.Source)),
		zap.Int("score", result.Assessment.Score),
		zap.String("risk_tier", string(result.Assessment.RiskTier)),
	)

	if err := printJSON(result); err != nil {
		log.Fatal("printing result", zap.Error(err))
	}
}

func questBoard(cmd *cobra.Command) {
	ctx := context.Background()
	rt := newRuntime(ctx)
	defer rt.close()

	candidateID, _ := cmd.Flags().GetString("candidate")

	b, err := rt.service.QuestBoard(ctx, candidateID)
	if err != nil {
		rt.logger.Fatal("building quest board", zap.Error(err))
	}

	if b.Len() == 0 {
		rt.logger.Info("exiting", zap.String("reason", "no quests left after filters"))
		return
	}

	for _, e := range b.Entries {
		fmt.Printf("%-12s %3d %-8s %s\n",
			e.Quest.Posting.ID,
			e.Assessment.Score,
			e.Assessment.RiskTier,
			e.Quest.Posting.Title,
		)
	}
}
