package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/careerquest/internal/challenge"
	"github.com/spigell/careerquest/internal/logger"
	"github.com/spigell/careerquest/internal/progression"
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List the active boss battles",
	Run: func(_ *cobra.Command, _ []string) {
		listChallenges()
	},
}

var attackCmd = &cobra.Command{
	Use:   "attack",
	Short: "Submit a solution to a boss battle",
	Run: func(cmd *cobra.Command, _ []string) {
		attack(cmd)
	},
}

var awardCmd = &cobra.Command{
	Use:   "award",
	Short: "Grant the experience of a named activity to a hero",
	Run: func(cmd *cobra.Command, _ []string) {
		award(cmd)
	},
}

func init() {
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(attackCmd)
	rootCmd.AddCommand(awardCmd)

	attackCmd.Flags().StringP("candidate", "c", "", "hero id")
	attackCmd.Flags().String("challenge", "", "challenge id. Asked interactively when unset.")
	attackCmd.Flags().StringP("solution", "s", "-", "file with the submitted code, - for stdin")
	_ = attackCmd.MarkFlagRequired("candidate")

	awardCmd.Flags().StringP("candidate", "c", "", "hero id")
	awardCmd.Flags().StringP("event", "e", "", "activity name. Asked interactively when unset.")
	_ = awardCmd.MarkFlagRequired("candidate")
}

func listChallenges() {
	ctx := context.Background()
	rt := newRuntime(ctx)
	defer rt.close()

	public, err := rt.service.Challenges(ctx)
	if err != nil {
		rt.logger.Fatal("listing challenges", zap.Error(err))
	}
	// Seeding may have written the defaults.
	rt.persist()

	if err := printJSON(public); err != nil {
		rt.logger.Fatal("printing challenges", zap.Error(err))
	}
}

func attack(cmd *cobra.Command) {
	ctx := context.Background()
	rt := newRuntime(ctx)
	defer rt.close()

	candidateID, _ := cmd.Flags().GetString("candidate")
	challengeID, _ := cmd.Flags().GetString("challenge")
	solution, _ := cmd.Flags().GetString("solution")

	if challengeID == "" {
		public, err := rt.service.Challenges(ctx)
		if err != nil {
			rt.logger.Fatal("listing challenges", zap.Error(err))
		}
		challengeID, err = chooseChallenge(public)
		if err != nil {
			rt.logger.Fatal("exiting", zap.Error(err))
		}
	}

	submission, err := readSolution(solution)
	if err != nil {
		rt.logger.Fatal("reading the solution", zap.Error(err), zap.String("solution", solution))
	}

	log := rt.logger.With(logger.SubjectFields(candidateID, "", challengeID)...)

	result, err := rt.service.SubmitChallenge(ctx, candidateID, challengeID, submission)
	if err != nil {
		log.Fatal("submitting the solution", zap.Error(err))
	}
	rt.persist()

	fmt.Println(result.Outcome.Narrative)
	if result.Award != nil && result.Award.LevelUp {
		log.Info("level up",
			zap.Int("level", result.Award.LevelAfter),
			zap.String("title", string(result.Award.NewTitle)),
		)
	}

	if err := printJSON(result); err != nil {
		log.Fatal("printing result", zap.Error(err))
	}
}

func award(cmd *cobra.Command) {
	ctx := context.Background()
	rt := newRuntime(ctx)
	defer rt.close()

	candidateID, _ := cmd.Flags().GetString("candidate")
	event, _ := cmd.Flags().GetString("event")

	if event == "" {
		var err error
		event, err = chooseEvent(rt.rewards)
		if err != nil {
			rt.logger.Fatal("exiting", zap.Error(err))
		}
	}

	result, err := rt.service.AwardEvent(ctx, candidateID, progression.Event(event))
	if err != nil {
		rt.logger.Fatal("awarding experience", zap.Error(err), zap.String("event", event))
	}
	rt.persist()

	if err := printJSON(result); err != nil {
		rt.logger.Fatal("printing result", zap.Error(err))
	}
}

func chooseChallenge(public []challenge.Public) (string, error) {
	if len(public) == 0 {
		return "", fmt.Errorf("there are no active challenges")
	}

	items := make([]string, 0, len(public))
	for _, p := range public {
		items = append(items, fmt.Sprintf("%s [%s] level %d, %d XP", p.Title, p.Difficulty, p.LevelRequirement, p.RewardPoints))
	}

	challengePrompt := promptui.Select{
		Label: "Choose a boss and press ENTER",
		Items: items,
	}

	idx, _, err := challengePrompt.Run()
	if err != nil {
		return "", err
	}
	return public[idx].ID, nil
}

func chooseEvent(rewards progression.Rewards) (string, error) {
	events := make([]string, 0, len(rewards))
	for e := range rewards {
		events = append(events, string(e))
	}
	sort.Strings(events)

	eventPrompt := promptui.Select{
		Label: "Choose an activity and press ENTER",
		Items: events,
	}

	_, event, err := eventPrompt.Run()
	return event, err
}

func readSolution(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
