package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/okian/duoquiz/internal/domain/quiz"
	"github.com/spf13/cobra"
)

func questionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print the quiz, or the follow-ups suggested for an answers file",
		RunE:  runQuestionsCmd,
	}
	f := cmd.Flags()
	f.StringP("answers", "a", "", "YAML file with base answers; prints follow-ups instead")
	f.Uint64("seed", 0, "Seed for question order (0 = random)")
	return cmd
}

func runQuestionsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine := newEngine(cfg)
	out := cmd.OutOrStdout()

	path, _ := cmd.Flags().GetString("answers")
	if path != "" {
		answers, err := loadAnswers(path)
		if err != nil {
			return err
		}
		v := engine.ScoreVector(answers.Answers)
		fmt.Fprintf(out, "Score %s\n\nFollow-up questions\n", v)
		writeQuestions(out, engine.PickFollowups(v, cfg.FollowupCount))
		return nil
	}

	seed, _ := cmd.Flags().GetUint64("seed")
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // question order
	fmt.Fprintln(out, "Questions")
	writeQuestions(out, engine.Catalog().ShuffleBase(rng))
	fmt.Fprintln(out, "\nSpecial questions (pick one)")
	for _, k := range engine.Catalog().Keys() {
		fmt.Fprintf(out, "  [%d] %s\n", k.ID, k.Text)
		for _, o := range k.Options {
			fmt.Fprintf(out, "      %d) %s\n", o.Value, o.Text)
		}
	}
	return nil
}

func writeQuestions(out io.Writer, qs []quiz.Question) {
	for _, q := range qs {
		fmt.Fprintf(out, "  [%d] %s\n", q.ID, q.Text)
		for _, o := range q.Options {
			fmt.Fprintf(out, "      %d) %s\n", o.Value, o.Text)
		}
	}
}
