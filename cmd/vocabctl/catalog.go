package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/hengshui-vocab/internal/app"
	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/vocabid"
)

func newCategoriesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List or add categories",
	}

	var (
		name  string
		grade string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List categories, plus the categories used by stored words",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				filter := domain.CategoryFilter{Name: name}
				if grade != "" {
					g := domain.Grade(grade)
					filter.GradeLevel = &g
				}
				cats, err := a.Store.Categories(cmd.Context(), filter)
				if err != nil {
					return err
				}
				used, err := a.Vocabulary.Categories(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if c.opts.jsonOut {
					return writeJSON(out, map[string]any{"categories": cats, "inUse": used})
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tGRADE\tDESCRIPTION")
				for _, cat := range cats {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.GradeLevel, cat.Description)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nIn use by vocabulary: %v\n", used)
				return nil
			})
		},
	}
	list.Flags().StringVar(&name, "name", "", "Name contains (case-insensitive)")
	list.Flags().StringVar(&grade, "grade", "", "Grade level")

	var draft domain.CategoryDraft
	var draftGrade string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Name = args[0]
			draft.GradeLevel = domain.Grade(draftGrade)
			return c.withApp(cmd.Context(), func(a *app.App) error {
				cat, err := a.Store.AddCategory(cmd.Context(), draft)
				if err != nil {
					return err
				}
				if c.opts.jsonOut {
					return writeJSON(cmd.OutOrStdout(), cat)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added category %s (%s)\n", cat.Name, cat.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&draft.Description, "description", "", "Description")
	add.Flags().StringVar(&draftGrade, "grade", string(domain.GradePrimary1), "Grade level")
	add.Flags().StringVar(&draft.Color, "color", "", "Display color")
	add.Flags().StringVar(&draft.Icon, "icon", "", "Display icon")

	cmd.AddCommand(list, add)
	return cmd
}

func newProgressCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "List or record learner progress",
	}

	var (
		filter  domain.ProgressFilter
		learned string
		due     bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List progress records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if learned != "" {
				b, err := strconv.ParseBool(learned)
				if err != nil {
					return domain.NewValidationError("learned", "must be true or false")
				}
				filter.IsLearned = &b
			}
			if due {
				filter.NeedsReview = &due
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				records, err := a.Store.UserProgress(cmd.Context(), filter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if c.opts.jsonOut {
					return writeJSON(out, records)
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "USER\tVOCABULARY\tLEARNED\tMASTERY\tREVIEWS\tNEXT REVIEW")
				for _, p := range records {
					fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%d\t%s\n",
						p.UserID, p.VocabularyID, p.IsLearned, p.MasteryLevel, p.ReviewCount, formatTime(p.NextReviewAt))
				}
				return tw.Flush()
			})
		},
	}
	lf := list.Flags()
	lf.StringVar(&filter.UserID, "user", "", "User identifier")
	lf.StringVar(&filter.VocabularyID, "vocab", "", "Vocabulary identifier")
	lf.StringVar(&learned, "learned", "", "true or false")
	lf.BoolVar(&due, "due", false, "Only records due for review")
	lf.IntVar(&filter.Limit, "limit", 0, "Maximum records (0 = all)")
	lf.IntVar(&filter.Offset, "offset", 0, "Records to skip")

	var (
		draft  domain.UserProgressDraft
		passed int
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Record progress on a vocabulary entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passed < 0 || passed > len(domain.EbbinghausDays) {
				return domain.NewValidationError("passed", fmt.Sprintf("must be between 0 and %d", len(domain.EbbinghausDays)))
			}
			draft.EbbinghausSchedule = scheduleThrough(passed)
			draft.ReviewCount = passed

			now := time.Now().UTC()
			if passed > 0 {
				draft.LastReviewedAt = &now
			}
			if next, ok := draft.EbbinghausSchedule.NextReviewAt(now); ok {
				draft.NextReviewAt = &next
			}

			return c.withApp(cmd.Context(), func(a *app.App) error {
				if _, err := a.Vocabulary.ByID(cmd.Context(), draft.VocabularyID); err != nil {
					return err
				}
				p, err := a.Store.AddUserProgress(cmd.Context(), draft)
				if err != nil {
					return err
				}
				if c.opts.jsonOut {
					return writeJSON(cmd.OutOrStdout(), p)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded progress %s, next review %s\n", p.ID, formatTime(p.NextReviewAt))
				return nil
			})
		},
	}
	af := add.Flags()
	af.StringVar(&draft.UserID, "user", "", "User identifier (required)")
	af.StringVar(&draft.VocabularyID, "vocab", "", "Vocabulary identifier (required)")
	af.BoolVar(&draft.IsLearned, "learned", false, "Mark the word as learned")
	af.IntVar(&draft.MasteryLevel, "mastery", 1, "Mastery level 1-5")
	af.IntVar(&passed, "passed", 0, "Review checkpoints already passed (0-5)")
	_ = add.MarkFlagRequired("user")
	_ = add.MarkFlagRequired("vocab")

	cmd.AddCommand(list, add)
	return cmd
}

// scheduleThrough marks the first n review checkpoints as passed.
func scheduleThrough(n int) domain.EbbinghausSchedule {
	return domain.EbbinghausSchedule{
		Day1:  n >= 1,
		Day3:  n >= 2,
		Day7:  n >= 3,
		Day15: n >= 4,
		Day30: n >= 5,
	}
}

func newGradesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "grades",
		Short: "Show grade partitions and their identifier codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if c.opts.jsonOut {
				return writeJSON(out, vocabid.Grades())
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tGRADE\tNAME\tDESCRIPTION")
			for _, m := range vocabid.Grades() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Code, m.Grade, m.Name, m.Description)
			}
			return tw.Flush()
		},
	}
}
