package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/hengshui-vocab/internal/app"
	"github.com/heartmarshall/hengshui-vocab/internal/domain"
)

type queryOptions struct {
	id           string
	word         string
	search       string
	grade        string
	category     string
	difficulty   string
	partOfSpeech string
	textbook     string
	learned      string
	sortBy       string
	order        string
	limit        int
	offset       int

	highFrequency int
	random        int
	grouped       bool
}

func newQueryCmd(c *cli) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List vocabulary entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				if opts.grouped {
					groups, err := a.Vocabulary.GroupedByGrade(ctx)
					if err != nil {
						return err
					}
					if c.opts.jsonOut {
						return writeJSON(out, groups)
					}
					for _, g := range domain.AllGrades {
						fmt.Fprintf(out, "%s: %d\n", g, len(groups[g]))
					}
					return nil
				}

				var (
					entries []domain.VocabularyEntry
					err     error
				)
				switch {
				case opts.id != "":
					var e *domain.VocabularyEntry
					e, err = a.Vocabulary.ByID(ctx, opts.id)
					if e != nil {
						entries = []domain.VocabularyEntry{*e}
					}
				case cmd.Flags().Changed("high-frequency"):
					entries, err = a.Vocabulary.HighFrequency(ctx, opts.highFrequency, opts.limit)
				case cmd.Flags().Changed("random"):
					var grade *domain.Grade
					if opts.grade != "" {
						g := domain.Grade(opts.grade)
						grade = &g
					}
					entries, err = a.Vocabulary.Random(ctx, opts.random, grade)
				default:
					var filter domain.VocabularyFilter
					filter, err = opts.filter()
					if err == nil {
						entries, err = a.Vocabulary.Query(ctx, filter)
					}
				}
				if err != nil {
					return err
				}

				if c.opts.jsonOut {
					return writeJSON(out, entries)
				}
				return printEntries(out, entries)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.id, "id", "", "Show one entry by identifier")
	f.StringVar(&opts.word, "word", "", "Word contains (case-insensitive)")
	f.StringVar(&opts.search, "search", "", "Search word, translation and example")
	f.StringVar(&opts.grade, "grade", "", "Grade, e.g. primary1 or grade8")
	f.StringVar(&opts.category, "category", "", "Exact category")
	f.StringVar(&opts.difficulty, "difficulty", "", "easy, medium or hard")
	f.StringVar(&opts.partOfSpeech, "pos", "", "Part of speech")
	f.StringVar(&opts.textbook, "textbook", "", "Textbook version: PEP, FLTRP, Oxford or Other")
	f.StringVar(&opts.learned, "learned", "", "true or false")
	f.StringVar(&opts.sortBy, "sort", "", "word, grade, frequency, createdAt or updatedAt")
	f.StringVar(&opts.order, "order", "", "asc or desc")
	f.IntVar(&opts.limit, "limit", 0, "Maximum entries (0 = all)")
	f.IntVar(&opts.offset, "offset", 0, "Entries to skip")
	f.IntVar(&opts.highFrequency, "high-frequency", 8, "List entries with at least this frequency, most frequent first")
	f.IntVar(&opts.random, "random", 0, "Pick this many random entries (honours --grade)")
	f.BoolVar(&opts.grouped, "grouped", false, "Group entries by grade")

	cmd.MarkFlagsMutuallyExclusive("id", "high-frequency", "random", "grouped")
	return cmd
}

func (o queryOptions) filter() (domain.VocabularyFilter, error) {
	f := domain.VocabularyFilter{
		Word:      o.word,
		Search:    o.search,
		Category:  o.category,
		SortBy:    domain.SortField(o.sortBy),
		SortOrder: domain.SortOrder(o.order),
		Limit:     o.limit,
		Offset:    o.offset,
	}
	if o.grade != "" {
		g := domain.Grade(o.grade)
		f.Grade = &g
	}
	if o.difficulty != "" {
		d := domain.Difficulty(o.difficulty)
		f.Difficulty = &d
	}
	if o.partOfSpeech != "" {
		p := domain.PartOfSpeech(o.partOfSpeech)
		f.PartOfSpeech = &p
	}
	if o.textbook != "" {
		t := domain.TextbookVersion(o.textbook)
		f.TextbookVersion = &t
	}
	if o.learned != "" {
		b, err := strconv.ParseBool(o.learned)
		if err != nil {
			return f, domain.NewValidationError("learned", "must be true or false")
		}
		f.IsLearned = &b
	}
	return f, nil
}
