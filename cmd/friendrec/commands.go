package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/app"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/classifier"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/config"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/generator"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/logging"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/service"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	dataPath   string
	kind       string
	mode       string
	logLevel   string
	jsonOutput bool

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "friendrec",
		Short:         "Recommend friends of friends in a social network",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file (defaults to CONFIG_PATH or ./config.yaml)")
	flags.StringVar(&opts.dataPath, "data", "", "profiles CSV (overrides data.path)")
	flags.StringVar(&opts.kind, "kind", "", "classifier kind: logistic, decision_tree, random_forest, svm, knn, mlp")
	flags.StringVar(&opts.mode, "mode", "", "scoring mode: probability or blend")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides logging.level)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		newRecommendCmd(opts),
		newTrainCmd(opts),
		newSimilarityCmd(opts),
		newGenerateCmd(opts),
	)
	return rootCmd
}

// load resolves configuration: file and environment first, then flags.
func (o *rootOptions) load(cmd *cobra.Command) error {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if o.dataPath != "" {
		cfg.Data.Path = o.dataPath
		cfg.Data.Source = "csv"
	}
	if o.kind != "" {
		cfg.Classifier.Kind = o.kind
	}
	if o.mode != "" {
		cfg.Recommend.Mode = o.mode
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging).With("component", "cli")
	return nil
}

// open builds the service. The classifier is trained only when the scoring
// mode needs it or train is set.
func (o *rootOptions) open(ctx context.Context, train bool) (*app.App, error) {
	cfg := o.cfg
	cfg.Classifier.TrainOnStart = train || domain.ScoringMode(cfg.Recommend.Mode) == domain.ScoringProbability
	cfg.Graph.SyncOnStart = false
	return app.New(ctx, o.logger, cfg)
}

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var (
		explain bool
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "recommend <user>",
		Short: "List friend-of-friend recommendations for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			result, err := a.Service.Recommend(cmd.Context(), args[0], service.RecommendParams{
				Limit:   limit,
				Explain: explain,
			})
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return printRecommendations(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "include the feature vector of each candidate")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of recommendations (0 uses recommend.default_limit)")
	return cmd
}

func newTrainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train a classifier on the loaded network and report its accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := classifier.ParseKind(opts.cfg.Classifier.Kind)
			if err != nil {
				return err
			}
			cfg := opts.cfg
			cfg.Classifier.TrainOnStart = false
			cfg.Graph.SyncOnStart = false
			cfg.Recommend.Mode = string(domain.ScoringBlend)
			a, err := app.New(cmd.Context(), opts.logger, cfg)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			report, err := a.Service.Train(cmd.Context(), kind)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
}

func newSimilarityCmd(opts *rootOptions) *cobra.Command {
	var withProbability bool
	cmd := &cobra.Command{
		Use:   "similarity <a> <b>",
		Short: "Show the similarity features between two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context(), withProbability)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			result, err := a.Service.Similarity(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return printSimilarity(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().BoolVar(&withProbability, "probability", false, "train a model and include the friendship probability")
	return cmd
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	genCfg := generator.DefaultConfig()
	var output string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic profile network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = opts.cfg.Data.Path
			}
			profiles, err := generator.New(genCfg).Generate(cmd.Context())
			if err != nil {
				return err
			}
			if err := generator.WriteDataset(profiles, output); err != nil {
				return err
			}
			opts.logger.Info("dataset written", "path", output, "users", len(profiles))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Generated %d users into %s\n", len(profiles), output)
			return err
		},
	}
	cmd.Flags().IntVar(&genCfg.NumUsers, "users", genCfg.NumUsers, "number of users")
	cmd.Flags().IntVar(&genCfg.FriendsPerUser, "friends", genCfg.FriendsPerUser, "target mean friends per user")
	cmd.Flags().Float64Var(&genCfg.Homophily, "homophily", genCfg.Homophily, "bias toward befriending similar users, 0..1")
	cmd.Flags().Int64Var(&genCfg.Seed, "seed", genCfg.Seed, "random seed")
	cmd.Flags().StringVar(&output, "output", "", "output file (defaults to data.path)")
	return cmd
}
