package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mordant-dev/mordant/internal/adapter"
	"github.com/mordant-dev/mordant/internal/controller"
	"github.com/mordant-dev/mordant/internal/domain"
	m "github.com/mordant-dev/mordant/internal/model"
	"github.com/mordant-dev/mordant/pkg"
)

var runParallelFlag int
var runNoMixFlag bool
var runNoCoverageFlag bool
var runNoBailFlag bool
var runCoverageMapFlag string
var runMutationsFlag []string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutationTesting(cmd.Context(), args)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of parallel workers for mutation testing")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().BoolVar(&runNoMixFlag, noMixFlagName, viper.GetBool(noMixConfigKey), "test every mutant in its own run instead of batching coverage-disjoint mutants")
	bindFlagToConfig(cmd.Flags().Lookup(noMixFlagName), noMixConfigKey)

	cmd.Flags().BoolVar(&runNoCoverageFlag, noCoverageFlagName, viper.GetBool(noCoverageConfigKey), "ignore coverage data and assess every mutant against the whole suite")
	bindFlagToConfig(cmd.Flags().Lookup(noCoverageFlagName), noCoverageConfigKey)

	cmd.Flags().BoolVar(&runNoBailFlag, noBailFlagName, viper.GetBool(noBailConfigKey), "run each batch's full planned test subset even after all its mutants have verdicts")
	bindFlagToConfig(cmd.Flags().Lookup(noBailFlagName), noBailConfigKey)

	cmd.Flags().StringVar(&runCoverageMapFlag, coverageMapFlagName, viper.GetString(coverageMapConfigKey), "YAML file mapping source locations to covering tests")
	bindFlagToConfig(cmd.Flags().Lookup(coverageMapFlagName), coverageMapConfigKey)

	cmd.Flags().StringSliceVarP(&runMutationsFlag, mutationsFlagName, "m", viper.GetStringSlice(mutationsConfigKey), "mutation types to apply (arithmetic, comparison, boolean); empty means all")
	bindFlagToConfig(cmd.Flags().Lookup(mutationsFlagName), mutationsConfigKey)
}

func runMutationTesting(ctx context.Context, args []string) error {
	root, err := workspace.FindProjectRoot(startPath(args))
	if err != nil {
		return fmt.Errorf("locate project root: %w", err)
	}

	threads := viper.GetInt(runParallelConfigKey)
	if threads < 1 {
		threads = 1
	}

	opts := domain.Options{
		DisableMixing:   viper.GetBool(noMixConfigKey),
		DisableCoverage: viper.GetBool(noCoverageConfigKey),
		DisableBail:     viper.GetBool(noBailConfigKey),
	}

	types, err := parseMutationTypes(viper.GetStringSlice(mutationsConfigKey))
	if err != nil {
		return err
	}

	if err := ui.Start(ctx, controller.WithThreads(threads)); err != nil {
		return err
	}
	defer ui.Close(ctx)

	baseline, err := adapter.CaptureBaseline(ctx, root,
		viper.GetFloat64(timeoutFactorKey),
		time.Duration(viper.GetInt64(timeoutMarginKey))*time.Second)
	if err != nil {
		return fmt.Errorf("capture baseline: %w", err)
	}

	process, err := domain.ProcessFor(domain.LanguageGo, domain.ProcessDeps{
		Workspace: workspace,
		Root:      root,
		Exclude:   viper.GetStringSlice(excludeConfigKey),
		Types:     types,
	})
	if err != nil {
		return err
	}

	journal, err := pkg.NewJournal[m.Verdict]()
	if err != nil {
		return fmt.Errorf("open verdict journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	session := domain.NewSession(
		process,
		analyserFromConfig(opts),
		adapter.NewGoTestExecutor(workspace, root),
		baseline,
		ui,
		journal,
		threads,
		opts,
	)

	score, runErr := session.Run(ctx)

	verdicts, err := collectVerdicts(journal)
	if err != nil {
		return errors.Join(runErr, err)
	}

	outputDir := m.Path(viper.GetString(outputFlagName))
	if err := resultStore.Save(outputDir, verdicts); err != nil {
		return errors.Join(runErr, fmt.Errorf("save verdicts: %w", err))
	}

	ui.DisplaySummary(ctx, verdicts, score)

	return runErr
}

// analyserFromConfig picks the coverage source: a precomputed location map
// when one is configured, the whole-suite sentinel otherwise. Disabling
// coverage always wins.
func analyserFromConfig(opts domain.Options) adapter.Analyser {
	coverageMap := viper.GetString(coverageMapConfigKey)
	if opts.DisableCoverage || coverageMap == "" {
		return adapter.NewNoAnalyser()
	}

	return adapter.NewFileAnalyser(m.Path(coverageMap))
}

func parseMutationTypes(names []string) ([]m.MutationType, error) {
	known := map[string]m.MutationType{
		string(m.MutationArithmetic): m.MutationArithmetic,
		string(m.MutationComparison): m.MutationComparison,
		string(m.MutationBoolean):    m.MutationBoolean,
	}

	types := make([]m.MutationType, 0, len(names))

	for _, name := range names {
		typ, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown mutation type %q (valid: arithmetic, comparison, boolean)", name)
		}

		types = append(types, typ)
	}

	return types, nil
}

func collectVerdicts(journal *pkg.Journal[m.Verdict]) ([]m.Verdict, error) {
	verdicts := make([]m.Verdict, 0, journal.Len())

	err := journal.Replay(func(_ uint64, verdict m.Verdict) error {
		verdicts = append(verdicts, verdict)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replay verdict journal: %w", err)
	}

	return verdicts, nil
}
