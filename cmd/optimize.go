package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haradama/q2-optitrim/internal/optitrim"
)

// optimizeCmd searches truncation lengths for the external denoiser.
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search for the truncation lengths that maximize read survival",
	Run:   optitrim.OptimizeCmd,
	Long: `Search for the forward/reverse truncation lengths that leave the most reads
alive after denoising.

The input dataset is subsampled once, then candidate truncation lengths are
proposed by a seeded sampler on the caller's grid. Each candidate is handed
to the external denoiser and scored by the mean per-sample fraction of reads
surviving the full pipeline. Candidates that cannot span the amplicon plus
the minimum merge overlap are pruned without being evaluated.

Two artifacts are written: a single-row recommended-parameters table (TSV)
and a study summary (JSON) with the best parameters, score, trial count and
observed read lengths.`,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringP("demux", "i", "", "directory of demultiplexed FASTQ files")
	optimizeCmd.Flags().Int("amplicon-length", 0, "expected amplicon length (bases)")
	optimizeCmd.Flags().Int("fwd-primer-length", 0, "forward primer length, used as trim_left_f")
	optimizeCmd.Flags().Int("rev-primer-length", 0, "reverse primer length, used as trim_left_r")
	optimizeCmd.Flags().Float64("fraction", 0.20, "subsample fraction in (0, 1]")
	optimizeCmd.Flags().Int("trials", 30, "maximum number of trials")
	optimizeCmd.Flags().String("direction", "maximize", "optimization direction: maximize or minimize")
	optimizeCmd.Flags().Int("min-trunc", 0, "lower truncation-length bound")
	optimizeCmd.Flags().Int("max-trunc", 300, "upper truncation-length bound")
	optimizeCmd.Flags().Int("step", 5, "truncation-length grid step")
	optimizeCmd.Flags().Int("min-overlap", 20, "minimum overlap for paired-end merging")
	optimizeCmd.Flags().Int("threads", 0, "denoiser thread count (0 lets the denoiser decide)")
	optimizeCmd.Flags().Int("timeout", 0, "wall-clock budget in seconds (0 = none)")
	optimizeCmd.Flags().Int64("seed", -1, "random seed (negative seeds from the clock)")
	optimizeCmd.Flags().String("denoiser", "denoise-reads", "external denoiser command")
	optimizeCmd.Flags().String("sampler", "tpe", "search algorithm: tpe or random")
	optimizeCmd.Flags().String("work-dir", "", "scratch root for per-trial working directories")
	optimizeCmd.Flags().StringP("o-params", "p", "", "output path for the recommended-parameters TSV")
	optimizeCmd.Flags().StringP("o-study", "s", "", "output path for the study summary JSON")

	optimizeCmd.MarkFlagRequired("demux")
	optimizeCmd.MarkFlagRequired("amplicon-length")
	optimizeCmd.MarkFlagRequired("fwd-primer-length")
	optimizeCmd.MarkFlagRequired("rev-primer-length")
	optimizeCmd.MarkFlagRequired("o-params")
	optimizeCmd.MarkFlagRequired("o-study")

	// Bind the parameters to viper
	viper.BindPFlag("demux", optimizeCmd.Flags().Lookup("demux"))
	viper.BindPFlag("amplicon-length", optimizeCmd.Flags().Lookup("amplicon-length"))
	viper.BindPFlag("fwd-primer-length", optimizeCmd.Flags().Lookup("fwd-primer-length"))
	viper.BindPFlag("rev-primer-length", optimizeCmd.Flags().Lookup("rev-primer-length"))
	viper.BindPFlag("fraction", optimizeCmd.Flags().Lookup("fraction"))
	viper.BindPFlag("trials", optimizeCmd.Flags().Lookup("trials"))
	viper.BindPFlag("direction", optimizeCmd.Flags().Lookup("direction"))
	viper.BindPFlag("min-trunc", optimizeCmd.Flags().Lookup("min-trunc"))
	viper.BindPFlag("max-trunc", optimizeCmd.Flags().Lookup("max-trunc"))
	viper.BindPFlag("step", optimizeCmd.Flags().Lookup("step"))
	viper.BindPFlag("min-overlap", optimizeCmd.Flags().Lookup("min-overlap"))
	viper.BindPFlag("threads", optimizeCmd.Flags().Lookup("threads"))
	viper.BindPFlag("timeout", optimizeCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("seed", optimizeCmd.Flags().Lookup("seed"))
	viper.BindPFlag("denoiser", optimizeCmd.Flags().Lookup("denoiser"))
	viper.BindPFlag("sampler", optimizeCmd.Flags().Lookup("sampler"))
	viper.BindPFlag("work-dir", optimizeCmd.Flags().Lookup("work-dir"))
	viper.BindPFlag("o-params", optimizeCmd.Flags().Lookup("o-params"))
	viper.BindPFlag("o-study", optimizeCmd.Flags().Lookup("o-study"))
}
