package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/eskils/swegrid/internal/batch"
	"github.com/eskils/swegrid/internal/logger"
	"github.com/eskils/swegrid/projection"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	From        string `short:"f" long:"from"        env:"SWEGRID_FROM" default:"wgs84" description:"Source projection name, or wgs84 for geodetic input"`
	To          string `short:"t" long:"to"          env:"SWEGRID_TO"   default:"sweref_99_tm" description:"Target projection name, or wgs84 for geodetic output"`
	Input       string `short:"i" long:"input"       description:"Input CSV file (default: stdin)"`
	Output      string `short:"o" long:"output"      description:"Output CSV file (default: stdout)"`
	Jobs        string `short:"j" long:"jobs"        description:"YAML job file, runs several batch conversions"`
	Concurrency int    `short:"p" long:"concurrency" env:"SWEGRID_CONCURRENCY" description:"Worker count for batch conversion (default: all CPUs)"`
	NoProgress  bool   `long:"no-progress"           description:"Disable the progress bar"`
	List        bool   `short:"L" long:"list"        description:"List supported projections and exit"`
	Version     bool   `short:"V" long:"version"     description:"Print version and exit"`

	Args struct {
		Coords []string `positional-arg-name:"coordinates" description:"A single coordinate pair to convert"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[flags] [coord-a coord-b]"
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	if opts.Version {
		fmt.Printf("swegrid %s (commit %s, built %s)\n", version, commit, buildDate)
		return
	}

	if opts.List {
		listProjections()
		return
	}

	if opts.Jobs != "" {
		runJobs(opts)
		return
	}

	switch len(opts.Args.Coords) {
	case 0:
		runBatch(opts)
	case 2:
		runPoint(opts)
	default:
		log.Fatal().Int("args", len(opts.Args.Coords)).
			Msg("Expected exactly two coordinates, or none for batch mode")
	}
}

func listProjections() {
	fmt.Printf("%-24s %16s %14s\n", "NAME", "CENTRAL MERIDIAN", "SCALE")
	for _, name := range projection.Names() {
		p, err := projection.ParametersFor(name)
		if err != nil {
			continue
		}
		fmt.Printf("%-24s %16.6f %14.11f\n", name, p.CentralMeridian, p.Scale)
	}
	fmt.Println("\nThe pseudo name \"wgs84\" selects geodetic latitude/longitude in degrees.")
}

func runPoint(opts Options) {
	a, errA := strconv.ParseFloat(opts.Args.Coords[0], 64)
	b, errB := strconv.ParseFloat(opts.Args.Coords[1], 64)
	if errA != nil || errB != nil {
		log.Fatal().Strs("coordinates", opts.Args.Coords).Msg("Coordinates must be decimal numbers")
	}

	conv, err := batch.NewConverter(opts.From, opts.To)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve projections")
	}

	outA, outB, err := conv.Convert(a, b)
	if err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}

	if opts.To == batch.GeodeticName {
		fmt.Printf("%.9f %.9f\n", outA, outB)
	} else {
		fmt.Printf("%.3f %.3f\n", outA, outB)
	}
}

func runBatch(opts Options) {
	conv, err := batch.NewConverter(opts.From, opts.To)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve projections")
	}

	in := io.Reader(os.Stdin)
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open input")
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create output")
		}
		defer f.Close()
		out = f
	}

	stats, err := batch.Run(conv, batch.Options{
		Concurrency: opts.Concurrency,
		Progress:    !opts.NoProgress && opts.Input != "",
		ProgressOut: os.Stderr,
		Label:       opts.From + " -> " + opts.To,
	}, in, out)
	if err != nil {
		log.Fatal().Err(err).Msg("Batch conversion failed")
	}

	log.Info().
		Int64("rows", stats.Rows).
		Int64("converted", stats.Converted).
		Int64("skipped", stats.Skipped).
		Msg("Batch conversion finished")
}

func runJobs(opts Options) {
	jobs, err := batch.LoadJobs(opts.Jobs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load job file")
	}

	failed := 0
	for _, job := range jobs {
		if err := runJob(job, opts); err != nil {
			log.Error().Err(err).Str("job", job.Name).Msg("Job failed")
			failed++
		}
	}
	if failed > 0 {
		log.Fatal().Int("failed", failed).Int("total", len(jobs)).Msg("Some jobs failed")
	}
	log.Info().Int("jobs", len(jobs)).Msg("All jobs finished")
}

func runJob(job batch.Job, opts Options) error {
	conv, err := batch.NewConverter(job.From, job.To)
	if err != nil {
		return err
	}

	in, err := os.Open(job.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(job.Output)
	if err != nil {
		return err
	}

	concurrency := job.Concurrency
	if concurrency <= 0 {
		concurrency = opts.Concurrency
	}

	label := job.Name
	if label == "" {
		label = job.From + " -> " + job.To
	}

	stats, err := batch.Run(conv, batch.Options{
		Concurrency: concurrency,
		Progress:    !opts.NoProgress,
		ProgressOut: os.Stderr,
		Label:       label,
	}, in, out)
	if err != nil {
		out.Close()
		return err
	}

	log.Info().
		Str("job", label).
		Int64("rows", stats.Rows).
		Int64("converted", stats.Converted).
		Int64("skipped", stats.Skipped).
		Msg("Job finished")
	return out.Close()
}
