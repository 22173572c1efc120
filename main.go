package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bkazemi/drawpoker/internal/cli"
	"github.com/bkazemi/drawpoker/internal/logger"
	"github.com/bkazemi/drawpoker/internal/plain"
	"github.com/bkazemi/drawpoker/internal/poker"
	"github.com/bkazemi/drawpoker/internal/web"
)

type FrontEnd interface {
	Init() error
	Run() error
}

type options struct {
	mode    string
	addr    string
	wheel   bool
	seed    int64
	logFile string
}

const logPrefix = "drawpoker:"

func newFrontEnd(opts *options, round *poker.Round, log *logger.Logger) (FrontEnd, error) {
	switch opts.mode {
	case "cli":
		return cli.New(round, log), nil
	case "plain":
		return plain.New(round, os.Stdin, os.Stdout, log), nil
	case "http":
		return web.NewServer(opts.addr, round, log), nil
	}

	return nil, fmt.Errorf("unknown mode %q (want cli, plain or http)", opts.mode)
}

func runGame(opts *options) error {
	var log *logger.Logger

	switch {
	case opts.logFile != "":
		fileLog, f, err := logger.OpenFile(opts.logFile, logPrefix)
		if err != nil {
			return err
		}
		defer f.Close()

		log = fileLog
	case opts.mode == "cli": // tview owns the terminal
		log = logger.Discard()
	default:
		log = logger.NewLoggerTo(os.Stderr, logPrefix)
	}

	var evaluator poker.Evaluator = poker.AceHighEvaluator{}
	if opts.wheel {
		evaluator = poker.StandardEvaluator{}
	}

	round := poker.NewRound(&poker.RoundOpts{
		Evaluator: evaluator,
		Rand:      poker.NewRand(opts.seed),
		Logger:    log,
	})

	frontEnd, err := newFrontEnd(opts, round, log)
	if err != nil {
		return err
	}

	if err := frontEnd.Init(); err != nil {
		return err
	}

	return frontEnd.Run()
}

func main() {
	processName, err := os.Executable()
	if err != nil {
		processName = "drawpoker"
	}

	usage := "usage: " + processName + " [options]"

	var (
		mode    string
		addr    string
		wheel   bool
		seed    int64
		logFile string
	)

	flag.Usage = func() {
		fmt.Println(usage)
		flag.PrintDefaults()
	}

	flag.StringVar(&mode, "m", "cli", "front end: cli, plain or http")
	flag.StringVar(&addr, "a", "127.0.0.1:8080", "listen address in http mode")
	flag.BoolVar(&wheel, "wheel", false, "count A-2-3-4-5 as a straight")
	flag.Int64Var(&seed, "seed", 0, "shuffle seed, 0 picks a random one")
	flag.StringVar(&logFile, "log", "", "append logs to this file")
	flag.Parse()

	opts := &options{
		mode:    mode,
		addr:    addr,
		wheel:   wheel,
		seed:    seed,
		logFile: logFile,
	}

	if err := runGame(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
