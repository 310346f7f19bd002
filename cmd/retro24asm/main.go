// Package main implements a Retro24 assembler
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retro24/internal/cli"
	"github.com/retroenv/retro24/internal/config"
	"github.com/retroenv/retro24/internal/fileprocessor"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts, err := cli.ParseAssemblerFlags()
	if !opts.Quiet {
		printBanner()
	}

	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Flags)
	if err := fileprocessor.AssembleFile(logger, opts); err != nil {
		logger.Error("Assembling failed", log.Err(err))
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Println("[--------------------------------]")
	fmt.Println("[ retro24asm - Retro24 assembler ]")
	fmt.Printf("[--------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}
