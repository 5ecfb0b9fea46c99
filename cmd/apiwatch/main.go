// Command apiwatch polls HTTP endpoints and logs their responses.
//
//	apiwatch --config watches.yml
//	apiwatch --endpoint https://api.example.com/status --interval 5s --track
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "apiwatch:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts := &Options{}
	if _, err := flags.ParseArgs(opts, args); err != nil {
		return err
	}
	if opts.Version {
		fmt.Println(buildInfo())
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newApp(cfg).Run(ctx, opts.Once)
}
