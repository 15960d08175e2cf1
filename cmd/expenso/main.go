// Command expenso records personal expenses and reports totals per day,
// week or month. Every sub-command works on the same local data; `serve`
// exposes it as a JSON API on loopback.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"expenso/internal/cli"
	"expenso/internal/config"
	"expenso/internal/log"
	"expenso/internal/store"
)

const usage = `usage: expenso <command> [flags]

commands:
  add           record an expense
  edit          change an expense
  delete        remove an expense
  list          list expenses of a period
  summary       totals and category breakdown of a period
  categories    list categories
  add-category  add a custom category
  export        write all data to a JSON file
  import        replace all data from a JSON file
  serve         run the local JSON API
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Stderr, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	st, cleanup, err := cli.OpenStore(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	a := &app{store: st, cfg: cfg, logger: logger.WithComponent(log.ComponentCLI), out: os.Stdout, errOut: os.Stderr}
	code := a.run(ctx, os.Args[1:])
	if err := cleanup(); err != nil {
		logger.Warn("Failed to close storage backend", log.FieldError, err)
	}
	os.Exit(code)
}

type app struct {
	store  *store.Store
	cfg    *config.Config
	logger *log.Logger
	out    io.Writer
	errOut io.Writer
}

// run dispatches a sub-command and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprint(a.errOut, usage)
		return 2
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	var err error
	switch cmd {
	case "add":
		err = a.cmdAdd(ctx, rest)
	case "edit":
		err = a.cmdEdit(ctx, rest)
	case "delete":
		err = a.cmdDelete(ctx, rest)
	case "list":
		err = a.cmdList(rest)
	case "summary":
		err = a.cmdSummary(rest)
	case "categories":
		err = a.cmdCategories(rest)
	case "add-category":
		err = a.cmdAddCategory(ctx, rest)
	case "export":
		err = a.cmdExport(rest)
	case "import":
		err = a.cmdImport(ctx, rest)
	case "serve":
		err = a.cmdServe(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return 0
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(a.errOut, "expenso %s: %v\n", cmd, err)
		return 1
	}
	return 0
}
