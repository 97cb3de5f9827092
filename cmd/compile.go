package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/hbs2jsx"
	"github.com/gnolang/hbs2jsx/formatter"
	"github.com/gnolang/hbs2jsx/internal/batch"
	"github.com/gnolang/hbs2jsx/internal/config"
)

// variable for flags
var (
	componentOutput bool
	moduleOutput    bool
	includeImport   bool
	includeContext  bool
	toStdout        bool
	colorOutput     bool
	colorStyle      string
	jsonOutput      bool
	cacheDir        string
)

var compileCmd = &cobra.Command{
	Use:   "compile [paths...]",
	Short: "Compile Handlebars templates into JSX files",
	Long: `Compiles every template found in the given files and directories. Results are
written next to each template with the configured extension, or printed with --stdout.
Example) hbs2jsx compile --module --import views/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
		defer cancel()
		return runCompile(ctx, logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args)
	},
}

func init() {
	addOptionFlags(compileCmd)
	compileCmd.Flags().BoolVar(&toStdout, "stdout", false, "Print results instead of writing files")
	compileCmd.Flags().BoolVar(&colorOutput, "color", false, "Highlight printed results (with --stdout)")
	compileCmd.Flags().StringVar(&colorStyle, "style", formatter.DefaultStyle, "Highlight style for --color")
	compileCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&componentOutput, "component", true, "Wrap the JSX in a function component")
	cmd.Flags().BoolVar(&moduleOutput, "module", false, "Export the result as the module default")
	cmd.Flags().BoolVar(&includeImport, "import", false, "Import React (with --module)")
	cmd.Flags().BoolVar(&includeContext, "context", false, "Always declare the props parameter")
	cmd.Flags().StringVar(&cacheDir, "cache", "", "Directory for the compile cache (disabled when empty)")
}

func newProcessor(logger *zap.Logger, cfg config.Config) (*batch.Processor, error) {
	p := &batch.Processor{
		Compiler: batch.OptionsCompiler{Options: cfg.Options},
		Config:   cfg,
		Logger:   logger,
	}
	if cacheDir != "" {
		cache, err := batch.NewCache(cacheDir)
		if err != nil {
			return nil, err
		}
		p.Cache = cache
	}
	return p, nil
}

// loadConfig reads the configuration file and applies the option flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("component") {
		cfg.Options.IsComponent = componentOutput
	}
	if flags.Changed("module") {
		cfg.Options.IsModule = moduleOutput
	}
	if flags.Changed("import") {
		cfg.Options.IncludeImport = includeImport
	}
	if flags.Changed("context") {
		cfg.Options.AlwaysIncludeContext = includeContext
	}
	logger.Debug("Loaded configuration", zap.String("path", cfgFile), zap.Any("options", cfg.Options))
	return cfg, nil
}

type compileResult struct {
	Path   string `json:"path"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runCompile(ctx context.Context, logger *zap.Logger, stdout, stderr io.Writer, cfg config.Config, paths []string) error {
	p, err := newProcessor(logger, cfg)
	if err != nil {
		return err
	}
	if !toStdout && !jsonOutput {
		p.Progress = stderr
	}

	results, runErr := p.Run(ctx, paths)
	if results == nil && runErr != nil {
		return runErr
	}

	failed := 0
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		failed++
		if !jsonOutput {
			fmt.Fprintln(stderr, formatter.FormatError(r.Path, r.Err, sourceOf(r)))
		}
	}

	switch {
	case jsonOutput:
		if err := printJSON(stdout, results); err != nil {
			return err
		}
	case toStdout:
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			if err := printResult(stdout, r); err != nil {
				return err
			}
		}
	default:
		written, err := p.Write(results)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(stdout, "wrote %s\n", path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d templates failed to compile", failed, len(results))
	}
	return nil
}

func sourceOf(r batch.Result) *hbs2jsx.SourceCode {
	if r.Source == nil {
		return nil
	}
	return hbs2jsx.NewSourceCode(string(r.Source))
}

func printResult(w io.Writer, r batch.Result) error {
	fmt.Fprintf(w, "// %s\n", r.Path)
	if colorOutput {
		if err := formatter.Highlight(w, r.Output, colorStyle); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, r.Output)
	return err
}

func printJSON(w io.Writer, results []batch.Result) error {
	out := make([]compileResult, len(results))
	for i, r := range results {
		out[i] = compileResult{Path: r.Path, Output: r.Output}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func readTemplate(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
