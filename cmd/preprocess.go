package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/gnolang/hbs2jsx"
	"github.com/gnolang/hbs2jsx/formatter"
	"github.com/gnolang/hbs2jsx/internal/jsast"
	"github.com/gnolang/hbs2jsx/internal/preprocess"
)

var (
	preprocessJSON bool
	explainHelpers bool
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess <file>",
	Short: "Show how attribute block statements are rewritten",
	Long: `Prints the template as the parser receives it, followed by the synthesized helpers.
Example) hbs2jsx preprocess --explain card.hbs`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readTemplate(args[0])
		if err != nil {
			return err
		}
		err = runPreprocess(cmd.OutOrStdout(), text, preprocessJSON, explainHelpers)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.FormatError(args[0], err, hbs2jsx.NewSourceCode(text)))
		}
		return err
	},
}

func init() {
	preprocessCmd.Flags().BoolVar(&preprocessJSON, "json", false, "Output the result in JSON format")
	preprocessCmd.Flags().BoolVar(&explainHelpers, "explain", false, "Evaluate each helper with a true and a false condition")
}

type preprocessOutput struct {
	Template string         `json:"template"`
	Helpers  []helperOutput `json:"helpers"`
}

type helperOutput struct {
	Name        string                  `json:"name"`
	Declaration string                  `json:"declaration"`
	Samples     []preprocess.Evaluation `json:"samples,omitempty"`
}

func runPreprocess(w io.Writer, text string, asJSON, explain bool) error {
	prepared, err := preprocess.PreProcessUnsupportedParserFeatures(text)
	if err != nil {
		return err
	}

	out := preprocessOutput{Template: prepared.Template, Helpers: []helperOutput{}}
	for _, h := range prepared.Helpers {
		ho := helperOutput{Name: h.Name(), Declaration: jsast.Print(h)}
		if explain {
			if ho.Samples, err = preprocess.Explain(h); err != nil {
				return err
			}
		}
		out.Helpers = append(out.Helpers, ho)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(w, out.Template)
	for _, h := range out.Helpers {
		fmt.Fprintf(w, "\n%s\n", h.Declaration)
		for _, s := range h.Samples {
			fmt.Fprintf(w, "  %s(%s) => %q\n", h.Name, formatArgs(s.Args), s.Result)
		}
	}
	return nil
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if s, ok := a.(string); ok {
			parts[i] = fmt.Sprintf("%q", s)
			continue
		}
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, ", ")
}
