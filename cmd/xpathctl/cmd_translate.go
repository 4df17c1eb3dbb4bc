package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bwdocs/xpath-translator/report"
	"github.com/bwdocs/xpath-translator/xpath"
)

var translateFlags struct {
	file   string
	output string
	yaml   bool
	source string
	target string
}

var translateCmd = &cobra.Command{
	Use:   "translate [expression]",
	Short: "Translate XPath expressions to plain language",
	Long: `Translate one expression given as an argument, or a batch of
expressions read one per line from a file (or stdin with --file -).

Usage:
  xpathctl translate '$orderData/Order/TotalAmount > 1000'
  xpathctl translate --file expressions.txt
  cat expressions.txt | xpathctl translate --file -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranslate,
}

func init() {
	f := translateCmd.Flags()
	f.StringVarP(&translateFlags.file, "file", "f", "", "Read expressions from a file, one per line ('-' for stdin)")
	f.StringVarP(&translateFlags.output, "output", "o", "", "Write results to a file instead of stdout")
	f.BoolVar(&translateFlags.yaml, "yaml", false, "Emit YAML instead of JSON")
	f.StringVar(&translateFlags.source, "source", "", "Mapping source for the data-flow summary")
	f.StringVar(&translateFlags.target, "target", "", "Mapping target for the data-flow summary")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	exprs, err := collectExpressions(args)
	if err != nil {
		return err
	}
	if len(exprs) == 0 {
		return fmt.Errorf("an expression argument or --file is required\n\nUsage: xpathctl translate '<expression>'\n       xpathctl translate --file expressions.txt")
	}

	translator := xpath.NewTranslator()

	var ctx map[string]string
	if translateFlags.source != "" || translateFlags.target != "" {
		ctx = map[string]string{
			"source": translateFlags.source,
			"target": translateFlags.target,
		}
	}

	if len(exprs) == 1 && translateFlags.file == "" {
		tr := translator.Translate(exprs[0], ctx)
		return emit(tr, translateFlags.output, translateFlags.yaml)
	}

	results := make([]report.BatchResult, 0, len(exprs))
	for _, expr := range exprs {
		tr := translator.Translate(expr, ctx)
		results = append(results, report.BatchResult{
			XPath:         expr,
			PlainLanguage: tr.Description,
			Steps:         tr.Steps,
			Confidence:    tr.Confidence,
		})
	}
	return emit(results, translateFlags.output, translateFlags.yaml)
}

func collectExpressions(args []string) ([]string, error) {
	if translateFlags.file == "" {
		if len(args) == 0 {
			return nil, nil
		}
		return []string{args[0]}, nil
	}

	var r *os.File
	if translateFlags.file == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(translateFlags.file)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", translateFlags.file, err)
		}
		defer f.Close()
		r = f
	}

	var exprs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		exprs = append(exprs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read expressions: %w", err)
	}
	return exprs, nil
}
