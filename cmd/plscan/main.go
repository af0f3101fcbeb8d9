package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/pantrylens/backend/internal/domain"
	"github.com/pantrylens/backend/internal/usecase"
)

// plscan is a one-shot extraction tool: feed it label or utterance text and
// it prints the candidates the engine produces. Useful for tuning rules
// against captured OCR output without running the server.

var (
	outputFormat string
	debugLogging bool

	stdout io.Writer = os.Stdout
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "plscan",
		Short:         "Extract structured values from noisy OCR or voice text",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
	root.PersistentFlags().BoolVar(&debugLogging, "debug", false, "log rule matching decisions")

	root.AddCommand(dateCmd(), datesCmd(), nutritionCmd(), shoppingCmd())
	return root
}

// exitCode maps domain failures onto distinct codes so scripted callers can
// tell "no date found" (2) apart from "found but weak" (3).
func exitCode(err error) int {
	if errors.Is(err, domain.ErrNoCandidates) {
		return 2
	}
	if errors.Is(err, domain.ErrLowConfidence) {
		return 3
	}
	return 1
}

func dateCmd() *cobra.Command {
	var minConfidence float64

	cmd := &cobra.Command{
		Use:   "date [text]",
		Short: "Extract the best expiration-date candidate",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(args)
			if err != nil {
				return err
			}
			svc := usecase.NewDateService(usecase.DateServiceConfig{EnableDebugLogging: debugLogging})
			candidate, err := svc.ExtractDate(text)
			if err != nil {
				return err
			}
			if err := emit(candidate); err != nil {
				return err
			}
			if candidate.Confidence < minConfidence {
				return fmt.Errorf("%w: %.2f < %.2f", domain.ErrLowConfidence, candidate.Confidence, minConfidence)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "fail (exit 3) when the best candidate scores below this")
	return cmd
}

func datesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dates [text]",
		Short: "Extract every plausible date candidate",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(args)
			if err != nil {
				return err
			}
			svc := usecase.NewDateService(usecase.DateServiceConfig{EnableDebugLogging: debugLogging})
			candidates, err := svc.FindAllDates(text)
			if err != nil {
				return err
			}
			return emit(candidates)
		},
	}
}

func nutritionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nutrition [text]",
		Short: "Parse a nutrition panel into validated fields",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(args)
			if err != nil {
				return err
			}
			svc := usecase.NewNutritionService(usecase.NutritionServiceConfig{EnableDebugLogging: debugLogging})
			facts, err := svc.ParseLabel(text)
			if err != nil {
				return err
			}
			svc.Validate(facts)
			return emit(facts)
		},
	}
}

func shoppingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shopping [utterance]",
		Short: "Parse a shopping utterance into items",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(args)
			if err != nil {
				return err
			}
			svc := usecase.NewShoppingService(usecase.ShoppingServiceConfig{EnableDebugLogging: debugLogging})
			items, err := svc.ParseUtterance(text)
			if err != nil {
				return err
			}
			return emit(items)
		},
	}
}

// inputText joins the args, or reads stdin when no args were given so
// captured OCR dumps can be piped in.
func inputText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func emit(v interface{}) error {
	switch outputFormat {
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format: %q", outputFormat)
	}
}
