package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/nulzo/intent-router/internal/cli"
	"github.com/nulzo/intent-router/internal/completion"
	"github.com/nulzo/intent-router/internal/intent"
	"github.com/nulzo/intent-router/internal/pricing"
	"github.com/nulzo/intent-router/pkg/api"
	"github.com/spf13/cobra"
)

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <query...>",
		Short: "Print the intent of a query",
		RunE: func(c *cobra.Command, args []string) error {
			rt, err := a.runtime(c.Context())
			if err != nil {
				return err
			}
			res := rt.Service.Classify(c.Context(), joinArgs(args))

			out := c.OutOrStdout()
			if a.asJSON {
				cli.PrettyPrint(out, res)
				return nil
			}
			fmt.Fprintf(out, "%s %s (confidence %.1f)\n", cli.Arrow(), cli.Style(res.Intent.String(), cli.IntentColor(res.Intent.String())), res.Confidence)
			for _, i := range intent.Reachable {
				fmt.Fprintf(out, "  %-14s %d\n", i, res.Scores[i])
			}
			return nil
		},
	}
}

func newRouteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "route <query...>",
		Short: "Print the model a query would be routed to",
		RunE: func(c *cobra.Command, args []string) error {
			rt, err := a.runtime(c.Context())
			if err != nil {
				return err
			}
			d, err := rt.Service.Route(c.Context(), joinArgs(args))
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			if a.asJSON {
				cli.PrettyPrint(out, d)
				return nil
			}
			fmt.Fprintf(out, "%s %s %s %s\n", cli.Arrow(), cli.Style(d.Intent.String(), cli.IntentColor(d.Intent.String())), cli.Arrow(), cli.Style(d.Config.Model, cli.Bold))
			cfg := d.Config.Resolve(completion.DefaultMaxTokens, completion.DefaultTemperature)
			fmt.Fprintf(out, "  max_tokens=%d temperature=%.2f confidence=%.1f\n", cfg.MaxTokens, *cfg.Temperature, d.Confidence)
			return nil
		},
	}
}

func newCostCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cost <model> <tokens>",
		Short: "Price a token count for a model",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			tokens, err := strconv.Atoi(args[1])
			if err != nil || tokens < 0 {
				return fmt.Errorf("tokens must be a non-negative integer, got %q", args[1])
			}
			rt, err := a.runtime(c.Context())
			if err != nil {
				return err
			}

			res := api.CostResponse{
				Model:  args[0],
				Tokens: tokens,
				Rate:   rt.Service.Cost(args[0], pricing.TokensPerUnit),
				Cost:   rt.Service.Cost(args[0], tokens),
			}
			if a.asJSON {
				cli.PrettyPrint(c.OutOrStdout(), res)
				return nil
			}
			fmt.Fprintf(c.OutOrStdout(), "%s %d tokens of %s at %g per 1M = %g\n", cli.Arrow(), res.Tokens, res.Model, res.Rate, res.Cost)
			return nil
		},
	}
}

func newCompleteCmd(a *app) *cobra.Command {
	var (
		model       string
		system      string
		maxTokens   int
		temperature float64
	)

	c := &cobra.Command{
		Use:   "complete [prompt...]",
		Short: "Route a prompt and run one completion (reads stdin when no prompt is given)",
		RunE: func(c *cobra.Command, args []string) error {
			prompt := joinArgs(args)
			if prompt == "" {
				raw, err := io.ReadAll(c.InOrStdin())
				if err != nil {
					return err
				}
				prompt = string(raw)
			}
			if prompt == "" {
				return errors.New("empty prompt")
			}

			rt, err := a.runtime(c.Context())
			if err != nil {
				return err
			}

			req := &api.CompletionRequest{Model: model}
			if system != "" {
				req.Messages = append(req.Messages, api.ChatMessage{Role: string(api.System), Content: system})
			}
			req.Messages = append(req.Messages, api.ChatMessage{Role: string(api.User), Content: prompt})
			if c.Flags().Changed("max-tokens") {
				req.MaxTokens = &maxTokens
			}
			if c.Flags().Changed("temperature") {
				req.Temperature = &temperature
			}

			res, err := rt.Service.Complete(c.Context(), req)
			if err != nil {
				fmt.Fprintln(c.ErrOrStderr(), cli.CrossMark(), err)
				return err
			}

			out := c.OutOrStdout()
			if a.asJSON {
				cli.PrettyPrint(out, res)
				return nil
			}
			fmt.Fprintln(out, res.FirstContent())
			if res.Routing != nil {
				fmt.Fprintf(c.ErrOrStderr(), "%s %s via %s, cost %g\n", cli.CheckMark(), res.Routing.Intent, res.Routing.Model, res.Cost)
			} else {
				fmt.Fprintf(c.ErrOrStderr(), "%s %s, cost %g\n", cli.CheckMark(), res.Model, res.Cost)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&model, "model", "m", api.AutoModel, `model id, or "auto" to route by intent`)
	c.Flags().StringVarP(&system, "system", "s", "", "system prompt")
	c.Flags().IntVar(&maxTokens, "max-tokens", 0, "override max_tokens")
	c.Flags().Float64Var(&temperature, "temperature", 0, "override temperature")
	return c
}

func newModelInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "model-info <model>",
		Short: "Fetch upstream metadata for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			rt, err := a.runtime(c.Context())
			if err != nil {
				return err
			}
			info := rt.Service.ModelInfo(c.Context(), args[0])
			if info == nil {
				return fmt.Errorf("no metadata available for %s", args[0])
			}
			cli.PrettyPrint(c.OutOrStdout(), info)
			return nil
		},
	}
}
