package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opsaudit/stackscan/internal/config"
	"github.com/opsaudit/stackscan/internal/engine"
	"github.com/opsaudit/stackscan/internal/models"
	"github.com/opsaudit/stackscan/internal/output"
	"github.com/opsaudit/stackscan/internal/policy"
	"github.com/opsaudit/stackscan/internal/rulepacks/securityhub"
	"github.com/opsaudit/stackscan/internal/rules"
	"github.com/opsaudit/stackscan/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stackscan",
		Short: "stackscan — static compliance scanner for infrastructure templates",
	}
	root.AddCommand(newScanCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newPolicyCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// defaultRegistry builds a registry loaded with the full compliance pack.
func defaultRegistry() *rules.Registry {
	registry := rules.NewRegistry()
	for _, rule := range securityhub.New() {
		registry.Register(rule)
	}
	return registry
}

// resolvePolicy loads the policy file named by the flag, falling back to the
// app config default. An empty path means no policy (everything enabled).
func resolvePolicy(flagPath string, appCfg *config.Config) (*policy.Config, error) {
	path := flagPath
	if path == "" && appCfg != nil {
		path = appCfg.DefaultPolicyPath
	}
	if path == "" {
		return nil, nil
	}
	cfg, err := policy.LoadPolicy(path)
	if err != nil {
		return nil, fmt.Errorf("load policy %q: %w", path, err)
	}
	return cfg, nil
}

func newScanCmd() *cobra.Command {
	var (
		policyPath string
		reportFmt  string
		summary    bool
		outputPath string
		colored    bool
	)

	cmd := &cobra.Command{
		Use:          "scan <template>",
		Short:        "Scan a template for security best-practice violations",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := config.NewDefaultLoader().Load()
			if err != nil {
				return fmt.Errorf("load app config: %w", err)
			}
			policyCfg, err := resolvePolicy(policyPath, appCfg)
			if err != nil {
				return err
			}
			if reportFmt == "" {
				reportFmt = appCfg.Output.Format
			}
			if reportFmt == "" {
				reportFmt = string(engine.ReportFormatTable)
			}

			eng := engine.NewDefaultEngine(defaultRegistry(), policyCfg)
			report, err := eng.RunScan(cmd.Context(), engine.ScanOptions{
				TemplatePath: args[0],
				ReportFormat: engine.ReportFormat(reportFmt),
			})
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if outputPath != "" {
				if err := writeReportToFile(outputPath, report); err != nil {
					return err
				}
			}

			switch {
			case summary:
				printSummary(os.Stdout, report)
			case reportFmt == string(engine.ReportFormatJSON):
				if err := printJSON(report); err != nil {
					return err
				}
			default:
				output.RenderTable(os.Stdout, report.Findings, output.TableOptions{
					Colored: colored || appCfg.Output.Colored,
				})
			}

			if policy.ShouldFail(report.Findings, policyCfg) {
				return fmt.Errorf("policy enforcement: findings at or above %s severity present",
					strings.ToUpper(policyCfg.Enforcement.FailOnSeverity))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&policyPath, "policy", "", "Policy file path (default: app config default_policy_path)")
	cmd.Flags().StringVar(&reportFmt, "report", "", "Output format: json or table (default: table)")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print compact summary: totals, severity breakdown, per-rule counts")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write full JSON report to this file path (in addition to stdout output)")
	cmd.Flags().BoolVar(&colored, "color", false, "Colour severity labels in table output")

	return cmd
}

func newRulesCmd() *cobra.Command {
	var policyPath string

	cmd := &cobra.Command{
		Use:          "rules",
		Short:        "List the compliance rule catalogue and its enabled state",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			policyCfg, err := resolvePolicy(policyPath, nil)
			if err != nil {
				return err
			}
			registry := defaultRegistry()
			ruleset := policy.NewRuleset(policyCfg, registry.RuleIDs())

			fmt.Fprintf(os.Stdout, "%-14s  %-8s  %s\n", "RULE", "STATE", "NAME")
			fmt.Fprintln(os.Stdout, strings.Repeat("-", 64))
			for _, rule := range registry.All() {
				state := "enabled"
				if !ruleset.Enabled(rule.ID()) {
					state = "disabled"
				}
				fmt.Fprintf(os.Stdout, "%-14s  %-8s  %s\n", rule.ID(), state, rule.Name())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&policyPath, "policy", "", "Policy file path to resolve enabled state against")
	return cmd
}

func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Policy file commands",
	}
	cmd.AddCommand(newPolicyValidateCmd())
	return cmd
}

func newPolicyValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "validate <policy-file>",
		Short:        "Validate a policy file against the rule catalogue",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := policy.LoadPolicy(args[0])
			if err != nil {
				return fmt.Errorf("load policy %q: %w", args[0], err)
			}
			errs := policy.Validate(cfg, defaultRegistry().RuleIDs())
			if len(errs) == 0 {
				fmt.Fprintln(os.Stdout, "Policy is valid.")
				return nil
			}
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, " -", e)
			}
			return fmt.Errorf("policy has %d validation error(s)", len(errs))
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(os.Stdout, version.Info())
		},
	}
}

// printJSON writes the report as indented JSON to stdout.
func printJSON(report *models.ScanReport) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// writeReportToFile serialises report as indented JSON and writes it to path,
// creating or overwriting the file. It does not affect stdout output.
func writeReportToFile(path string, report *models.ScanReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	return nil
}

// printSummary renders a compact summary view to w:
//   - Template header and resource count
//   - Total findings and per-severity counts
//   - Per-rule finding counts, ordered by count descending
//
// It reuses the already-computed ScanReport; no engine logic is duplicated.
func printSummary(w io.Writer, report *models.ScanReport) {
	s := report.Summary

	fmt.Fprintf(w, "Template:   %s\n", report.Template)
	fmt.Fprintf(w, "Resources:  %d\n", s.ResourcesScanned)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Findings:  %d\n", s.TotalFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "ERROR", s.ErrorFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "WARNING", s.WarningFindings)

	counts := findingCountsByRule(report.Findings)
	if len(counts) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Findings by Rule")
	fmt.Fprintf(w, "  %-14s  %s\n", "RULE", "COUNT")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 22))
	for _, rc := range counts {
		fmt.Fprintf(w, "  %-14s  %d\n", rc.ruleID, rc.count)
	}
}

type ruleCount struct {
	ruleID string
	count  int
}

// findingCountsByRule aggregates findings per rule ID, ordered by count
// descending, then rule ID for stability.
func findingCountsByRule(findings []models.Finding) []ruleCount {
	byRule := make(map[string]int)
	for _, f := range findings {
		byRule[f.RuleID]++
	}
	out := make([]ruleCount, 0, len(byRule))
	for id, n := range byRule {
		out = append(out, ruleCount{ruleID: id, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].ruleID < out[j].ruleID
	})
	return out
}
