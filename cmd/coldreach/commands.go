package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/coldreach/internal/config"
	"github.com/kalambet/coldreach/internal/pipeline"
	"github.com/kalambet/coldreach/internal/profile"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProfileLine(w io.Writer, p profile.Profile) {
	fmt.Fprintf(w, "%s  %s, %s at %s %s\n",
		render(stepStyle, p.ID), p.Name, p.Role, p.Company, render(dimStyle, "("+p.Industry+")"))
}

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [identifier]",
	Short: "Analyze a profile and show the derived insights",
	Long: `Analyze a profile and show the derived insights.

Examples:
  coldreach analyze john_doe
  coldreach analyze https://github.com/octocat
  coldreach analyze --pdf ./resume.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfPath, _ := cmd.Flags().GetString("pdf")
		asJSON, _ := cmd.Flags().GetBool("json")
		if pdfPath == "" && len(args) == 0 {
			return fmt.Errorf("an identifier or --pdf is required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var a pipeline.Analysis
		if pdfPath != "" {
			f, err := os.Open(pdfPath)
			if err != nil {
				return fmt.Errorf("opening pdf: %w", err)
			}
			defer f.Close()
			resp, err := client.postRaw(cmd.Context(), "/api/analyze-pdf", "application/pdf", f)
			if err != nil {
				return err
			}
			if err := decodeJSON(resp, &a); err != nil {
				return err
			}
		} else {
			resp, err := client.post(cmd.Context(), "/api/analyze-profile", map[string]string{"identifier": args[0]})
			if err != nil {
				return err
			}
			if err := decodeJSON(resp, &a); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, a)
		}
		p, in := a.Profile, a.Insights
		fmt.Fprintln(out, render(labelStyle, p.Name))
		fmt.Fprintf(out, "  %s at %s (%s, %s)\n", p.Role, p.Company, p.Industry, p.Seniority)
		fmt.Fprintf(out, "  Style: %s  Formality: %.2f  Emoji: %s\n", p.Style, in.FormalityScore, in.EmojiUsage)
		if len(p.Skills) > 0 {
			fmt.Fprintf(out, "  Skills: %s\n", strings.Join(p.Skills, ", "))
		}
		if len(p.Interests) > 0 {
			fmt.Fprintf(out, "  Interests: %s\n", strings.Join(p.Interests, ", "))
		}
		if len(in.PainPoints) > 0 {
			fmt.Fprintf(out, "  Pain points: %s\n", strings.Join(in.PainPoints, ", "))
		}
		channels := make([]string, len(in.Channels))
		for i, ch := range in.Channels {
			channels[i] = string(ch)
		}
		fmt.Fprintf(out, "  Best channels: %s\n", strings.Join(channels, ", "))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("pdf", "", "analyze a PDF resume or profile export")
	analyzeCmd.Flags().Bool("json", false, "print the raw JSON response")
}

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate <identifier>",
	Short: "Generate outreach messages for a profile",
	Long: `Generate outreach messages for a profile.

Examples:
  coldreach generate john_doe
  coldreach generate sarah_sharma --channel email --channel linkedin_dm --tone casual
  coldreach generate https://github.com/octocat --context "We build CI tooling"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channels, _ := cmd.Flags().GetStringSlice("channel")
		tone, _ := cmd.Flags().GetString("tone")
		extra, _ := cmd.Flags().GetString("context")
		asJSON, _ := cmd.Flags().GetBool("json")

		if _, err := profile.ParseChannels(channels); err != nil {
			return err
		}
		if tone != "" {
			if _, err := profile.ParseStyle(tone); err != nil {
				return err
			}
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		printStep("Generating outreach for %s...", args[0])
		resp, err := client.post(cmd.Context(), "/api/generate-outreach", map[string]any{
			"identifier":         args[0],
			"channels":           channels,
			"tone":               tone,
			"additional_context": extra,
		})
		if err != nil {
			return err
		}

		var out pipeline.Outcome
		if err := decodeJSON(resp, &out); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if asJSON {
			return printJSON(w, out)
		}
		for _, m := range out.Messages {
			fmt.Fprintf(w, "\n%s  %s\n", render(labelStyle, strings.ToUpper(string(m.Channel))),
				render(dimStyle, fmt.Sprintf("tone %s, est. reply rate %.0f%%", m.Tone, m.ReplyRate*100)))
			if m.Subject != "" {
				fmt.Fprintf(w, "Subject: %s\n", m.Subject)
			}
			fmt.Fprintf(w, "%s\n", m.Content)
			fmt.Fprintf(w, "CTA: %s\n", m.CTA)
		}
		for _, f := range out.Failures {
			printWarning("%s: %s", f.Channel, f.Reason)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringSlice("channel", nil, "channel to generate for (repeatable): email, linkedin_dm, whatsapp, sms, instagram_dm")
	generateCmd.Flags().String("tone", "", "override tone: formal, casual, mixed")
	generateCmd.Flags().String("context", "", "additional context about the sender or offer")
	generateCmd.Flags().Bool("json", false, "print the raw JSON response")
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored profiles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")
		semantic, _ := cmd.Flags().GetBool("semantic")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if semantic {
			resp, err := client.get(cmd.Context(), fmt.Sprintf("/api/profiles/semantic?q=%s&limit=%d", url.QueryEscape(query), limit))
			if err != nil {
				return err
			}
			var result struct {
				Matches []pipeline.SemanticMatch `json:"matches"`
			}
			if err := decodeJSON(resp, &result); err != nil {
				return err
			}
			if len(result.Matches) == 0 {
				fmt.Fprintln(w, "No results found.")
				return nil
			}
			for _, m := range result.Matches {
				fmt.Fprintf(w, "[%.3f] ", m.Score)
				printProfileLine(w, m.Profile)
			}
			return nil
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/api/profiles/search?q=%s&limit=%d", url.QueryEscape(query), limit))
		if err != nil {
			return err
		}
		var result struct {
			Profiles []profile.Profile `json:"profiles"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		if len(result.Profiles) == 0 {
			fmt.Fprintln(w, "No results found.")
			return nil
		}
		for _, p := range result.Profiles {
			printProfileLine(w, p)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("limit", 20, "maximum number of results")
	searchCmd.Flags().Bool("semantic", false, "rank by meaning instead of matching text")
}

// --- similar ---

var similarCmd = &cobra.Command{
	Use:   "similar <profile-id>",
	Short: "List stored profiles similar to a stored profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), fmt.Sprintf("/api/profiles/%s/similar?limit=%d", url.PathEscape(args[0]), limit))
		if err != nil {
			return err
		}
		var result struct {
			Similar []profile.Profile `json:"similar_profiles"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(result.Similar) == 0 {
			fmt.Fprintln(w, "No similar profiles found.")
			return nil
		}
		for _, p := range result.Similar {
			printProfileLine(w, p)
		}
		return nil
	},
}

func init() {
	similarCmd.Flags().Int("limit", 5, "maximum number of results")
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/api/stats")
		if err != nil {
			return err
		}
		var st pipeline.Stats
		if err := decodeJSON(resp, &st); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if asJSON {
			return printJSON(w, st)
		}
		fmt.Fprintf(w, "Profiles:      %d (%d indexed)\n", st.Profiles, st.IndexedProfiles)
		fmt.Fprintf(w, "Messages:      %d\n", st.Messages)
		fmt.Fprintf(w, "Interactions:  %d\n", st.Interactions)
		fmt.Fprintf(w, "Avg reply est: %.1f%%\n", st.AvgReplyRate*100)
		for industry, n := range st.ByIndustry {
			fmt.Fprintf(w, "  %-20s %d\n", industry, n)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "print the raw JSON response")
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored profiles as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("out")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/api/profiles/export")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return decodeJSON(resp, nil)
		}

		w := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			w = f
		}
		if _, err := io.Copy(w, resp.Body); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		if output != "" {
			printSuccess("Profiles exported to %s", output)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "", "output file path (default: stdout)")
}

// --- demo ---

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "List the built-in demo profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/api/demo-profiles")
		if err != nil {
			return err
		}
		var result struct {
			Profiles []profile.Profile `json:"profiles"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		for _, p := range result.Profiles {
			printProfileLine(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s %s\n", render(labelStyle, k.Key), k.Value, render(dimStyle, "("+k.EnvVar+")"))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.SetKey(key, value); err != nil {
			return err
		}
		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
