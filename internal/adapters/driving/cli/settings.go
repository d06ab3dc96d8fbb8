package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

var errNoSettings = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the language model, scoring thresholds and
evaluation policies.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the language model provider",
	Long: `Configure the language model used to judge relevance.

Ollama runs locally and needs no API key. Cloud providers read their key
from the prompt, or from OPENAI_API_KEY, ANTHROPIC_API_KEY or
GOOGLE_API_KEY when the prompt is left empty.`,
	RunE: runSettingsLLM,
}

var settingsThresholdsCmd = &cobra.Command{
	Use:   "thresholds <read> [skim]",
	Short: "Set the READ and SKIM score thresholds",
	Long: `Set the minimum scores for READ and SKIM verdicts.

Scores at or above <read> are READ. Scores at or above [skim] are SKIM.
A skim threshold of 0 (the default) turns the SKIM tier off.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsThresholds,
}

var settingsPolicyCmd = &cobra.Command{
	Use:   "policy <page|video> <fallback|model_only>",
	Short: "Set what happens when the language model is unavailable",
	Long: `Set the evaluation policy for a content kind.

Available policies:
  fallback   - score with the keyword heuristic alone
  model_only - skip evaluation until the model is back`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsPolicy,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsThresholdsCmd)
	settingsCmd.AddCommand(settingsPolicyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Printf("  Timeout: %s\n", settings.LLM.Timeout())
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured (pages use the keyword heuristic)"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Scoring]")
	cmd.Printf("  READ at: %d\n", settings.Scoring.Thresholds.Read)
	if settings.Scoring.Thresholds.Skim > 0 {
		cmd.Printf("  SKIM at: %d\n", settings.Scoring.Thresholds.Skim)
	} else {
		cmd.Printf("  SKIM at: (off)\n")
	}
	cmd.Printf("  Pages: %s\n", settings.Scoring.PagePolicy.Description())
	cmd.Printf("  Videos: %s\n", settings.Scoring.VideoPolicy.Description())
	cmd.Println()

	cmd.Println("[Scan]")
	cmd.Printf("  Blur below: %d\n", settings.Scan.BlurThreshold)
	cmd.Printf("  Budget: %d per pass\n", settings.Scan.Budget)
	if listing != nil {
		cmd.Printf("  Snapshot: %s\n", listing.Path())
	}
	cmd.Println()

	cmd.Println("[Session]")
	cmd.Printf("  Default length: %d minutes\n", settings.Session.DefaultMinutes)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'focuscoach settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	cmd.Println("FocusCoach Settings Wizard")
	cmd.Println("==========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Configure Language Model")
	cmd.Println("--------------------------------")
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Scoring Thresholds")
	cmd.Println("--------------------------")
	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	thresholds := current.Scoring.Thresholds
	cmd.Printf("READ threshold [%d]: ", thresholds.Read)
	read := parseScore(readLine(reader), thresholds.Read)
	cmd.Printf("SKIM threshold, 0 for off [%d]: ", thresholds.Skim)
	skim := parseScore(readLine(reader), thresholds.Skim)
	if err := settingsService.SetThresholds(read, skim); err != nil {
		return fmt.Errorf("failed to set thresholds: %w", err)
	}
	cmd.Println()

	cmd.Println("Step 3: When the model is unavailable")
	cmd.Println("-------------------------------------")
	for _, kind := range []domain.ContentKind{domain.ContentKindPage, domain.ContentKindVideo} {
		policy, err := choosePolicy(cmd, reader, kind, current.Scoring.Policy(kind))
		if err != nil {
			return err
		}
		if err := settingsService.SetPolicy(kind, policy); err != nil {
			return fmt.Errorf("failed to set %s policy: %w", kind, err)
		}
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runSettingsThresholds(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	read, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: read threshold %q", domain.ErrInvalidInput, args[0])
	}
	skim := 0
	if len(args) == 2 {
		skim, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: skim threshold %q", domain.ErrInvalidInput, args[1])
		}
	}

	if err := settingsService.SetThresholds(read, skim); err != nil {
		return fmt.Errorf("failed to set thresholds: %w", err)
	}
	if skim > 0 {
		cmd.Printf("Thresholds set: READ at %d, SKIM at %d\n", read, skim)
	} else {
		cmd.Printf("Thresholds set: READ at %d, SKIM off\n", read)
	}
	return nil
}

func runSettingsPolicy(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	kind := domain.ContentKind(strings.ToLower(args[0]))
	if kind != domain.ContentKindPage && kind != domain.ContentKindVideo {
		return fmt.Errorf("%w: content kind %q (want page or video)", domain.ErrInvalidInput, args[0])
	}
	policy := domain.EvaluationPolicy(strings.ToLower(args[1]))
	if !policy.IsValid() {
		return fmt.Errorf("%w: policy %q (want fallback or model_only)", domain.ErrInvalidInput, args[1])
	}

	if err := settingsService.SetPolicy(kind, policy); err != nil {
		return fmt.Errorf("failed to set policy: %w", err)
	}
	cmd.Printf("%s policy set to: %s\n", kind, policy.Description())
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// An empty key is allowed; the provider's environment variable is used.
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Printf("Enter API key (empty to use $%s): ", selectedProvider.APIKeyEnv())
		apiKey = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		cmd.Println("Pages will be scored by the keyword heuristic until the model is reachable.")
		cmd.Println()
		return nil
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

func choosePolicy(
	cmd *cobra.Command, reader *bufio.Reader, kind domain.ContentKind, current domain.EvaluationPolicy,
) (domain.EvaluationPolicy, error) {
	policies := domain.AllPolicies()
	defaultIdx := 1
	cmd.Printf("Policy for %s:\n", kind)
	for i, p := range policies {
		if p == current {
			defaultIdx = i + 1
		}
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Printf("Enter choice [%d]: ", defaultIdx)
	idx := parseChoice(readLine(reader), len(policies), defaultIdx)
	if idx < 1 {
		return "", errors.New("invalid selection")
	}
	return policies[idx-1], nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// parseScore reads a score in [0,100], keeping defaultVal otherwise.
func parseScore(input string, defaultVal int) int {
	val, err := strconv.Atoi(input)
	if err != nil || val < 0 || val > 100 {
		return defaultVal
	}
	return val
}

func readPassword(reader *bufio.Reader) string {
	// Try to read without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
