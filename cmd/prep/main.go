package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/h0rv/prep/internal/api"
	"github.com/h0rv/prep/internal/config"
	"github.com/h0rv/prep/internal/coord"
	"github.com/h0rv/prep/internal/domain"
	"github.com/h0rv/prep/internal/logging"
	"github.com/h0rv/prep/internal/notify"
	"github.com/h0rv/prep/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	errBackendDown = errors.New("backend unreachable")
	errSyncFailed  = errors.New("some panels failed to load")
)

var (
	// CLI flags
	configFlag  string
	baseURLFlag string
	pageFlag    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "prep",
		Short: "Terminal dashboard for interview preparation",
		Long: `prep is a terminal dashboard for an interview-prep backend.

Tabs for the overview, the problem set, interview questions, resumes and
analytics. Every tab fetches its panels from the backend when opened.

Configuration:
  1. --config or PREP_CONFIG_PATH: YAML file
  2. PREP_BASE_URL, PREP_LOG_LEVEL, PREP_LOG_FILE
  3. --base-url and --page flags`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to a YAML config file.")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Backend origin, e.g. http://localhost:8000.")
	rootCmd.Flags().StringVar(&pageFlag, "page", "", "Tab to open first: dashboard, problems, interview, resumes or analytics.")

	rootCmd.AddCommand(statusCmd(), syncCmd())

	if err := rootCmd.Execute(); err != nil {
		// status and sync already printed their result
		if !errors.Is(err, errBackendDown) && !errors.Is(err, errSyncFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and builds the logger
// and coordinator shared by every command.
func setup() (config.Config, *zap.Logger, *coord.Coordinator, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if baseURLFlag != "" {
		cfg.API.BaseURL = baseURLFlag
	}
	if pageFlag != "" {
		cfg.UI.StartPage = pageFlag
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	client := api.New(cfg.API, logger)
	return cfg, logger, coord.New(client, logger), nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, logger, c, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if _, ok := coord.LookupPage(coord.PageID(cfg.UI.StartPage)); !ok {
		return fmt.Errorf("unknown page %q", cfg.UI.StartPage)
	}

	center := notify.New(cfg.UI.ToastTTL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("starting dashboard",
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("page", cfg.UI.StartPage))

	app := tui.NewAppModel(ctx, c, center, cfg.UI, cfg.API.BaseURL, logger)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, c, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.API.RequestTimeout)
			defer cancel()

			start := time.Now()
			out := c.Health(ctx)
			elapsed := time.Since(start).Round(time.Millisecond)

			if !out.OK() {
				color.Red("● %s unreachable: %s", cfg.API.BaseURL, out.Message())
				return errBackendDown
			}
			color.Green("● %s ok (%s)", cfg.API.BaseURL, elapsed)
			return nil
		},
	}
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [page]",
		Short: "Fetch every panel of a page once and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, c, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ids := make([]coord.PageID, 0, len(coord.Pages()))
			if len(args) == 1 {
				ids = append(ids, coord.PageID(args[0]))
			} else {
				for _, p := range coord.Pages() {
					ids = append(ids, p.ID)
				}
			}

			failed := false
			for _, id := range ids {
				page, ok := coord.LookupPage(id)
				if !ok {
					return fmt.Errorf("unknown page %q", id)
				}
				states, err := c.Sync(cmd.Context(), id)
				if err != nil {
					return err
				}
				color.New(color.Bold).Printf("%s (%s)\n", page.Title, page.ID)
				for _, res := range page.Resources {
					if !printPanel(c, res, states[res]) {
						failed = true
					}
				}
			}
			if failed {
				return errSyncFailed
			}
			return nil
		},
	}
}

func printPanel(c *coord.Coordinator, res domain.ResourceID, st coord.PanelState) bool {
	title := string(res)
	if spec, ok := coord.Resource(res); ok {
		title = spec.Title
	}

	switch st.Status {
	case coord.PanelLoaded:
		fmt.Printf("  %s %-12s %d\n", color.GreenString("✓"), title, c.Store().Len(res))
		return true
	case coord.PanelFailed:
		reason := st.Class.String()
		if st.Code != 0 {
			reason = fmt.Sprintf("%s %d", reason, st.Code)
		}
		fmt.Printf("  %s %-12s %s\n", color.RedString("✗"), title, reason)
		return false
	default:
		fmt.Printf("  %s %-12s %s\n", color.YellowString("?"), title, st.Status)
		return false
	}
}
