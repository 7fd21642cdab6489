package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"formai/internal/bootstrap"
	sessiondto "formai/internal/modules/session/dto"
	"formai/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var stateDir string

	root := &cobra.Command{
		Use:           "formai",
		Short:         "AI sports coaching client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&stateDir, "state-dir", defaultStateDir(), "local state directory")

	root.AddCommand(newTUICmd(&stateDir))
	root.AddCommand(newLoginCmd(&stateDir))
	root.AddCommand(newRegisterCmd(&stateDir))
	root.AddCommand(newLogoutCmd(&stateDir))
	root.AddCommand(newOnboardCmd(&stateDir))
	root.AddCommand(newSwitchSportCmd(&stateDir))
	root.AddCommand(newStatusCmd(&stateDir))
	root.AddCommand(newAnalyzeCmd(&stateDir))
	root.AddCommand(newHistoryCmd(&stateDir))
	return root
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".formai"
	}
	return filepath.Join(home, ".formai")
}

func loadApp(stateDir string) (*bootstrap.App, error) {
	cfg, err := config.New(stateDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the FormAi terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*stateDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newLoginCmd(stateDir *string) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*stateDir)
			if err != nil {
				return err
			}
			snap, err := app.SessionCLI.Login(context.Background(), username, password)
			if err != nil {
				return err
			}
			printSnapshot(cmd, snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(stateDir *string) *cobra.Command {
	var input sessiondto.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*stateDir)
			if err != nil {
				return err
			}
			snap, err := app.SessionCLI.Register(context.Background(), input)
			if err != nil {
				return err
			}
			printSnapshot(cmd, snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Username, "username", "", "account username")
	cmd.Flags().StringVar(&input.Password, "password", "", "account password")
	cmd.Flags().StringVar(&input.Email, "email", "", "email address")
	cmd.Flags().StringVar(&input.FullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&input.SportID, "sport", "", "initial sport: table_tennis|cricket")
	cmd.Flags().StringVar(&input.SkillLevel, "skill", "Beginner", "skill level: Beginner|Intermediate|Advanced|Pro")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the remembered identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*stateDir)
			if err != nil {
				return err
			}
			if _, err := app.SessionCLI.Resume(context.Background()); err != nil {
				return err
			}
			if _, err := app.SessionCLI.Logout(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newOnboardCmd(stateDir *string) *cobra.Command {
	var skill string
	cmd := &cobra.Command{
		Use:   "onboard <sport_id>",
		Short: "Pick a sport and skill level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*stateDir)
			if err != nil {
				return err
			}
			if _, err := app.SessionCLI.Resume(context.Background()); err != nil {
				return err
			}
			snap, err := app.SessionCLI.Onboard(context.Background(), args[0], skill)
			if err != nil {
				return err
			}
			printSnapshot(cmd, snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&skill, "skill", "Beginner", "skill level: Beginner|Intermediate|Advanced|Pro")
	return cmd
}

func newSwitchSportCmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "switch-sport <sport_id>",
		Short: "Switch the active sport, keeping the skill tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*stateDir)
			if err != nil {
				return err
			}
			if _, err := app.SessionCLI.Resume(context.Background()); err != nil {
				return err
			}
			snap, err := app.SessionCLI.SwitchSport(context.Background(), args[0])
			if err != nil {
				return err
			}
			printSnapshot(cmd, snap)
			return nil
		},
	}
}

func newStatusCmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*stateDir)
			if err != nil {
				return err
			}
			snap, err := app.SessionCLI.Resume(context.Background())
			if err != nil {
				return err
			}
			printSnapshot(cmd, snap)
			return nil
		},
	}
}

func newAnalyzeCmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <clip>",
		Short: "Upload a saved video for deep analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*stateDir)
			if err != nil {
				return err
			}
			snap, err := app.SessionCLI.Resume(context.Background())
			if err != nil {
				return err
			}
			result, err := app.CaptureCLI.AnalyzeFile(context.Background(), snap.UserID, snap.Sport.SportID, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "score: %s\n", result.ScoreDisplay)
			_, _ = fmt.Fprintf(out, "summary: %s\n", result.Summary)
			for _, flaw := range result.DetailedFlaws {
				_, _ = fmt.Fprintf(out, "  - %s\n", flaw)
			}
			if result.EquipmentAdvice != "" {
				_, _ = fmt.Fprintf(out, "equipment: %s\n", result.EquipmentAdvice)
			}
			return nil
		},
	}
}

func newHistoryCmd(stateDir *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analyses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*stateDir)
			if err != nil {
				return err
			}
			items, err := app.CaptureCLI.History(context.Background(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				_, _ = fmt.Fprintln(out, "no analyses yet")
				return nil
			}
			for _, item := range items {
				_, _ = fmt.Fprintf(out, "%s  %-12s %-8s %s\n",
					item.CreatedAt.Format("2006-01-02 15:04"), item.SportID, item.ScoreDisplay, item.Summary)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "max results")
	return cmd
}

func printSnapshot(cmd *cobra.Command, snap sessiondto.SnapshotOutput) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "state: %s\n", snap.Nav)
	if snap.UserID == "" {
		return
	}
	_, _ = fmt.Fprintf(out, "user: %s (%s)\n", snap.Profile.FullName, snap.Profile.Username)
	if snap.Onboarded {
		_, _ = fmt.Fprintf(out, "sport: %s [%s]\n", snap.Sport.DisplayName, snap.Sport.SkillLevel)
		_, _ = fmt.Fprintf(out, "stats: tier=%s points=%d accuracy=%.1f%%\n",
			snap.Stats.Tier, snap.Stats.Points, snap.Stats.AccuracyPercent)
	}
	if snap.ReloadFailed {
		_, _ = fmt.Fprintln(out, "warning: could not reach the backend; profile data unavailable")
	}
}
