package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dosada05/bracket-builder/export"
	"github.com/Dosada05/bracket-builder/middleware"
	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/services"
	"github.com/Dosada05/bracket-builder/utils"
)

func (c *cli) importCmd() *cobra.Command {
	var pageURL, csvPath, title string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a registration list from a page or a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (pageURL == "") == (csvPath == "") {
				return fmt.Errorf("exactly one of --url or --csv is required")
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}

			var event *models.Event
			if pageURL != "" {
				event, err = a.Imports.ImportFromURL(cmd.Context(), pageURL, title)
			} else {
				f, openErr := os.Open(csvPath)
				if openErr != nil {
					return openErr
				}
				defer f.Close()
				event, err = a.Imports.ImportFromCSV(cmd.Context(), title, f)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d competitors\n", event.ID, event.Title, event.CompetitorCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "registration page to scrape")
	cmd.Flags().StringVar(&csvPath, "csv", "", "roster CSV file")
	cmd.Flags().StringVar(&title, "title", "", "event title (defaults to the page title)")
	return cmd
}

func (c *cli) eventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List imported events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			events, err := a.Imports.ListEvents(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCOMPETITORS\tIMPORTED")
			for _, e := range events {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", e.ID, e.Title, e.CompetitorCount, e.CreatedAt.Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func (c *cli) categoriesCmd() *cobra.Command {
	var eventID int
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the populated categories of an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			categories, err := a.Categories.Categories(cmd.Context(), eventID)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, cat := range categories {
				fmt.Fprintf(tw, "%s\t%d\n", cat.Label, cat.CompetitorCount)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&eventID, "event", 0, "event id")
	cmd.MarkFlagRequired("event")
	return cmd
}

// selectionFlags registers the category flags shared by bracket and publish.
func selectionFlags(cmd *cobra.Command, sel *models.Selection, policy *string) {
	cmd.Flags().StringVar(&sel.Gender, "gender", "", "gender, e.g. MASCULINO")
	cmd.Flags().StringVar(&sel.Belt, "belt", "", "belt, e.g. AZUL")
	cmd.Flags().StringVar(&sel.AgeDivision, "age", "", "age division, e.g. ADULTO")
	cmd.Flags().StringVar(&sel.WeightDivision, "weight", "", "weight division, e.g. LEVE")
	cmd.Flags().StringVar(policy, "policy", "", "seeding policy: insertion or team-spread (default $SEEDING_POLICY)")
}

func (c *cli) seedingPolicy(flag string) models.SeedingPolicy {
	if flag != "" {
		return models.SeedingPolicy(flag)
	}
	return c.cfg.SeedingPolicy
}

func (c *cli) bracketCmd() *cobra.Command {
	var (
		eventID           int
		sel               models.Selection
		policy            string
		format, lang, out string
	)
	cmd := &cobra.Command{
		Use:   "bracket",
		Short: "Generate the bracket of one category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := services.ParseExportFormat(format)
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			event, err := a.Imports.GetEvent(cmd.Context(), eventID)
			if err != nil {
				return err
			}
			b, err := a.Brackets.Generate(cmd.Context(), eventID, utils.NormalizeSelection(sel), c.seedingPolicy(policy))
			if err != nil {
				return err
			}

			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			opts := export.RenderOptions{Title: event.Title, Locale: export.MatchLocale(lang)}
			if err := services.RenderBracket(w, b, f, opts); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}
	cmd.Flags().IntVar(&eventID, "event", 0, "event id")
	selectionFlags(cmd, &sel, &policy)
	cmd.Flags().StringVar(&format, "format", string(services.FormatText), "output format: text, html, csv or json")
	cmd.Flags().StringVar(&lang, "lang", "", "locale of round names: en or pt-BR")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")
	cmd.MarkFlagRequired("event")
	return cmd
}

func (c *cli) publishCmd() *cobra.Command {
	var (
		eventID      int
		sel          models.Selection
		policy       string
		format, lang string
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Render a bracket and upload it to the export bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := services.ParseExportFormat(format)
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.Publisher.Publish(cmd.Context(), services.PublishRequest{
				EventID:   eventID,
				Selection: utils.NormalizeSelection(sel),
				Policy:    c.seedingPolicy(policy),
				Format:    f,
				Locale:    export.MatchLocale(lang),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.URL)
			return nil
		},
	}
	cmd.Flags().IntVar(&eventID, "event", 0, "event id")
	selectionFlags(cmd, &sel, &policy)
	cmd.Flags().StringVar(&format, "format", string(services.FormatHTML), "upload format: html or csv")
	cmd.Flags().StringVar(&lang, "lang", "", "locale of round names: en or pt-BR")
	cmd.MarkFlagRequired("event")
	return cmd
}

func (c *cli) rosterCmd() *cobra.Command {
	var (
		eventID int
		out     string
	)
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Export the roster of an event as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := a.Imports.ExportRoster(cmd.Context(), eventID, w); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}
	cmd.Flags().IntVar(&eventID, "event", 0, "event id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")
	cmd.MarkFlagRequired("event")
	return cmd
}

func (c *cli) dashboardCmd() *cobra.Command {
	var eventID int
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print registration statistics of an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := a.Dashboards.GetStats(cmd.Context(), eventID)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Competitors\t%d\n", stats.CompetitorsTotal)
			fmt.Fprintf(tw, "Teams\t%d\n", stats.TeamsTotal)
			fmt.Fprintf(tw, "Male\t%d\n", stats.Male)
			fmt.Fprintf(tw, "Female\t%d\n", stats.Female)
			sections := []struct {
				title   string
				entries []models.CountEntry
			}{
				{"Age groups", stats.AgeGroups},
				{"Age divisions", stats.AgeDivisions},
				{"Belts", stats.Belts},
				{"Weight divisions", stats.WeightDivisions},
				{"Top teams", stats.TopTeams},
				{"Top professors", stats.TopProfessors},
			}
			for _, s := range sections {
				fmt.Fprintf(tw, "\n%s\t\n", s.title)
				for _, e := range s.entries {
					fmt.Fprintf(tw, "  %s\t%d\n", e.Key, e.Count)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&eventID, "event", 0, "event id")
	cmd.MarkFlagRequired("event")
	return cmd
}

func (c *cli) tokenCmd() *cobra.Command {
	var (
		subject, role string
		ttl           time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.JWTSecretKey == "" {
				return fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
			}
			if role != middleware.RoleOrganizer && role != middleware.RoleAdmin {
				return fmt.Errorf("role must be %s or %s, got %q", middleware.RoleOrganizer, middleware.RoleAdmin, role)
			}
			token, err := middleware.IssueToken(c.cfg.JWTSecretKey, subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject, e.g. the organizer's e-mail")
	cmd.Flags().StringVar(&role, "role", middleware.RoleOrganizer, "organizer or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.MarkFlagRequired("subject")
	return cmd
}
