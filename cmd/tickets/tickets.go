package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/baiirun/tickets/internal/model"
	"github.com/baiirun/tickets/internal/query"
)

// fieldFlags binds the ticket field flags shared by add and update.
type fieldFlags struct {
	title        string
	category     string
	link         string
	leadComment  string
	actionPlan   string
	otherDetails string
}

func (ff *fieldFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&ff.title, "title", "t", "", "ticket title (must not be a URL)")
	fs.StringVarP(&ff.category, "category", "c", "", "category: Approvals, Billing, Cancellations or Deliverability")
	fs.StringVarP(&ff.link, "link", "l", "", "ticket link (absolute URL)")
	fs.StringVar(&ff.leadComment, "lead-comment", "", "lead's comment")
	fs.StringVar(&ff.actionPlan, "action-plan", "", "action plan (empty means pending)")
	fs.StringVar(&ff.otherDetails, "details", "", "other details")
}

func (ff *fieldFlags) fields() model.Fields {
	return model.Fields{
		Title:        ff.title,
		Category:     model.Category(ff.category),
		Link:         ff.link,
		LeadComment:  ff.leadComment,
		ActionPlan:   ff.actionPlan,
		OtherDetails: ff.otherDetails,
	}
}

// mergeInto overlays only the flags the user set onto base.
func (ff *fieldFlags) mergeInto(fs *pflag.FlagSet, base model.Fields) model.Fields {
	if fs.Changed("title") {
		base.Title = ff.title
	}
	if fs.Changed("category") {
		base.Category = model.Category(ff.category)
	}
	if fs.Changed("link") {
		base.Link = ff.link
	}
	if fs.Changed("lead-comment") {
		base.LeadComment = ff.leadComment
	}
	if fs.Changed("action-plan") {
		base.ActionPlan = ff.actionPlan
	}
	if fs.Changed("details") {
		base.OtherDetails = ff.otherDetails
	}
	return base
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ticket id %q", s)
	}
	return id, nil
}

func newAddCmd(a *app) *cobra.Command {
	ff := &fieldFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new ticket",
		Example: `  tickets add -t "Fix outage" -c Billing -l https://example.com/t/1
  tickets add -t "Refund" -c Cancellations -l https://example.com/t/2 --action-plan "Refund in full"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.tracker.CreateTicket(ff.fields())
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), toTicketJSON(*t))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ticket saved successfully at %s! (#%d)\n",
				t.CreatedAt.Local().Format("2006-01-02 15:04:05"), t.ID)
			return nil
		},
	}
	ff.register(cmd.Flags())
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	ff := &fieldFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a ticket",
		Long: `Edit a ticket. Fields whose flags are not given keep their current value;
passing a flag with an empty value clears that field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var base model.Fields
			if id > 0 {
				current, err := a.tracker.GetTicket(id)
				if err != nil {
					return err
				}
				base = current.Fields
			}

			if err := a.tracker.UpdateTicket(id, ff.mergeInto(cmd.Flags(), base)); err != nil {
				return err
			}
			if a.json {
				updated, err := a.tracker.GetTicket(id)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), toTicketJSON(*updated))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Ticket updated successfully!")
			return nil
		},
	}
	ff.register(cmd.Flags())
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show ticket details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.tracker.GetTicket(id)
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), toTicketJSON(*t))
			}
			printTicketDetail(cmd.OutOrStdout(), *t)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		page     int
		search   string
		category string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tickets, newest first",
		Long: `List tickets, newest first. --search matches title or category
(case-insensitive); --category keeps one category only. Page numbers past the
last page show the last page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if category != "" && !model.Category(category).IsValid() {
				return model.ErrInvalidCategory
			}

			size := a.cfg.PageSize
			p, err := a.tracker.ListTickets(max(page, 1), size, search, model.Category(category))
			if err != nil {
				return err
			}
			if clamped := query.ClampPage(page, p.TotalPages); clamped != p.Number {
				p, err = a.tracker.ListTickets(clamped, size, search, model.Category(category))
				if err != nil {
					return err
				}
			}

			if a.json {
				return writeJSON(cmd.OutOrStdout(), toPageJSON(p))
			}
			printPage(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number (1-based)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "search title or category")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only show this category")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a ticket",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.tracker.DeleteTicket(id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Successfully removed the ticket.")
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to remove all tickets without --yes")
			}
			if err := a.tracker.DeleteAllTickets(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Successfully removed all tickets.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm removing every ticket")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List ticket categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.json {
				return writeJSON(cmd.OutOrStdout(), model.Categories)
			}
			for _, c := range model.Categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
