package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/mb/internal/cli"
	"github.com/theirongolddev/mb/internal/contacts"

	"github.com/spf13/cobra"
)

var flagAllContacts bool

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Keep track of who to get in touch with",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts with communication due today or earlier",
	Args:  cobra.NoArgs,
	RunE:  runContactsList,
}

var contactsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new contact file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runContactsCreate,
}

func init() {
	contactsListCmd.Flags().BoolVarP(&flagAllContacts, "all", "a", false, "List every contact, not only due ones")
	contactsCmd.AddCommand(contactsListCmd, contactsCreateCmd)
	rootCmd.AddCommand(contactsCmd)
}

func runContactsList(_ *cobra.Command, _ []string) error {
	book, err := contacts.Load(cfg.ContactsDir())
	if err != nil {
		return err
	}

	list := book.Due(time.Now())
	if flagAllContacts {
		list = book.All()
	}
	if len(list) == 0 {
		if flagAllContacts {
			fmt.Printf("\n  No contacts in %s.\n", cfg.ContactsDir())
		} else {
			fmt.Println("\n  Nobody is due.")
		}
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, c := range list {
		next, notes := "", ""
		if p, ok := c.NextPlanned(); ok {
			next = p.Date.String()
			notes = strings.Join(p.Notes, "; ")
		}
		rows = append(rows, []string{
			c.Name,
			c.Communication.Latest.To.String(),
			c.Communication.Latest.From.String(),
			next,
			notes,
		})
	}

	title := "Due"
	if flagAllContacts {
		title = "Contacts"
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    title,
		Headers:  []string{"Name", "Last to", "Last from", "Next", "Notes"},
		Rows:     rows,
		LeftCols: 5,
	}))
	return nil
}

func runContactsCreate(_ *cobra.Command, args []string) error {
	c, err := contacts.Create(cfg.ContactsDir(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Printf("  Created %s\n", c.Path)
	return nil
}
