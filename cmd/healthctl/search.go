package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		lf  listFlags
		typ string
	)
	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search your chats and health records",
		Long: `Search your chat history and health record notes.

Examples:
  healthctl search headache
  healthctl search "blood pressure" --type chats`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := v1.SearchQuery{Keyword: strings.Join(args, " "), Type: typ, Page: lf.page, Limit: lf.limit}
			if err := q.Validate(); err != nil {
				return err
			}
			if typ == "chats" {
				page, err := a.reg.Search().Chats(cmd.Context(), q)
				if err != nil {
					return err
				}
				return printChats(a, page)
			}
			res, err := a.reg.Search().All(cmd.Context(), q)
			if err != nil {
				return err
			}
			return a.emit(res, func() error {
				chats, records := res.Results.Chats, res.Results.HealthRecords
				if len(chats) == 0 && len(records) == 0 {
					fmt.Fprintf(a.out, "Nothing matches %q\n", q.Keyword)
					return nil
				}
				if len(chats) > 0 {
					fmt.Fprintln(a.out, "Chats:")
					for _, c := range chats {
						fmt.Fprintf(a.out, "  %s  %s\n", c.ID, truncate(c.Question, 60))
					}
				}
				if len(records) > 0 {
					fmt.Fprintln(a.out, "Health records:")
					for _, r := range records {
						fmt.Fprintf(a.out, "  %s  %s  %s\n", r.ID, r.CreatedAt.Local().Format(v1.DateLayout), truncate(r.Note, 50))
					}
				}
				fmt.Fprintln(a.out, paginationLine(res.Pagination))
				return nil
			})
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&typ, "type", "", "all, chats or records")
	return cmd
}
