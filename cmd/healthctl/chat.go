package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func newChatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask the health chatbot",
		Long: `Ask the health chatbot questions, review and rate past answers.

Examples:
  healthctl chat ask "How much water should I drink a day?"
  healthctl chat history
  healthctl chat rate 65f0c2 5`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ask <question>",
			Short: "Ask a question",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				in := v1.AskInput{Question: strings.Join(args, " ")}
				if err := in.Validate(); err != nil {
					return err
				}
				ex, err := a.reg.Chatbot().Ask(cmd.Context(), in)
				if err != nil {
					return err
				}
				return a.emit(ex, func() error {
					fmt.Fprintln(a.out, ex.Answer)
					fmt.Fprintf(a.out, "\n(rate this answer: healthctl chat rate %s <1-5>)\n", ex.ID)
					return nil
				})
			},
		},
		newChatHistoryCmd(a),
		&cobra.Command{
			Use:   "rate <id> <1-5>",
			Short: "Rate an answer",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				rating, err := strconv.Atoi(args[1])
				if err != nil {
					return usagef("rating must be a number from 1 to 5")
				}
				ex, err := a.reg.Chatbot().Rate(cmd.Context(), args[0], rating)
				if err != nil {
					return err
				}
				return a.emit(ex, func() error {
					fmt.Fprintf(a.out, "Rated %d/5\n", rating)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete one exchange",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.reg.Chatbot().Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.done("Chat deleted")
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the whole chat history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.reg.Chatbot().ClearHistory(cmd.Context()); err != nil {
					return err
				}
				return a.done("Chat history cleared")
			},
		},
	)
	return cmd
}

func newChatHistoryCmd(a *app) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past questions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.reg.Chatbot().History(cmd.Context(), lf.query())
			if err != nil {
				return err
			}
			return printChats(a, page)
		},
	}
	lf.register(cmd)
	return cmd
}

func printChats(a *app, page v1.Page[v1.ChatExchange]) error {
	return a.emit(page, func() error {
		if len(page.Items) == 0 {
			fmt.Fprintln(a.out, "No chats found")
			return nil
		}
		w := a.table("ID\tDATE\tCATEGORY\tRATING\tQUESTION")
		for _, c := range page.Items {
			rating := "-"
			if c.Rating != nil {
				rating = strconv.Itoa(*c.Rating)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.CreatedAt.Local().Format("2006-01-02 15:04"), orDash(c.Category), rating, truncate(c.Question, 50))
		}
		w.Flush()
		fmt.Fprintln(a.out, paginationLine(page.Pagination))
		return nil
	})
}
