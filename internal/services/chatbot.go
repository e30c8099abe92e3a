package services

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

const chatbotPath = "/chatbot"

// Chatbot wraps /chatbot.
type Chatbot struct {
	client apiclient.Doer
}

// Ask submits a question and returns the answered exchange.
func (c *Chatbot) Ask(ctx context.Context, in v1.AskInput) (v1.ChatExchange, error) {
	return send[v1.ChatExchange](ctx, c.client, http.MethodPost, chatbotPath+"/ask", in)
}

// History lists past exchanges, newest first.
func (c *Chatbot) History(ctx context.Context, q v1.ListQuery) (v1.Page[v1.ChatExchange], error) {
	return list[v1.ChatExchange](ctx, c.client, chatbotPath+"/history", q)
}

// Rate scores an answer from 1 to 5.
func (c *Chatbot) Rate(ctx context.Context, id string, rating int) (v1.ChatExchange, error) {
	return send[v1.ChatExchange](ctx, c.client, http.MethodPut, path(chatbotPath, id, "rate"), v1.RatingInput{Rating: rating})
}

func (c *Chatbot) Delete(ctx context.Context, id string) error {
	return del(ctx, c.client, path(chatbotPath, id))
}

// ClearHistory removes every exchange of the current user.
func (c *Chatbot) ClearHistory(ctx context.Context) error {
	return del(ctx, c.client, chatbotPath+"/history/clear")
}
