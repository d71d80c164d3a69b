// Package notify tells teams about new change requests over Slack.
package notify

import (
	"context"
	"fmt"
	"strings"

	"finishline/internal/app/config"
	"finishline/internal/app/ds"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// Poster is the part of the slack client used here.
type Poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type SlackNotifier struct {
	poster Poster
	cfg    config.SlackConfig
}

func NewSlack(cfg config.SlackConfig, options ...slack.Option) *SlackNotifier {
	return NewSlackWithPoster(slack.New(cfg.Token, options...), cfg)
}

func NewSlackWithPoster(p Poster, cfg config.SlackConfig) *SlackNotifier {
	cfg.AppURL = strings.TrimSuffix(cfg.AppURL, "/")
	return &SlackNotifier{poster: p, cfg: cfg}
}

// NotifyChangeRequest posts message with a link to the change request to the team's
// channel. Requests whose budget impact is above the alert threshold are also posted
// to the leadership channel.
func (n *SlackNotifier) NotifyChangeRequest(ctx context.Context, team ds.Team, message string, crID uint, budgetImpact *decimal.Decimal) error {
	blocks := n.blocks(message, crID)

	if _, _, err := n.poster.PostMessageContext(ctx, team.SlackID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionBlocks(blocks...),
	); err != nil {
		return fmt.Errorf("post to team %s channel: %w", team.TeamName, err)
	}

	if !n.overBudget(budgetImpact) {
		return nil
	}

	alert := fmt.Sprintf("%s with $%s requested", message, budgetImpact.StringFixed(2))
	if _, _, err := n.poster.PostMessageContext(ctx, n.cfg.LeadershipChannel,
		slack.MsgOptionText(alert, false),
		slack.MsgOptionBlocks(n.blocks(alert, crID)...),
	); err != nil {
		return fmt.Errorf("post budget alert: %w", err)
	}
	return nil
}

func (n *SlackNotifier) overBudget(budgetImpact *decimal.Decimal) bool {
	if budgetImpact == nil || n.cfg.LeadershipChannel == "" {
		return false
	}
	return budgetImpact.GreaterThan(decimal.NewFromInt(n.cfg.BudgetAlertThreshold))
}

func (n *SlackNotifier) blocks(message string, crID uint) []slack.Block {
	text := slack.NewTextBlockObject(slack.MarkdownType, message, false, false)
	button := slack.NewButtonBlockElement(
		"view_cr",
		fmt.Sprintf("%d", crID),
		slack.NewTextBlockObject(slack.PlainTextType, "View CR", true, false),
	)
	button.URL = fmt.Sprintf("%s/cr/%d", n.cfg.AppURL, crID)

	return []slack.Block{
		slack.NewSectionBlock(text, nil, slack.NewAccessory(button)),
	}
}

// LogNotifier only logs. Used when Slack is disabled.
type LogNotifier struct{}

func (LogNotifier) NotifyChangeRequest(_ context.Context, team ds.Team, message string, crID uint, _ *decimal.Decimal) error {
	log.WithFields(log.Fields{
		"team":  team.TeamName,
		"cr_id": crID,
	}).Info(message)
	return nil
}
