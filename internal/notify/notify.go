// Package notify sends mining-run summaries via the Telegram Bot API.
// It formats the top surviving rules into a short Markdown digest and
// handles delivery with retry logic for transient API failures.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spencermt000/clash-royale-apriori/internal/logger"
	"github.com/spencermt000/clash-royale-apriori/internal/models"
)

// digestRules caps how many rules a summary message lists.
const digestRules = 10

// Client handles Telegram notifications
type Client struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Client{
		bot:        bot,
		chatID:     chatIDInt,
		maxRetries: maxRetries,
		retryDelay: time.Second,
	}, nil
}

// SendRunSummary sends a digest of a completed mining run: the run's
// parameters, counts, and its highest-lift rules.
func (c *Client) SendRunSummary(run models.MiningRun, rules []models.Rule) error {
	text := formatSummary(run, rules)
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if _, err := c.bot.Send(msg); err != nil {
			lastErr = err
			logger.Warn("Telegram send attempt %d/%d failed: %v", attempt, c.maxRetries, err)
			time.Sleep(c.retryDelay * time.Duration(attempt))
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to send summary after %d attempts: %w", c.maxRetries, lastErr)
}

func formatSummary(run models.MiningRun, rules []models.Rule) string {
	var sb strings.Builder
	sb.WriteString("*Deck mining run complete*\n")
	sb.WriteString(fmt.Sprintf("Input: `%s`\n", run.InputCSV))
	sb.WriteString(fmt.Sprintf("Transactions: %d  Itemsets: %d  Rules: %d\n",
		run.Transactions, run.ItemsetCount, run.RuleCount))
	sb.WriteString(fmt.Sprintf("Thresholds: support %.3f, confidence %.2f, lift %.2f\n",
		run.MinSupport, run.MinConfidence, run.MinLift))
	sb.WriteString(fmt.Sprintf("Duration: %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond)))

	if len(rules) == 0 {
		sb.WriteString("\nNo rules survived the filters.")
		return sb.String()
	}

	sb.WriteString("\n*Top rules by lift:*\n")
	for i := 0; i < digestRules && i < len(rules); i++ {
		r := rules[i]
		sb.WriteString(fmt.Sprintf("%d. `%s` ⇒ `%s` (lift %.2f, conf %.2f)\n",
			i+1, r.Antecedents.Label(), r.Consequents.Label(), r.Lift, r.Confidence))
	}
	return sb.String()
}
