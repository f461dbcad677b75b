// Package advisor produces AI business tips and assistant answers. The model
// is an outside collaborator: every failure degrades to a fixed message.
package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"pharmapulse/backend/internal/cache"
	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/logger"
	"pharmapulse/backend/internal/metrics"
)

const (
	MsgInsightsNotConfigured = "Please configure your API Key to get AI insights."
	MsgInsightsEmpty         = "No insights generated."
	MsgInsightsFailed        = "Unable to generate insights at this moment."
	MsgAssistantUnavailable  = "AI Service Unavailable."
	MsgAssistantEmpty        = "No response."
	MsgAssistantFailed       = "Error connecting to assistant."
)

type Advisor struct {
	client Client
	cache  cache.AdvisoryCache
	ttl    time.Duration
	now    func() time.Time
}

// New builds an Advisor. A nil client means no API key is configured.
func New(client Client, advisoryCache cache.AdvisoryCache, ttl time.Duration) *Advisor {
	if advisoryCache == nil {
		advisoryCache = cache.NoopAdvisoryCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Advisor{client: client, cache: advisoryCache, ttl: ttl, now: time.Now}
}

// InsightsPrompt summarises the shop for the consultant prompt. Low stock
// here means strictly below threshold.
func InsightsPrompt(sales []domain.Sale, medicines []domain.Medicine) string {
	totals := metrics.SumSales(sales)
	low := make([]string, 0)
	for _, m := range medicines {
		if m.Stock < m.Threshold {
			low = append(low, m.Name)
		}
	}
	lowList := strings.Join(low, ", ")
	if lowList == "" {
		lowList = "None"
	}

	return fmt.Sprintf(`Act as a senior business consultant for a pharmacy.
Here is the current snapshot:
- Total Sales (All time): $%s
- Total Profit (All time): $%s
- Items currently low in stock: %s

Provide 3 actionable, short, and concise tips to improve profitability and efficiency based on this data.
Format as a simple bulleted list.`, totals.Revenue.StringFixed(2), totals.Profit.StringFixed(2), lowList)
}

func AssistantPrompt(query string) string {
	return fmt.Sprintf(`You are a helpful pharmacy assistant. Answer this query briefly and professionally (max 50 words): "%s"`, query)
}

func (a *Advisor) BusinessInsights(ctx context.Context, sales []domain.Sale, medicines []domain.Medicine) string {
	if a.client == nil {
		return MsgInsightsNotConfigured
	}
	return a.generate(ctx, cache.KindInsights, InsightsPrompt(sales, medicines), MsgInsightsEmpty, MsgInsightsFailed)
}

func (a *Advisor) Ask(ctx context.Context, query string) string {
	if a.client == nil {
		return MsgAssistantUnavailable
	}
	return a.generate(ctx, cache.KindAssistant, AssistantPrompt(strings.TrimSpace(query)), MsgAssistantEmpty, MsgAssistantFailed)
}

func (a *Advisor) generate(ctx context.Context, kind cache.Kind, prompt, emptyMsg, failMsg string) string {
	log := logger.FromContext(ctx).WithComponent("advisor")
	key := cache.Key(kind, promptKey(prompt))

	if entry, ok, err := a.cache.Get(ctx, key); err != nil {
		log.Warnw("advisory cache read failed", "error", err)
	} else if ok {
		return entry.Text
	}

	text, err := a.client.Generate(ctx, prompt)
	if err != nil {
		log.Warnw("advisory call failed", "error", err)
		return failMsg
	}
	if text == "" {
		return emptyMsg
	}

	if err := a.cache.Set(ctx, key, &cache.Entry{Kind: kind, Text: text, CachedAt: a.now().UTC()}, a.ttl); err != nil {
		log.Warnw("advisory cache write failed", "error", err)
	}
	return text
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
