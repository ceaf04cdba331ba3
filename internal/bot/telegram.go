package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"coinpulse/internal/domain"
	"coinpulse/internal/news"
	"coinpulse/internal/report"

	tele "gopkg.in/telebot.v3"
)

type SentimentReader interface {
	Summarize(ctx context.Context, windowDays int, now time.Time) (map[string]domain.AssetSentimentSummary, error)
}

func StartTelegramBot(sentiment SentimentReader, extractor *news.Extractor, windowDays int) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	if extractor == nil {
		extractor = news.NewExtractor(nil)
	}
	if windowDays <= 0 {
		windowDays = 7
	}

	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/sentiment", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: /sentiment bitcoin\nTracked: %s", strings.Join(extractor.Assets(), ", ")))
		}
		asset := strings.ToLower(args[0])
		if !extractor.Tracked(asset) {
			return c.Send(fmt.Sprintf("Unknown asset: %s\nTracked: %s", asset, strings.Join(extractor.Assets(), ", ")))
		}
		summaries, err := sentiment.Summarize(context.Background(), windowDays, time.Now().UTC())
		if err != nil {
			return c.Send(fmt.Sprintf("Error building summary for %s: %v", asset, err))
		}
		matched := extractor.Extract(asset)
		if len(matched) > 0 {
			asset = matched[0]
		}
		s, ok := summaries[asset]
		if !ok {
			return c.Send(fmt.Sprintf("No articles mention %s in the last %d days", asset, windowDays))
		}
		msg := fmt.Sprintf(
			"%s: %s\nAvg sentiment: %.3f over %d articles\nPositive: %d  Negative: %d  Neutral: %d",
			strings.ToUpper(s.Asset), domain.SentimentLabel(s.AverageSentiment),
			s.AverageSentiment, s.ArticleCount,
			s.PositiveCount, s.NegativeCount, s.NeutralCount,
		)
		return c.Send(msg)
	})

	b.Handle("/report", func(c tele.Context) error {
		summaries, err := sentiment.Summarize(context.Background(), windowDays, time.Now().UTC())
		if err != nil {
			return c.Send(fmt.Sprintf("Error building report: %v", err))
		}
		return c.Send(report.BuildReport(summaries, time.Now().UTC()))
	})

	log.Println("Telegram bot started")
	go b.Start()
}
