// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
)

// SlackSink forwards warning and error notifications to a Slack incoming
// webhook. Info-level chatter stays local.
type SlackSink struct {
	webhookURL string
}

func NewSlackSink(webhookURL string) *SlackSink {
	return &SlackSink{webhookURL: webhookURL}
}

func (s *SlackSink) Send(n Notification) {
	if n.Level == LevelInfo {
		return
	}

	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("[%s] %s", n.Level, n.Message),
	}
	if err := slack.PostWebhook(s.webhookURL, msg); err != nil {
		slog.Warn("slack webhook delivery failed", "error", err)
	}
}
