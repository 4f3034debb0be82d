package handler

import (
	"context"
	"regexp"
	"strings"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/punchamoorthee/courtledger/internal/models"
)

var summaryItem = regexp.MustCompile(`<Item>(.*?)</Item>`)

// FormatSummary renders every <Item>...</Item> fragment as a "- item." line.
func FormatSummary(tagged string) string {
	matches := summaryItem.FindAllStringSubmatch(tagged, -1)
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, "- "+m[1]+".")
	}
	return strings.Join(lines, "\n")
}

// Summary formats the agent summary passed as Parameters.qicSummaryIn.
func (h *Handler) Summary(_ context.Context, ev *awsevents.ConnectEvent) *models.SummaryResponse {
	in, ok := ev.Details.Parameters["qicSummaryIn"]
	if !ok {
		h.logger.Warn("summary event without qicSummaryIn")
		return &models.SummaryResponse{QicSummaryOut: msgSummaryError}
	}
	return &models.SummaryResponse{QicSummaryOut: FormatSummary(in)}
}
