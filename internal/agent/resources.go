package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/learnmate/learnmate/internal/content"
	"github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/model"
)

// Resources fans out to the external content providers and composes a
// recommendation bundle. Provider failures degrade per category.
type Resources struct {
	agg *content.Aggregator
}

func (h *Resources) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	msg := state.LastUserMessage()
	query := resolveQuery(msg, state)

	req := content.DetectRequest(msg, query)
	bundle := h.agg.Fetch(ctx, req)

	var b strings.Builder
	b.WriteString(i18n.Td(ctx, "resources_header", map[string]any{"Query": query}))
	b.WriteString("\n")
	if req.Videos {
		b.WriteString("\n" + i18n.T(ctx, "resources_videos") + "\n")
		for _, v := range bundle.Videos {
			fmt.Fprintf(&b, "  - %s (%s)\n    %s\n", v.Title, v.Channel, v.URL)
		}
	}
	if req.Summary && bundle.Summary.Title != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n", bundle.Summary.Title, bundle.Summary.Extract, bundle.Summary.URL)
	}
	if req.Repos {
		b.WriteString("\n" + i18n.T(ctx, "resources_repos") + "\n")
		for _, r := range bundle.Repos {
			line := i18n.Td(ctx, "resources_repo_line", map[string]any{
				"Name":  r.FullName,
				"Stars": r.Stars,
			})
			fmt.Fprintf(&b, "  - %s\n    %s\n", line, r.URL)
		}
	}
	b.WriteString("\n")
	b.WriteString(i18n.T(ctx, "resources_footer"))

	return model.Delta{
		Reply:   b.String(),
		Content: &bundle,
	}
}

// resolveQuery picks the search query, most specific source first: a topic
// named in the message itself, then the current day's topics, then the
// session topic.
func resolveQuery(msg string, state *model.SessionState) string {
	if explicit := topicFromResourceRequest(msg); explicit != "" {
		return explicit
	}
	if day := state.Day(state.CurrentDay); day != nil && len(day.Topics) > 0 {
		topics := day.Topics
		if len(topics) > 2 {
			topics = topics[:2]
		}
		return strings.Join(topics, " ")
	}
	if state.Topic != "" {
		return state.Topic
	}
	return "programming"
}

func topicFromResourceRequest(msg string) string {
	lower := strings.ToLower(msg)
	for _, marker := range []string{" on ", " for ", " about ", "learn "} {
		idx := strings.LastIndex(lower, marker)
		if idx < 0 {
			continue
		}
		rest := strings.Trim(msg[idx+len(marker):], " ?!.,")
		if rest != "" && len(rest) < 60 {
			return rest
		}
	}
	return ""
}
