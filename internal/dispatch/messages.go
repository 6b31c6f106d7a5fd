// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package dispatch

import (
	"fmt"
	"strings"

	"github.com/fablehouse/fablehouse/internal/intent"
)

// foundMessage phrases a retrieval result for a child.
func foundMessage(books, videos int) string {
	switch {
	case books > 0 && videos > 0:
		return fmt.Sprintf("Great news! I found %s and %s for you.",
			plural(books, "book"), plural(videos, "video"))
	case books > 0:
		return fmt.Sprintf("Great news! I found %s for you.", plural(books, "book"))
	default:
		return fmt.Sprintf("Great news! I found %s for you.", plural(videos, "video"))
	}
}

// recommendationMessage phrases a recommendation result, naming what was
// asked for.
func recommendationMessage(rec intent.Recommendation, books, videos int) string {
	what := []string{}
	if books > 0 {
		what = append(what, plural(books, "book"))
	}
	if videos > 0 {
		what = append(what, plural(videos, "video"))
	}
	found := strings.Join(what, " and ")

	switch rec.Type {
	case intent.RecommendationTrending:
		return fmt.Sprintf("Here's what's new! I found %s everyone is enjoying right now.", found)
	case intent.RecommendationPersonal:
		return fmt.Sprintf("Just for you! I picked %s I think you'll love.", found)
	default:
		return fmt.Sprintf("Here are the favourites! I found %s lots of kids enjoy.", found)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
