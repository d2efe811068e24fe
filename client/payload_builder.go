package client

import (
	"github.com/RezaEskandarii/remindfire/types"
	"math/rand/v2"
	"strings"
)

const (
	DefaultTitle    = "Review reminder"
	DefaultURL      = "/dashboard"
	namePlaceholder = "{name}"
	fallbackName    = "your course"
)

var playfulMessages = []string{
	"Quick nudge: {name} first, then a well earned break.",
	"Hey you, {name} is waiting. It only takes a minute!",
	"Today's mission: {name}. Reward: bragging rights.",
	"How about shining on {name} today?",
	"3... 2... 1... {name} review and maximum pride!",
	"Team up? {name} had better watch out.",
	"One calm minute, one {name} minute. Let's go!",
	"Future you says thanks for {name}.",
	"Review {name} now and celebrate after!",
	"Psst: {name}, right now, with love.",
}

// PayloadBuilder writes the notification copy for a job. Both dispatch strategies share one builder.
type PayloadBuilder struct {
	playful bool
	pick    func(n int) int
}

func NewPayloadBuilder(playful bool) *PayloadBuilder {
	return &PayloadBuilder{playful: playful, pick: rand.IntN}
}

func (b *PayloadBuilder) Build(job types.ReminderJob) types.Payload {
	return types.Payload{
		Title: DefaultTitle,
		Body:  b.body(strings.TrimSpace(job.SubjectLabel)),
		URL:   DefaultURL,
	}
}

func (b *PayloadBuilder) body(label string) string {
	if b.playful {
		name := label
		if name == "" {
			name = fallbackName
		}
		msg := playfulMessages[b.pick(len(playfulMessages))]
		return strings.ReplaceAll(msg, namePlaceholder, name)
	}
	if label == "" {
		return "Time for your review"
	}
	return "Time to review: " + label
}
