package access

import (
	"time"

	"github.com/ligarx-org/audiov1/model"
)

type Verdict int

const (
	VerdictAllow Verdict = iota
	VerdictBanned
	VerdictMissingSubscriptions
	VerdictThrottled
	// VerdictUnavailable is the fail-closed outcome when persistence is
	// down past the retry budget. Nothing is bypassed, nothing recorded.
	VerdictUnavailable
)

// Decision is the single result of the admission pipeline.
type Decision struct {
	Verdict         Verdict
	BanReason       string
	MissingChannels []model.MandatoryChannel
	RetryAfter      time.Duration
}

func (d Decision) Allowed() bool {
	return d.Verdict == VerdictAllow
}

func allow() Decision {
	return Decision{Verdict: VerdictAllow}
}

func denyBanned(reason string) Decision {
	return Decision{Verdict: VerdictBanned, BanReason: reason}
}

func denyMissingSubscriptions(channels []model.MandatoryChannel) Decision {
	return Decision{Verdict: VerdictMissingSubscriptions, MissingChannels: channels}
}

func denyThrottled(retryAfter time.Duration) Decision {
	return Decision{Verdict: VerdictThrottled, RetryAfter: retryAfter}
}

func denyUnavailable() Decision {
	return Decision{Verdict: VerdictUnavailable}
}
