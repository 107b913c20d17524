package domain

import "context"

// PartRecorder appends per-stage parts to the current request's audit
// trail. Implementations swallow their own persistence errors: losing audit
// data must never fail the user-facing request. A nil PartRecorder disables
// recording.
type PartRecorder interface {
	AppendPart(ctx context.Context, part LogPart)
}
