package face

import "context"

// StaticCapturer replays a fixed sequence of capture outcomes. It stands in
// for a real camera pipeline, which lives outside this module; an empty
// frame yields ErrNoFace.
type StaticCapturer struct {
	frames []Descriptor
	next   int
}

// NewStaticCapturer builds a capturer over prepared frames. A nil frame in
// the sequence simulates a capture with no detectable face.
func NewStaticCapturer(frames ...Descriptor) *StaticCapturer {
	return &StaticCapturer{frames: frames}
}

// Capture returns the next frame, cycling when exhausted.
func (c *StaticCapturer) Capture(ctx context.Context) (Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(c.frames) == 0 {
		return nil, ErrNoFace
	}
	frame := c.frames[c.next%len(c.frames)]
	c.next++
	if frame == nil {
		return nil, ErrNoFace
	}
	return frame, nil
}
