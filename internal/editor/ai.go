package editor

import (
	"context"
)

// Refine rewrites the active page text in a conversational tone.
func (c *Coordinator) Refine(ctx context.Context) (State, error) {
	return c.transform(ctx, "refine", c.ai.Refine)
}

// Summarize condenses the active page text into bulleted notes.
func (c *Coordinator) Summarize(ctx context.Context) (State, error) {
	return c.transform(ctx, "summarize", c.ai.Summarize)
}

// transform runs op on the active text without holding the lock, then writes
// the result to the page it was read from, even if the user has navigated
// away since. A result for a page deleted meanwhile is dropped.
func (c *Coordinator) transform(ctx context.Context, name string, op func(context.Context, string) string) (State, error) {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return c.State(), ErrBusy
	}
	page := c.doc.Active()
	if page.Text == "" {
		defer c.mu.Unlock()
		return c.stateLocked(), nil
	}
	c.processing = true
	c.mu.Unlock()

	c.log.Info().Str("op", name).Str("page", page.ID).Msg("ai transform started")
	out := op(ctx, page.Text)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.processing = false

	if err := ctx.Err(); err != nil {
		c.log.Warn().Err(err).Str("op", name).Msg("ai transform canceled, result dropped")
		return c.stateLocked(), err
	}
	target, ok := c.doc.Select(page.ID)
	if !ok {
		c.log.Warn().Str("op", name).Str("page", page.ID).Msg("page deleted during ai transform, result dropped")
		return c.stateLocked(), nil
	}
	next := target.UpdateActiveText(out)
	next.Current = c.doc.Current
	c.commit(next, true)
	return c.stateLocked(), nil
}
