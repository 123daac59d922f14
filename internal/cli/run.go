package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/aretw0/questflow"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/session"
)

// RunOptions contains the configuration of an interactive run.
type RunOptions struct {
	// SessionID resumes (or creates) a named session. Empty starts a new one.
	SessionID string
	// Fresh discards the stored answers of SessionID first.
	Fresh    bool
	In       io.Reader
	Out      io.Writer
	Renderer questflow.ContentRenderer
}

// RunSession asks the flow's questions over opts.In/opts.Out and saves the
// collected answers to the session, also when the run is interrupted.
func RunSession(ctx context.Context, eng *questflow.Engine, mgr *session.Manager, opts RunOptions) (*domain.Session, questflow.RunResult, error) {
	sess, err := openSession(ctx, mgr, opts)
	if err != nil {
		return nil, questflow.RunResult{}, fmt.Errorf("failed to init session: %w", err)
	}

	runner := questflow.NewRunner(opts.In, opts.Out)
	runner.Renderer = opts.Renderer

	res, runErr := runner.Run(ctx, eng, sess.Answers, sess.SkipSet())
	if res.Answers == nil {
		return sess, res, runErr
	}

	sess.Answers = res.Answers
	sess.Skipped = res.Skip.IDs()
	slices.Sort(sess.Skipped)
	sess.UpdatedAt = time.Now().UTC()

	if err := mgr.Save(context.WithoutCancel(ctx), sess); err != nil {
		return sess, res, errors.Join(runErr, fmt.Errorf("failed to save session: %w", err))
	}

	switch {
	case res.Finished:
		SystemMessage(opts.Out, "Finished. Session '%s' saved.", sess.ID)
	case runErr == nil || IsInterrupted(runErr):
		SystemMessage(opts.Out, "Paused. Resume with --session %s.", sess.ID)
	}
	return sess, res, runErr
}

func openSession(ctx context.Context, mgr *session.Manager, opts RunOptions) (*domain.Session, error) {
	if opts.SessionID == "" {
		sess, err := mgr.Create(ctx, nil, nil)
		if err != nil {
			return nil, err
		}
		SystemMessage(opts.Out, "Session '%s' active.", sess.ID)
		return sess, nil
	}

	if opts.Fresh {
		if err := mgr.Delete(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
	}

	sess, created, err := mgr.LoadOrCreate(ctx, opts.SessionID)
	if err != nil {
		return nil, err
	}
	if created {
		SystemMessage(opts.Out, "Session '%s' active.", sess.ID)
	} else {
		SystemMessage(opts.Out, "Resuming session '%s' (%d answers).", sess.ID, len(sess.Answers))
	}
	return sess, nil
}
