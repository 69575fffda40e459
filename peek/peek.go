// Package peek prints the upcoming items of a stream without playing them.
package peek

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/calcoloergosum/vocagen/cursor"
	"github.com/calcoloergosum/vocagen/item"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/stream"
	"github.com/calcoloergosum/vocagen/style"
)

// ErrCount is returned for a non-positive number of steps.
var ErrCount = errors.New("number of steps must be positive")

// Fetcher is the part of the content client peek needs.
type Fetcher interface {
	Fetch(ctx context.Context, req stream.Request) (item.Batch, cursor.Token, error)
}

type Options struct {
	Out    io.Writer
	Source Fetcher

	// Request is the first request; its token is advanced after every step.
	Request stream.Request
	Count   int
	Json    bool

	// Clips prints the audio URLs instead of the sentences.
	Clips bool
}

func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Count <= 0 {
		return ErrCount
	}

	steps, err := walk(ctx, options)
	if err != nil {
		return err
	}

	if options.Json {
		return writeJson(options.Out, steps, options)
	}

	for _, step := range steps {
		writeText(options.Out, step, options.Clips)
	}

	return nil
}

// walk fetches Count consecutive steps in the request's direction.
func walk(ctx context.Context, options *Options) ([]*Step, error) {
	req := options.Request
	steps := make([]*Step, 0, options.Count)

	for i := 0; i < options.Count; i++ {
		batch, token, err := options.Source.Fetch(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		log.Debugf("peek %s step %d: %s", req.Pair, i+1, token)

		steps = append(steps, &Step{
			State: token.String(),
			Word:  batch.Word(),
			Items: batch.Items(),
		})
		req.Token = token
	}

	return steps, nil
}

func writeText(out io.Writer, step *Step, clips bool) {
	header := style.Faint(step.State)
	if step.Word != "" {
		header = style.Bold(step.Word) + " " + header
	}
	fmt.Fprintln(out, header)

	for _, i := range step.Items {
		if clips {
			for _, url := range i.AudioURLs {
				fmt.Fprintln(out, "  "+url)
			}
			continue
		}

		fmt.Fprintln(out, "  "+i.Sentence1)
		fmt.Fprintln(out, "  "+i.Sentence2)
	}
}
