// Package stagestest provides a scripted Evaluator for exercising stages
// without a remote model.
package stagestest

import (
	"context"
	"fmt"
	"sync"

	"alfredoptarigan/talent-scout/internal/services"
	"alfredoptarigan/talent-scout/internal/stages"
)

// Reply produces the Evaluator output for one request.
type Reply func(ctx context.Context, req services.GenerateRequest) (string, error)

// Evaluator answers each request according to the reply scripted for its
// stage label. Unscripted stages fail.
type Evaluator struct {
	mu       sync.Mutex
	replies  map[stages.Name]Reply
	requests []services.GenerateRequest
}

// New returns an Evaluator with no replies.
func New() *Evaluator {
	return &Evaluator{replies: map[stages.Name]Reply{}}
}

// Default returns an Evaluator scripted with a valid response for every stage.
func Default() *Evaluator {
	e := New()
	for stage, body := range Fixtures {
		e.Text(stage, body)
	}
	return e
}

func (e *Evaluator) On(stage stages.Name, reply Reply) *Evaluator {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replies[stage] = reply
	return e
}

// Text scripts a fixed response.
func (e *Evaluator) Text(stage stages.Name, text string) *Evaluator {
	return e.On(stage, func(context.Context, services.GenerateRequest) (string, error) {
		return text, nil
	})
}

// Sequence scripts successive responses; the last one repeats.
func (e *Evaluator) Sequence(stage stages.Name, texts ...string) *Evaluator {
	var mu sync.Mutex
	i := 0
	return e.On(stage, func(context.Context, services.GenerateRequest) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		text := texts[i]
		if i < len(texts)-1 {
			i++
		}
		return text, nil
	})
}

// Fail scripts an error.
func (e *Evaluator) Fail(stage stages.Name, err error) *Evaluator {
	return e.On(stage, func(context.Context, services.GenerateRequest) (string, error) {
		return "", err
	})
}

// Block scripts a call that only returns once its context is done.
func (e *Evaluator) Block(stage stages.Name) *Evaluator {
	return e.On(stage, func(ctx context.Context, _ services.GenerateRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
}

// Generate implements the Evaluator contract used by stages.
func (e *Evaluator) Generate(ctx context.Context, req services.GenerateRequest) (string, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	reply, ok := e.replies[stages.Name(req.Stage)]
	e.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("no reply scripted for stage %q", req.Stage)
	}
	return reply(ctx, req)
}

// Calls counts the requests made for a stage.
func (e *Evaluator) Calls(stage stages.Name) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, req := range e.requests {
		if req.Stage == string(stage) {
			n++
		}
	}
	return n
}

// Requests returns a copy of every request received so far.
func (e *Evaluator) Requests() []services.GenerateRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]services.GenerateRequest(nil), e.requests...)
}
