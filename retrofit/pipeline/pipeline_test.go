package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

type recordingPolicy struct {
	name string
	log  *[]string
}

func (p *recordingPolicy) Name() string { return p.name }

func (p *recordingPolicy) Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error) {
	*p.log = append(*p.log, "req:"+p.name)
	resp, err := next(ctx, req)
	*p.log = append(*p.log, "resp:"+p.name)
	return resp, err
}

type fakeTerminal struct {
	log *[]string
}

func (f *fakeTerminal) Send(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error) {
	*f.log = append(*f.log, "terminal")
	return retrofittypes.NewResponse(200, retrofittypes.NewHeaders(), req.Label, nil), nil
}

// TestChain_Order verifies ordering: for a pipeline [A, B, C,
// transport], A observes the request before B, B before C, C before
// transport; responses flow in reverse.
func TestChain_Order(t *testing.T) {
	var log []string
	a := &recordingPolicy{name: "A", log: &log}
	b := &recordingPolicy{name: "B", log: &log}
	c := &recordingPolicy{name: "C", log: &log}
	term := &fakeTerminal{log: &log}

	chain := New(term, a, b, c)
	_, err := chain.Send(context.Background(), &retrofittypes.Request{Verb: "GET", URL: "https://x/y"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"req:A", "req:B", "req:C", "terminal", "resp:C", "resp:B", "resp:A",
	}, log)
}

func TestChain_EmptyPolicies(t *testing.T) {
	var log []string
	term := &fakeTerminal{log: &log}

	chain := New(term)
	resp, err := chain.Send(context.Background(), &retrofittypes.Request{Verb: "GET", URL: "https://x/y"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
