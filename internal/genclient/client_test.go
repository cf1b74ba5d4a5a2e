package genclient

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/optimizer"
	"google.golang.org/grpc"
)

// mockInvoker captures the outgoing request and plays back a canned reply.
type mockInvoker struct {
	method  string
	lastReq generateRequest
	reply   generateResponse
	err     error
}

func (m *mockInvoker) Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error {
	m.method = method
	if req, ok := args.(*generateRequest); ok {
		m.lastReq = *req
	}
	if m.err != nil {
		return m.err
	}
	*(reply.(*generateResponse)) = m.reply
	return nil
}

func TestGenerate(t *testing.T) {
	inv := &mockInvoker{reply: generateResponse{Query: "SELECT name FROM orders", Model: "gen-1"}}
	c := NewClientWithInvoker(inv)

	obj := objective.Objective{
		Intent: "list orders",
		Scope:  objective.Scope{Table: "orders"},
	}
	cand, err := c.Generate(context.Background(), optimizer.GenerateRequest{
		Objective: obj,
		Context:   map[string]string{"dialect": "sqlite"},
		Previous:  objective.Text("SELECT 1"),
		Feedback:  &objective.Feedback{Code: "MISSING_REQUIRED_FIELD"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if cand.Content() != "SELECT name FROM orders" {
		t.Fatalf("unexpected candidate: %q", cand.Content())
	}

	if inv.method != generateMethod {
		t.Fatalf("unexpected method: %s", inv.method)
	}
	if inv.lastReq.Intent != "list orders" || inv.lastReq.Previous != "SELECT 1" {
		t.Fatalf("request not forwarded: %+v", inv.lastReq)
	}
	if inv.lastReq.Feedback == nil || inv.lastReq.Feedback.Code != "MISSING_REQUIRED_FIELD" {
		t.Fatalf("feedback not forwarded: %+v", inv.lastReq.Feedback)
	}
	if inv.lastReq.Context["dialect"] != "sqlite" {
		t.Fatalf("context not forwarded: %+v", inv.lastReq.Context)
	}
}

func TestGenerateOmitsNilPrevious(t *testing.T) {
	inv := &mockInvoker{reply: generateResponse{Query: "SELECT 1"}}
	c := NewClientWithInvoker(inv)

	_, err := c.Generate(context.Background(), optimizer.GenerateRequest{
		Objective: objective.Objective{Intent: "x"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if inv.lastReq.Previous != "" {
		t.Fatalf("nil previous should send empty string, got %q", inv.lastReq.Previous)
	}
}

func TestGenerateRPCError(t *testing.T) {
	inv := &mockInvoker{err: errors.New("unavailable")}
	c := NewClientWithInvoker(inv)

	_, err := c.Generate(context.Background(), optimizer.GenerateRequest{
		Objective: objective.Objective{Intent: "x"},
	})
	if err == nil {
		t.Fatal("expected RPC error to propagate")
	}
}

func TestGenerateEmptyQuery(t *testing.T) {
	inv := &mockInvoker{reply: generateResponse{Query: ""}}
	c := NewClientWithInvoker(inv)

	_, err := c.Generate(context.Background(), optimizer.GenerateRequest{
		Objective: objective.Objective{Intent: "x"},
	})
	if err == nil {
		t.Fatal("empty candidate from the service should error")
	}
}

func TestGeneratorFuncAdapter(t *testing.T) {
	inv := &mockInvoker{reply: generateResponse{Query: "SELECT 2"}}
	fn := NewClientWithInvoker(inv).GeneratorFunc()

	cand, err := fn(context.Background(), optimizer.GenerateRequest{
		Objective: objective.Objective{Intent: "x"},
	})
	if err != nil {
		t.Fatalf("adapter: %v", err)
	}
	if cand.Content() != "SELECT 2" {
		t.Fatalf("unexpected candidate: %q", cand.Content())
	}
}

func TestCloseWithoutConnection(t *testing.T) {
	c := NewClientWithInvoker(&mockInvoker{})
	if err := c.Close(); err != nil {
		t.Fatalf("close without connection should be a no-op: %v", err)
	}
}

func TestJSONCodecRoundTrip(t *testing.T) {
	codec := jsonCodec{}
	if codec.Name() != "json" {
		t.Fatalf("unexpected codec name %q", codec.Name())
	}

	in := generateRequest{Intent: "x", Previous: "SELECT 1"}
	data, err := codec.Marshal(&in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("codec must emit valid JSON")
	}
	var out generateRequest
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Intent != in.Intent || out.Previous != in.Previous {
		t.Fatalf("round trip mangled: %+v", out)
	}
}
