package genclient

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/optimizer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
)

// #endregion imports

// #region codec

// jsonCodec lets the client speak to the generation service without
// generated protobuf stubs; both sides agree on the "json" content subtype.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)    { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                     { return "json" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// #endregion codec

// #region wire-types

const generateMethod = "/optimizer.v1.Generator/Generate"

type generateRequest struct {
	Intent      string                `json:"intent"`
	Scope       objective.Scope       `json:"scope"`
	Constraints objective.Constraints `json:"constraints"`
	Context     map[string]string     `json:"context,omitempty"`
	Previous    string                `json:"previous,omitempty"`
	Feedback    *objective.Feedback   `json:"feedback,omitempty"`
}

type generateResponse struct {
	Query string `json:"query"`
	Model string `json:"model,omitempty"`
}

// #endregion wire-types

// #region client

// invoker is the slice of grpc.ClientConn the client needs; injectable for
// tests without a real connection.
type invoker interface {
	Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error
}

// Client wraps the gRPC connection to the external generation service.
type Client struct {
	conn    *grpc.ClientConn
	invoker invoker
}

// NewClient connects to the generation gRPC server.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype("json")))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, invoker: conn}, nil
}

// NewClientWithInvoker creates a Client with an injected transport.
// Used for testing without a real gRPC connection.
func NewClientWithInvoker(inv invoker) *Client {
	return &Client{invoker: inv}
}

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion client

// #region generate

// Generate asks the external service for a candidate.
func (c *Client) Generate(ctx context.Context, req optimizer.GenerateRequest) (objective.Candidate, error) {
	wire := generateRequest{
		Intent:      req.Objective.Intent,
		Scope:       req.Objective.Scope,
		Constraints: req.Objective.Constraints,
		Context:     req.Context,
		Feedback:    req.Feedback,
	}
	if req.Previous != nil {
		wire.Previous = req.Previous.Content()
	}

	var resp generateResponse
	if err := c.invoker.Invoke(ctx, generateMethod, &wire, &resp); err != nil {
		return nil, fmt.Errorf("generate rpc: %w", err)
	}
	if resp.Query == "" {
		return nil, fmt.Errorf("generate rpc: empty candidate from service")
	}
	return objective.Text(resp.Query), nil
}

// GeneratorFunc adapts the client to the driver's generator callback.
func (c *Client) GeneratorFunc() optimizer.GeneratorFunc {
	return func(ctx context.Context, req optimizer.GenerateRequest) (objective.Candidate, error) {
		return c.Generate(ctx, req)
	}
}

// #endregion generate
