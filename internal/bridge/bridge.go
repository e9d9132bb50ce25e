// Package bridge implements sys.ai.ask as a dynamic gRPC call: it parses
// a .proto service definition at runtime with protoreflect's dynamic
// descriptors (no generated stubs), dials with plain grpc, and invokes
// the method by name.
package bridge

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	rt "github.com/funvibe/arklang/internal/runtime"
)

// askServiceProto is the default schema sys.ai.ask invokes against: a single
// unary method taking a prompt string and returning a text response. A
// deployment wanting a different backend loads its own .proto via
// NewClientFromFile instead.
const askServiceProto = `
syntax = "proto3";
package ark.bridge;

service AskService {
  rpc Ask (AskRequest) returns (AskResponse);
}

message AskRequest {
  string prompt = 1;
}

message AskResponse {
  string text = 1;
}
`

const (
	defaultServiceName = "ark.bridge.AskService"
	defaultMethodName  = "Ask"
	maxAttempts        = 3
)

// Client dials a gRPC target and resolves the Ask method against a parsed
// service descriptor.
type Client struct {
	mu     sync.Mutex
	conn   *grpc.ClientConn
	method *desc.MethodDescriptor
}

// NewClient dials target and parses the built-in AskService schema.
func NewClient(target string) (*Client, error) {
	return newClient(target, "ask.proto", map[string]string{"ask.proto": askServiceProto}, defaultServiceName, defaultMethodName)
}

// NewClientFromFile dials target and parses a caller-supplied .proto file
// from disk, for deployments with their own service/message shapes. method
// is addressed as "package.Service/Method".
func NewClientFromFile(target, protoPath, method string) (*Client, error) {
	parts := strings.SplitN(method, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("bridge: method must be \"package.Service/Method\", got %q", method)
	}
	parser := protoparse.Parser{ImportPaths: []string{"."}}
	fds, err := parser.ParseFiles(protoPath)
	if err != nil {
		return nil, fmt.Errorf("bridge: parsing %s: %w", protoPath, err)
	}
	return dial(target, fds, parts[0], parts[1])
}

func newClient(target, virtualName string, files map[string]string, serviceName, methodName string) (*Client, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(files),
	}
	fds, err := parser.ParseFiles(virtualName)
	if err != nil {
		return nil, fmt.Errorf("bridge: parsing embedded schema: %w", err)
	}
	return dial(target, fds, serviceName, methodName)
}

func dial(target string, fds []*desc.FileDescriptor, serviceName, methodName string) (*Client, error) {
	var sd *desc.ServiceDescriptor
	for _, fd := range fds {
		if s := fd.FindService(serviceName); s != nil {
			sd = s
			break
		}
	}
	if sd == nil {
		return nil, fmt.Errorf("bridge: service %s not found in parsed schema", serviceName)
	}
	md := sd.FindMethodByName(methodName)
	if md == nil {
		return nil, fmt.Errorf("bridge: method %s not found on service %s", methodName, serviceName)
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("bridge: dialing %s: %w", target, err)
	}
	return &Client{conn: conn, method: md}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Ask invokes the resolved method with {prompt: prompt} and extracts the
// first string field of the response. It retries up to maxAttempts times
// on transport failure with exponential backoff, then surfaces the final
// error — a caller embedding this in a sandboxed evaluation should see
// the network failed, not silently receive fabricated output.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	conn, method := c.conn, c.method
	c.mu.Unlock()
	if conn == nil {
		return "", rt.NewError(rt.NotExecutable, "bridge: client is closed")
	}

	req := dynamic.NewMessage(method.GetInputType())
	req.SetFieldByName("prompt", prompt)
	resp := dynamic.NewMessage(method.GetOutputType())

	methodPath := fmt.Sprintf("/%s/%s", method.GetService().GetFullyQualifiedName(), method.GetName())

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := conn.Invoke(ctx, methodPath, req, resp)
		if err == nil {
			return firstStringField(resp), nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(1<<attempt) * 200 * time.Millisecond):
		}
	}
	return "", rt.NewError(rt.NotExecutable, fmt.Sprintf("bridge: ask failed after %d attempts: %v", maxAttempts, lastErr))
}

func firstStringField(msg *dynamic.Message) string {
	for _, fd := range msg.GetMessageDescriptor().GetFields() {
		if v, ok := msg.GetField(fd).(string); ok {
			return v
		}
	}
	return ""
}

// Intrinsic adapts Client.Ask to the runtime.NativeFunction signature so it
// can replace intrinsics.intrinsicAskAIStub in the registry once a target is
// configured.
func (c *Client) Intrinsic() rt.NativeFunction {
	return func(args []rt.Value) (rt.Value, error) {
		if len(args) != 1 {
			return rt.Value{}, rt.NewError(rt.InvalidOperation, "sys.ai.ask expects 1 argument")
		}
		if args[0].Type != rt.TString {
			return rt.Value{}, rt.NewTypeMismatch("String", args[0].Type.String())
		}
		text, err := c.Ask(context.Background(), args[0].AsString())
		if err != nil {
			return rt.Value{}, err
		}
		return rt.Str(text), nil
	}
}
