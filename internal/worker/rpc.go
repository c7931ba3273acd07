package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/rpc"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/engine"
	"github.com/jmylchreest/huegrid/internal/version"
)

// maxBatch bounds the responses returned by one Next call.
const maxBatch = 64

// Info describes a worker.
type Info struct {
	ProtocolVersion string `json:"protocol_version"`
	Version         string `json:"version"`
}

// Batch is one slice of a run's response stream.
type Batch struct {
	Responses []engine.Response `json:"responses,omitempty"`
	Done      bool              `json:"done"`
	Error     string            `json:"error,omitempty"`
	// InvalidColour marks Error as a background parse failure.
	InvalidColour bool `json:"invalidColour,omitempty"`
}

// EnginePlugin implements the go-plugin Plugin interface for the engine.
type EnginePlugin struct {
	plugin.Plugin
	Impl Runner
}

// Server returns an RPC server for this plugin.
func (p *EnginePlugin) Server(*plugin.MuxBroker) (any, error) {
	return NewRPCServer(p.Impl), nil
}

// Client returns an RPC client for this plugin.
func (p *EnginePlugin) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &EngineRPCClient{client: c}, nil
}

// run buffers the responses of one computation until they are polled.
type run struct {
	mu      sync.Mutex
	ready   *sync.Cond
	pending []engine.Response
	done    bool
	err     error
}

// EngineRPCServer is the worker side of the engine protocol. Requests and
// batches travel as JSON so that nil and empty subsets stay distinct.
type EngineRPCServer struct {
	Impl Runner

	mu   sync.Mutex
	runs map[string]*run
}

// NewRPCServer creates a server around r.
func NewRPCServer(r Runner) *EngineRPCServer {
	return &EngineRPCServer{Impl: r, runs: make(map[string]*run)}
}

// Start begins computing a request and returns its run ID.
func (s *EngineRPCServer) Start(data []byte, resp *string) error {
	var req engine.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	r := &run{}
	r.ready = sync.NewCond(&r.mu)
	id := uuid.NewString()

	s.mu.Lock()
	s.runs[id] = r
	s.mu.Unlock()

	go func() {
		err := s.Impl.Run(req, func(out engine.Response) {
			r.mu.Lock()
			r.pending = append(r.pending, out)
			r.mu.Unlock()
			r.ready.Broadcast()
		})
		r.mu.Lock()
		r.done = true
		r.err = err
		r.mu.Unlock()
		r.ready.Broadcast()
	}()

	*resp = id
	return nil
}

// Next blocks until the run has responses or has finished and returns the
// next batch. The run is forgotten once its final batch is delivered.
func (s *EngineRPCServer) Next(id string, resp *[]byte) error {
	s.mu.Lock()
	r, ok := s.runs[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown run %q", id)
	}

	r.mu.Lock()
	for len(r.pending) == 0 && !r.done {
		r.ready.Wait()
	}
	n := min(len(r.pending), maxBatch)
	batch := Batch{Responses: r.pending[:n:n]}
	r.pending = r.pending[n:]
	if r.done && len(r.pending) == 0 {
		batch.Done = true
		if r.err != nil {
			batch.Error = r.err.Error()
			batch.InvalidColour = errors.Is(r.err, colour.ErrInvalidColour)
		}
	}
	r.mu.Unlock()

	if batch.Done {
		s.forget(id)
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	*resp = data
	return nil
}

// Close abandons a run. The computation itself finishes in the background.
func (s *EngineRPCServer) Close(id string, resp *bool) error {
	s.forget(id)
	*resp = true
	return nil
}

// Info reports the worker's protocol and build versions.
func (s *EngineRPCServer) Info(_ any, resp *Info) error {
	*resp = Info{ProtocolVersion: ProtocolVersion, Version: version.Short()}
	return nil
}

func (s *EngineRPCServer) forget(id string) {
	s.mu.Lock()
	delete(s.runs, id)
	s.mu.Unlock()
}

// EngineRPCClient is the host side of the engine protocol.
type EngineRPCClient struct {
	client *rpc.Client
}

// Compute starts a run on the worker and polls it until it finishes.
func (c *EngineRPCClient) Compute(ctx context.Context, req engine.Request, emit func(engine.Response)) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	var id string
	if err := c.client.Call("Plugin.Start", data, &id); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			_ = c.client.Call("Plugin.Close", id, new(bool))
			return err
		}

		var raw []byte
		if err := c.client.Call("Plugin.Next", id, &raw); err != nil {
			return err
		}
		batch, err := decodeBatch(raw)
		if err != nil {
			return err
		}

		for _, resp := range batch.Responses {
			emit(resp)
		}
		if batch.Done {
			return batch.err()
		}
	}
}

// Info fetches the worker's versions.
func (c *EngineRPCClient) Info() (Info, error) {
	var info Info
	err := c.client.Call("Plugin.Info", new(any), &info)
	return info, err
}

func (b Batch) err() error {
	if b.Error == "" {
		return nil
	}
	e := &RPCError{Message: b.Error}
	if b.InvalidColour {
		e.Err = colour.ErrInvalidColour
	}
	return e
}

// RPCError is an error returned by the worker.
type RPCError struct {
	Message string
	// Err is the sentinel the remote error matched, if any.
	Err error
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}

// Unwrap exposes the matched sentinel to errors.Is.
func (e *RPCError) Unwrap() error {
	return e.Err
}

func decodeBatch(raw []byte) (Batch, error) {
	var b Batch
	if err := json.Unmarshal(raw, &b); err != nil {
		return Batch{}, fmt.Errorf("decode batch: %w", err)
	}
	return b, nil
}
