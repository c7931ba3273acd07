package worker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/huegrid/internal/engine"
)

// EnvWorkerPath overrides the binary launched as the worker subprocess.
const EnvWorkerPath = "HUEGRID_WORKER_PATH"

// WorkerCommand is the hidden subcommand that serves the engine.
const WorkerCommand = "worker"

// Remote runs the engine in a go-plugin subprocess.
type Remote struct {
	client *plugin.Client
	rpc    *EngineRPCClient
	logger hclog.Logger
}

// WorkerPath returns the binary to launch: $HUEGRID_WORKER_PATH, or the
// running executable.
func WorkerPath() (string, error) {
	if p := os.Getenv(EnvWorkerPath); p != "" {
		if err := validateWorkerPath(p); err != nil {
			return "", fmt.Errorf("%s: %w", EnvWorkerPath, err)
		}
		return filepath.Clean(p), nil
	}
	return os.Executable()
}

// validateWorkerPath accepts only an absolute path to an executable file.
func validateWorkerPath(p string) error {
	if !filepath.IsAbs(p) {
		return fmt.Errorf("worker path %q must be absolute", p)
	}
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("invalid worker path: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("worker path %q is not a regular file", p)
	}
	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("worker path %q is not executable", p)
	}
	return nil
}

// NewRemote launches path as a worker and checks that it speaks a
// compatible protocol.
func NewRemote(path string, logger hclog.Logger) (*Remote, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			PluginName: &EnginePlugin{},
		},
		Cmd:              exec.Command(path, WorkerCommand),
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
		Logger:           logger.Named("plugin"),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(PluginName)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense engine: %w", err)
	}

	engineClient, ok := raw.(*EngineRPCClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("unexpected engine client type %T", raw)
	}

	info, err := engineClient.Info()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to query worker: %w", err)
	}
	if ok, err := IsCompatible(info.ProtocolVersion); !ok {
		client.Kill()
		return nil, fmt.Errorf("worker %s: %w", path, err)
	}
	logger.Debug("worker started", "path", path, "version", info.Version, "protocol", info.ProtocolVersion)

	return &Remote{client: client, rpc: engineClient, logger: logger}, nil
}

// Compute implements Channel.
func (r *Remote) Compute(ctx context.Context, req engine.Request, emit func(engine.Response)) error {
	if r.client.Exited() {
		return ErrClosed
	}
	return r.rpc.Compute(ctx, req, emit)
}

// Close kills the subprocess.
func (r *Remote) Close() error {
	r.client.Kill()
	return nil
}

// Serve runs the current process as a worker until the host disconnects.
func Serve(logger hclog.Logger) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			PluginName: &EnginePlugin{Impl: engine.New(engine.WithLogger(logger.Named("engine")))},
		},
		Logger: logger,
	})
}
