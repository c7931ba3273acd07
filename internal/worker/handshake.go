package worker

import (
	"github.com/hashicorp/go-plugin"
)

// PluginName is the name the engine is dispensed under.
const PluginName = "engine"

// Handshake keeps the worker subprocess from being run by anything but a
// huegrid host of the same major protocol version.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "HUEGRID_WORKER",
	MagicCookieValue: "huegrid_palette_engine",
}
