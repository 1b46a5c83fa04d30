// Package logging installs the structured root logger used by the samples.
package logging

import (
	"context"
	"strings"

	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/hashicorp/terraform-plugin-log/tfsdklog"
)

const logName = "foundry-samples"

// ParseLevel maps a level name to an hclog level. Unknown names fall back to warn.
func ParseLevel(name string) hclog.Level {
	level := hclog.LevelFromString(strings.TrimSpace(name))
	if level == hclog.NoLevel {
		return hclog.Warn
	}
	return level
}

// NewContext returns ctx carrying a root logger writing to stderr at the
// given level. At debug or below, Azure SDK pipeline events are forwarded
// to the same logger.
func NewContext(ctx context.Context, levelName string) context.Context {
	level := ParseLevel(levelName)

	ctx = tfsdklog.NewRootProviderLogger(ctx,
		tfsdklog.WithLogName(logName),
		tfsdklog.WithLevel(level),
		tfsdklog.WithoutLocation(),
	)

	if level <= hclog.Debug {
		BridgeSDKEvents(ctx)
	}

	return ctx
}

// BridgeSDKEvents routes azcore request, response and retry events to the
// logger carried by ctx at trace level.
func BridgeSDKEvents(ctx context.Context) {
	azlog.SetEvents(azlog.EventRequest, azlog.EventResponse, azlog.EventRetryPolicy)
	azlog.SetListener(func(event azlog.Event, msg string) {
		tflog.Trace(ctx, msg, map[string]interface{}{
			"sdk_event": string(event),
		})
	})
}
