package ppadl

import (
	"github.com/acidburn0zzz/ppadl/internal/audit"
	"github.com/acidburn0zzz/ppadl/internal/forward"
	"github.com/acidburn0zzz/ppadl/internal/redact"
)

// WebhookOption configures a webhook hook.
type WebhookOption func(*webhookConfig)

type webhookConfig struct {
	headers   map[string]string
	enforcing bool
}

// WebhookWithHeaders adds headers (e.g. authorization) to every delivery.
func WebhookWithHeaders(headers map[string]string) WebhookOption {
	return func(c *webhookConfig) { c.headers = headers }
}

// WebhookEnforcing makes delivery failures abort the audited operation.
// Without it the hook is observe-only and delivery errors are dropped.
func WebhookEnforcing() WebhookOption {
	return func(c *webhookConfig) { c.enforcing = true }
}

// WebhookHook returns a hook that mirrors every event it observes to an
// HTTP endpoint as JSON. Register it like any other hook; like any other
// hook it cannot be removed once registered.
func WebhookHook(url string, opts ...WebhookOption) HookFunc {
	var cfg webhookConfig
	for _, o := range opts {
		o(&cfg)
	}

	sink := forward.NewSink(url)
	sink.Headers = cfg.headers

	return func(name string, args []any, _ any) error {
		err := sink.Send(forward.Payload{
			Timestamp: audit.UTCNowISO(),
			Event:     name,
			Args:      redact.Render(args, redact.DefaultLimit),
		})
		if err != nil && cfg.enforcing {
			return err
		}
		return nil
	}
}
