package inngest

import (
	"context"
	"net/http"
)

type InngestClient interface {
	Serve() http.Handler
	Enabled() bool
	SendSeasonClosed(ctx context.Context, seasonID string, dryRun bool) error
}
