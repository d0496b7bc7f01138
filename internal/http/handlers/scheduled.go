package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/mauv0809/mus-league/internal/processor"
)

// AutoValidateHandler runs the auto-validation job on demand, e.g. from an
// external scheduler when the in-process cron is disabled.
func AutoValidateHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := IsDryRunFromContext(r)
		log.Info("Auto-validation triggered over HTTP", "dry_run", isDryRun)
		n, err := processor.AutoValidate(r.Context(), isDryRun)
		if err != nil {
			log.Error("Auto-validation failed", "error", err)
			http.Error(w, "Failed to auto-validate matches", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"validated": n, "dry_run": isDryRun})
	}
}

// CountersHandler exposes the persisted job counters.
func CountersHandler(counters metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := counters.GetAll()
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, all)
	}
}
