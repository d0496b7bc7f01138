package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/processor"
	"github.com/mauv0809/mus-league/internal/pubsub"
)

// readPushMessage unwraps a Pub/Sub push request into v. It writes the error
// response itself and reports whether the handler should continue. Malformed
// messages get a 400; Pub/Sub redelivers anything that is not a 2xx.
func readPushMessage(w http.ResponseWriter, r *http.Request, pubsubClient pubsub.PubSubClient, v any) bool {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return false
	}
	log.FromContext(r.Context()).Debug("Received push message", "path", r.URL.Path, "body", string(bodyBytes))

	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"`
		} `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		log.Error("Failed to unmarshal wrapper JSON", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}

	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		log.Error("Failed to decode base64 data", "error", err)
		http.Error(w, "Invalid base64 data", http.StatusBadRequest)
		return false
	}
	if err := pubsubClient.ProcessMessage(rawData, v); err != nil {
		log.Error("Failed to decode event payload", "error", err, "subscription", pubsubMsg.Subscription)
		http.Error(w, "Invalid event payload", http.StatusBadRequest)
		return false
	}
	return true
}

func MatchSubmittedHandler(processor *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event pubsub.MatchEvent
		if !readPushMessage(w, r, pubsubClient, &event) {
			return
		}
		isDryRun := IsDryRunFromContext(r) || event.DryRun
		if err := processor.OnMatchSubmitted(r.Context(), event.MatchID, isDryRun); err != nil {
			log.Error("Failed to notify submitted match", "error", err, "match_id", event.MatchID)
			http.Error(w, "Failed to notify submitted match", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func MatchValidatedHandler(processor *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event pubsub.MatchEvent
		if !readPushMessage(w, r, pubsubClient, &event) {
			return
		}
		isDryRun := IsDryRunFromContext(r) || event.DryRun
		if err := processor.OnMatchValidated(r.Context(), event.MatchID, event.AutoValidated, isDryRun); err != nil {
			log.Error("Failed to notify validated match", "error", err, "match_id", event.MatchID)
			http.Error(w, "Failed to notify validated match", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func SeasonClosedHandler(processor *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event pubsub.SeasonEvent
		if !readPushMessage(w, r, pubsubClient, &event) {
			return
		}
		isDryRun := IsDryRunFromContext(r) || event.DryRun
		if err := processor.OnSeasonClosed(r.Context(), event.SeasonID, isDryRun); err != nil {
			log.Error("Failed to post season summary", "error", err, "season_id", event.SeasonID)
			http.Error(w, "Failed to post season summary", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
