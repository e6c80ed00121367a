package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/careerscout/careerscout/internal/clients/expo"
	"github.com/careerscout/careerscout/internal/domain/events"
	"github.com/careerscout/careerscout/internal/domain/models"
	"github.com/careerscout/careerscout/internal/logger"
	"github.com/careerscout/careerscout/internal/metrics"
)

// summaries name at most this many distinct sources before the "+N more" tail
const maxSourcesInSummary = 3

type pushClient interface {
	SendMessages(ctx context.Context, messages []expo.PushMessage) ([]expo.PushTicket, error)
}

// Dispatcher shapes one push message per matching interest and hands the
// whole batch to the push service. Shaping never feeds back into what the
// orchestrator records as seen.
type Dispatcher struct {
	push pushClient
	bus  EventBus.Bus
}

func NewDispatcher(push pushClient, bus EventBus.Bus) *Dispatcher {
	return &Dispatcher{push: push, bus: bus}
}

func (d *Dispatcher) Dispatch(ctx context.Context, records []models.Record, interests []models.Interest) error {

	var messages []expo.PushMessage

	for _, interest := range interests {
		if !interest.Active {
			continue
		}

		matched := lo.Filter(records, func(record models.Record, _ int) bool {
			return interest.Matches(record)
		})
		if len(matched) == 0 {
			continue
		}

		messages = append(messages, buildMessage(interest, matched))
	}

	if len(messages) == 0 {
		log.Info("no interests matched this batch, nothing to send")
		return nil
	}

	tickets, err := d.push.SendMessages(ctx, messages)
	if err != nil {
		return &DispatchError{Err: err}
	}

	metrics.DispatchedMessagesCounter.Add(float64(len(messages)))

	for i, ticket := range tickets {
		if ticket.DeviceNotRegistered() {
			d.bus.Publish(events.PushTokenInvalidTopic, events.PushTokenInvalid{
				PushToken: messages[i].To,
				Reason:    ticket.Message,
			})
		} else if ticket.Status != expo.TicketStatusOk {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypePush).
				Errorf("push ticket error for %v: %v", messages[i].To, ticket.Message)
		}
	}

	return nil
}

func buildMessage(interest models.Interest, matched []models.Record) expo.PushMessage {

	if len(matched) == 1 {
		record := matched[0]
		return expo.PushMessage{
			To:       interest.PushToken,
			Title:    "New job at " + record.Source,
			Body:     record.Title + " in " + record.Location,
			Data:     map[string]string{"url": record.Link, "job_id": record.ID},
			Sound:    "default",
			Priority: "high",
		}
	}

	distinctSources := lo.Uniq(lo.Map(matched, func(record models.Record, _ int) string {
		return record.Source
	}))

	shown := distinctSources
	if len(shown) > maxSourcesInSummary {
		shown = shown[:maxSourcesInSummary]
	}

	body := strings.Join(shown, ", ")
	if len(distinctSources) > maxSourcesInSummary {
		body += fmt.Sprintf(" +%d more", len(matched)-maxSourcesInSummary)
	}

	return expo.PushMessage{
		To:       interest.PushToken,
		Title:    fmt.Sprintf("%d New Jobs Found", len(matched)),
		Body:     body,
		Data:     map[string]string{"count": strconv.Itoa(len(matched))},
		Sound:    "default",
		Priority: "high",
	}
}
