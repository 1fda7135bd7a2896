package event

import (
	log "github.com/sirupsen/logrus"

	"github.com/Brendan777/Assignment2/pkg/domain/service"
)

// LogDispatcher is the default dispatcher: domain events go to the
// structured log and nowhere else.
type LogDispatcher struct{}

var _ service.EventDispatcher = LogDispatcher{}

func NewLogDispatcher() LogDispatcher {
	return LogDispatcher{}
}

func (LogDispatcher) Dispatch(e service.Event) error {
	log.WithFields(log.Fields{
		"event":   e.Type(),
		"payload": e,
	}).Info("domain event")
	return nil
}
